package bulk

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage is used when the caller does not ask for a locale
var DefaultLanguage = language.Persian

var supportedLanguages = []language.Tag{language.Persian, language.English}

// Message keys. The English text doubles as the English rendering.
const (
	MsgStatusProcessing = "Processing"
	MsgStatusCompleted  = "Completed"
	MsgStatusFailed     = "Failed"
	MsgStatusUnknown    = "Unknown"

	MsgNoImportsYet      = "No imports have been run yet"
	MsgUploadFailed      = "Failed to upload file"
	MsgTemplateFailed    = "Failed to download template file"
	MsgUnsupportedFormat = "Unsupported file format. Please send a CSV or Excel file"
	MsgFileTooLarge      = "File is larger than %s MB"
	MsgUploadAccepted    = "File uploaded successfully. Processing has started"
	MsgImportNotFound    = "Import not found"
	MsgImportLogDeleted  = "Import log deleted"
	MsgImportInterrupted = "Processing was interrupted by a server restart"
	MsgServiceStopping   = "Import service is shutting down"

	MsgRowError        = "Row %s: %s"
	MsgRowPanic        = "Row %s: processing error - %s"
	MsgGeneralError    = "General error: %s"
	MsgFieldRequired   = "Field %s is required"
	MsgPriceNegative   = "Price cannot be negative"
	MsgPriceFormat     = "Invalid price format"
	MsgStockNegative   = "Stock cannot be negative"
	MsgStockFormat     = "Invalid stock format"
	MsgImageURLInvalid = "Image URL is not valid"
	MsgCreateFailed    = "Failed to create product: %s"
	MsgUpdateFailed    = "Failed to update product: %s"

	MsgSeconds      = "%s seconds"
	MsgMinutes      = "%s minutes"
	MsgHoursMinutes = "%s hours and %s minutes"
)

var persian = map[string]string{
	MsgStatusProcessing: "در حال پردازش",
	MsgStatusCompleted:  "تکمیل شده",
	MsgStatusFailed:     "ناموفق",
	MsgStatusUnknown:    "نامشخص",

	MsgNoImportsYet:      "هنوز هیچ فرآیند import انجام نشده است",
	MsgUploadFailed:      "خطا در آپلود فایل",
	MsgTemplateFailed:    "خطا در دانلود فایل نمونه",
	MsgUnsupportedFormat: "فرمت فایل پشتیبانی نمی‌شود. لطفاً فایل CSV یا Excel ارسال کنید",
	MsgFileTooLarge:      "حجم فایل بیش از %s مگابایت است",
	MsgUploadAccepted:    "فایل با موفقیت آپلود شد. پردازش در حال انجام است",
	MsgImportNotFound:    "فرآیند import یافت نشد",
	MsgImportLogDeleted:  "گزارش import حذف شد",
	MsgImportInterrupted: "پردازش به دلیل راه‌اندازی مجدد سرور متوقف شد",
	MsgServiceStopping:   "سرویس import در حال توقف است",

	MsgRowError:        "سطر %s: %s",
	MsgRowPanic:        "سطر %s: خطا در پردازش - %s",
	MsgGeneralError:    "خطای کلی: %s",
	MsgFieldRequired:   "فیلد %s الزامی است",
	MsgPriceNegative:   "قیمت نمی‌تواند منفی باشد",
	MsgPriceFormat:     "فرمت قیمت صحیح نیست",
	MsgStockNegative:   "موجودی نمی‌تواند منفی باشد",
	MsgStockFormat:     "فرمت موجودی صحیح نیست",
	MsgImageURLInvalid: "آدرس تصویر معتبر نیست",
	MsgCreateFailed:    "خطا در ایجاد محصول: %s",
	MsgUpdateFailed:    "خطا در به‌روزرسانی محصول: %s",

	MsgSeconds:      "%s ثانیه",
	MsgMinutes:      "%s دقیقه",
	MsgHoursMinutes: "%s ساعت و %s دقیقه",
}

var (
	messages = newCatalog()
	matcher  = language.NewMatcher(supportedLanguages)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLanguage))
	for key, msg := range persian {
		if err := b.SetString(language.Persian, key, msg); err != nil {
			panic(fmt.Sprintf("bulk: invalid message %q: %v", key, err))
		}
		if err := b.SetString(language.English, key, key); err != nil {
			panic(fmt.Sprintf("bulk: invalid message %q: %v", key, err))
		}
	}
	return b
}

// MatchLanguage maps any requested tag onto a supported locale
func MatchLanguage(tag language.Tag) language.Tag {
	if tag == language.Und {
		return DefaultLanguage
	}
	_, idx, _ := matcher.Match(tag)
	return supportedLanguages[idx]
}

// Localize renders the message key in the given language. Arguments are
// expected as pre-formatted strings so digits are not re-shaped.
func Localize(lang language.Tag, key string, args ...any) string {
	p := message.NewPrinter(MatchLanguage(lang), message.Catalog(messages))
	return p.Sprintf(key, args...)
}
