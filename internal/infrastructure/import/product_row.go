package csvimport

import (
	"net/url"
	"strings"

	"github.com/storefront/backoffice/internal/domain/catalog"
)

var digitReplacer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٬", ",", "٫", ".",
)

// NormalizeDigits maps Persian and Arabic-Indic digits and separators to ASCII
func NormalizeDigits(s string) string {
	return digitReplacer.Replace(s)
}

// ParseBoolean reads an is_active cell. An absent or empty cell is true.
func ParseBoolean(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "true", "1", "yes", "فعال", "بله":
		return true
	}
	return false
}

// IsValidURL accepts absolute URLs with both a scheme and a host
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ExtractProduct turns a validated row into product attributes. Price is
// truncated to whole currency units, and an unparsable stock becomes zero.
func ExtractProduct(row *Row) catalog.ProductAttributes {
	attrs := catalog.ProductAttributes{
		Name:        row.Get("name"),
		Description: row.Get("description"),
		Category:    row.Get("category"),
		SKU:         row.Get("sku"),
		IsActive:    ParseBoolean(row.Get("is_active")),
	}

	if price, err := parseDecimal(row.Get("price"), true); err == nil {
		attrs.Price = price.Truncate(0)
	}
	if stock, err := parseInt(row.Get("stock_quantity")); err == nil {
		attrs.Stock = stock
	}
	if image := row.Get("image_url"); IsValidURL(image) {
		attrs.ImageURL = image
	}

	return attrs
}
