package csvimport

import (
	"bytes"
	"encoding/csv"

	"github.com/storefront/backoffice/internal/domain/bulk"
)

// TemplateFilename is the suggested name of the downloadable template
const TemplateFilename = "product_import_template.csv"

// TemplateColumns is the header row of the product import file
var TemplateColumns = []string{
	"name", "description", "price", "stock_quantity",
	"category", "image_url", "sku", "is_active",
}

var templateSamples = [][]string{
	{"گوشی موبایل سامسونگ", "گوشی هوشمند با صفحه نمایش 6.5 اینچ", "15000000", "10", "موبایل", "https://example.com/images/phone.jpg", "SAM-A54", "true"},
	{"هدفون بی‌سیم", "هدفون بلوتوثی با حذف نویز", "2500000", "25", "لوازم جانبی", "", "HP-BT-01", "true"},
}

// ProductTemplate renders the sample CSV offered to admins
func ProductTemplate() (bulk.Template, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(TemplateColumns); err != nil {
		return bulk.Template{}, err
	}
	if err := w.WriteAll(templateSamples); err != nil {
		return bulk.Template{}, err
	}
	return bulk.Template{CSVContent: buf.String(), Filename: TemplateFilename}, nil
}
