package csvimport

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/storefront/backoffice/internal/domain/bulk"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeURL     FieldType = "url"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column         string
	Type           FieldType
	Required       bool
	NonNegative    bool
	StripThousands bool
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column: column,
			Type:   TypeString,
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int sets the field type to integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal sets the field type to decimal
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// URL sets the field type to an absolute URL
func (b *FieldRuleBuilder) URL() *FieldRuleBuilder {
	b.rule.Type = TypeURL
	return b
}

// NonNegative rejects numeric values below zero
func (b *FieldRuleBuilder) NonNegative() *FieldRuleBuilder {
	b.rule.NonNegative = true
	return b
}

// StripThousands removes "," separators before parsing
func (b *FieldRuleBuilder) StripThousands() *FieldRuleBuilder {
	b.rule.StripThousands = true
	return b
}

// Build returns the built FieldRule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// ProductRules are the column rules of the product import file
func ProductRules() []FieldRule {
	return []FieldRule{
		Field("name").Required().Build(),
		Field("price").Required().Decimal().NonNegative().StripThousands().Build(),
		Field("stock_quantity").Int().NonNegative().Build(),
		Field("image_url").URL().Build(),
	}
}

// RowValidator checks rows against a rule set and reports localized reasons
type RowValidator struct {
	lang  language.Tag
	rules []FieldRule
}

// NewRowValidator creates a validator; with no rules it uses ProductRules
func NewRowValidator(lang language.Tag, rules ...FieldRule) *RowValidator {
	if len(rules) == 0 {
		rules = ProductRules()
	}
	return &RowValidator{lang: lang, rules: rules}
}

// Validate returns every reason the row is rejected. Missing required
// fields are reported first, then type problems in rule order.
func (v *RowValidator) Validate(row *Row) []string {
	var reasons []string

	for _, rule := range v.rules {
		if rule.Required && row.Get(rule.Column) == "" {
			reasons = append(reasons, bulk.Localize(v.lang, bulk.MsgFieldRequired, rule.Column))
		}
	}

	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			continue
		}
		if reason := v.checkType(rule, value); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	return reasons
}

func (v *RowValidator) checkType(rule FieldRule, value string) string {
	switch rule.Type {
	case TypeDecimal:
		d, err := parseDecimal(value, rule.StripThousands)
		if err != nil {
			return bulk.Localize(v.lang, formatMessage(rule.Column))
		}
		if rule.NonNegative && d.IsNegative() {
			return bulk.Localize(v.lang, negativeMessage(rule.Column))
		}
	case TypeInt:
		n, err := parseInt(value)
		if err != nil {
			return bulk.Localize(v.lang, formatMessage(rule.Column))
		}
		if rule.NonNegative && n < 0 {
			return bulk.Localize(v.lang, negativeMessage(rule.Column))
		}
	case TypeURL:
		if !IsValidURL(value) {
			return bulk.Localize(v.lang, bulk.MsgImageURLInvalid)
		}
	}
	return ""
}

func formatMessage(column string) string {
	if column == "price" {
		return bulk.MsgPriceFormat
	}
	return bulk.MsgStockFormat
}

func negativeMessage(column string) string {
	if column == "price" {
		return bulk.MsgPriceNegative
	}
	return bulk.MsgStockNegative
}

func parseDecimal(value string, stripThousands bool) (decimal.Decimal, error) {
	value = NormalizeDigits(strings.TrimSpace(value))
	if stripThousands {
		value = strings.ReplaceAll(value, ",", "")
	}
	return decimal.NewFromString(value)
}

func parseInt(value string) (int, error) {
	return strconv.Atoi(NormalizeDigits(strings.TrimSpace(value)))
}
