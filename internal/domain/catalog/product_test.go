package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	attrs := ProductAttributes{
		Name:     "  گوشی سامسونگ  ",
		Price:    decimal.RequireFromString("150000.75"),
		Stock:    10,
		Category: "موبایل",
		IsActive: true,
	}

	p, err := NewProduct(attrs, "گوشی-سامسونگ")
	require.NoError(t, err)
	assert.Equal(t, "گوشی سامسونگ", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(150000)))
	assert.Equal(t, DefaultCurrency, p.Currency)
	assert.Equal(t, 1, p.Version)

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(ProductAttributes{Name: " "}, "x")
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(ProductAttributes{Name: "a", Price: decimal.NewFromInt(-1)}, "a")
		assert.Error(t, err)
	})

	t.Run("rejects empty slug", func(t *testing.T) {
		_, err := NewProduct(ProductAttributes{Name: "a"}, "")
		assert.Error(t, err)
	})
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct(ProductAttributes{Name: "Desk", Category: "Office", ImageURL: "https://x/a.jpg"}, "desk")
	require.NoError(t, err)

	require.NoError(t, p.Update(ProductAttributes{Name: "Desk", Price: decimal.NewFromInt(20), Stock: 3}))

	assert.Equal(t, "Office", p.Category, "empty category keeps current")
	assert.Equal(t, "https://x/a.jpg", p.ImageURL, "empty image keeps current")
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, 2, p.Version)

	require.NoError(t, p.Update(ProductAttributes{Name: "Desk", Category: "Home"}))
	assert.Equal(t, "Home", p.Category)
}

func TestProduct_Rename(t *testing.T) {
	p, _ := NewProduct(ProductAttributes{Name: "Desk"}, "desk")
	p.Rename("")
	assert.Equal(t, "desk", p.Slug)
	p.Rename("desk-2")
	assert.Equal(t, "desk-2", p.Slug)
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Samsung Galaxy A54", "samsung-galaxy-a54"},
		{"  Hello,   World! ", "hello-world"},
		{"a_b--c   d", "a-b-c-d"},
		{"محصول نمونه 1", "محصول-نمونه-1"},
		{"لپ‌تاپ ایسوس", "لپتاپ-ایسوس"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateSlug_Truncates(t *testing.T) {
	name := "abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij"
	slug := GenerateSlug(name)
	assert.Len(t, []rune(slug), MaxSlugLength)
}
