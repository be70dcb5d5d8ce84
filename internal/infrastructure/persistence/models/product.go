package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backoffice/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Slug        string          `gorm:"type:varchar(250);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,0);not null;default:0"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'IRT'"`
	Stock       int             `gorm:"not null;default:0"`
	Category    string          `gorm:"type:varchar(100);index"`
	ImageURL    string          `gorm:"type:text"`
	SKU         string          `gorm:"type:varchar(100)"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		Price:             m.Price,
		Currency:          m.Currency,
		Stock:             m.Stock,
		Category:          m.Category,
		ImageURL:          m.ImageURL,
		SKU:               m.SKU,
		IsActive:          m.IsActive,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Stock:       p.Stock,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		SKU:         p.SKU,
		IsActive:    p.IsActive,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// AllModels lists every model managed by the backoffice schema
func AllModels() []any {
	return []any{&ImportLogModel{}, &ProductModel{}}
}
