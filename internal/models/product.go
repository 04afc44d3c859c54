package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a merchant's catalogue entry. ExternalID is unique among rows
// that are not soft-deleted.
type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	MerchantID  uint            `gorm:"not null;index" json:"merchant_id"`
	Merchant    *Merchant       `json:"merchant,omitempty"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Currency    string          `gorm:"size:3;default:'PHP'" json:"currency"`
	ExternalID  *string         `gorm:"uniqueIndex:idx_products_external_id,where:deleted_at IS NULL" json:"external_id,omitempty"`
	PointsRules []PointsRule    `json:"points_rules,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Product) Validate() error {
	if p.Price.IsNegative() {
		return errors.New("product price must not be negative")
	}
	if p.Stock < 0 {
		return errors.New("product stock must not be negative")
	}
	return nil
}
