package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a customer purchase at a merchant that awarded points.
// CreatedAt is set on insert and never updated.
type Transaction struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	MerchantID    uint            `gorm:"not null;index" json:"merchant_id"`
	Merchant      *Merchant       `json:"merchant,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	AwardedPoints int64           `gorm:"not null;default:0" json:"awarded_points"`
	CreatedAt     time.Time       `gorm:"index;autoCreateTime" json:"created_at"`
}

// Validate checks the write-path invariants.
func (t *Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return errors.New("transaction amount must not be negative")
	}
	if t.AwardedPoints < 0 {
		return errors.New("awarded points must not be negative")
	}
	return nil
}
