package models

import "time"

type RuleType string

// Points rule types
const (
	RuleTypePurchaseBased RuleType = "purchase_based"
	RuleTypeReferral      RuleType = "referral"
	RuleTypeBonus         RuleType = "bonus"
)

// Valid reports whether t is one of the known rule types.
func (t RuleType) Valid() bool {
	switch t {
	case RuleTypePurchaseBased, RuleTypeReferral, RuleTypeBonus:
		return true
	}
	return false
}

type PointsRule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	RuleType  RuleType  `gorm:"not null" json:"rule_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
