package models

import "time"

type Merchant struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	Transactions []Transaction `json:"-"`
	Products     []Product     `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
