package seed

import (
	"context"
	"fmt"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Apply inserts the dataset in one transaction. Merchants are created with
// their products and points rules, customers get the customer role.
func Apply(ctx context.Context, db *gorm.DB, ds *Dataset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customerRole models.Role
		if err := tx.Where(models.Role{Name: models.RoleCustomer}).FirstOrCreate(&customerRole).Error; err != nil {
			return fmt.Errorf("failed to ensure customer role: %w", err)
		}

		for i := range ds.Merchants {
			if err := tx.Create(&ds.Merchants[i]).Error; err != nil {
				return fmt.Errorf("failed to create merchant %q: %w", ds.Merchants[i].Name, err)
			}
		}

		for i := range ds.Customers {
			ds.Customers[i].Roles = []models.Role{customerRole}
			if err := tx.Create(&ds.Customers[i]).Error; err != nil {
				return fmt.Errorf("failed to create customer %q: %w", ds.Customers[i].Email, err)
			}
		}

		if len(ds.Transactions) > 0 {
			txs := make([]models.Transaction, len(ds.Transactions))
			for i, pt := range ds.Transactions {
				txs[i] = pt.Transaction
				txs[i].MerchantID = ds.Merchants[pt.MerchantIndex].ID
			}
			if err := tx.CreateInBatches(txs, 100).Error; err != nil {
				return fmt.Errorf("failed to create transactions: %w", err)
			}
		}

		log.WithFields(log.Fields{
			"merchants":    len(ds.Merchants),
			"customers":    len(ds.Customers),
			"transactions": len(ds.Transactions),
		}).Info("Fixture applied")
		return nil
	})
}
