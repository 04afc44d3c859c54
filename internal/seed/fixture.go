// Package seed loads YAML fixtures of merchants, catalogue, customers and
// transactions into the database.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk seed document. Money is written as strings so
// amounts keep their exact decimal value.
type Fixture struct {
	Merchants    []MerchantFixture    `yaml:"merchants"`
	Customers    []CustomerFixture    `yaml:"customers"`
	Transactions []TransactionFixture `yaml:"transactions"`
}

type MerchantFixture struct {
	Name     string           `yaml:"name"`
	Products []ProductFixture `yaml:"products"`
}

type ProductFixture struct {
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	Stock       int      `yaml:"stock"`
	Currency    string   `yaml:"currency"`
	ExternalID  string   `yaml:"external_id"`
	PointsRules []string `yaml:"points_rules"`
	Deleted     bool     `yaml:"deleted"`
}

type CustomerFixture struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// TransactionFixture places a transaction DaysAgo days before the seeding
// time, at Hour o'clock local time.
type TransactionFixture struct {
	Merchant string `yaml:"merchant"`
	Amount   string `yaml:"amount"`
	Points   int64  `yaml:"points"`
	DaysAgo  int    `yaml:"days_ago"`
	Hour     int    `yaml:"hour"`
}

// Dataset is a fixture resolved into models, ready to insert.
type Dataset struct {
	Merchants []models.Merchant
	Customers []models.User
	// Transactions reference merchants by index into Merchants.
	Transactions []PendingTransaction
}

type PendingTransaction struct {
	MerchantIndex int
	Transaction   models.Transaction
}

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// Resolve converts the fixture into models relative to now. Products
// without an external id get a generated one.
func (f *Fixture) Resolve(now time.Time) (*Dataset, error) {
	ds := &Dataset{}
	merchantIndex := make(map[string]int, len(f.Merchants))

	for _, mf := range f.Merchants {
		v := validation.New()
		v.Required(mf.Name, "merchant.name")
		if err := v.Err(); err != nil {
			return nil, err
		}
		if _, dup := merchantIndex[mf.Name]; dup {
			return nil, fmt.Errorf("duplicate merchant %q", mf.Name)
		}

		m := models.Merchant{Name: mf.Name}
		for _, pf := range mf.Products {
			p, err := pf.model(now)
			if err != nil {
				return nil, fmt.Errorf("merchant %q: %w", mf.Name, err)
			}
			m.Products = append(m.Products, p)
		}
		merchantIndex[mf.Name] = len(ds.Merchants)
		ds.Merchants = append(ds.Merchants, m)
	}

	emails := map[string]bool{}
	for _, cf := range f.Customers {
		v := validation.New()
		v.Required(cf.Name, "customer.name")
		v.Email(cf.Email, "customer.email")
		if err := v.Err(); err != nil {
			return nil, err
		}
		if emails[cf.Email] {
			return nil, fmt.Errorf("duplicate customer email %q", cf.Email)
		}
		emails[cf.Email] = true
		ds.Customers = append(ds.Customers, models.User{Name: cf.Name, Email: cf.Email})
	}

	for i, tf := range f.Transactions {
		idx, ok := merchantIndex[tf.Merchant]
		if !ok {
			return nil, fmt.Errorf("transaction %d: unknown merchant %q", i, tf.Merchant)
		}
		v := validation.New()
		v.Check(tf.DaysAgo >= 0, "days_ago", "must not be negative")
		v.Between(tf.Hour, 0, 23, "hour")
		if err := v.Err(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		amount, err := decimal.NewFromString(tf.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid amount %q", i, tf.Amount)
		}

		day := now.AddDate(0, 0, -tf.DaysAgo)
		tx := models.Transaction{
			Amount:        amount,
			AwardedPoints: tf.Points,
			CreatedAt:     time.Date(day.Year(), day.Month(), day.Day(), tf.Hour, 0, 0, 0, now.Location()),
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		ds.Transactions = append(ds.Transactions, PendingTransaction{MerchantIndex: idx, Transaction: tx})
	}
	return ds, nil
}

func (pf ProductFixture) model(now time.Time) (models.Product, error) {
	price, err := decimal.NewFromString(pf.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %q: invalid price %q", pf.Name, pf.Price)
	}

	externalID := pf.ExternalID
	if externalID == "" {
		externalID = uuid.NewString()
	}

	p := models.Product{
		Name:       pf.Name,
		Price:      price,
		Stock:      pf.Stock,
		Currency:   pf.Currency,
		ExternalID: &externalID,
	}
	if p.Currency == "" {
		p.Currency = "PHP"
	}
	if pf.Deleted {
		p.DeletedAt.Time = now
		p.DeletedAt.Valid = true
	}
	if err := p.Validate(); err != nil {
		return models.Product{}, fmt.Errorf("product %q: %w", pf.Name, err)
	}

	// Unknown rule types are kept; they still count towards rollups.
	for _, rt := range pf.PointsRules {
		p.PointsRules = append(p.PointsRules, models.PointsRule{RuleType: models.RuleType(rt)})
	}
	return p, nil
}
