package analytics

import (
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/shopspring/decimal"
)

// Entity names a collection in the entity store.
type Entity string

const (
	EntityTransactions Entity = "transactions"
	EntityMerchants    Entity = "merchants"
	EntityProducts     Entity = "products"
	EntityPointsRules  Entity = "points_rules"
	EntityUsers        Entity = "users"
)

type MetricKind string

const (
	MetricCount MetricKind = "count"
	MetricSum   MetricKind = "sum"
)

// Metric is an aggregate over an entity set: a row count, or the sum of
// one numeric field.
type Metric struct {
	Kind  MetricKind `json:"kind"`
	Field string     `json:"field,omitempty"`
}

func Count() Metric {
	return Metric{Kind: MetricCount}
}

func Sum(field string) Metric {
	return Metric{Kind: MetricSum, Field: field}
}

// Transaction fields that can be summed or ranked on.
const (
	FieldAmount        = "amount"
	FieldAwardedPoints = "awarded_points"
	FieldMerchantID    = "merchant_id"
)

var summableFields = map[Entity][]string{
	EntityTransactions: {FieldAmount, FieldAwardedPoints},
	EntityProducts:     {"price", "stock"},
}

// Filter narrows an entity set. A nil Window means no time restriction.
// Equals holds column equality constraints.
type Filter struct {
	Window *Window
	Equals map[string]interface{}
}

// Group is one aggregate value keyed by a parent id.
type Group struct {
	Key   uint            `json:"key"`
	Value decimal.Decimal `json:"value"`
}

// RankedGroup is a Group with its parent's display name resolved.
type RankedGroup struct {
	Rank  int             `json:"rank"`
	Key   uint            `json:"key"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Relation links a parent collection to a child collection through a
// foreign key column on the child.
type Relation struct {
	Parent     Entity
	Child      Entity
	ForeignKey string
}

var (
	ProductPointsRules = Relation{Parent: EntityProducts, Child: EntityPointsRules, ForeignKey: "product_id"}
	MerchantProducts   = Relation{Parent: EntityMerchants, Child: EntityProducts, ForeignKey: FieldMerchantID}
)

// Relations maps the relation names accepted by the HTTP layer.
var Relations = map[string]Relation{
	"points_rules": ProductPointsRules,
	"products":     MerchantProducts,
}

// LowStockThreshold is the stock level at or below which a product is low on stock.
const LowStockThreshold = 10

// ProductQuery describes a product listing with derived rollup fields.
type ProductQuery struct {
	MerchantID *uint
	HasRules   *bool
	LowStock   bool
	SortBy     string
	Desc       bool
	Limit      int
	Offset     int
}

// Sortable product listing columns.
const (
	SortName             = "name"
	SortPrice            = "price"
	SortStock            = "stock"
	SortCreatedAt        = "created_at"
	SortPointsRulesCount = "points_rules_count"
)

// ProductRow is a product with its points-rule count, computed per query.
type ProductRow struct {
	models.Product
	PointsRulesCount int64 `json:"points_rules_count"`
}

// Snapshot is the transaction aggregates of a single window.
type Snapshot struct {
	Window Window          `json:"window"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
	Points decimal.Decimal `json:"points"`
}

// Clock supplies the current time to window computations.
type Clock func() time.Time
