package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/services/analytics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const pointsRulesCountSQL = "(SELECT COUNT(*) FROM points_rules WHERE points_rules.product_id = products.id)"

var entityTables = map[analytics.Entity]string{
	analytics.EntityTransactions: "transactions",
	analytics.EntityMerchants:    "merchants",
	analytics.EntityProducts:     "products",
	analytics.EntityPointsRules:  "points_rules",
	analytics.EntityUsers:        "users",
}

// Columns that may appear in aggregate, group and equality clauses.
var entityColumns = map[analytics.Entity][]string{
	analytics.EntityTransactions: {"id", "merchant_id", "amount", "awarded_points"},
	analytics.EntityMerchants:    {"id"},
	analytics.EntityProducts:     {"id", "merchant_id", "price", "stock"},
	analytics.EntityPointsRules:  {"id", "product_id", "rule_type"},
	analytics.EntityUsers:        {"id"},
}

var namedEntities = map[analytics.Entity]bool{
	analytics.EntityMerchants: true,
	analytics.EntityProducts:  true,
	analytics.EntityUsers:     true,
}

var productSortColumns = map[string]string{
	analytics.SortName:             "products.name",
	analytics.SortPrice:            "products.price",
	analytics.SortStock:            "products.stock",
	analytics.SortCreatedAt:        "products.created_at",
	analytics.SortPointsRulesCount: "points_rules_count",
}

// AnalyticsRepository is the gorm implementation of analytics.Store. It only
// ever reads.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ analytics.Store = (*AnalyticsRepository)(nil)

func tableFor(entity analytics.Entity) (string, error) {
	table, ok := entityTables[entity]
	if !ok {
		return "", apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown entity %q", entity)
	}
	return table, nil
}

func checkColumn(entity analytics.Entity, column string) error {
	for _, c := range entityColumns[entity] {
		if c == column {
			return nil
		}
	}
	return apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown column %s.%s", entity, column)
}

// scoped returns a query over entity restricted by f.
func (r *AnalyticsRepository) scoped(ctx context.Context, entity analytics.Entity, f analytics.Filter) (*gorm.DB, string, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, "", err
	}

	keys := make([]string, 0, len(f.Equals))
	for k := range f.Equals {
		if entity == analytics.EntityUsers && k == "role" {
			keys = append(keys, k)
			continue
		}
		if err := checkColumn(entity, k); err != nil {
			return nil, "", err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := r.db.WithContext(ctx).Table(table)
	if entity == analytics.EntityProducts {
		q = q.Where("products.deleted_at IS NULL")
	}
	if f.Window != nil {
		q = q.Where(table+".created_at >= ?", f.Window.Start)
		if f.Window.Closed {
			q = q.Where(table+".created_at <= ?", f.Window.End)
		} else {
			q = q.Where(table+".created_at < ?", f.Window.End)
		}
	}
	for _, k := range keys {
		if entity == analytics.EntityUsers && k == "role" {
			q = q.Where(`EXISTS (SELECT 1 FROM user_roles JOIN roles ON roles.id = user_roles.role_id
				WHERE user_roles.user_id = users.id AND roles.name = ?)`, f.Equals[k])
			continue
		}
		q = q.Where(fmt.Sprintf("%s.%s = ?", table, k), f.Equals[k])
	}
	return q, table, nil
}

func (r *AnalyticsRepository) Count(ctx context.Context, entity analytics.Entity, f analytics.Filter) (int64, error) {
	q, _, err := r.scoped(ctx, entity, f)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", entity, err)
	}
	return n, nil
}

func (r *AnalyticsRepository) Sum(ctx context.Context, entity analytics.Entity, field string, f analytics.Filter) (decimal.Decimal, error) {
	if err := checkColumn(entity, field); err != nil {
		return decimal.Zero, err
	}
	q, table, err := r.scoped(ctx, entity, f)
	if err != nil {
		return decimal.Zero, err
	}

	var sum decimal.Decimal
	err = q.Select(fmt.Sprintf("COALESCE(SUM(%s.%s), 0)", table, field)).Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s.%s: %w", entity, field, err)
	}
	return sum, nil
}

type groupRow struct {
	GroupKey   uint
	GroupValue decimal.Decimal
}

func (r *AnalyticsRepository) GroupAggregate(ctx context.Context, entity analytics.Entity, groupBy string, m analytics.Metric, f analytics.Filter) ([]analytics.Group, error) {
	if err := checkColumn(entity, groupBy); err != nil {
		return nil, err
	}
	q, table, err := r.scoped(ctx, entity, f)
	if err != nil {
		return nil, err
	}

	agg := "COUNT(*)"
	if m.Kind == analytics.MetricSum {
		if err := checkColumn(entity, m.Field); err != nil {
			return nil, err
		}
		agg = fmt.Sprintf("COALESCE(SUM(%s.%s), 0)", table, m.Field)
	}

	var rows []groupRow
	col := table + "." + groupBy
	err = q.Select(fmt.Sprintf("%s AS group_key, %s AS group_value", col, agg)).
		Group(col).
		Order("group_key").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group %s by %s: %w", entity, groupBy, err)
	}

	groups := make([]analytics.Group, len(rows))
	for i, row := range rows {
		groups[i] = analytics.Group{Key: row.GroupKey, Value: row.GroupValue}
	}
	return groups, nil
}

func (r *AnalyticsRepository) Names(ctx context.Context, entity analytics.Entity, ids []uint) (map[uint]string, error) {
	if !namedEntities[entity] {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuery, "%s have no name", entity)
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uint
		Name string
	}
	err := r.db.WithContext(ctx).Table(entityTables[entity]).
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s names: %w", entity, err)
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *AnalyticsRepository) RelatedCounts(ctx context.Context, rel analytics.Relation, parentIDs []uint) (map[uint]int64, error) {
	if _, err := tableFor(rel.Parent); err != nil {
		return nil, err
	}
	if err := checkColumn(rel.Child, rel.ForeignKey); err != nil {
		return nil, err
	}
	q, table, err := r.scoped(ctx, rel.Child, analytics.Filter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentID   uint
		ChildCount int64
	}
	col := table + "." + rel.ForeignKey
	err = q.Select(fmt.Sprintf("%s AS parent_id, COUNT(*) AS child_count", col)).
		Where(col+" IN ?", parentIDs).
		Group(col).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count %s per %s: %w", rel.Child, rel.Parent, err)
	}

	for _, row := range rows {
		counts[row.ParentID] = row.ChildCount
	}
	return counts, nil
}

// productListRow is the flat scan target of a product listing.
type productListRow struct {
	ID               uint
	MerchantID       uint
	Name             string
	Price            decimal.Decimal
	Stock            int
	Currency         string
	ExternalID       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PointsRulesCount int64
}

// filteredProducts applies the listing predicates. It returns a fresh
// query on every call so the count and page queries do not share state.
func (r *AnalyticsRepository) filteredProducts(ctx context.Context, q analytics.ProductQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Product{})
	if q.MerchantID != nil {
		db = db.Where("products.merchant_id = ?", *q.MerchantID)
	}
	if q.HasRules != nil {
		exists := "EXISTS (SELECT 1 FROM points_rules WHERE points_rules.product_id = products.id)"
		if !*q.HasRules {
			exists = "NOT " + exists
		}
		db = db.Where(exists)
	}
	if q.LowStock {
		db = db.Where("products.stock <= ?", analytics.LowStockThreshold)
	}
	return db
}

func (r *AnalyticsRepository) productPage(ctx context.Context, q analytics.ProductQuery) (*gorm.DB, error) {
	column, ok := productSortColumns[q.SortBy]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown sort field %q", q.SortBy)
	}
	direction := "ASC"
	if q.Desc {
		direction = "DESC"
	}

	db := r.filteredProducts(ctx, q).
		Select("products.*, " + pointsRulesCountSQL + " AS points_rules_count").
		Order(fmt.Sprintf("%s %s, products.id", column, direction))
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	return db, nil
}

func (r *AnalyticsRepository) ListProducts(ctx context.Context, q analytics.ProductQuery) ([]analytics.ProductRow, int64, error) {
	if q.SortBy == "" {
		q.SortBy = analytics.SortName
	}
	page, err := r.productPage(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.filteredProducts(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var rows []productListRow
	if err := page.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]analytics.ProductRow, len(rows))
	for i, row := range rows {
		out[i] = analytics.ProductRow{
			Product: models.Product{
				ID:         row.ID,
				MerchantID: row.MerchantID,
				Name:       row.Name,
				Price:      row.Price,
				Stock:      row.Stock,
				Currency:   row.Currency,
				ExternalID: row.ExternalID,
				CreatedAt:  row.CreatedAt,
				UpdatedAt:  row.UpdatedAt,
			},
			PointsRulesCount: row.PointsRulesCount,
		}
	}
	return out, total, nil
}
