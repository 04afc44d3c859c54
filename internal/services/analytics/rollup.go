package analytics

import (
	"context"
	"fmt"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
)

const maxListingLimit = 100

var productSortFields = []string{SortName, SortPrice, SortStock, SortCreatedAt, SortPointsRulesCount}

// HasRelated is the existential predicate over a rollup count.
func HasRelated(count int64) bool {
	return count > 0
}

// IsLowStock reports whether stock is at or below LowStockThreshold.
func IsLowStock(stock int) bool {
	return stock <= LowStockThreshold
}

// RollupCounter derives per-parent child counts. Nothing it computes is
// stored; every call goes back to the store.
type RollupCounter struct {
	store Store
}

func NewRollupCounter(store Store) *RollupCounter {
	return &RollupCounter{store: store}
}

// Count returns the number of rel children for every id in parentIDs.
// Parents without children map to 0.
func (r *RollupCounter) Count(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	found, err := r.store.RelatedCounts(ctx, rel, parentIDs)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("count %s per %s", rel.Child, rel.Parent), err)
	}
	for _, id := range parentIDs {
		counts[id] = found[id]
	}
	return counts, nil
}

// Products lists products with their points-rule count attached. The
// has-rules and low-stock predicates are applied by the store alongside the
// count.
func (r *RollupCounter) Products(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error) {
	if err := validateProductQuery(&q); err != nil {
		return nil, 0, err
	}

	rows, total, err := r.store.ListProducts(ctx, q)
	if err != nil {
		return nil, 0, unavailable("list products", err)
	}
	return rows, total, nil
}

func validateProductQuery(q *ProductQuery) error {
	if q.SortBy == "" {
		q.SortBy = SortName
	}
	if !contains(productSortFields, q.SortBy) {
		return apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown sort field %q", q.SortBy)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return apperrors.Wrapf(apperrors.ErrInvalidQuery, "limit and offset must not be negative")
	}
	if q.Limit == 0 || q.Limit > maxListingLimit {
		q.Limit = maxListingLimit
	}
	return nil
}
