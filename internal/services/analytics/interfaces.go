package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the read side of the entity store the engine aggregates over.
// Implementations must not mutate any record. For EntityUsers, an Equals
// entry keyed "role" matches users holding that role.
type Store interface {
	Count(ctx context.Context, entity Entity, f Filter) (int64, error)
	Sum(ctx context.Context, entity Entity, field string, f Filter) (decimal.Decimal, error)

	// GroupAggregate returns one group per distinct groupBy value present in
	// the filtered set, ordered by ascending key.
	GroupAggregate(ctx context.Context, entity Entity, groupBy string, m Metric, f Filter) ([]Group, error)

	// Names resolves display names for the given ids. Unknown ids are omitted.
	Names(ctx context.Context, entity Entity, ids []uint) (map[uint]string, error)

	// RelatedCounts counts children per parent without loading them. Parents
	// with no children may be omitted.
	RelatedCounts(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error)

	// ListProducts returns one page of non-deleted products with their
	// points-rule counts, and the total number of matching products.
	ListProducts(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error)
}

// Service is the analytics surface exposed to the HTTP layer.
type Service interface {
	BuildReport(ctx context.Context) (*Report, error)
	TopMerchants(ctx context.Context, m Metric, w *Window, n int) ([]RankedGroup, error)
	ProductListing(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error)
	RollupCount(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error)
	Now() time.Time
}
