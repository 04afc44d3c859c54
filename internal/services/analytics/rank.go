package analytics

import (
	"context"
	"fmt"
	"sort"
)

// TopN orders groups by descending value and keeps the first n. Groups with
// equal values keep their input order.
func TopN(groups []Group, n int) []Group {
	if n <= 0 {
		return []Group{}
	}

	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Ranker builds presentation-ready leaderboards of merchants.
type Ranker struct {
	store Store
}

func NewRanker(store Store) *Ranker {
	return &Ranker{store: store}
}

// TopMerchants ranks merchants by m over their transactions inside w (all
// time when w is nil) and resolves each merchant's name.
func (r *Ranker) TopMerchants(ctx context.Context, m Metric, w *Window, n int) ([]RankedGroup, error) {
	if w != nil {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	if err := m.validate(EntityTransactions); err != nil {
		return nil, err
	}

	groups, err := r.store.GroupAggregate(ctx, EntityTransactions, FieldMerchantID, m, Filter{Window: w})
	if err != nil {
		return nil, unavailable("group transactions by merchant", err)
	}

	top := TopN(groups, n)
	if len(top) == 0 {
		return []RankedGroup{}, nil
	}

	ids := make([]uint, len(top))
	for i, g := range top {
		ids[i] = g.Key
	}
	names, err := r.store.Names(ctx, EntityMerchants, ids)
	if err != nil {
		return nil, unavailable("resolve merchant names", err)
	}

	ranked := make([]RankedGroup, len(top))
	for i, g := range top {
		name, ok := names[g.Key]
		if !ok {
			name = fmt.Sprintf("Merchant #%d", g.Key)
		}
		ranked[i] = RankedGroup{Rank: i + 1, Key: g.Key, Name: name, Value: g.Value}
	}
	return ranked, nil
}
