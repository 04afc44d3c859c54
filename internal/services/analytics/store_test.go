package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory Store over plain model slices.
type memoryStore struct {
	merchants    []models.Merchant
	transactions []models.Transaction
	users        []models.User
	products     []models.Product
	rules        []models.PointsRule
}

func (s *memoryStore) addTransactions(merchantID uint, at time.Time, amounts ...int64) {
	for _, a := range amounts {
		s.transactions = append(s.transactions, models.Transaction{
			ID:            uint(len(s.transactions) + 1),
			MerchantID:    merchantID,
			Amount:        decimal.NewFromInt(a),
			AwardedPoints: a / 10,
			CreatedAt:     at,
		})
	}
}

func (s *memoryStore) addCount(merchantID uint, at time.Time, n int) {
	for i := 0; i < n; i++ {
		s.addTransactions(merchantID, at, 10)
	}
}

func (s *memoryStore) matchTx(tx models.Transaction, f Filter) bool {
	if f.Window != nil && !f.Window.Contains(tx.CreatedAt) {
		return false
	}
	if v, ok := f.Equals[FieldMerchantID]; ok && v.(uint) != tx.MerchantID {
		return false
	}
	return true
}

func (s *memoryStore) Count(ctx context.Context, entity Entity, f Filter) (int64, error) {
	var n int64
	switch entity {
	case EntityTransactions:
		for _, tx := range s.transactions {
			if s.matchTx(tx, f) {
				n++
			}
		}
	case EntityMerchants:
		n = int64(len(s.merchants))
	case EntityUsers:
		role, _ := f.Equals["role"].(string)
		for _, u := range s.users {
			if role == "" || u.HasRole(role) {
				n++
			}
		}
	case EntityProducts:
		for _, p := range s.products {
			if !p.DeletedAt.Valid {
				n++
			}
		}
	}
	return n, nil
}

func (s *memoryStore) Sum(ctx context.Context, entity Entity, field string, f Filter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range s.transactions {
		if !s.matchTx(tx, f) {
			continue
		}
		if field == FieldAmount {
			sum = sum.Add(tx.Amount)
		} else {
			sum = sum.Add(decimal.NewFromInt(tx.AwardedPoints))
		}
	}
	return sum, nil
}

func (s *memoryStore) GroupAggregate(ctx context.Context, entity Entity, groupBy string, m Metric, f Filter) ([]Group, error) {
	byKey := map[uint]decimal.Decimal{}
	for _, tx := range s.transactions {
		if !s.matchTx(tx, f) {
			continue
		}
		v := decimal.NewFromInt(1)
		if m.Kind == MetricSum {
			v = tx.Amount
			if m.Field == FieldAwardedPoints {
				v = decimal.NewFromInt(tx.AwardedPoints)
			}
		}
		byKey[tx.MerchantID] = byKey[tx.MerchantID].Add(v)
	}

	groups := make([]Group, 0, len(byKey))
	for k, v := range byKey {
		groups = append(groups, Group{Key: k, Value: v})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups, nil
}

func (s *memoryStore) Names(ctx context.Context, entity Entity, ids []uint) (map[uint]string, error) {
	names := map[uint]string{}
	for _, m := range s.merchants {
		for _, id := range ids {
			if m.ID == id {
				names[id] = m.Name
			}
		}
	}
	return names, nil
}

func (s *memoryStore) RelatedCounts(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error) {
	counts := map[uint]int64{}
	for _, r := range s.rules {
		for _, id := range parentIDs {
			if r.ProductID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (s *memoryStore) ListProducts(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error) {
	ids := make([]uint, 0, len(s.products))
	for _, p := range s.products {
		ids = append(ids, p.ID)
	}
	counts, _ := s.RelatedCounts(ctx, ProductPointsRules, ids)

	var rows []ProductRow
	for _, p := range s.products {
		if p.DeletedAt.Valid {
			continue
		}
		if q.MerchantID != nil && p.MerchantID != *q.MerchantID {
			continue
		}
		if q.HasRules != nil && HasRelated(counts[p.ID]) != *q.HasRules {
			continue
		}
		if q.LowStock && !IsLowStock(p.Stock) {
			continue
		}
		rows = append(rows, ProductRow{Product: p, PointsRulesCount: counts[p.ID]})
	}

	less := func(a, b ProductRow) bool {
		switch q.SortBy {
		case SortPointsRulesCount:
			return a.PointsRulesCount < b.PointsRulesCount
		case SortStock:
			return a.Stock < b.Stock
		default:
			return a.Name < b.Name
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if q.Desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	total := int64(len(rows))
	if q.Offset >= len(rows) {
		return []ProductRow{}, total, nil
	}
	rows = rows[q.Offset:]
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, total, nil
}

// mockStore is a testify mock of Store for failure paths.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Count(ctx context.Context, entity Entity, f Filter) (int64, error) {
	args := m.Called(ctx, entity, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Sum(ctx context.Context, entity Entity, field string, f Filter) (decimal.Decimal, error) {
	args := m.Called(ctx, entity, field, f)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockStore) GroupAggregate(ctx context.Context, entity Entity, groupBy string, metric Metric, f Filter) ([]Group, error) {
	args := m.Called(ctx, entity, groupBy, metric, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Group), args.Error(1)
}

func (m *mockStore) Names(ctx context.Context, entity Entity, ids []uint) (map[uint]string, error) {
	args := m.Called(ctx, entity, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]string), args.Error(1)
}

func (m *mockStore) RelatedCounts(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, rel, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *mockStore) ListProducts(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ProductRow), args.Get(1).(int64), args.Error(2)
}
