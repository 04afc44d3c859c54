package analytics

import (
	"context"
	"fmt"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/shopspring/decimal"
)

// Calculator computes count and sum aggregates over windows of the store.
type Calculator struct {
	store Store
}

func NewCalculator(store Store) *Calculator {
	return &Calculator{store: store}
}

// Compute evaluates m over the entity rows created inside w. Empty sets
// yield zero for both counts and sums.
func (c *Calculator) Compute(ctx context.Context, m Metric, entity Entity, w Window) (decimal.Decimal, error) {
	if err := w.Validate(); err != nil {
		return decimal.Zero, err
	}
	return c.aggregate(ctx, m, entity, Filter{Window: &w})
}

// Total evaluates m over every row matching f, regardless of creation time.
func (c *Calculator) Total(ctx context.Context, m Metric, entity Entity, f Filter) (decimal.Decimal, error) {
	if f.Window != nil {
		if err := f.Window.Validate(); err != nil {
			return decimal.Zero, err
		}
	}
	return c.aggregate(ctx, m, entity, f)
}

// Snapshot computes transaction count, amount and points for one window.
func (c *Calculator) Snapshot(ctx context.Context, w Window) (*Snapshot, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	f := Filter{Window: &w}
	count, err := c.aggregate(ctx, Count(), EntityTransactions, f)
	if err != nil {
		return nil, err
	}
	amount, err := c.aggregate(ctx, Sum(FieldAmount), EntityTransactions, f)
	if err != nil {
		return nil, err
	}
	points, err := c.aggregate(ctx, Sum(FieldAwardedPoints), EntityTransactions, f)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Window: w,
		Count:  count.IntPart(),
		Amount: amount,
		Points: points,
	}, nil
}

func (c *Calculator) aggregate(ctx context.Context, m Metric, entity Entity, f Filter) (decimal.Decimal, error) {
	if err := m.validate(entity); err != nil {
		return decimal.Zero, err
	}

	switch m.Kind {
	case MetricCount:
		n, err := c.store.Count(ctx, entity, f)
		if err != nil {
			return decimal.Zero, unavailable(fmt.Sprintf("count %s", entity), err)
		}
		return decimal.NewFromInt(n), nil
	default:
		sum, err := c.store.Sum(ctx, entity, m.Field, f)
		if err != nil {
			return decimal.Zero, unavailable(fmt.Sprintf("sum %s.%s", entity, m.Field), err)
		}
		return sum, nil
	}
}

func (m Metric) validate(entity Entity) error {
	switch m.Kind {
	case MetricCount:
		return nil
	case MetricSum:
		if !contains(summableFields[entity], m.Field) {
			return apperrors.Wrapf(apperrors.ErrInvalidQuery, "%s.%s cannot be summed", entity, m.Field)
		}
		return nil
	default:
		return apperrors.Wrapf(apperrors.ErrInvalidQuery, "unknown metric kind %q", m.Kind)
	}
}

// unavailable tags a store failure as data-unavailable, keeping the cause in
// the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, apperrors.Wrap(apperrors.ErrDataUnavailable, err))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
