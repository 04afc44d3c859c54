package analytics

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func catalogue() *memoryStore {
	return &memoryStore{
		products: []models.Product{
			{ID: 1, MerchantID: 1, Name: "Americano", Stock: 10},
			{ID: 2, MerchantID: 1, Name: "Brownie", Stock: 11},
			{ID: 3, MerchantID: 2, Name: "Croissant", Stock: 0},
			{ID: 4, MerchantID: 2, Name: "Discontinued", Stock: 3, DeletedAt: gorm.DeletedAt{Valid: true}},
		},
		rules: []models.PointsRule{
			{ID: 1, ProductID: 1, RuleType: models.RuleTypePurchaseBased},
			{ID: 2, ProductID: 1, RuleType: models.RuleTypeBonus},
			{ID: 3, ProductID: 3, RuleType: models.RuleType("legacy_cashback")},
		},
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsLowStock(10))
	assert.True(t, IsLowStock(0))
	assert.False(t, IsLowStock(11))

	assert.False(t, HasRelated(0))
	assert.True(t, HasRelated(1))
}

func TestRollupCounter_Count(t *testing.T) {
	counts, err := NewRollupCounter(catalogue()).Count(context.Background(), ProductPointsRules, []uint{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, map[uint]int64{1: 2, 2: 0, 3: 1}, counts)
	_, present := counts[2]
	assert.True(t, present, "parents without children must map to 0")
}

func TestRollupCounter_CountEmptyParents(t *testing.T) {
	store := new(mockStore)
	counts, err := NewRollupCounter(store).Count(context.Background(), ProductPointsRules, nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
	store.AssertNotCalled(t, "RelatedCounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestRollupCounter_CountFailure(t *testing.T) {
	store := new(mockStore)
	store.On("RelatedCounts", mock.Anything, ProductPointsRules, []uint{1}).Return(nil, errors.New("boom"))

	_, err := NewRollupCounter(store).Count(context.Background(), ProductPointsRules, []uint{1})
	assert.ErrorIs(t, err, apperrors.ErrDataUnavailable)
}

func names(rows []ProductRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestRollupCounter_Products(t *testing.T) {
	yes, no := true, false
	merchant := uint(1)

	tests := []struct {
		name  string
		query ProductQuery
		want  []string
		total int64
	}{
		{name: "all live products", query: ProductQuery{}, want: []string{"Americano", "Brownie", "Croissant"}, total: 3},
		{name: "has rules counts unknown types", query: ProductQuery{HasRules: &yes}, want: []string{"Americano", "Croissant"}, total: 2},
		{name: "without rules", query: ProductQuery{HasRules: &no}, want: []string{"Brownie"}, total: 1},
		{name: "low stock includes threshold", query: ProductQuery{LowStock: true}, want: []string{"Americano", "Croissant"}, total: 2},
		{name: "by merchant", query: ProductQuery{MerchantID: &merchant}, want: []string{"Americano", "Brownie"}, total: 2},
		{
			name:  "sorted by rule count desc",
			query: ProductQuery{SortBy: SortPointsRulesCount, Desc: true},
			want:  []string{"Americano", "Croissant", "Brownie"},
			total: 3,
		},
		{name: "paged", query: ProductQuery{Limit: 1, Offset: 1}, want: []string{"Brownie"}, total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := NewRollupCounter(catalogue()).Products(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(rows))
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestRollupCounter_ProductsAttachCounts(t *testing.T) {
	rows, _, err := NewRollupCounter(catalogue()).Products(context.Background(), ProductQuery{})
	require.NoError(t, err)

	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.Name] = r.PointsRulesCount
	}
	assert.Equal(t, map[string]int64{"Americano": 2, "Brownie": 0, "Croissant": 1}, counts)
}

func TestRollupCounter_ProductsInvalidQuery(t *testing.T) {
	counter := NewRollupCounter(new(mockStore))

	_, _, err := counter.Products(context.Background(), ProductQuery{SortBy: "colour"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)

	_, _, err = counter.Products(context.Background(), ProductQuery{Offset: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuery)
}

func TestRollupCounter_ProductsDefaults(t *testing.T) {
	store := new(mockStore)
	store.On("ListProducts", mock.Anything, ProductQuery{SortBy: SortName, Limit: maxListingLimit}).
		Return([]ProductRow{}, int64(0), nil)

	_, _, err := NewRollupCounter(store).Products(context.Background(), ProductQuery{Limit: 500})
	require.NoError(t, err)
	store.AssertExpectations(t)
}
