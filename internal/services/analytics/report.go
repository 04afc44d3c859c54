package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/format"
	"github.com/shopspring/decimal"
)

type Color string

const (
	ColorSuccess Color = "success"
	ColorDanger  Color = "danger"
	ColorInfo    Color = "info"
)

const (
	IconTrendingUp   = "heroicon-m-arrow-trending-up"
	IconTrendingDown = "heroicon-m-arrow-trending-down"
)

// Card labels, in report order.
const (
	LabelTodayTransactions   = "Today's Transactions"
	LabelTodayAmount         = "Today's Amount"
	LabelTodayPoints         = "Today's Points Awarded"
	LabelMonthlyTransactions = "Monthly Transactions"
	LabelMonthlyAmount       = "Monthly Amount"
	LabelMonthlyPoints       = "Monthly Points"
	LabelTotalCustomers      = "Total Customers"
	LabelTotalMerchants      = "Total Merchants"
	LabelTopMerchants        = "Top Merchants"
)

const (
	noTransactionsToday = "No transactions today"
	comparisonPhrase    = "from last month"
	noMerchantsYet      = "No merchants yet"
)

// Card is one metric tile of the dashboard. Change is set on cards that
// compare against the previous month.
type Card struct {
	Label       string           `json:"label"`
	Value       string           `json:"value"`
	Description string           `json:"description"`
	Color       Color            `json:"color"`
	Icon        string           `json:"icon,omitempty"`
	Trend       Trend            `json:"trend,omitempty"`
	Change      *decimal.Decimal `json:"change,omitempty"`
	Ranking     []RankedGroup    `json:"ranking,omitempty"`
}

type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Cards       []Card    `json:"cards"`
}

// Card returns the card with the given label.
func (r *Report) Card(label string) (Card, bool) {
	for _, c := range r.Cards {
		if c.Label == label {
			return c, true
		}
	}
	return Card{}, false
}

// Assembler composes calculator, comparator and ranker output into the
// dashboard report.
type Assembler struct {
	calc      *Calculator
	ranker    *Ranker
	clock     Clock
	formatter *format.Formatter
	topN      int
}

func NewAssembler(calc *Calculator, ranker *Ranker, clock Clock, formatter *format.Formatter, topN int) *Assembler {
	return &Assembler{
		calc:      calc,
		ranker:    ranker,
		clock:     clock,
		formatter: formatter,
		topN:      topN,
	}
}

// BuildReport computes every card against a single reading of the clock.
// Any failure aborts the whole report.
func (a *Assembler) BuildReport(ctx context.Context) (*Report, error) {
	now := a.clock()

	today, err := a.calc.Snapshot(ctx, Today(now))
	if err != nil {
		return nil, fmt.Errorf("failed to compute today's stats: %w", err)
	}
	current, err := a.calc.Snapshot(ctx, ThisMonth(now))
	if err != nil {
		return nil, fmt.Errorf("failed to compute this month's stats: %w", err)
	}
	previous, err := a.calc.Snapshot(ctx, PreviousMonth(now))
	if err != nil {
		return nil, fmt.Errorf("failed to compute last month's stats: %w", err)
	}

	customers, err := a.calc.Total(ctx, Count(), EntityUsers, Filter{Equals: map[string]interface{}{"role": models.RoleCustomer}})
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	merchants, err := a.calc.Total(ctx, Count(), EntityMerchants, Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count merchants: %w", err)
	}
	top, err := a.ranker.TopMerchants(ctx, Sum(FieldAmount), nil, a.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank merchants: %w", err)
	}

	f := a.formatter
	daily := f.Currency(today.Amount)
	if !today.Amount.IsPositive() {
		daily = noTransactionsToday
	}

	cards := []Card{
		{Label: LabelTodayTransactions, Value: f.Integer(decimal.NewFromInt(today.Count)), Description: daily, Color: ColorInfo},
		{Label: LabelTodayAmount, Value: f.Currency(today.Amount), Description: daily, Color: ColorInfo},
		{Label: LabelTodayPoints, Value: f.Integer(today.Points), Description: daily, Color: ColorInfo},
		a.deltaCard(LabelMonthlyTransactions, f.Integer(decimal.NewFromInt(current.Count)),
			decimal.NewFromInt(current.Count), decimal.NewFromInt(previous.Count)),
		a.deltaCard(LabelMonthlyAmount, f.Currency(current.Amount), current.Amount, previous.Amount),
		a.deltaCard(LabelMonthlyPoints, f.Integer(current.Points), current.Points, previous.Points),
		{Label: LabelTotalCustomers, Value: f.Integer(customers), Description: "Registered customers", Color: ColorInfo},
		{Label: LabelTotalMerchants, Value: f.Integer(merchants), Description: "Active merchants", Color: ColorInfo},
		a.rankingCard(top),
	}

	return &Report{GeneratedAt: now, Cards: cards}, nil
}

func (a *Assembler) deltaCard(label, value string, current, previous decimal.Decimal) Card {
	change := PercentChange(current, previous)
	return Card{
		Label:       label,
		Value:       value,
		Description: a.formatter.Percent(change) + " " + comparisonPhrase,
		Color:       ColorForChange(change),
		Icon:        IconForChange(change),
		Trend:       TrendOf(change),
		Change:      &change,
	}
}

func (a *Assembler) rankingCard(top []RankedGroup) Card {
	card := Card{Label: LabelTopMerchants, Value: noMerchantsYet, Description: noMerchantsYet, Color: ColorInfo, Ranking: top}
	if len(top) == 0 {
		return card
	}

	parts := make([]string, len(top))
	for i, g := range top {
		parts[i] = fmt.Sprintf("%s (%s)", g.Name, a.formatter.Currency(g.Value))
	}
	card.Value = top[0].Name
	card.Description = strings.Join(parts, ", ")
	return card
}

// ColorForChange is success for non-negative changes and danger otherwise.
func ColorForChange(change decimal.Decimal) Color {
	if change.IsNegative() {
		return ColorDanger
	}
	return ColorSuccess
}

// IconForChange points down only for strictly negative changes.
func IconForChange(change decimal.Decimal) string {
	if change.IsNegative() {
		return IconTrendingDown
	}
	return IconTrendingUp
}
