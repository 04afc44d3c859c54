package analytics

import (
	"context"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/format"
	log "github.com/sirupsen/logrus"
)

// Config holds the report presentation settings.
type Config struct {
	CurrencySymbol string
	TopMerchants   int
}

type service struct {
	calc      *Calculator
	ranker    *Ranker
	rollups   *RollupCounter
	assembler *Assembler
	clock     Clock
}

// NewService wires the calculator, ranker, rollup counter and assembler
// over one store. A nil clock uses time.Now.
func NewService(store Store, cfg Config, clock Clock) Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.TopMerchants <= 0 {
		cfg.TopMerchants = 3
	}

	calc := NewCalculator(store)
	ranker := NewRanker(store)
	return &service{
		calc:      calc,
		ranker:    ranker,
		rollups:   NewRollupCounter(store),
		assembler: NewAssembler(calc, ranker, clock, format.New(cfg.CurrencySymbol), cfg.TopMerchants),
		clock:     clock,
	}
}

func (s *service) BuildReport(ctx context.Context) (*Report, error) {
	start := time.Now()
	report, err := s.assembler.BuildReport(ctx)
	if err != nil {
		log.WithError(err).Error("Dashboard report failed")
		return nil, err
	}
	log.WithFields(log.Fields{
		"cards":    len(report.Cards),
		"duration": time.Since(start),
	}).Debug("Dashboard report built")
	return report, nil
}

func (s *service) TopMerchants(ctx context.Context, m Metric, w *Window, n int) ([]RankedGroup, error) {
	ranked, err := s.ranker.TopMerchants(ctx, m, w, n)
	if err != nil {
		log.WithError(err).WithField("metric", m).Error("Merchant ranking failed")
		return nil, err
	}
	return ranked, nil
}

func (s *service) ProductListing(ctx context.Context, q ProductQuery) ([]ProductRow, int64, error) {
	return s.rollups.Products(ctx, q)
}

func (s *service) RollupCount(ctx context.Context, rel Relation, parentIDs []uint) (map[uint]int64, error) {
	return s.rollups.Count(ctx, rel, parentIDs)
}

func (s *service) Now() time.Time {
	return s.clock()
}
