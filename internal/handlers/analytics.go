package handlers

import (
	"strconv"
	"strings"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/repositories/cache"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/services/analytics"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/pagination"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/response"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const defaultTopMerchants = 3

var rankingMetrics = map[string]analytics.Metric{
	"amount": analytics.Sum(analytics.FieldAmount),
	"points": analytics.Sum(analytics.FieldAwardedPoints),
	"count":  analytics.Count(),
}

type AnalyticsHandler struct {
	analyticsService analytics.Service
	cache            *cache.CacheService
}

// NewAnalyticsHandler builds the dashboard handlers. reportCache may be nil.
func NewAnalyticsHandler(analyticsService analytics.Service, reportCache *cache.CacheService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		cache:            reportCache,
	}
}

// GetDashboardStats returns the dashboard metric cards
func (h *AnalyticsHandler) GetDashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var key string
	if h.cache.Enabled() {
		key = h.cache.ReportKey(h.analyticsService.Now())
		var cached analytics.Report
		found, err := h.cache.Get(ctx, key, &cached)
		if err != nil {
			log.WithError(err).Warn("Report cache read failed")
		} else if found {
			return response.Success(c, "Dashboard stats retrieved successfully", cached)
		}
	}

	report, err := h.analyticsService.BuildReport(ctx)
	if err != nil {
		return response.FromError(c, err, "Failed to build dashboard stats")
	}

	if key != "" {
		if err := h.cache.Set(ctx, key, report); err != nil {
			log.WithError(err).Warn("Report cache write failed")
		}
	}
	return response.Success(c, "Dashboard stats retrieved successfully", report)
}

// GetTopMerchants returns the merchant leaderboard
func (h *AnalyticsHandler) GetTopMerchants(c *fiber.Ctx) error {
	metric, ok := rankingMetrics[c.Query("metric", "amount")]
	if !ok {
		return response.BadRequest(c, "metric must be one of amount, points, count")
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultTopMerchants)))
	if err != nil || limit < 1 || limit > 100 {
		return response.BadRequest(c, "limit must be between 1 and 100")
	}
	window, err := analytics.WindowByName(c.Query("window", "all"), h.analyticsService.Now())
	if err != nil {
		return response.FromError(c, err, "Invalid window")
	}

	ranked, err := h.analyticsService.TopMerchants(c.UserContext(), metric, window, limit)
	if err != nil {
		return response.FromError(c, err, "Failed to rank merchants")
	}
	return response.Success(c, "Top merchants retrieved successfully", ranked)
}

// GetProducts lists products with their points-rule counts
func (h *AnalyticsHandler) GetProducts(c *fiber.Ctx) error {
	q, err := parseProductQuery(c)
	if err != nil {
		return response.FromError(c, err, "Invalid product query")
	}

	p := pagination.ParseFromRequest(c)
	q.Limit = p.Limit
	q.Offset = p.Offset

	rows, total, err := h.analyticsService.ProductListing(c.UserContext(), q)
	if err != nil {
		return response.FromError(c, err, "Failed to list products")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, rows))
}

// GetRollup returns child counts per parent id for a listing badge column
func (h *AnalyticsHandler) GetRollup(c *fiber.Ctx) error {
	rel, ok := analytics.Relations[c.Query("relation", "points_rules")]
	if !ok {
		return response.BadRequest(c, "unknown relation")
	}
	ids, err := parseIDs(c.Query("ids"))
	if err != nil {
		return response.FromError(c, err, "Invalid ids")
	}

	counts, err := h.analyticsService.RollupCount(c.UserContext(), rel, ids)
	if err != nil {
		return response.FromError(c, err, "Failed to count related rows")
	}
	return response.Success(c, "Rollup counts retrieved successfully", counts)
}

func parseProductQuery(c *fiber.Ctx) (analytics.ProductQuery, error) {
	q := analytics.ProductQuery{
		SortBy: c.Query("sort", analytics.SortName),
	}

	switch strings.ToLower(c.Query("order", "asc")) {
	case "asc":
	case "desc":
		q.Desc = true
	default:
		return q, apperrors.Wrapf(apperrors.ErrInvalidQuery, "order must be asc or desc")
	}

	if v := c.Query("merchant_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return q, apperrors.Wrapf(apperrors.ErrInvalidQuery, "invalid merchant_id %q", v)
		}
		merchantID := uint(id)
		q.MerchantID = &merchantID
	}
	if v := c.Query("has_rules"); v != "" {
		hasRules, err := strconv.ParseBool(v)
		if err != nil {
			return q, apperrors.Wrapf(apperrors.ErrInvalidQuery, "invalid has_rules %q", v)
		}
		q.HasRules = &hasRules
	}
	if v := c.Query("low_stock"); v != "" {
		lowStock, err := strconv.ParseBool(v)
		if err != nil {
			return q, apperrors.Wrapf(apperrors.ErrInvalidQuery, "invalid low_stock %q", v)
		}
		q.LowStock = lowStock
	}
	return q, nil
}

func parseIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidQuery, "ids is required")
	}

	var ids []uint
	seen := map[uint]bool{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrInvalidQuery, "invalid id %q", part)
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
