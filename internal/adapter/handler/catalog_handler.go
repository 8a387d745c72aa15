package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

// CatalogHandler serves the stateless endpoints: catalog reads, time window
// validation, recurrence expansion and price quotes.
type CatalogHandler struct {
	catalog    ports.CatalogService
	validator  *services.TimeWindowValidator
	recurrence *services.RecurrenceEngine
	pricing    *services.PricingCalculator
	log        *zap.Logger
}

func NewCatalogHandler(catalog ports.CatalogService, validator *services.TimeWindowValidator, recurrence *services.RecurrenceEngine, pricing *services.PricingCalculator, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:    catalog,
		validator:  validator,
		recurrence: recurrence,
		pricing:    pricing,
		log:        log,
	}
}

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/time-windows/validate", h.ValidateTimeWindow)
	rg.POST("/recurrences/expand", h.ExpandRecurrence)
	rg.POST("/pricing/quote", h.Quote)

	facilities := rg.Group("/facilities/:id")
	facilities.GET("/field-groups", h.ListFieldGroups)
	facilities.GET("/services", h.ListServices)
	facilities.GET("/operating-hours", h.GetOperatingHours)
	facilities.GET("/vouchers", h.ListVouchers)
}

func (h *CatalogHandler) ValidateTimeWindow(c *gin.Context) {
	var req validateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !req.Date.IsValid() {
		badRequest(c, "date is required")
		return
	}

	var hours domain.OperatingHours
	if req.FacilityID != "" {
		var err error
		if hours, err = h.catalog.GetOperatingHours(c.Request.Context(), req.FacilityID); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	if err := h.validator.Validate(req.Start, req.End, req.Date, hours); err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"valid": true})
}

func (h *CatalogHandler) ExpandRecurrence(c *gin.Context) {
	var req expandRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !req.BaseDate.IsValid() {
		badRequest(c, "base_date is required")
		return
	}

	dates, err := h.recurrence.Generate(req.BaseDate, req.Rule)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, gin.H{
		"dates": dates,
		"count": len(dates),
	})
}

func (h *CatalogHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	dates := domain.SortedUnique(req.Dates)
	if len(dates) == 0 {
		badRequest(c, "dates are required")
		return
	}

	breakdown, err := quote(c.Request.Context(), h.catalog, h.pricing, quoteParams{
		facilityID:   req.FacilityID,
		fieldGroupID: req.FieldGroupID,
		sportID:      req.SportID,
		window:       domain.TimeRange{Start: req.Start, End: req.End},
		dates:        dates,
		services:     req.Services,
		voucherID:    req.VoucherID,
		points:       req.Points,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, breakdown)
}

func (h *CatalogHandler) ListFieldGroups(c *gin.Context) {
	q := ports.FieldGroupQuery{
		FacilityID: c.Param("id"),
		SportID:    c.Query("sport_id"),
	}

	for _, s := range strings.Split(c.Query("dates"), ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		d, err := domain.ParseDate(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		q.Dates = append(q.Dates, d)
	}
	if len(q.Dates) == 0 {
		badRequest(c, "dates are required")
		return
	}

	var err error
	if q.Start, err = domain.ParseTimeOfDay(c.Query("start")); err != nil {
		badRequest(c, err.Error())
		return
	}
	if q.End, err = domain.ParseTimeOfDay(c.Query("end")); err != nil {
		badRequest(c, err.Error())
		return
	}

	offers, err := h.catalog.ListAvailableFieldGroups(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, offers)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	entries, err := h.catalog.ListAvailableServices(c.Request.Context(), c.Param("id"), c.Query("draft_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, entries)
}

func (h *CatalogHandler) GetOperatingHours(c *gin.Context) {
	hours, err := h.catalog.GetOperatingHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, hours)
}

func (h *CatalogHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.catalog.ListVouchers(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, vouchers)
}

type quoteParams struct {
	facilityID   string
	fieldGroupID string
	sportID      string
	draftID      string
	window       domain.TimeRange
	dates        domain.DateSeries
	services     []domain.ServiceSelection
	voucherID    string
	points       int
}

// quote prices a selection against live catalog data. An unknown voucher
// id is reported as not applicable.
func quote(ctx context.Context, catalog ports.CatalogService, pricing *services.PricingCalculator, p quoteParams) (domain.PricingBreakdown, error) {
	offers, err := catalog.ListAvailableFieldGroups(ctx, ports.FieldGroupQuery{
		FacilityID: p.facilityID,
		SportID:    p.sportID,
		Dates:      p.dates,
		Start:      p.window.Start,
		End:        p.window.End,
	})
	if err != nil {
		return domain.PricingBreakdown{}, err
	}

	in := services.QuoteInput{
		Window:    p.window,
		DateCount: len(p.dates),
		Services:  p.services,
		Points:    p.points,
	}

	found := false
	for _, o := range offers {
		if o.ID == p.fieldGroupID {
			in.Offer = o
			found = true
			break
		}
	}
	if !found {
		return domain.PricingBreakdown{}, fmt.Errorf("field group %s: %w", p.fieldGroupID, domain.ErrNotFound)
	}

	if len(p.services) > 0 {
		if in.Catalog, err = catalog.ListAvailableServices(ctx, p.facilityID, p.draftID); err != nil {
			return domain.PricingBreakdown{}, err
		}
	}

	if p.voucherID != "" {
		vouchers, err := catalog.ListVouchers(ctx, p.facilityID)
		if err != nil {
			return domain.PricingBreakdown{}, err
		}
		for i := range vouchers {
			if vouchers[i].ID == p.voucherID {
				in.Voucher = &vouchers[i]
				break
			}
		}
		if in.Voucher == nil {
			return domain.PricingBreakdown{}, fmt.Errorf("%w: voucher %s is not offered", domain.ErrVoucherNotApplicable, p.voucherID)
		}
	}

	return pricing.Quote(in)
}
