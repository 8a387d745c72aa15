package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

// DraftHandler exposes the draft of the calling session, identified by
// the X-Session-ID header.
type DraftHandler struct {
	sessions  *services.SessionRegistry
	catalog   ports.CatalogService
	validator *services.TimeWindowValidator
	pricing   *services.PricingCalculator
	log       *zap.Logger
}

func NewDraftHandler(sessions *services.SessionRegistry, catalog ports.CatalogService, validator *services.TimeWindowValidator, pricing *services.PricingCalculator, log *zap.Logger) *DraftHandler {
	return &DraftHandler{
		sessions:  sessions,
		catalog:   catalog,
		validator: validator,
		pricing:   pricing,
		log:       log,
	}
}

func (h *DraftHandler) RegisterRoutes(rg *gin.RouterGroup) {
	draft := rg.Group("/draft", Session())
	draft.GET("", h.Get)
	draft.POST("", h.Create)
	draft.PUT("/fields", h.ReassignFields)
	draft.PUT("/services", h.AttachServices)
	draft.POST("/back", h.Back)
	draft.POST("/payment", h.InitiatePayment)
	draft.DELETE("", h.Cancel)

	rg.DELETE("/session", Session(), h.EndSession)
}

// run executes fn on the session's controller and returns the resulting view.
func (h *DraftHandler) run(c *gin.Context, fn func(ctx context.Context, ctrl *services.DraftController) error) (draftView, error) {
	ctx := c.Request.Context()
	var view draftView
	err := h.sessions.Do(ctx, c.GetString(sessionKey), func(ctrl *services.DraftController) error {
		err := fn(ctx, ctrl)
		view = newDraftView(ctrl)
		return err
	})
	return view, err
}

func (h *DraftHandler) Get(c *gin.Context) {
	view, err := h.run(c, func(context.Context, *services.DraftController) error { return nil })
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, view)
}

func (h *DraftHandler) Create(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	window := domain.TimeRange{Start: req.Start, End: req.End}

	var hours domain.OperatingHours
	if req.FacilityID != "" {
		var err error
		if hours, err = h.catalog.GetOperatingHours(c.Request.Context(), req.FacilityID); err != nil {
			writeError(c, h.log, err)
			return
		}
	}
	for _, d := range req.Dates {
		if err := h.validator.ValidateRange(window, d, hours); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	in := services.DraftInput{
		SportID:     req.SportID,
		TimeRange:   window,
		Dates:       req.Dates,
		FieldByDate: req.FieldByDate,
	}
	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		_, err := ctrl.Create(ctx, in)
		return err
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusCreated, view)
}

func (h *DraftHandler) ReassignFields(c *gin.Context) {
	var req reassignFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		_, err := ctrl.ReassignFields(ctx, req.FieldByDate)
		return err
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, view)
}

func (h *DraftHandler) AttachServices(c *gin.Context) {
	var req attachServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		_, err := ctrl.AttachServices(ctx, req.Services)
		return err
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, view)
}

func (h *DraftHandler) Back(c *gin.Context) {
	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		return ctrl.Back(ctx)
	})
	if err != nil && !errors.Is(err, domain.ErrDeleteFailed) {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, withWarning(view, err))
}

// InitiatePayment checks a chosen voucher against the current selection
// before the draft is handed over to payment. Points are not redeemed at
// payment, so the returned pricing carries none.
func (h *DraftHandler) InitiatePayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.VoucherID != "" && (req.FacilityID == "" || req.FieldGroupID == "") {
		badRequest(c, "facility_id and field_group_id are required with voucher_id")
		return
	}

	var redirectURL string
	var breakdown *domain.PricingBreakdown
	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		d := ctrl.Snapshot()
		if req.VoucherID != "" && d.Phase.HoldsDraft() {
			b, err := quote(ctx, h.catalog, h.pricing, quoteParams{
				facilityID:   req.FacilityID,
				fieldGroupID: req.FieldGroupID,
				sportID:      d.SportID,
				draftID:      d.ID,
				window:       d.TimeRange,
				dates:        d.Dates,
				services:     d.Services,
				voucherID:    req.VoucherID,
			})
			if err != nil {
				return err
			}
			breakdown = &b
		}

		url, err := ctrl.InitiatePayment(ctx, req.Method, req.VoucherID)
		redirectURL = url
		return err
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	success(c, http.StatusOK, gin.H{
		"redirect_url": redirectURL,
		"pricing":      breakdown,
		"draft":        view,
	})
}

// Cancel always resets the session. A failed deletion is reported as a
// warning because the reservation service expires the draft by itself.
func (h *DraftHandler) Cancel(c *gin.Context) {
	view, err := h.run(c, func(ctx context.Context, ctrl *services.DraftController) error {
		return ctrl.Cancel(ctx)
	})
	if err != nil && !errors.Is(err, domain.ErrDeleteFailed) {
		writeError(c, h.log, err)
		return
	}
	success(c, http.StatusOK, withWarning(view, err))
}

func (h *DraftHandler) EndSession(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), c.GetString(sessionKey)); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func withWarning(view draftView, err error) gin.H {
	out := gin.H{"draft": view}
	if err != nil {
		out["warning"] = err.Error()
	}
	return out
}
