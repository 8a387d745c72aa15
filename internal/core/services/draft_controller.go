package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

// DraftInput is what the customer entered before a draft exists. It is kept
// after a failed creation or a backward navigation so nothing has to be
// typed again.
type DraftInput struct {
	SportID     string                 `json:"sport_id"`
	TimeRange   domain.TimeRange       `json:"time_range"`
	Dates       domain.DateSeries      `json:"dates"`
	FieldByDate map[domain.Date]string `json:"field_by_date,omitempty"`
}

func (in DraftInput) clone() DraftInput {
	out := in
	out.Dates = append(domain.DateSeries(nil), in.Dates...)
	if in.FieldByDate != nil {
		out.FieldByDate = make(map[domain.Date]string, len(in.FieldByDate))
		for k, v := range in.FieldByDate {
			out.FieldByDate[k] = v
		}
	}
	return out
}

// DraftController drives one booking draft through its phases against the
// reservation service. Every operation holds the controller lock until the
// reservation service has answered, so transitions never interleave.
type DraftController struct {
	mu        sync.Mutex
	svc       ports.DraftService
	clock     ports.Clock
	countdown *Countdown
	log       *zap.Logger

	draft   domain.BookingDraft
	pending *DraftInput
	// deleting is closed once a teardown deletion has finished.
	deleting <-chan struct{}
}

func NewDraftController(svc ports.DraftService, clock ports.Clock, budget time.Duration, log *zap.Logger) *DraftController {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DraftController{
		svc:       svc,
		clock:     clock,
		countdown: NewCountdown(clock, budget),
		log:       log,
		draft:     domain.EmptyDraft(),
	}
}

// Create reserves the dates on the reservation service. When fieldByDate is
// given the slots are submitted in the same call and the draft lands in
// FIELDS_SET; otherwise it stays in DRAFT.
func (c *DraftController) Create(ctx context.Context, in DraftInput) (domain.BookingDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.awaitDeletion(ctx); err != nil {
		return domain.BookingDraft{}, err
	}
	if c.draft.Phase.HoldsDraft() {
		return domain.BookingDraft{}, fmt.Errorf("%w: draft %s is %s", domain.ErrInvalidPhase, c.draft.ID, c.draft.Phase)
	}

	in = in.clone()
	in.Dates = domain.SortedUnique(in.Dates)

	var slots []domain.FieldSlot
	if len(in.FieldByDate) > 0 {
		var err error
		if slots, err = domain.SlotsFor(in.Dates, in.FieldByDate); err != nil {
			return domain.BookingDraft{}, err
		}
	} else if len(in.Dates) == 0 {
		return domain.BookingDraft{}, fmt.Errorf("%w: no dates", domain.ErrIncompleteSlots)
	}

	c.pending = &in

	handle, err := c.svc.CreateDraft(ctx, ports.CreateDraftRequest{
		TimeRange: in.TimeRange,
		Slots:     slots,
		SportID:   in.SportID,
	})
	if err != nil {
		c.log.Warn("create draft failed", zap.String("sport_id", in.SportID), zap.Int("dates", len(in.Dates)), zap.Error(err))
		return domain.BookingDraft{}, fmt.Errorf("%w: %w", domain.ErrCreationFailed, err)
	}

	d := domain.EmptyDraft()
	d.SportID = in.SportID
	d.TimeRange = in.TimeRange
	d.Dates = in.Dates
	d = d.Created(handle.ID, handle.PaymentHandle, c.clock.Now())
	if len(slots) > 0 {
		d = d.FieldsAssigned(in.FieldByDate, "")
		c.countdown.Start()
	}

	c.draft = d
	c.pending = nil
	c.log.Info("draft created", zap.String("draft_id", d.ID), zap.String("phase", string(d.Phase)))
	return d.Clone(), nil
}

// ReassignFields replaces the whole per-date field map. The reservation
// service may re-price the draft, so the payment handle is refreshed.
func (c *DraftController) ReassignFields(ctx context.Context, fieldByDate map[domain.Date]string) (domain.BookingDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(domain.PhaseDraft, domain.PhaseFieldsSet, domain.PhaseServicesSet); err != nil {
		return domain.BookingDraft{}, err
	}
	slots, err := domain.SlotsFor(c.draft.Dates, fieldByDate)
	if err != nil {
		return domain.BookingDraft{}, err
	}

	handle, err := c.svc.UpdateDraftSlots(ctx, c.draft.ID, slots)
	if err != nil {
		c.log.Warn("update draft slots failed", zap.String("draft_id", c.draft.ID), zap.Error(err))
		return domain.BookingDraft{}, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	c.draft = c.draft.FieldsAssigned(fieldByDate, handle)
	if !c.countdown.Running() {
		c.countdown.Start()
	}
	return c.draft.Clone(), nil
}

// AttachServices submits the add-on services. An empty list on a draft that
// has no services yet is a no-op that skips the reservation service.
func (c *DraftController) AttachServices(ctx context.Context, services []domain.ServiceSelection) (domain.BookingDraft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(domain.PhaseFieldsSet, domain.PhaseServicesSet); err != nil {
		return domain.BookingDraft{}, err
	}
	for _, s := range services {
		if s.Quantity <= 0 {
			return domain.BookingDraft{}, fmt.Errorf("%w: %d for service %s", domain.ErrInvalidQuantity, s.Quantity, s.ServiceID)
		}
	}

	if len(services) == 0 && len(c.draft.Services) == 0 {
		c.draft = c.draft.ServicesAttached(nil, "")
		return c.draft.Clone(), nil
	}

	handle, err := c.svc.UpdateDraftServices(ctx, c.draft.ID, services)
	if err != nil {
		c.log.Warn("update draft services failed", zap.String("draft_id", c.draft.ID), zap.Error(err))
		return domain.BookingDraft{}, fmt.Errorf("%w: %w", domain.ErrUpdateFailed, err)
	}

	c.draft = c.draft.ServicesAttached(services, handle)
	return c.draft.Clone(), nil
}

// InitiatePayment hands the draft over to payment and returns the redirect URL.
func (c *DraftController) InitiatePayment(ctx context.Context, method domain.PaymentMethod, voucherID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requirePhase(domain.PhaseFieldsSet, domain.PhaseServicesSet); err != nil {
		return "", err
	}
	if !method.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMethod, method)
	}

	url, err := c.svc.InitiatePayment(ctx, ports.PaymentRequest{
		PaymentHandle: c.draft.PaymentHandle,
		Method:        method,
		VoucherID:     voucherID,
	})
	if err != nil {
		c.log.Warn("initiate payment failed", zap.String("draft_id", c.draft.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %w", domain.ErrPaymentFailed, err)
	}

	c.draft = c.draft.PaymentInitiated()
	c.log.Info("payment initiated", zap.String("draft_id", c.draft.ID), zap.String("method", string(method)))
	return url, nil
}

// Cancel deletes the draft and resets the controller to EMPTY. The reset
// happens even when deletion fails; the returned ErrDeleteFailed is a
// warning only.
func (c *DraftController) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = nil
	return c.discard(ctx)
}

// Back returns from field or service selection to the date and time step.
// Dates and time cannot change under an existing draft, so the draft is
// deleted and its dates and time are kept as pending input.
func (c *DraftController) Back(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.draft.Phase {
	case domain.PhaseEmpty:
		return nil
	case domain.PhasePaymentPending:
		return fmt.Errorf("%w: payment already initiated", domain.ErrInvalidPhase)
	}

	c.pending = &DraftInput{
		SportID:   c.draft.SportID,
		TimeRange: c.draft.TimeRange,
		Dates:     append(domain.DateSeries(nil), c.draft.Dates...),
	}
	return c.discard(ctx)
}

func (c *DraftController) discard(ctx context.Context) error {
	if !c.draft.Phase.HoldsDraft() {
		c.reset()
		return nil
	}

	id := c.draft.ID
	c.reset()
	if err := c.svc.DeleteDraft(ctx, id); err != nil {
		c.log.Warn("delete draft failed", zap.String("draft_id", id), zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrDeleteFailed, err)
	}
	c.log.Info("draft deleted", zap.String("draft_id", id))
	return nil
}

// Close is called when the owning session ends. A draft that was not handed
// to payment is deleted in the background; the next Create waits for it.
// The returned channel is closed when that deletion finishes, and is nil
// when there was nothing to delete.
func (c *DraftController) Close() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = nil
	if !c.draft.Phase.Abandonable() {
		c.reset()
		return nil
	}

	id := c.draft.ID
	c.reset()

	done := make(chan struct{})
	c.deleting = done
	go func() {
		defer close(done)
		if err := c.svc.DeleteDraft(context.Background(), id); err != nil {
			c.log.Warn("abandoned draft cleanup failed", zap.String("draft_id", id), zap.Error(err))
			return
		}
		c.log.Info("abandoned draft deleted", zap.String("draft_id", id))
	}()
	return done
}

// inheritDeletion makes the next Create wait for a deletion started by an
// earlier controller of the same session.
func (c *DraftController) inheritDeletion(done <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleting = done
}

// Wait blocks until a deletion started by Close has finished.
func (c *DraftController) Wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaitDeletion(ctx)
}

func (c *DraftController) awaitDeletion(ctx context.Context) error {
	if c.deleting == nil {
		return nil
	}
	select {
	case <-c.deleting:
		c.deleting = nil
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *DraftController) reset() {
	c.draft = domain.EmptyDraft()
	c.countdown.Stop()
}

func (c *DraftController) requirePhase(allowed ...domain.Phase) error {
	if !c.draft.Phase.HoldsDraft() {
		return domain.ErrNoDraft
	}
	for _, p := range allowed {
		if c.draft.Phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: draft %s is %s", domain.ErrInvalidPhase, c.draft.ID, c.draft.Phase)
}

// Snapshot returns a copy of the current draft.
func (c *DraftController) Snapshot() domain.BookingDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Pending returns the input retained after a failed creation or a backward
// navigation, or nil.
func (c *DraftController) Pending() *DraftInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	in := c.pending.clone()
	return &in
}

// Countdown returns the advisory time left and whether it is running.
func (c *DraftController) Countdown() (time.Duration, bool) {
	return c.countdown.Remaining(), c.countdown.Running()
}

// State exports the controller for persistence.
func (c *DraftController) State(sessionID string) ports.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := ports.SessionSnapshot{
		SessionID:      sessionID,
		Draft:          c.draft.Clone(),
		CountdownStart: c.countdown.StartedAt(),
		UpdatedAt:      c.clock.Now(),
	}
	if c.pending != nil {
		in := c.pending.clone()
		snap.Pending = &ports.PendingInput{
			SportID:     in.SportID,
			TimeRange:   in.TimeRange,
			Dates:       in.Dates,
			FieldByDate: in.FieldByDate,
		}
	}
	return snap
}

// Restore loads a persisted snapshot into an idle controller.
func (c *DraftController) Restore(snap ports.SessionSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = snap.Draft.Clone()
	if c.draft.Phase == "" {
		c.draft.Phase = domain.PhaseEmpty
	}
	if snap.CountdownStart != nil {
		c.countdown.StartAt(*snap.CountdownStart)
	} else {
		c.countdown.Stop()
	}
	c.pending = nil
	if snap.Pending != nil {
		in := DraftInput{
			SportID:     snap.Pending.SportID,
			TimeRange:   snap.Pending.TimeRange,
			Dates:       snap.Pending.Dates,
			FieldByDate: snap.Pending.FieldByDate,
		}.clone()
		c.pending = &in
	}
}
