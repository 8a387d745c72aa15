package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

// Server-side draft statuses.
const (
	draftOpen           = "DRAFT"
	draftPaymentPending = "PAYMENT_PENDING"
	draftPaid           = "PAID"
	draftExpired        = "EXPIRED"
)

var (
	ErrFieldUnavailable = errors.New("field is not available")
	ErrDraftClosed      = errors.New("draft can no longer be changed")
)

type DraftOptions struct {
	TTL            time.Duration
	PaymentBaseURL string
}

// DraftRepository keeps draft reservations and their slots. Field rows are
// locked while slots are written so two drafts never hold the same field
// for overlapping windows on the same date.
type DraftRepository struct {
	db      *sql.DB
	opts    DraftOptions
	pricing *services.PricingCalculator
}

func NewDraftRepository(db *sql.DB, opts DraftOptions) *DraftRepository {
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	return &DraftRepository{db: db, opts: opts, pricing: services.NewPricingCalculator()}
}

func (r *DraftRepository) CreateDraft(ctx context.Context, req ports.CreateDraftRequest) (ports.DraftHandle, error) {
	draftID := uuid.New()
	handle := uuid.New()
	now := time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.DraftHandle{}, err
	}

	defer tx.Rollback()

	queryHeader := `
	INSERT INTO drafts (id, sport_id, start_time, end_time, status, payment_handle, created_at, expires_at)
	VALUES ($1, $2, $3::time, $4::time, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(ctx, queryHeader, draftID, req.SportID, req.TimeRange.Start.String(), req.TimeRange.End.String(),
		draftOpen, handle, now, now.Add(r.opts.TTL))
	if err != nil {
		return ports.DraftHandle{}, fmt.Errorf("failed to insert draft header: %w", err)
	}

	if err := insertSlots(ctx, tx, draftID.String(), req.TimeRange, req.Slots); err != nil {
		return ports.DraftHandle{}, err
	}

	if err = tx.Commit(); err != nil {
		return ports.DraftHandle{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ports.DraftHandle{ID: draftID.String(), PaymentHandle: handle.String()}, nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, draftID string, window domain.TimeRange, slots []domain.FieldSlot) error {
	if len(slots) == 0 {
		return nil
	}

	lockStmt, err := tx.PrepareContext(ctx, `SELECT status FROM fields WHERE id = $1 FOR UPDATE`)
	if err != nil {
		return fmt.Errorf("failed to prepare field lock: %w", err)
	}
	defer lockStmt.Close()

	conflictStmt, err := tx.PrepareContext(ctx, `
	SELECT EXISTS (
		SELECT 1
		FROM draft_slots ds
		JOIN drafts d ON d.id = ds.draft_id
		WHERE ds.field_id = $1 AND ds.date = $2::date AND ds.draft_id <> $3
			AND ds.start_time < $5::time AND ds.end_time > $4::time
			AND (d.status = 'PAID' OR (d.status IN ('DRAFT', 'PAYMENT_PENDING') AND d.expires_at > NOW()))
	)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare conflict check: %w", err)
	}
	defer conflictStmt.Close()

	insertStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO draft_slots (draft_id, date, field_id, start_time, end_time)
	VALUES ($1, $2::date, $3, $4::time, $5::time)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare slot statement: %w", err)
	}
	defer insertStmt.Close()

	start, end := window.Start.String(), window.End.String()
	for _, slot := range slots {
		day := slot.Date.String()

		var status string
		err := lockStmt.QueryRowContext(ctx, slot.FieldID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: field %s does not exist", ErrFieldUnavailable, slot.FieldID)
		}
		if err != nil {
			return err
		}
		if domain.FieldStatus(status) != domain.FieldAvailable {
			return fmt.Errorf("%w: field %s is %s", ErrFieldUnavailable, slot.FieldID, status)
		}

		var taken bool
		if err := conflictStmt.QueryRowContext(ctx, slot.FieldID, day, draftID, start, end).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: field %s on %s", ErrFieldUnavailable, slot.FieldID, day)
		}

		if _, err := insertStmt.ExecContext(ctx, draftID, day, slot.FieldID, start, end); err != nil {
			return fmt.Errorf("failed to insert slot %s on %s: %w", slot.FieldID, day, err)
		}
	}
	return nil
}

type lockedDraft struct {
	id        string
	window    domain.TimeRange
	status    string
	expiresAt time.Time
}

func (d lockedDraft) editable() error {
	if d.status != draftOpen || !d.expiresAt.After(time.Now()) {
		return fmt.Errorf("%w: draft %s is %s", ErrDraftClosed, d.id, d.status)
	}
	return nil
}

func lockDraft(ctx context.Context, tx *sql.Tx, column, value string) (lockedDraft, error) {
	query := `
	SELECT id, start_time, end_time, status, expires_at
	FROM drafts
	WHERE ` + column + ` = $1
	FOR UPDATE
	`

	var d lockedDraft
	var start, end string
	err := tx.QueryRowContext(ctx, query, value).Scan(&d.id, &start, &end, &d.status, &d.expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return lockedDraft{}, fmt.Errorf("draft %s: %w", value, domain.ErrNotFound)
	}
	if err != nil {
		return lockedDraft{}, err
	}
	if d.window.Start, err = domain.ParseTimeOfDay(start); err != nil {
		return lockedDraft{}, err
	}
	if d.window.End, err = domain.ParseTimeOfDay(end); err != nil {
		return lockedDraft{}, err
	}
	return d, nil
}

// UpdateDraftSlots replaces every slot of the draft and issues a new payment
// handle.
func (r *DraftRepository) UpdateDraftSlots(ctx context.Context, draftID string, slots []domain.FieldSlot) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	d, err := lockDraft(ctx, tx, "id", draftID)
	if err != nil {
		return "", err
	}
	if err := d.editable(); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_slots WHERE draft_id = $1`, draftID); err != nil {
		return "", err
	}
	if err := insertSlots(ctx, tx, draftID, d.window, slots); err != nil {
		return "", err
	}

	handle, err := reissueHandle(ctx, tx, draftID)
	if err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return handle, nil
}

func (r *DraftRepository) UpdateDraftServices(ctx context.Context, draftID string, selected []domain.ServiceSelection) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	d, err := lockDraft(ctx, tx, "id", draftID)
	if err != nil {
		return "", err
	}
	if err := d.editable(); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_services WHERE draft_id = $1`, draftID); err != nil {
		return "", err
	}

	if len(selected) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO draft_services (draft_id, service_id, quantity) VALUES ($1, $2, $3)`)
		if err != nil {
			return "", fmt.Errorf("failed to prepare service statement: %w", err)
		}
		defer stmt.Close()

		for _, s := range selected {
			if _, err := stmt.ExecContext(ctx, draftID, s.ServiceID, s.Quantity); err != nil {
				return "", fmt.Errorf("failed to insert service %s: %w", s.ServiceID, err)
			}
		}
	}

	handle, err := reissueHandle(ctx, tx, draftID)
	if err != nil {
		return "", err
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return handle, nil
}

func reissueHandle(ctx context.Context, tx *sql.Tx, draftID string) (string, error) {
	handle := uuid.New()
	if _, err := tx.ExecContext(ctx, `UPDATE drafts SET payment_handle = $1 WHERE id = $2`, handle, draftID); err != nil {
		return "", fmt.Errorf("failed to reissue payment handle: %w", err)
	}
	return handle.String(), nil
}

// DeleteDraft removes an unpaid draft together with its slots and services.
// A voucher use consumed by a pending payment is returned.
func (r *DraftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	UPDATE vouchers SET remain = remain + 1
	WHERE id = (SELECT voucher_id FROM drafts WHERE id = $1 AND status = 'PAYMENT_PENDING')
	`, draftID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1 AND status <> 'PAID'`, draftID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
	}
	return tx.Commit()
}

// InitiatePayment prices the draft behind the handle, consumes the voucher
// and returns the payment page URL. A handle replaced by a later update is
// unknown.
func (r *DraftRepository) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	d, err := lockDraft(ctx, tx, "payment_handle", req.PaymentHandle)
	if err != nil {
		return "", err
	}
	if err := d.editable(); err != nil {
		return "", err
	}

	amount, err := r.quote(ctx, tx, d, req.VoucherID)
	if err != nil {
		return "", err
	}

	if req.VoucherID != "" {
		result, err := tx.ExecContext(ctx, `UPDATE vouchers SET remain = remain - 1 WHERE id = $1 AND remain > 0`, req.VoucherID)
		if err != nil {
			return "", err
		}
		if n, err := result.RowsAffected(); err != nil {
			return "", err
		} else if n == 0 {
			return "", fmt.Errorf("%w: voucher %s is used up", domain.ErrVoucherNotApplicable, req.VoucherID)
		}
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE drafts
	SET status = $2, payment_method = $3, voucher_id = NULLIF($4, '')::uuid, amount = $5
	WHERE id = $1
	`, d.id, draftPaymentPending, string(req.Method), req.VoucherID, amount)
	if err != nil {
		return "", fmt.Errorf("failed to mark draft pending payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.paymentURL(req.PaymentHandle, req.Method, amount)
}

// quote recomputes the amount the customer pays for the draft.
func (r *DraftRepository) quote(ctx context.Context, tx *sql.Tx, d lockedDraft, voucherID string) (float64, error) {
	type groupSlots struct {
		offer domain.FieldGroupOffer
		dates int
	}

	rows, err := tx.QueryContext(ctx, `
	SELECT fg.id, fg.base_price_per_hour, COUNT(*)
	FROM draft_slots ds
	JOIN fields f ON f.id = ds.field_id
	JOIN field_groups fg ON fg.id = f.field_group_id
	WHERE ds.draft_id = $1
	GROUP BY fg.id, fg.base_price_per_hour
	`, d.id)
	if err != nil {
		return 0, err
	}
	var groups []groupSlots
	for rows.Next() {
		var g groupSlots
		if err := rows.Scan(&g.offer.ID, &g.offer.BasePricePerHour, &g.dates); err != nil {
			rows.Close()
			return 0, err
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(groups) == 0 {
		return 0, fmt.Errorf("%w: draft %s has no fields", domain.ErrIncompleteSlots, d.id)
	}

	fieldTotal := 0.0
	for _, g := range groups {
		if g.offer.PeakWindows, err = peakWindows(ctx, tx, g.offer.ID); err != nil {
			return 0, err
		}
		fieldTotal += r.pricing.ComputeFieldCost(g.offer, d.window, g.dates).FieldTotalAcrossDates
	}

	rows, err = tx.QueryContext(ctx, `
	SELECT s.id, s.name, s.price, ds.quantity
	FROM draft_services ds
	JOIN services s ON s.id = ds.service_id
	WHERE ds.draft_id = $1
	`, d.id)
	if err != nil {
		return 0, err
	}
	var catalog []domain.ServiceCatalogEntry
	var selected []domain.ServiceSelection
	for rows.Next() {
		var e domain.ServiceCatalogEntry
		var qty int
		if err := rows.Scan(&e.ID, &e.Name, &e.Price, &qty); err != nil {
			rows.Close()
			return 0, err
		}
		catalog = append(catalog, e)
		selected = append(selected, domain.ServiceSelection{ServiceID: e.ID, Quantity: qty})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	serviceTotal, err := r.pricing.ComputeServiceCost(selected, catalog)
	if err != nil {
		return 0, err
	}

	var voucher *domain.Voucher
	if voucherID != "" {
		var v domain.Voucher
		err := tx.QueryRowContext(ctx, `
		SELECT id, code, type, discount, max_discount, min_price
		FROM vouchers
		WHERE id = $1 AND start_date <= CURRENT_DATE AND end_date >= CURRENT_DATE
		`, voucherID).Scan(&v.ID, &v.Code, &v.Type, &v.Discount, &v.MaxDiscount, &v.MinPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: voucher %s is not valid today", domain.ErrVoucherNotApplicable, voucherID)
		}
		if err != nil {
			return 0, err
		}
		voucher = &v
	}

	breakdown, err := r.pricing.ComputeGrandTotal(fieldTotal, serviceTotal, voucher, 0)
	if err != nil {
		return 0, err
	}
	return breakdown.GrandTotal, nil
}

func (r *DraftRepository) paymentURL(handle string, method domain.PaymentMethod, amount float64) (string, error) {
	u, err := url.Parse(r.opts.PaymentBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid payment base url: %w", err)
	}
	u = u.JoinPath(handle)
	q := u.Query()
	q.Set("method", string(method))
	q.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// GetExpiredDrafts returns up to 100 unpaid drafts past their deadline.
func (r *DraftRepository) GetExpiredDrafts(ctx context.Context) ([]string, error) {
	query := `
	SELECT id FROM drafts
	WHERE status IN ('DRAFT', 'PAYMENT_PENDING') AND expires_at < NOW()
	LIMIT 100
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ExpireDraft marks the draft expired, returns a consumed voucher use and
// releases its fields.
func (r *DraftRepository) ExpireDraft(ctx context.Context, draftID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	UPDATE vouchers SET remain = remain + 1
	WHERE id = (SELECT voucher_id FROM drafts WHERE id = $1 AND status = 'PAYMENT_PENDING')
	`, draftID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `UPDATE drafts SET status = $2 WHERE id = $1 AND status IN ('DRAFT', 'PAYMENT_PENDING')`, draftID, draftExpired)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM draft_slots WHERE draft_id = $1`, draftID); err != nil {
		return err
	}

	return tx.Commit()
}
