package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListAvailableFieldGroups returns the sport's field groups at the facility
// with each field's status on every requested date for the requested window.
// Fields held by a live draft or a paid booking overlapping the window are
// reported HELD or BOOKED.
func (r *CatalogRepository) ListAvailableFieldGroups(ctx context.Context, q ports.FieldGroupQuery) ([]domain.FieldGroupOffer, error) {
	query := `
	SELECT id, name, base_price_per_hour
	FROM field_groups
	WHERE facility_id = $1 AND sport_id = $2
	ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, q.FacilityID, q.SportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.FieldGroupOffer
	for rows.Next() {
		var o domain.FieldGroupOffer
		if err := rows.Scan(&o.ID, &o.Name, &o.BasePricePerHour); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range offers {
		if offers[i].PeakWindows, err = peakWindows(ctx, r.db, offers[i].ID); err != nil {
			return nil, err
		}
		if offers[i].PerDateAvailability, err = r.availability(ctx, offers[i].ID, q); err != nil {
			return nil, err
		}
	}

	return offers, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func peakWindows(ctx context.Context, db queryer, fieldGroupID string) ([]domain.PeakWindow, error) {
	query := `
	SELECT start_time, end_time, surcharge_per_hour
	FROM peak_windows
	WHERE field_group_id = $1
	ORDER BY start_time
	LIMIT 3
	`

	rows, err := db.QueryContext(ctx, query, fieldGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []domain.PeakWindow
	for rows.Next() {
		var start, end string
		var pw domain.PeakWindow
		if err := rows.Scan(&start, &end, &pw.SurchargePerHour); err != nil {
			return nil, err
		}
		if pw.Start, err = domain.ParseTimeOfDay(start); err != nil {
			return nil, err
		}
		if pw.End, err = domain.ParseTimeOfDay(end); err != nil {
			return nil, err
		}
		windows = append(windows, pw)
	}
	return windows, rows.Err()
}

func (r *CatalogRepository) availability(ctx context.Context, fieldGroupID string, q ports.FieldGroupQuery) (map[domain.Date][]domain.FieldAvailability, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, status FROM fields WHERE field_group_id = $1 ORDER BY name`, fieldGroupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []domain.FieldAvailability
	for rows.Next() {
		var f domain.FieldAvailability
		if err := rows.Scan(&f.FieldID, &f.Name, &f.Status); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	busy, err := r.busySlots(ctx, fieldGroupID, q)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Date][]domain.FieldAvailability, len(q.Dates))
	for _, d := range q.Dates {
		day := make([]domain.FieldAvailability, 0, len(fields))
		for _, f := range fields {
			if f.Status == domain.FieldAvailable {
				if status, ok := busy[slotKey{fieldID: f.FieldID, date: d}]; ok {
					f.Status = status
				}
			}
			day = append(day, f)
		}
		out[d] = day
	}
	return out, nil
}

type slotKey struct {
	fieldID string
	date    domain.Date
}

func (r *CatalogRepository) busySlots(ctx context.Context, fieldGroupID string, q ports.FieldGroupQuery) (map[slotKey]domain.FieldStatus, error) {
	query := `
	SELECT ds.field_id, ds.date, d.status
	FROM draft_slots ds
	JOIN drafts d ON d.id = ds.draft_id
	JOIN fields f ON f.id = ds.field_id
	WHERE f.field_group_id = $1
		AND ds.date = ANY($2::date[])
		AND ds.start_time < $4::time AND ds.end_time > $3::time
		AND (d.status = 'PAID' OR (d.status IN ('DRAFT', 'PAYMENT_PENDING') AND d.expires_at > NOW()))
	`

	rows, err := r.db.QueryContext(ctx, query, fieldGroupID, pq.Array(dateStrings(q.Dates)), q.Start.String(), q.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	busy := make(map[slotKey]domain.FieldStatus)
	for rows.Next() {
		var fieldID, status string
		var day time.Time
		if err := rows.Scan(&fieldID, &day, &status); err != nil {
			return nil, err
		}
		key := slotKey{fieldID: fieldID, date: domain.DateIn(day, time.UTC)}
		if status == draftPaid {
			busy[key] = domain.FieldBooked
		} else if _, ok := busy[key]; !ok {
			busy[key] = domain.FieldHeld
		}
	}
	return busy, rows.Err()
}

// ListAvailableServices lists the facility's active services. When a draft
// is given it must still be live.
func (r *CatalogRepository) ListAvailableServices(ctx context.Context, facilityID, draftID string) ([]domain.ServiceCatalogEntry, error) {
	if draftID != "" {
		var live bool
		err := r.db.QueryRowContext(ctx, `
		SELECT expires_at > NOW() AND status = 'DRAFT' FROM drafts WHERE id = $1
		`, draftID).Scan(&live)
		if err == sql.ErrNoRows || (err == nil && !live) {
			return nil, fmt.Errorf("draft %s: %w", draftID, domain.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
	}

	query := `
	SELECT id, name, price, unit
	FROM services
	WHERE facility_id = $1 AND is_active
	ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ServiceCatalogEntry
	for rows.Next() {
		var e domain.ServiceCatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Price, &e.Unit); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *CatalogRepository) GetOperatingHours(ctx context.Context, facilityID string) (domain.OperatingHours, error) {
	query := `
	SELECT open_time, close_time
	FROM operating_hours
	WHERE facility_id = $1
	ORDER BY shift_no
	LIMIT 3
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return domain.OperatingHours{}, err
	}
	defer rows.Close()

	var hours domain.OperatingHours
	for rows.Next() {
		var openAt, closeAt string
		if err := rows.Scan(&openAt, &closeAt); err != nil {
			return domain.OperatingHours{}, err
		}
		var s domain.Shift
		if s.Open, err = domain.ParseTimeOfDay(openAt); err != nil {
			return domain.OperatingHours{}, err
		}
		if s.Close, err = domain.ParseTimeOfDay(closeAt); err != nil {
			return domain.OperatingHours{}, err
		}
		hours.Shifts = append(hours.Shifts, s)
	}
	return hours, rows.Err()
}

// ListVouchers returns vouchers valid today that still have uses left.
func (r *CatalogRepository) ListVouchers(ctx context.Context, facilityID string) ([]domain.Voucher, error) {
	query := `
	SELECT id, code, type, discount, max_discount, min_price
	FROM vouchers
	WHERE facility_id = $1
		AND start_date <= CURRENT_DATE AND end_date >= CURRENT_DATE
		AND remain > 0
	ORDER BY min_price
	`

	rows, err := r.db.QueryContext(ctx, query, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []domain.Voucher
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.Type, &v.Discount, &v.MaxDiscount, &v.MinPrice); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

func dateStrings(dates []domain.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
