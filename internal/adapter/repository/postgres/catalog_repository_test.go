package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuananh0303/DATN-sub000/internal/adapter/repository/postgres"
	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

func newCatalogRepo(t *testing.T) (*postgres.CatalogRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewCatalogRepository(db), mock
}

func TestListAvailableFieldGroups(t *testing.T) {
	repo, mock := newCatalogRepo(t)
	d1, d2 := mustDate(t, "2024-01-10"), mustDate(t, "2024-01-17")

	mock.ExpectQuery("FROM field_groups").WithArgs("fac-1", "football").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "base_price_per_hour"}).AddRow("fg-1", "Five-a-side", 100000.0))
	mock.ExpectQuery("FROM peak_windows").WithArgs("fg-1").WillReturnRows(
		sqlmock.NewRows([]string{"start_time", "end_time", "surcharge_per_hour"}).AddRow("19:00:00", "21:00:00", 50000.0))
	mock.ExpectQuery("FROM fields WHERE field_group_id").WithArgs("fg-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "status"}).
			AddRow("f-1", "Field 1", "AVAILABLE").
			AddRow("f-2", "Field 2", "AVAILABLE").
			AddRow("f-3", "Field 3", "MAINTENANCE"))
	mock.ExpectQuery("FROM draft_slots ds").WithArgs("fg-1", sqlmock.AnyArg(), "18:00", "20:00").WillReturnRows(
		sqlmock.NewRows([]string{"field_id", "date", "status"}).
			AddRow("f-2", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "DRAFT"))

	offers, err := repo.ListAvailableFieldGroups(context.Background(), ports.FieldGroupQuery{
		FacilityID: "fac-1",
		SportID:    "football",
		Dates:      []domain.Date{d1, d2},
		Start:      domain.MustTimeOfDay("18:00"),
		End:        domain.MustTimeOfDay("20:00"),
	})

	require.NoError(t, err)
	require.Len(t, offers, 1)
	offer := offers[0]
	assert.Equal(t, 100000.0, offer.BasePricePerHour)
	assert.Equal(t, []domain.PeakWindow{{Start: domain.MustTimeOfDay("19:00"), End: domain.MustTimeOfDay("21:00"), SurchargePerHour: 50000}}, offer.PeakWindows)

	assert.Equal(t, domain.FieldHeld, offer.PerDateAvailability[d1][1].Status)
	assert.Equal(t, domain.FieldAvailable, offer.PerDateAvailability[d2][1].Status)
	assert.Equal(t, domain.FieldMaintenance, offer.PerDateAvailability[d2][2].Status)
	assert.Len(t, offer.AvailableFields(d1), 1)
	assert.Len(t, offer.AvailableFields(d2), 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOperatingHours(t *testing.T) {
	repo, mock := newCatalogRepo(t)

	mock.ExpectQuery("FROM operating_hours").WithArgs("fac-1").WillReturnRows(
		sqlmock.NewRows([]string{"open_time", "close_time"}).
			AddRow("06:00:00", "11:00:00").
			AddRow("14:00:00", "24:00:00"))

	hours, err := repo.GetOperatingHours(context.Background(), "fac-1")

	require.NoError(t, err)
	assert.Equal(t, []domain.Shift{
		{Open: domain.MustTimeOfDay("06:00"), Close: domain.MustTimeOfDay("11:00")},
		{Open: domain.MustTimeOfDay("14:00"), Close: domain.EndOfDay},
	}, hours.Shifts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableServices_ExpiredDraft(t *testing.T) {
	repo, mock := newCatalogRepo(t)

	mock.ExpectQuery("FROM drafts").WithArgs("d-1").WillReturnRows(sqlmock.NewRows([]string{"live"}).AddRow(false))

	_, err := repo.ListAvailableServices(context.Background(), "fac-1", "d-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVouchers(t *testing.T) {
	repo, mock := newCatalogRepo(t)

	mock.ExpectQuery("FROM vouchers").WithArgs("fac-1").WillReturnRows(
		sqlmock.NewRows([]string{"id", "code", "type", "discount", "max_discount", "min_price"}).
			AddRow("v-1", "WEEKEND10", "percent", 10.0, 20000.0, 100000.0))

	vouchers, err := repo.ListVouchers(context.Background(), "fac-1")

	require.NoError(t, err)
	assert.Equal(t, []domain.Voucher{{
		ID: "v-1", Code: "WEEKEND10", Type: domain.VoucherPercent, Discount: 10, MaxDiscount: 20000, MinPrice: 100000,
	}}, vouchers)
	assert.NoError(t, mock.ExpectationsWereMet())
}
