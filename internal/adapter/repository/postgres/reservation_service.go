package postgres

import "database/sql"

// ReservationService is the reservation service backed by the local
// database, used when no remote service is configured.
type ReservationService struct {
	*CatalogRepository
	*DraftRepository
}

func NewReservationService(db *sql.DB, opts DraftOptions) *ReservationService {
	return &ReservationService{
		CatalogRepository: NewCatalogRepository(db),
		DraftRepository:   NewDraftRepository(db, opts),
	}
}
