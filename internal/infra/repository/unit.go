package repository

import (
	"context"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/brand"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/pkg/pgconv"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UnitRepository struct {
	db db.DBTX
}

func NewUnitRepository(pool db.DBTX) *UnitRepository {
	return &UnitRepository{db: pool}
}

const unitColumns = `id, brand, name, nightly_rate_cents, monthly_rate_cents, currency, address`

func (r *UnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.UnitSnapshot, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`

	var (
		unitID      pgtype.UUID
		snapshot    commands.UnitSnapshot
		nightlyRate pgtype.Int8
		monthlyRate pgtype.Int8
	)
	err := r.db.QueryRow(ctx, query, pgconv.UUIDToPgtype(id)).Scan(
		&unitID,
		&snapshot.Brand,
		&snapshot.Name,
		&nightlyRate,
		&monthlyRate,
		&snapshot.Currency,
		&snapshot.Address,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find unit", err)
	}

	snapshot.ID = uuid.UUID(unitID.Bytes)
	if nightlyRate.Valid {
		snapshot.NightlyRateCents = &nightlyRate.Int64
	}
	if monthlyRate.Valid {
		snapshot.MonthlyRateCents = &monthlyRate.Int64
	}
	return &snapshot, nil
}

// FindUnitSpec is the read-side projection used by quoting.
func (r *UnitRepository) FindUnitSpec(ctx context.Context, id uuid.UUID) (*booking.UnitSpec, error) {
	snapshot, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.UnitSpec{
		ID:               snapshot.ID,
		Brand:            brand.Brand(snapshot.Brand),
		NightlyRateCents: snapshot.NightlyRateCents,
		MonthlyRateCents: snapshot.MonthlyRateCents,
		Currency:         snapshot.Currency,
	}, nil
}

var (
	_ commands.UnitRepository = (*UnitRepository)(nil)
	_ queries.UnitReadStore   = (*UnitRepository)(nil)
)
