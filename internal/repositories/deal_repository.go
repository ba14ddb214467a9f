package repositories

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/utils"
)

/*
DealRepository owns the deal/property consistency rule at the storage
boundary. Every mutating operation runs in one transaction that

 1. locks the affected property row(s) with SELECT ... FOR UPDATE,
 2. rejects a COMPLETED write when another COMPLETED deal already
    references the target property (utils.ErrPropertyUnavailable),
 3. writes the deal,
 4. recomputes is_available from the authoritative NOT EXISTS
    predicate - never by toggling the flag incrementally.

The row lock makes the check-then-set race-free across server
instances; an in-process mutex would not be.
*/
type DealRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	ListAll(ctx context.Context) ([]*models.Deal, error)
	ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Deal, error)

	AnyCompletedForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error)
	CountByClientID(ctx context.Context, clientID uuid.UUID) (int, error)
	CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error)

	CreateAtomic(ctx context.Context, d *models.Deal) error
	UpdateAtomic(ctx context.Context, d *models.Deal, oldPropertyID uuid.UUID) error
	DeleteAtomic(ctx context.Context, id uuid.UUID) error
}

type dealRepo struct {
	*BaseVersionedRepo[*models.Deal]
	db DB
}

func NewDealRepository(db DB) DealRepository {
	r := &dealRepo{db: db}
	selectStmt := baseSelectDeal() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanDeal)
	return r
}

func (r *dealRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *dealRepo) ListAll(ctx context.Context) ([]*models.Deal, error) {
	return r.list(ctx, baseSelectDeal()+" ORDER BY created_at")
}

func (r *dealRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Deal, error) {
	return r.list(ctx, baseSelectDeal()+" WHERE agent_id=$1 ORDER BY created_at", agentID)
}

func (r *dealRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Deal, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *dealRepo) AnyCompletedForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	return anyCompleted(ctx, r.db, propertyID, uuid.Nil)
}

func (r *dealRepo) CountByClientID(ctx context.Context, clientID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deals WHERE client_id=$1`, clientID).Scan(&n)
	return n, err
}

func (r *dealRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deals WHERE property_id=$1`, propertyID).Scan(&n)
	return n, err
}

func (r *dealRepo) CreateAtomic(ctx context.Context, d *models.Deal) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	if err = lockProperty(ctx, tx, d.PropertyID); err != nil {
		return err
	}

	if d.Status == models.DealStatusCompleted {
		taken, chkErr := anyCompleted(ctx, tx, d.PropertyID, uuid.Nil)
		if chkErr != nil {
			return chkErr
		}
		if taken {
			return utils.ErrPropertyUnavailable
		}
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO deals (
            id, property_id, client_id, agent_id,
            deal_amount, deal_date, status,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW(), NOW(), 1)
    `,
		d.ID, d.PropertyID, d.ClientID, d.AgentID,
		d.DealAmount, d.DealDate, d.Status,
	)
	if err != nil {
		return err
	}

	return recomputeAvailability(ctx, tx, d.PropertyID)
}

func (r *dealRepo) UpdateAtomic(ctx context.Context, d *models.Deal, oldPropertyID uuid.UUID) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	// Sorted lock order so two reassignments crossing the same pair of
	// properties cannot deadlock.
	for _, pid := range sortedPropertyIDs(oldPropertyID, d.PropertyID) {
		if err = lockProperty(ctx, tx, pid); err != nil {
			return err
		}
	}

	if d.Status == models.DealStatusCompleted {
		taken, chkErr := anyCompleted(ctx, tx, d.PropertyID, d.ID)
		if chkErr != nil {
			return chkErr
		}
		if taken {
			return utils.ErrPropertyUnavailable
		}
	}

	tag, err := tx.Exec(ctx, `
        UPDATE deals SET
            property_id=$1, client_id=$2, agent_id=$3,
            deal_amount=$4, deal_date=$5, status=$6,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$7
    `,
		d.PropertyID, d.ClientID, d.AgentID,
		d.DealAmount, d.DealDate, d.Status,
		d.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}

	if err = recomputeAvailability(ctx, tx, oldPropertyID); err != nil {
		return err
	}
	if d.PropertyID != oldPropertyID {
		err = recomputeAvailability(ctx, tx, d.PropertyID)
	}
	return err
}

func (r *dealRepo) DeleteAtomic(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var propertyID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT property_id FROM deals WHERE id=$1`, id).Scan(&propertyID)
	if err != nil {
		return err
	}

	if err = lockProperty(ctx, tx, propertyID); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM deals WHERE id=$1`, id); err != nil {
		return err
	}

	return recomputeAvailability(ctx, tx, propertyID)
}

/* ------------------------------------------------------------------
   Transaction helpers
------------------------------------------------------------------ */

func lockProperty(ctx context.Context, db DB, id uuid.UUID) error {
	var locked uuid.UUID
	return db.QueryRow(ctx, `SELECT id FROM properties WHERE id=$1 FOR UPDATE`, id).Scan(&locked)
}

// anyCompleted is the authoritative predicate behind is_available.
// excludeDealID carves the deal being rewritten out of its own check.
func anyCompleted(ctx context.Context, db DB, propertyID, excludeDealID uuid.UUID) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM deals
            WHERE property_id=$1 AND status=$2 AND id<>$3
        )
    `, propertyID, models.DealStatusCompleted, excludeDealID).Scan(&exists)
	return exists, err
}

func recomputeAvailability(ctx context.Context, db DB, propertyID uuid.UUID) error {
	_, err := db.Exec(ctx, `
        UPDATE properties SET
            is_available = NOT EXISTS (
                SELECT 1 FROM deals d
                WHERE d.property_id = properties.id AND d.status = $2
            ),
            updated_at = NOW()
        WHERE id=$1
    `, propertyID, models.DealStatusCompleted)
	return err
}

func sortedPropertyIDs(a, b uuid.UUID) []uuid.UUID {
	if a == b {
		return []uuid.UUID{a}
	}
	ids := []uuid.UUID{a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func baseSelectDeal() string {
	return `
        SELECT
            id, property_id, client_id, agent_id,
            deal_amount, deal_date, status,
            created_at, updated_at, row_version
        FROM deals
    `
}

func scanDeal(row pgx.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(
		&d.ID,
		&d.PropertyID,
		&d.ClientID,
		&d.AgentID,
		&d.DealAmount,
		&d.DealDate,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
