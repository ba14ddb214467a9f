package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	ListAll(ctx context.Context) ([]*models.Client, error)
	ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Client, error)

	UpdateIfVersion(ctx context.Context, c *models.Client, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Client) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepo struct {
	*BaseVersionedRepo[*models.Client]
	db DB
}

func NewClientRepository(db DB) ClientRepository {
	r := &clientRepo{db: db}
	selectStmt := baseSelectClient() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanClient)
	return r
}

func (r *clientRepo) Create(ctx context.Context, c *models.Client) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO clients (
            id, first_name, last_name, phone, email,
            requirements, budget, agent_id,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `,
		c.ID,
		c.FirstName,
		c.LastName,
		c.Phone,
		c.Email,
		c.Requirements,
		c.Budget,
		c.AgentID,
	)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *clientRepo) ListAll(ctx context.Context) ([]*models.Client, error) {
	return r.list(ctx, baseSelectClient()+" ORDER BY created_at")
}

func (r *clientRepo) ListByAgentID(ctx context.Context, agentID uuid.UUID) ([]*models.Client, error) {
	return r.list(ctx, baseSelectClient()+" WHERE agent_id=$1 ORDER BY created_at", agentID)
}

func (r *clientRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Client, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *clientRepo) UpdateIfVersion(ctx context.Context, c *models.Client, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE clients SET
            first_name=$1, last_name=$2, phone=$3, email=$4,
            requirements=$5, budget=$6, agent_id=$7,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$8 AND row_version=$9
    `,
		c.FirstName, c.LastName, c.Phone, c.Email,
		c.Requirements, c.Budget, c.AgentID,
		c.ID, expected,
	)
}

func (r *clientRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Client) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectClient() string {
	return `
        SELECT
            id, first_name, last_name, phone, email,
            requirements, budget, agent_id,
            created_at, updated_at, row_version
        FROM clients
    `
}

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.Email,
		&c.Requirements,
		&c.Budget,
		&c.AgentID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
