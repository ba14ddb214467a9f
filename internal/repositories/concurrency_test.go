package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/Al-Min-Alina/AgenciesSolution-sub000/internal/models"
)

type versionedRow struct {
	models.Versioned
	ID    string
	Value string
}

func (r *versionedRow) GetID() string { return r.ID }

func TestWithRetry_FirstAttemptWins(t *testing.T) {
	row := &versionedRow{ID: "a", Value: "old"}
	row.RowVersion = 3

	var sawExpected int64
	err := WithRetry[*versionedRow](
		context.Background(), 3, "a",
		func(ctx context.Context, id string) (*versionedRow, error) {
			cp := *row
			return &cp, nil
		},
		func(ctx context.Context, e *versionedRow, expected int64) (pgconn.CommandTag, error) {
			sawExpected = expected
			row.Value = e.Value
			row.RowVersion = expected + 1
			return pgconn.CommandTag("UPDATE 1"), nil
		},
		func(e *versionedRow) error {
			e.Value = "new"
			return nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, int64(3), sawExpected, "expects the version read before mutating")
	require.Equal(t, "new", row.Value)
	require.Equal(t, int64(4), row.RowVersion)
}

func TestWithRetry_RetriesOnVersionMiss(t *testing.T) {
	row := &versionedRow{ID: "a", Value: "old"}
	row.RowVersion = 1

	attempts := 0
	err := WithRetry[*versionedRow](
		context.Background(), 3, "a",
		func(ctx context.Context, id string) (*versionedRow, error) {
			cp := *row
			return &cp, nil
		},
		func(ctx context.Context, e *versionedRow, expected int64) (pgconn.CommandTag, error) {
			attempts++
			if attempts == 1 {
				// concurrent writer got there first
				row.RowVersion++
				return pgconn.CommandTag("UPDATE 0"), nil
			}
			row.Value = e.Value
			row.RowVersion = expected + 1
			return pgconn.CommandTag("UPDATE 1"), nil
		},
		func(e *versionedRow) error {
			e.Value = "new"
			return nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.Equal(t, "new", row.Value)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	row := &versionedRow{ID: "a"}
	row.RowVersion = 1

	attempts := 0
	err := WithRetry[*versionedRow](
		context.Background(), 3, "a",
		func(ctx context.Context, id string) (*versionedRow, error) {
			cp := *row
			return &cp, nil
		},
		func(ctx context.Context, e *versionedRow, expected int64) (pgconn.CommandTag, error) {
			attempts++
			return pgconn.CommandTag("UPDATE 0"), nil
		},
		func(e *versionedRow) error { return nil },
	)
	require.Error(t, err)
	require.Equal(t, 3, attempts)
}

func TestWithRetry_MissingRow(t *testing.T) {
	err := WithRetry[*versionedRow](
		context.Background(), 3, "ghost",
		func(ctx context.Context, id string) (*versionedRow, error) {
			return nil, nil
		},
		func(ctx context.Context, e *versionedRow, expected int64) (pgconn.CommandTag, error) {
			t.Fatal("update must not run for a missing row")
			return pgconn.CommandTag(nil), nil
		},
		func(e *versionedRow) error { return nil },
	)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
