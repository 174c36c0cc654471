//go:build unit

package pgconv_test

import (
	"database/sql"
	"fmt"
	"math/big"
	"testing"
	"time"

	"mentor-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64PtrFromNumeric(t *testing.T) {
	t.Run("null stays nil", func(t *testing.T) {
		v, err := pgconv.Float64PtrFromNumeric(pgtype.Numeric{})
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("numeric(2,1) value", func(t *testing.T) {
		v, err := pgconv.Float64PtrFromNumeric(pgtype.Numeric{Int: big.NewInt(45), Exp: -1, Valid: true})
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.InDelta(t, 4.5, *v, 1e-9)
	})
}

func TestPointerRoundTrips(t *testing.T) {
	reason := "conflict"
	assert.Equal(t, &reason, pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(&reason)))
	assert.Nil(t, pgconv.StringPtrFromPgtype(pgconv.StringPtrToPgtype(nil)))

	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	got := pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&at))
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(nil)))

	assert.False(t, pgconv.UUIDPtrToPgtype(nil).Valid)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(fmt.Errorf("find: %w", sql.ErrNoRows)))
	assert.False(t, pgconv.IsNoRows(&pgconn.PgError{Code: pgconv.CodeUniqueViolation}))
}

func TestPgErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgconv.CodeExclusionViolation})
	assert.Equal(t, pgconv.CodeExclusionViolation, pgconv.PgErrorCode(wrapped))
	assert.Empty(t, pgconv.PgErrorCode(sql.ErrConnDone))
}
