//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// inserts an active or inactive mentor profile owned by ownerID
func CreateTestProfile(t *testing.T, db DBLike, ownerID uuid.UUID, displayName string, active bool) uuid.UUID {
	t.Helper()

	profileID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO mentor_profiles (id, owner_id, display_name, is_active) VALUES ($1, $2, $3, $4)",
		profileID, ownerID, displayName, active)
	require.NoError(t, err)

	return profileID
}

// inserts an accepted booking directly, bypassing the notice rule, so tests can work with past sessions
func CreateTestBooking(t *testing.T, db DBLike, profileID, ownerID uuid.UUID, start time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	var sessionTypeID int64
	err := db.QueryRow(ctx, `
		INSERT INTO session_types (mentor_id, slug, title, length_minutes)
		VALUES ($1, 'mentoring-15', '15 minute mentoring', 15)
		ON CONFLICT (mentor_id, slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id`, ownerID).Scan(&sessionTypeID)
	require.NoError(t, err)

	bookingID := uuid.New()
	_, err = db.Exec(ctx, `
		INSERT INTO session_bookings (id, uid, mentor_id, profile_id, session_type_id, start_time, end_time, status, meet_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'accepted', 'abc-defg-hij')`,
		bookingID, uuid.New(), ownerID, profileID, sessionTypeID, start, start.Add(15*time.Minute))
	require.NoError(t, err)

	return bookingID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every application table
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
