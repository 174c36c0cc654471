package readstore

import (
	"context"

	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getProfileSQL = `
		SELECT id, owner_id, display_name, is_active
		FROM mentor_profiles
		WHERE id = $1`

	getStatsSQL = `
		SELECT id, total_sessions, completed_sessions, cancelled_sessions,
		       average_rating, rating_count, low_rating_flagged_at, updated_at
		FROM mentor_profiles
		WHERE id = $1`
)

type MentorReadStore struct {
	db db.DBTX
}

func NewMentorReadStore(db db.DBTX) *MentorReadStore {
	return &MentorReadStore{db: db}
}

func (r *MentorReadStore) FindProfile(ctx context.Context, id uuid.UUID) (*mentor.Profile, error) {
	var (
		profileID, ownerID uuid.UUID
		displayName        string
		isActive           bool
	)
	err := r.db.QueryRow(ctx, getProfileSQL, id).Scan(&profileID, &ownerID, &displayName, &isActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mentor profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get mentor profile", err)
	}
	return mentor.ReconstructProfile(profileID, ownerID, displayName, isActive), nil
}

func (r *MentorReadStore) FindStats(ctx context.Context, profileID uuid.UUID) (*mentor.Stats, error) {
	var (
		s                                 mentor.Stats
		total, completed, cancelled, nrat int32
		avg                               pgtype.Numeric
		flagged                           pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getStatsSQL, profileID).Scan(
		&s.ProfileID, &total, &completed, &cancelled, &avg, &nrat, &flagged, &s.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mentor profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get mentor stats", err)
	}

	average, err := pgconv.Float64PtrFromNumeric(avg)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode average rating", err, infra.KindDBFailure)
	}

	s.TotalSessions = int(total)
	s.CompletedSessions = int(completed)
	s.CancelledSessions = int(cancelled)
	s.AverageRating = average
	s.RatingCount = int(nrat)
	s.LowRatingFlaggedAt = pgconv.TimePtrFromPgtype(flagged)
	return &s, nil
}
