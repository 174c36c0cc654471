package repository

import (
	"context"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	DefaultSessionTypeSlug  = "mentoring-15"
	DefaultSessionTypeTitle = "15 Minute Mentoring Session"

	// the no-op update makes RETURNING yield the existing row on conflict
	ensureSessionTypeSQL = `
		INSERT INTO session_types (mentor_id, slug, title, length_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (mentor_id, slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, mentor_id, slug, length_minutes`
)

type SessionTypeRepository struct {
	db db.DBTX
}

func NewSessionTypeRepository(db db.DBTX) *SessionTypeRepository {
	return &SessionTypeRepository{db: db}
}

func (r *SessionTypeRepository) EnsureDefault(ctx context.Context, mentorID uuid.UUID) (*shared.SessionTypeSnapshot, error) {
	var st shared.SessionTypeSnapshot
	err := r.db.QueryRow(ctx, ensureSessionTypeSQL,
		mentorID,
		DefaultSessionTypeSlug,
		DefaultSessionTypeTitle,
		int(booking.SessionDuration.Minutes()),
	).Scan(&st.ID, &st.MentorID, &st.Slug, &st.LengthMinutes)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to ensure session type", err)
	}
	return &st, nil
}
