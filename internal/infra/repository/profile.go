package repository

import (
	"context"

	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const selectProfileSQL = `
	SELECT id, owner_id, display_name, is_active
	FROM mentor_profiles
	WHERE id = $1`

type ProfileRepository struct {
	db db.DBTX
}

func NewProfileRepository(db db.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*mentor.Profile, error) {
	var (
		profileID, ownerID uuid.UUID
		displayName        string
		isActive           bool
	)
	err := r.db.QueryRow(ctx, selectProfileSQL, id).Scan(&profileID, &ownerID, &displayName, &isActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mentor profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get mentor profile", err)
	}
	return mentor.ReconstructProfile(profileID, ownerID, displayName, isActive), nil
}
