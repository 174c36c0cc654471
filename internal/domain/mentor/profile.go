package mentor

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	displayName string
	isActive    bool
}

func ReconstructProfile(id, ownerID uuid.UUID, displayName string, isActive bool) *Profile {
	return &Profile{id: id, ownerID: ownerID, displayName: displayName, isActive: isActive}
}

func (p *Profile) ID() uuid.UUID       { return p.id }
func (p *Profile) OwnerID() uuid.UUID  { return p.ownerID }
func (p *Profile) DisplayName() string { return p.displayName }
func (p *Profile) IsActive() bool      { return p.isActive }

// Stats is the aggregate owned by a profile. AverageRating stays nil until the first rating.
type Stats struct {
	ProfileID          uuid.UUID  `json:"profileId"`
	TotalSessions      int        `json:"totalSessions"`
	CompletedSessions  int        `json:"completedSessions"`
	CancelledSessions  int        `json:"cancelledSessions"`
	AverageRating      *float64   `json:"averageRating"`
	RatingCount        int        `json:"ratingCount"`
	LowRatingFlaggedAt *time.Time `json:"lowRatingFlaggedAt,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
