//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingQueries_GetByUID(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	store := memstore.New()
	profile := store.AddProfile(uuid.New(), "Grace Hopper", true)

	slot, err := booking.ReconstructTimeSlot(now.Add(3*time.Hour), now.Add(3*time.Hour+booking.SessionDuration))
	require.NoError(t, err)
	b := booking.Reconstruct(
		uuid.New(), uuid.New(), profile.OwnerID(), profile.ID(), 1, slot, booking.StatusPending, nil,
		"abc-defg-hij", booking.Metadata{
			booking.MetaMeetLink:    "https://meet.google.com/abc-defg-hij",
			booking.MetaStudentName: "Alan Turing",
		}, nil, nil, now, now,
	)
	store.PutBooking(b)
	q := queries.NewBookingQueries(store.Reader())

	t.Run("found", func(t *testing.T) {
		v, err := q.GetByUID(context.Background(), b.UID())
		require.NoError(t, err)
		assert.Equal(t, b.ID(), v.ID)
		assert.Equal(t, "Grace Hopper", v.MentorName)
		assert.Equal(t, "pending", v.Status)
		assert.Equal(t, "https://meet.google.com/abc-defg-hij", v.MeetLink)
		assert.Equal(t, "Alan Turing", v.StudentName)
	})

	t.Run("lookup by internal id is not supported", func(t *testing.T) {
		_, err := q.GetByUID(context.Background(), b.ID())
		assert.ErrorIs(t, err, booking.ErrNotFound)
		assert.Equal(t, errs.ErrNotFound, errs.KindOf(err))
	})
}
