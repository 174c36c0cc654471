//go:build e2e

package session_test

import (
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	"mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/pkg/jwt"
	"mentor-booking/tests/common/builder"
	"mentor-booking/tests/common/dbtest"
	"mentor-booking/tests/common/httptest"
	"mentor-booking/tests/e2e"
	"mentor-booking/tests/e2e/common/helper"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	createSessionURL = "/api/mentors/%s/sessions"
	availabilityURL  = "/api/mentors/%s/availability?from=%s&to=%s"
	statsURL         = "/api/mentors/%s/stats"
	sessionURL       = "/api/sessions/%s"
	sessionActionURL = "/api/sessions/%s/%s"
)

var meetLinkPattern = regexp.MustCompile(`^https://meet\.google\.com/[a-z]{3}-[a-z]{4}-[a-z]{3}$`)

type SessionSuite struct {
	e2e.SharedSuite
}

func (s *SessionSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestSessionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SessionSuite))
}

// two days ahead at 10:00 UTC: inside business hours and the lookahead window
func sessionDay() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 2)
	return time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, time.UTC)
}

func (s *SessionSuite) newProfile() (profileID, ownerID uuid.UUID) {
	ownerID = uuid.New()
	profileID = dbtest.CreateTestProfile(s.T(), s.DB, ownerID, "Grace Hopper", true)
	return profileID, ownerID
}

func (s *SessionSuite) book(profileID uuid.UUID, start time.Time) *response.SessionResponse {
	t := s.T()
	reqBody := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Start = start }).BuildCreateRequestDTO()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(createSessionURL, profileID), reqBody, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.SessionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return &res
}

func (s *SessionSuite) mentorToken() string {
	return helper.GenerateToken(s.T(), s.Config.JWT, uuid.NewString(), jwt.RoleMentor)
}

func (s *SessionSuite) stats(profileID uuid.UUID) response.StatsResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(statsURL, profileID), nil, "")
	var res response.StatsResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	return res
}

// =============================================================================
// TestCreateSession
// =============================================================================

func (s *SessionSuite) TestCreateSession() {
	s.Run("Normal case: booking is created, viewable and counted", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		start := sessionDay()

		created := s.book(profileID, start)
		require.Equal(t, "pending", created.Status)
		require.True(t, created.StartTime.Equal(start))
		require.Equal(t, 15*time.Minute, created.EndTime.Sub(created.StartTime))
		require.Regexp(t, meetLinkPattern, created.MeetLink)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(sessionURL, created.UID), nil, "")
		var view response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)

		require.NotContains(t, w.Body.String(), created.ID.String())

		want := response.BookingResponse{
			UID:         created.UID,
			ProfileID:   profileID,
			MentorName:  "Grace Hopper",
			Status:      "pending",
			StartTime:   start,
			EndTime:     start.Add(15 * time.Minute),
			MeetLink:    created.MeetLink,
			StudentName: "Alan Turing",
		}
		if diff := cmp.Diff(want, view,
			cmpopts.IgnoreFields(response.BookingResponse{}, "CreatedAt", "UpdatedAt"),
			cmpopts.EquateApproxTime(time.Millisecond),
		); diff != "" {
			t.Errorf("booking view mismatch (-want +got):\n%s", diff)
		}

		require.Equal(t, 1, s.stats(profileID).TotalSessions)
	})

	s.Run("Error case: overlapping request is rejected, adjacent one accepted", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		start := sessionDay()
		s.book(profileID, start)

		overlapping := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Start = start.Add(5 * time.Minute) }).BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(createSessionURL, profileID), overlapping, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "overlaps")

		s.book(profileID, start.Add(15*time.Minute))
		require.Equal(t, 2, s.stats(profileID).TotalSessions)
	})

	// Runs against Postgres, so the mentor advisory lock and the exclusion constraint are both in play.
	s.Run("Error case: concurrent requests for one slot create exactly one booking", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		reqBody := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Start = sessionDay() }).BuildCreateRequestDTO()
		url := fmt.Sprintf(createSessionURL, profileID)

		const workers = 6
		codes := make(chan int, workers)
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, "")
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		counts := map[int]int{}
		for c := range codes {
			counts[c]++
		}
		require.Equal(t, map[int]int{http.StatusCreated: 1, http.StatusConflict: workers - 1}, counts)

		var active int
		err := s.DB.QueryRow(t.Context(),
			"SELECT count(*) FROM session_bookings WHERE profile_id = $1 AND status <> 'cancelled'", profileID).Scan(&active)
		require.NoError(t, err)
		require.Equal(t, 1, active)
		require.Equal(t, 1, s.stats(profileID).TotalSessions)
	})

	s.Run("Error case: start inside the 2 hour notice", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		reqBody := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Start = time.Now().Add(90 * time.Minute) }).BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(createSessionURL, profileID), reqBody, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "2 hours")
	})

	s.Run("Error case: inactive mentor", func() {
		t := s.T()
		profileID := dbtest.CreateTestProfile(t, s.DB, uuid.New(), "Retired", false)
		reqBody := builder.NewSessionBuilder().With(func(b *builder.SessionBuilder) { b.Start = sessionDay() }).BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(createSessionURL, profileID), reqBody, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})
}

// =============================================================================
// TestAvailability
// =============================================================================

func (s *SessionSuite) TestAvailability() {
	s.Run("Normal case: booked and released slots are reflected", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		start := sessionDay()
		day := start.Format("2006-01-02")
		url := fmt.Sprintf(availabilityURL, profileID, day, day)

		slotAt := func() response.SlotResponse {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, "")
			var res response.AvailabilityResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			require.Len(t, res.Slots, 32)
			for _, slot := range res.Slots {
				if slot.Start.Equal(start) {
					return slot
				}
			}
			t.Fatalf("no slot at %s", start)
			return response.SlotResponse{}
		}

		require.True(t, slotAt().Available)

		created := s.book(profileID, start)
		require.False(t, slotAt().Available, "cached availability must be invalidated by a booking")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, "cancel"), nil, s.mentorToken())
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)
		require.True(t, slotAt().Available, "cancelled booking must free the slot")
	})

	s.Run("Error case: range beyond 30 days", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		far := time.Now().UTC().AddDate(0, 0, 40).Format("2006-01-02")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, profileID, far, far), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "lookahead")
	})

	s.Run("Error case: range starting in the past", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		past := time.Now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
		today := time.Now().UTC().Format("2006-01-02")

		for _, from := range []string{"1900-01-01", past} {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, profileID, from, today), nil, "")
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "invalid date range")
		}
	})
}

// =============================================================================
// TestLifecycle
// =============================================================================

func (s *SessionSuite) TestLifecycle() {
	s.Run("Normal case: cancel with reason", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		created := s.book(profileID, sessionDay())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, "cancel"),
			map[string]any{"reason": "mentor unavailable"}, s.mentorToken())
		var res response.SessionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.Equal(t, "cancelled", res.Status)
		require.NotNil(t, res.CancellationReason)
		require.Equal(t, "mentor unavailable", *res.CancellationReason)

		st := s.stats(profileID)
		require.Equal(t, 1, st.TotalSessions)
		require.Equal(t, 1, st.CancelledSessions)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, "cancel"), nil, s.mentorToken())
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "already cancelled")
	})

	s.Run("Error case: lifecycle endpoints require a token", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		created := s.book(profileID, sessionDay())

		for _, action := range []string{"cancel", "reschedule", "complete"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, action), nil, "")
			httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "")
		}

		expired := helper.CreateExpiredToken(t, s.Config.JWT, uuid.NewString(), jwt.RoleMentor)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, "cancel"), nil, expired)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("Normal case: reschedule issues a new link", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		start := sessionDay()
		created := s.book(profileID, start)

		newStart := start.Add(time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, created.ID, "reschedule"),
			map[string]any{"new_start": newStart}, s.mentorToken())
		var res response.SessionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.True(t, res.StartTime.Equal(newStart))
		require.Regexp(t, meetLinkPattern, res.MeetLink)
		require.NotEqual(t, created.MeetLink, res.MeetLink)
		require.Equal(t, 1, res.RescheduleCount)

		// the old slot is free again
		s.book(profileID, start)
	})

	s.Run("Error case: reschedule onto another booking", func() {
		t := s.T()
		profileID, _ := s.newProfile()
		start := sessionDay()
		first := s.book(profileID, start)
		s.book(profileID, start.Add(30*time.Minute))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, first.ID, "reschedule"),
			map[string]any{"new_start": start.Add(35 * time.Minute)}, s.mentorToken())
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(sessionURL, first.UID), nil, "")
		var view response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
		require.True(t, view.StartTime.Equal(start))
		require.Equal(t, first.MeetLink, view.MeetLink)
	})

	s.Run("Normal case: complete a past session, then rate it once", func() {
		t := s.T()
		profileID, ownerID := s.newProfile()
		bookingID := dbtest.CreateTestBooking(t, s.DB, profileID, ownerID, time.Now().UTC().Add(-time.Hour))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, bookingID, "rating"),
			map[string]any{"rating": 5}, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "not been completed")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, bookingID, "complete"), nil, s.mentorToken())
		var done response.SessionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &done)
		require.NotNil(t, done.CompletedAt)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, bookingID, "complete"), nil, s.mentorToken())
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "already completed")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, bookingID, "rating"),
			map[string]any{"rating": 4, "comment": "very helpful"}, "")
		var rated response.RatingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &rated)
		require.NotNil(t, rated.AverageRating)
		require.InDelta(t, 4.0, *rated.AverageRating, 1e-9)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(sessionActionURL, bookingID, "rating"),
			map[string]any{"rating": 1}, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")

		st := s.stats(profileID)
		require.Equal(t, 1, st.CompletedSessions)
		require.Equal(t, 1, st.RatingCount)
	})
}
