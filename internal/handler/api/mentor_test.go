//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"mentor-booking/internal/domain/availability"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/handler/api"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/tests/common/httptest"
	queriesmock "mentor-booking/tests/mock/queries"
	statsmock "mentor-booking/tests/mock/stats"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MentorHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockAvail *queriesmock.MockAvailabilityQueries
	mockStats *statsmock.MockService
	handler   *api.MentorHandler
	profileID uuid.UUID
	baseURL   string
}

func (s *MentorHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAvail = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockStats = statsmock.NewMockService(s.mockCtrl)

	handler, err := api.NewMentorHandler(s.mockAvail, s.mockStats, config.NewTestConfig())
	s.Require().NoError(err)
	s.handler = handler

	s.router.GET("/api/mentors/:profileId/availability", s.handler.Availability)
	s.router.GET("/api/mentors/:profileId/stats", s.handler.Stats)

	s.profileID = uuid.New()
	s.baseURL = "/api/mentors/" + s.profileID.String()
}

func (s *MentorHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestMentorHandlerSuite(t *testing.T) {
	suite.Run(t, new(MentorHandlerTestSuite))
}

func (s *MentorHandlerTestSuite) TestNewMentorHandler_InvalidTimeZone() {
	cfg := config.NewTestConfig()
	cfg.Booking.BusinessTimeZone = "Mars/Olympus_Mons"

	_, err := api.NewMentorHandler(s.mockAvail, s.mockStats, cfg)
	s.Error(err)
}

// ================================================================================
// TestAvailability
// ================================================================================

func (s *MentorHandlerTestSuite) TestAvailability() {
	s.Run("success: range parsed in the business zone", func() {
		day := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
		r, err := availability.NewRange(day, day, time.UTC)
		s.Require().NoError(err)
		grid := availability.GenerateGrid(r)
		grid[0].Available = false

		s.mockAvail.EXPECT().
			GetSlots(gomock.Any(), s.profileID, gomock.AssignableToTypeOf(availability.Range{})).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, got availability.Range) ([]availability.Slot, error) {
				s.Equal(r.Key(), got.Key())
				return grid, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability?from=2025-06-11&to=2025-06-11", nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("2025-06-11", body.From)
		s.Equal("2025-06-11", body.To)
		s.Len(body.Slots, 32)
		s.False(body.Slots[0].Available)
		s.True(body.Slots[1].Available)
		s.True(body.Slots[0].Start.Equal(time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)))
	})

	s.Run("success: inactive mentor yields an empty list", func() {
		s.mockAvail.EXPECT().GetSlots(gomock.Any(), s.profileID, gomock.Any()).Return([]availability.Slot{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability?from=2025-06-11&to=2025-06-12", nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.NotNil(body.Slots)
		s.Empty(body.Slots)
	})

	badQueries := []struct {
		name      string
		query     string
		expectMsg string
	}{
		{name: "missing to", query: "?from=2025-06-11", expectMsg: "required"},
		{name: "malformed date", query: "?from=11/06/2025&to=2025-06-12", expectMsg: "YYYY-MM-DD"},
		{name: "inverted range", query: "?from=2025-06-12&to=2025-06-11", expectMsg: "invalid date range"},
		{name: "range from the year 1900", query: "?from=1900-01-01&to=2025-07-01", expectMsg: "invalid date range"},
		{name: "span wider than the lookahead", query: "?from=2025-06-11&to=2025-07-12", expectMsg: "invalid date range"},
	}
	for _, tc := range badQueries {
		s.Run("error: "+tc.name, func() {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability"+tc.query, nil, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.expectMsg)
		})
	}

	s.Run("error: beyond lookahead", func() {
		s.mockAvail.EXPECT().GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, availability.ErrBeyondLookahead).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability?from=2025-07-11&to=2025-07-12", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "lookahead")
	})

	s.Run("error: range starting before today", func() {
		s.mockAvail.EXPECT().GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, availability.ErrInvalidRange).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability?from=2025-05-20&to=2025-06-11", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid date range")
	})

	s.Run("error: unknown mentor", func() {
		s.mockAvail.EXPECT().GetSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, mentor.ErrProfileNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/availability?from=2025-06-11&to=2025-06-11", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: invalid profile id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/mentors/abc/availability?from=2025-06-11&to=2025-06-11", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid profile id")
	})
}

// ================================================================================
// TestStats
// ================================================================================

func (s *MentorHandlerTestSuite) TestStats() {
	s.Run("success", func() {
		avg := 1.5
		flagged := time.Now().UTC()
		s.mockStats.EXPECT().GetStats(gomock.Any(), s.profileID).Return(&mentor.Stats{
			ProfileID:          s.profileID,
			TotalSessions:      7,
			CompletedSessions:  4,
			CancelledSessions:  2,
			AverageRating:      &avg,
			RatingCount:        2,
			LowRatingFlaggedAt: &flagged,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/stats", nil, "")

		var body resdto.StatsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(7, body.TotalSessions)
		s.Equal(4, body.CompletedSessions)
		s.Equal(2, body.CancelledSessions)
		s.True(body.LowRatingFlagged)
		s.Require().NotNil(body.AverageRating)
		s.InDelta(1.5, *body.AverageRating, 1e-9)
	})

	s.Run("error: unknown mentor", func() {
		s.mockStats.EXPECT().GetStats(gomock.Any(), s.profileID).Return(nil, mentor.ErrProfileNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.baseURL+"/stats", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}
