package api

import (
	"net/http"
	"time"

	"mentor-booking/internal/domain/availability"
	reqdto "mentor-booking/internal/handler/dto/request"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/stats"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MentorHandler struct {
	availability queries.AvailabilityQueries
	stats        stats.Service
	loc          *time.Location
}

func NewMentorHandler(avail queries.AvailabilityQueries, statsService stats.Service, cfg config.Config) (*MentorHandler, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return nil, err
	}
	return &MentorHandler{availability: avail, stats: statsService, loc: loc}, nil
}

// @Summary Mentor availability
// @Description 15 minute slots between 09:00 and 17:00 for each day of the range
// @Tags mentors
// @Produce json
// @Param profileId path string true "Mentor profile ID"
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD), at most 30 days ahead"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/mentors/{profileId}/availability [get]
func (h *MentorHandler) Availability(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("profileId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid profile id", nil)
		return
	}
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "from and to are required", nil)
		return
	}
	r, err := availability.ParseRange(q.From, q.To, h.loc)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}

	slots, err := h.availability.GetSlots(c.Request.Context(), profileID, r)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromSlots(profileID, r, slots)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Mentor statistics
// @Description Session counters and average rating of a mentor profile
// @Tags mentors
// @Produce json
// @Param profileId path string true "Mentor profile ID"
// @Success 200 {object} resdto.StatsResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/mentors/{profileId}/stats [get]
func (h *MentorHandler) Stats(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("profileId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid profile id", nil)
		return
	}
	st, err := h.stats.GetStats(c.Request.Context(), profileID)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStats(st))
}
