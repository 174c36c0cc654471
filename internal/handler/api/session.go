package api

import (
	"log/slog"
	"net/http"

	reqdto "mentor-booking/internal/handler/dto/request"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/handler/middleware"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewSessionHandler(cmds commands.BookingCommands, q queries.BookingQueries) *SessionHandler {
	return &SessionHandler{cmds: cmds, q: q}
}

// @Summary Book a session
// @Description Book a 15 minute session with a mentor; starts must be at least 2 hours ahead
// @Tags sessions
// @Accept json
// @Produce json
// @Param profileId path string true "Mentor profile ID"
// @Param request body reqdto.CreateSessionRequest true "Create session request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/mentors/{profileId}/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("profileId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid profile id", nil)
		return
	}
	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToParams(profileID))
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/sessions/"+result.UID.String())
	h.respondSession(c, http.StatusCreated, result)
}

// @Summary Get session
// @Description Get a session by its public UID
// @Tags sessions
// @Produce json
// @Param id path string true "Session UID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid uid", nil)
		return
	}
	view, err := h.q.GetByUID(c.Request.Context(), uid)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Cancel session
// @Description Cancel a session at least 2 hours before its start
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.CancelSessionRequest false "Cancel session request"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.CancelSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	role, _ := middleware.GetActorRole(c)

	result, err := h.cmds.Cancel(c.Request.Context(), commands.CancelSessionParams{
		BookingID:   id,
		Reason:      req.Reason,
		CancelledBy: role,
	})
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, result)
}

// @Summary Reschedule session
// @Description Move a session to a new start; the join link always changes
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body reqdto.RescheduleSessionRequest true "Reschedule session request"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/sessions/{id}/reschedule [post]
func (h *SessionHandler) Reschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.RescheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Reschedule(c.Request.Context(), commands.RescheduleSessionParams{
		BookingID: id,
		NewStart:  req.NewStart,
	})
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, result)
}

// @Summary Complete session
// @Description Mark a session complete once its end time has passed
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/sessions/{id}/complete [post]
func (h *SessionHandler) Complete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	result, err := h.cmds.MarkComplete(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, result)
}

// @Summary Rate session
// @Description Rate a completed session; one rating per session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SubmitRatingRequest true "Rating request"
// @Success 201 {object} resdto.RatingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/sessions/{id}/rating [post]
func (h *SessionHandler) SubmitRating(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.SubmitRating(c.Request.Context(), commands.SubmitRatingParams{
		BookingID: id,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.AbortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRatingResult(result))
}

func (h *SessionHandler) respondSession(c *gin.Context, status int, result *commands.SessionResult) {
	res, err := resdto.FromSessionResult(result)
	if err != nil {
		slog.Error("failed to map session result", "error", err.Error())
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, res)
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return uuid.Nil, false
	}
	return id, true
}
