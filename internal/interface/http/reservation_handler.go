package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly-api/internal/application"
	"github.com/gatherly/gatherly-api/internal/interface/middleware"
	"github.com/gatherly/gatherly-api/pkg/response"
)

type ReservationHandler struct {
	Reservations *application.ReservationService
	Events       *application.EventService
	Logger       *logrus.Logger
}

func NewReservationHandler(res *application.ReservationService, events *application.EventService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Events: events, Logger: logger}
}

// Reserve admits the caller to the event's attendee set, or explains why not:
// 404 for a missing event, 400 for a past event, a closed RSVP window (with
// the wait in seconds), a duplicate reservation, or a full event.
func (h *ReservationHandler) Reserve(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	ev, err := h.Reservations.TryReserve(c.Request.Context(), c.Param("eventId"), uid, time.Now().UTC())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponse(ev), "seat reserved")
}

// Cancel releases the caller's seat. Cancelling without a reservation is a
// 400, not a silent success.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	ev, err := h.Reservations.Cancel(c.Request.Context(), c.Param("eventId"), uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponse(ev), "reservation cancelled")
}

// Mine lists upcoming events the caller holds a seat for.
func (h *ReservationHandler) Mine(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	events, err := h.Reservations.ListAttending(c.Request.Context(), uid, time.Now().UTC())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponses(events), "events you attend")
}

// Created lists events the caller created.
func (h *ReservationHandler) Created(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	events, err := h.Events.ListCreated(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponses(events), "events you created")
}
