package handlers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gatherly/gatherly-api/internal/application"
	"github.com/gatherly/gatherly-api/internal/domain/repository"
	"github.com/gatherly/gatherly-api/internal/interface/middleware"
	"github.com/gatherly/gatherly-api/pkg/response"
	"github.com/gatherly/gatherly-api/pkg/validation"
)

type EventHandler struct {
	Svc    *application.EventService
	Logger *logrus.Logger
}

func NewEventHandler(svc *application.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Svc: svc, Logger: logger}
}

// eventForm is the multipart payload for create and update. The date is bound
// as a string because multipart fields are untyped; parseEventDate validates
// it separately so the client still gets a field-level message.
type eventForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Date        string `form:"date" binding:"required"`
	Location    string `form:"location" binding:"required"`
	Capacity    int    `form:"capacity" binding:"required,gte=1"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseEventDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// List returns upcoming events. Optional query parameters: search
// (case-insensitive title substring) and date (minimum event date).
func (h *EventHandler) List(c *gin.Context) {
	f := repository.EventFilter{Search: c.Query("search")}
	if raw := c.Query("date"); raw != "" {
		from, ok := parseEventDate(raw)
		if !ok {
			response.Error(c, http.StatusBadRequest, "invalid payload",
				map[string]string{"date": "must be a valid date"})
			return
		}
		f.From = &from
	}

	events, err := h.Svc.ListUpcoming(c.Request.Context(), time.Now().UTC(), f)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponses(events), "upcoming events")
}

func (h *EventHandler) Get(c *gin.Context) {
	ev, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponse(ev), "event")
}

func (h *EventHandler) Create(c *gin.Context) {
	in, img, ok := h.bindEventForm(c)
	if !ok {
		return
	}
	defer closeImage(img)

	uid := c.GetString(middleware.CtxUserIDKey)
	ev, err := h.Svc.Create(c.Request.Context(), uid, in, upload(img))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toEventResponse(ev), "event created")
}

func (h *EventHandler) Update(c *gin.Context) {
	in, img, ok := h.bindEventForm(c)
	if !ok {
		return
	}
	defer closeImage(img)

	uid := c.GetString(middleware.CtxUserIDKey)
	ev, err := h.Svc.Update(c.Request.Context(), c.Param("id"), uid, in, upload(img))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventResponse(ev), "event updated")
}

func (h *EventHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), uid); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "event deleted")
}

// boundImage pairs an opened multipart file with its header so the handler
// can close it after the service consumed the reader.
type boundImage struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (h *EventHandler) bindEventForm(c *gin.Context) (application.EventInput, *boundImage, bool) {
	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return application.EventInput{}, nil, false
	}
	date, ok := parseEventDate(form.Date)
	if !ok {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"date": "must be a valid date"})
		return application.EventInput{}, nil, false
	}

	in := application.EventInput{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		Date:        date,
		Capacity:    form.Capacity,
	}

	header, err := c.FormFile("image")
	if err != nil {
		// Image is optional.
		return in, nil, true
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload",
			map[string]string{"image": "could not read uploaded file"})
		return application.EventInput{}, nil, false
	}
	return in, &boundImage{file: file, header: header}, true
}

func upload(img *boundImage) *application.ImageUpload {
	if img == nil {
		return nil
	}
	return &application.ImageUpload{
		Reader:      img.file,
		Filename:    img.header.Filename,
		ContentType: img.header.Header.Get("Content-Type"),
	}
}

func closeImage(img *boundImage) {
	if img != nil {
		_ = img.file.Close()
	}
}
