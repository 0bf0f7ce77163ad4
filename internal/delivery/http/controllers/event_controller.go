package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"expomeet/internal/delivery/http/helpers"
	"expomeet/internal/delivery/http/middleware"
	"expomeet/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEventRequest is the request body for POST /admin/events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Thumbnail   *string   `json:"thumbnail"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    *string   `json:"location"`
	Format      string    `json:"format"`
}

// Validate implements helpers.Validator.
func (req CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !domain.EventFormat(req.Format).Valid() {
		errs = append(errs, "format must be \"ONLINE\", \"OFFLINE\", or \"HYBRID\"")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		errs = append(errs, "start_date and end_date are required")
	} else if !req.EndDate.After(req.StartDate) {
		errs = append(errs, "end_date must be after start_date")
	}
	return errs
}

// CreateEventSuccessResponse is the success response envelope for POST /admin/events (201).
type CreateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a new event in DRAFT status. Drafts are invisible to the public listings until scheduled.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	event := domain.NewEvent(strings.TrimSpace(req.Title), domain.EventFormat(req.Format), req.StartDate, req.EndDate, now, now)
	event.Description = req.Description
	event.Thumbnail = req.Thumbnail
	event.Location = req.Location

	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEventRequest is the request body for PATCH /admin/events/{eventID}.
// All fields are optional; absent fields are unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Thumbnail   *string    `json:"thumbnail"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	Format      *string    `json:"format"`
}

// Validate implements helpers.Validator.
func (req UpdateEventRequest) Validate() []string {
	var errs []string
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if req.Format != nil && !domain.EventFormat(*req.Format).Valid() {
		errs = append(errs, "format must be \"ONLINE\", \"OFFLINE\", or \"HYBRID\"")
	}
	return errs
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates event fields. Absent fields are left unchanged. Status is not updatable here; use the lifecycle endpoints.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.CreateEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}
	if req.Format != nil {
		f := domain.EventFormat(*req.Format)
		upd.Format = &f
	}

	event, err := c.Service.UpdateEvent(r.Context(), eventID, upd)
	if err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// StartEvent godoc
// @Summary Start an event
// @Description Moves the event to ONGOING. Event transitions are administrative and unconditional; they do not cascade into child seminars or consultations.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CreateEventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/start [post]
func (c *EventController) StartEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.StartEvent)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Moves the event to CANCELED. Unconditional; child seminars and consultations are not touched.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CreateEventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/cancel [post]
func (c *EventController) CancelEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CancelEvent)
}

// CompleteEvent godoc
// @Summary Complete an event
// @Description Moves the event to DONE. Unconditional administrative transition.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CreateEventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/complete [post]
func (c *EventController) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CompleteEvent)
}

// ScheduleEvent godoc
// @Summary Publish an event
// @Description Moves the event from DRAFT to SCHEDULED, making it visible on the public listings.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CreateEventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/schedule [post]
func (c *EventController) ScheduleEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.ScheduleEvent)
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := op(r.Context(), eventID)
	if err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event row entirely.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// ListEventsSuccessResponse is the success response envelope for GET /admin/events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List all events
// @Description Returns all events regardless of status, drafts included.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// listingStatuses maps the public listing segment to the event status it shows.
var listingStatuses = map[string]domain.EventStatus{
	"upcoming": domain.EventScheduled,
	"ongoing":  domain.EventOngoing,
	"previous": domain.EventDone,
}

// ListEventsByPhaseSuccessResponse is the success response envelope for GET /events/{phase} (200).
type ListEventsByPhaseSuccessResponse struct {
	Data  []*domain.EventSummary `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListEventsByPhase godoc
// @Summary List events by phase
// @Description Public listing. phase is one of "upcoming" (SCHEDULED), "ongoing" (ONGOING), or "previous" (DONE). Each item includes the activity kinds the event offers (SEMINAR, CONSULTATION).
// @Tags events
// @Produce json
// @Param phase path string true "upcoming | ongoing | previous"
// @Success 200 {object} controllers.ListEventsByPhaseSuccessResponse "data is an array of event summaries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/phase/{phase} [get]
func (c *EventController) ListEventsByPhase(w http.ResponseWriter, r *http.Request) {
	status, ok := listingStatuses[r.PathValue("phase")]
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "phase must be \"upcoming\", \"ongoing\", or \"previous\"")
		return
	}
	summaries, err := c.Service.ListEventsByStatus(r.Context(), status)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []*domain.EventSummary{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summaries)
}

// GetEventOverviewSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventOverviewSuccessResponse struct {
	Data  *domain.EventOverview `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// GetEventOverview godoc
// @Summary Get an event with its program
// @Description Returns the event together with its seminars and its consultations with ordered slots. Draft events and draft seminars are hidden unless the caller is an admin.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetEventOverviewSuccessResponse "data contains event, seminars, and consultations with slots"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventOverview(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	includeDraft := false
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		includeDraft = actor.IsAdmin()
	}

	overview, err := c.Service.GetEventOverview(r.Context(), eventID, includeDraft)
	if err != nil {
		c.writeError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, overview)
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
