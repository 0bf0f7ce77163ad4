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

type ConsultationController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewConsultationController(logger *slog.Logger, svc domain.BookingService) *ConsultationController {
	return &ConsultationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateConsultationRequest is the request body for POST /admin/consultations.
type CreateConsultationRequest struct {
	EventID     string `json:"event_id"`
	ExhibitorID string `json:"exhibitor_id"`
	MaxSlots    *int   `json:"max_slots"`
}

// Validate implements helpers.Validator.
func (req CreateConsultationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(req.ExhibitorID) == "" {
		errs = append(errs, "exhibitor_id is required")
	}
	if req.MaxSlots != nil && *req.MaxSlots < 1 {
		errs = append(errs, "max_slots must be at least 1")
	}
	return errs
}

// CreateConsultationSuccessResponse is the success response envelope for POST /admin/consultations (201).
type CreateConsultationSuccessResponse struct {
	Data  *domain.Consultation `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CreateConsultation godoc
// @Summary Create a consultation
// @Description Creates the consultation pairing an exhibitor with an event. At most one consultation exists per (event, exhibitor).
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateConsultationRequest true "Consultation data"
// @Success 201 {object} controllers.CreateConsultationSuccessResponse "data contains the created consultation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (pair already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/consultations [post]
func (c *ConsultationController) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var req CreateConsultationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	consultation := domain.NewConsultation(req.EventID, req.ExhibitorID, req.MaxSlots, now, now)
	if err := c.Service.CreateConsultation(r.Context(), consultation); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "consultation already exists for this event and exhibitor")
			return
		}
		c.writeError(w, r, err)
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, consultation)
}

// GetConsultationSuccessResponse is the success response envelope for GET /consultations/{consultationID} (200).
type GetConsultationSuccessResponse struct {
	Data  *domain.ConsultationWithSlots `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// GetConsultation godoc
// @Summary Get a consultation with its slots
// @Description Returns the consultation and its slots ordered by start time.
// @Tags consultations
// @Produce json
// @Param consultationID path string true "Consultation ID"
// @Success 200 {object} controllers.GetConsultationSuccessResponse "data contains the consultation and its slots"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /consultations/{consultationID} [get]
func (c *ConsultationController) GetConsultation(w http.ResponseWriter, r *http.Request) {
	consultationID := r.PathValue("consultationID")
	if consultationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing consultationID")
		return
	}
	consultation, err := c.Service.GetConsultation(r.Context(), consultationID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, consultation)
}

// ListConsultationsByEventSuccessResponse is the success response envelope for GET /events/{eventID}/consultations (200).
type ListConsultationsByEventSuccessResponse struct {
	Data  []*domain.Consultation `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListConsultationsByEvent godoc
// @Summary List an event's consultations
// @Description Returns all consultations offered under the event.
// @Tags consultations
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ListConsultationsByEventSuccessResponse "data is an array of consultations"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/consultations [get]
func (c *ConsultationController) ListConsultationsByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	consultations, err := c.Service.ListConsultationsByEvent(r.Context(), eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if consultations == nil {
		consultations = []*domain.Consultation{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, consultations)
}

// SlotWindowRequest is one start/end pair in CreateSlotsRequest.
type SlotWindowRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CreateSlotsRequest is the request body for POST /admin/consultations/{consultationID}/slots.
type CreateSlotsRequest struct {
	Slots []SlotWindowRequest `json:"slots"`
}

// Validate implements helpers.Validator.
func (req CreateSlotsRequest) Validate() []string {
	var errs []string
	if len(req.Slots) == 0 {
		errs = append(errs, "slots must contain at least one window")
	}
	for _, s := range req.Slots {
		if s.StartTime.IsZero() || s.EndTime.IsZero() {
			errs = append(errs, "each slot needs start_time and end_time")
			break
		}
	}
	return errs
}

// CreateSlotsSuccessResponse is the success response envelope for POST /admin/consultations/{consultationID}/slots (201).
type CreateSlotsSuccessResponse struct {
	Data  map[string]int    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateSlots godoc
// @Summary Bulk-create consultation slots
// @Description Creates AVAILABLE slots under the consultation, one per window. Windows whose end does not come after their start are rejected.
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param consultationID path string true "Consultation ID"
// @Param body body controllers.CreateSlotsRequest true "Slot windows"
// @Success 201 {object} controllers.CreateSlotsSuccessResponse "data contains the created count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/consultations/{consultationID}/slots [post]
func (c *ConsultationController) CreateSlots(w http.ResponseWriter, r *http.Request) {
	consultationID := r.PathValue("consultationID")
	if consultationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing consultationID")
		return
	}
	var req CreateSlotsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	windows := make([]domain.SlotWindow, 0, len(req.Slots))
	for _, s := range req.Slots {
		windows = append(windows, domain.SlotWindow{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	created, err := c.Service.CreateSlots(r.Context(), consultationID, windows)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, map[string]int{"created": created})
}

// SlotSuccessResponse is the success response envelope for slot operations (200).
type SlotSuccessResponse struct {
	Data  *domain.ConsultationSlot `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// BookSlot godoc
// @Summary Book a consultation slot
// @Description Books the slot for the authenticated user. The slot must be AVAILABLE and the owning event SCHEDULED or ONGOING. Concurrent attempts on the same slot resolve to exactly one winner.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param exhibitorID path string true "Exhibitor ID"
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the booked slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot taken or event closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/exhibitors/{exhibitorID}/slots/{slotID}/book [post]
func (c *ConsultationController) BookSlot(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	exhibitorID := r.PathValue("exhibitorID")
	slotID := r.PathValue("slotID")
	if eventID == "" || exhibitorID == "" || slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing path parameters")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	slot, err := c.Service.BookSlot(r.Context(), eventID, exhibitorID, slotID, actor.UserID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// AdminBookSlotRequest is the request body for POST /admin/consultations/{consultationID}/slots/{slotID}/book.
type AdminBookSlotRequest struct {
	ParticipantID string `json:"participant_id"`
}

// Validate implements helpers.Validator.
func (req AdminBookSlotRequest) Validate() []string {
	if strings.TrimSpace(req.ParticipantID) == "" {
		return []string{"participant_id is required"}
	}
	return nil
}

// BookSlotByAdmin godoc
// @Summary Book a slot on behalf of a participant
// @Description Books the slot for the given participant, addressing it through its consultation. The slot must be AVAILABLE and the owning event must be accepting bookings, same as self-service booking.
// @Tags consultations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param consultationID path string true "Consultation ID"
// @Param slotID path string true "Slot ID"
// @Param body body controllers.AdminBookSlotRequest true "Participant"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the booked slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot taken or event closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/consultations/{consultationID}/slots/{slotID}/book [post]
func (c *ConsultationController) BookSlotByAdmin(w http.ResponseWriter, r *http.Request) {
	consultationID := r.PathValue("consultationID")
	slotID := r.PathValue("slotID")
	if consultationID == "" || slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing path parameters")
		return
	}
	var req AdminBookSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	slot, err := c.Service.BookSlotByAdmin(r.Context(), consultationID, slotID, req.ParticipantID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// CancelSlot godoc
// @Summary Cancel a booked slot
// @Description Cancels a BOOKED slot and releases the participant. Only the booked participant or an admin may cancel.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the canceled slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot not booked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /slots/{slotID}/cancel [post]
func (c *ConsultationController) CancelSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slotID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	slot, err := c.Service.CancelSlot(r.Context(), slotID, actor)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// StartSlot godoc
// @Summary Start a consultation slot
// @Description Moves a BOOKED slot to ONGOING and provisions a live room named after the slot. A room failure is logged, never propagated.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not bookable from current status)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/start [post]
func (c *ConsultationController) StartSlot(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.StartSlot)
}

// EndSlot godoc
// @Summary End a consultation slot
// @Description Moves an ONGOING slot to DONE and deletes its live room, best-effort.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/end [post]
func (c *ConsultationController) EndSlot(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.EndSlot)
}

// MarkSlotDone godoc
// @Summary Mark a slot done
// @Description Closes out a slot that has a participant. Valid from BOOKED, ONGOING, or NOT_PRESENT.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/done [post]
func (c *ConsultationController) MarkSlotDone(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.MarkSlotDone)
}

// MarkSlotNotPresent godoc
// @Summary Record a no-show
// @Description Marks a BOOKED or ONGOING slot NOT_PRESENT, keeping the participant reference for the record.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/not-present [post]
func (c *ConsultationController) MarkSlotNotPresent(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.MarkSlotNotPresent)
}

// MarkSlotAvailable godoc
// @Summary Reopen a blocked slot
// @Description Moves a NOT_AVAILABLE slot back to AVAILABLE.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/available [post]
func (c *ConsultationController) MarkSlotAvailable(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.MarkSlotAvailable)
}

// MarkSlotNotAvailable godoc
// @Summary Block an open slot
// @Description Moves an AVAILABLE slot to NOT_AVAILABLE so it cannot be booked.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the updated slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/not-available [post]
func (c *ConsultationController) MarkSlotNotAvailable(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.MarkSlotNotAvailable)
}

// RemoveParticipant godoc
// @Summary Remove a slot's participant
// @Description Clears the participant and resets the slot to AVAILABLE regardless of its current status.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} controllers.SlotSuccessResponse "data contains the reset slot"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID}/remove-participant [post]
func (c *ConsultationController) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	c.slotOp(w, r, c.Service.RemoveParticipant)
}

// slotOp runs a slot transition addressed by path and writes the result.
func (c *ConsultationController) slotOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, slotID string) (*domain.ConsultationSlot, error)) {
	slotID := r.PathValue("slotID")
	if slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slotID")
		return
	}
	slot, err := op(r.Context(), slotID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slot)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Description Removes the slot row. Administrative; permitted from any status.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Slot ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/slots/{slotID} [delete]
func (c *ConsultationController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID := r.PathValue("slotID")
	if slotID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slotID")
		return
	}
	if err := c.Service.DeleteSlot(r.Context(), slotID); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "slot deleted"})
}

// ListMyScheduleSuccessResponse is the success response envelope for GET /me/schedule (200).
type ListMyScheduleSuccessResponse struct {
	Data  []*domain.ConsultationSlot `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListMySchedule godoc
// @Summary Get the caller's consultation schedule
// @Description Returns the authenticated user's BOOKED and ONGOING slots ordered by start time.
// @Tags consultations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyScheduleSuccessResponse "data is an array of slots"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/schedule [get]
func (c *ConsultationController) ListMySchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	slots, err := c.Service.ListMySchedule(r.Context(), actor.UserID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if slots == nil {
		slots = []*domain.ConsultationSlot{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}

// writeError maps booking service errors onto transport responses. Conflict
// covers both losing a race and requesting an illegal transition; the message
// keeps the two apart.
func (c *ConsultationController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrSlotUnavailable):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slot is not available")
	case errors.Is(err, domain.ErrEventClosed):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event is not open for booking")
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slot was modified concurrently")
	case errors.Is(err, domain.ErrInvalidState):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "operation not allowed in the slot's current status")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
