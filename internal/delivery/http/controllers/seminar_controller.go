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

type SeminarController struct {
	Logger  *slog.Logger
	Service domain.SeminarService
}

func NewSeminarController(logger *slog.Logger, svc domain.SeminarService) *SeminarController {
	return &SeminarController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSeminarRequest is the request body for POST /admin/seminars.
type CreateSeminarRequest struct {
	Title       string    `json:"title"`
	EventID     *string   `json:"event_id"`
	Description *string   `json:"description"`
	Thumbnail   *string   `json:"thumbnail"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    *string   `json:"location"`
	Format      string    `json:"format"`
	Price       int64     `json:"price"`
}

// Validate implements helpers.Validator.
func (req CreateSeminarRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if !domain.EventFormat(req.Format).Valid() {
		errs = append(errs, "format must be \"ONLINE\", \"OFFLINE\", or \"HYBRID\"")
	}
	if req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		errs = append(errs, "start_date and end_date are required")
	} else if !req.EndDate.After(req.StartDate) {
		errs = append(errs, "end_date must be after start_date")
	}
	return errs
}

// SeminarSuccessResponse is the success response envelope for single-seminar operations.
type SeminarSuccessResponse struct {
	Data  *domain.Seminar   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateSeminar godoc
// @Summary Create a seminar
// @Description Creates a seminar in DRAFT status, optionally attached to an event. Price 0 makes the seminar free; registrations then complete immediately.
// @Tags seminars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateSeminarRequest true "Seminar data"
// @Success 201 {object} controllers.SeminarSuccessResponse "data contains the created seminar"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars [post]
func (c *SeminarController) CreateSeminar(w http.ResponseWriter, r *http.Request) {
	var req CreateSeminarRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	seminar := domain.NewSeminar(strings.TrimSpace(req.Title), req.EventID, domain.EventFormat(req.Format), req.Price, req.StartDate, req.EndDate, now, now)
	seminar.Description = req.Description
	seminar.Thumbnail = req.Thumbnail
	seminar.Location = req.Location

	if err := c.Service.CreateSeminar(r.Context(), seminar); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, seminar)
}

// UpdateSeminarRequest is the request body for PATCH /admin/seminars/{seminarID}.
// All fields are optional; absent fields are unchanged.
type UpdateSeminarRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Thumbnail   *string    `json:"thumbnail"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	Format      *string    `json:"format"`
	Price       *int64     `json:"price"`
}

// Validate implements helpers.Validator.
func (req UpdateSeminarRequest) Validate() []string {
	var errs []string
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if req.Format != nil && !domain.EventFormat(*req.Format).Valid() {
		errs = append(errs, "format must be \"ONLINE\", \"OFFLINE\", or \"HYBRID\"")
	}
	if req.Price != nil && *req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

// UpdateSeminar godoc
// @Summary Update a seminar
// @Description Partially updates seminar fields. Absent fields are left unchanged. Status changes go through the lifecycle endpoints.
// @Tags seminars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Param body body controllers.UpdateSeminarRequest true "Fields to update"
// @Success 200 {object} controllers.SeminarSuccessResponse "data contains the updated seminar"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID} [patch]
func (c *SeminarController) UpdateSeminar(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	var req UpdateSeminarRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	upd := domain.SeminarUpdate{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Price:       req.Price,
	}
	if req.Format != nil {
		f := domain.EventFormat(*req.Format)
		upd.Format = &f
	}

	seminar, err := c.Service.UpdateSeminar(r.Context(), seminarID, upd)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, seminar)
}

// ScheduleSeminar godoc
// @Summary Publish a seminar
// @Description Moves the seminar from DRAFT to SCHEDULED and opens registration.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} controllers.SeminarSuccessResponse "data contains the updated seminar"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/schedule [post]
func (c *SeminarController) ScheduleSeminar(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.ScheduleSeminar)
}

// StartSeminar godoc
// @Summary Start a seminar
// @Description Moves the seminar to ONGOING. Online and hybrid seminars get a generated live room; the room creation happens after the status commits and its failure is not propagated.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} controllers.SeminarSuccessResponse "data contains the updated seminar"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/start [post]
func (c *SeminarController) StartSeminar(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.StartSeminar)
}

// CancelSeminar godoc
// @Summary Cancel a seminar
// @Description Moves the seminar to CANCELED, closes room and registration, and deletes the live room if one was open.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} controllers.SeminarSuccessResponse "data contains the updated seminar"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/cancel [post]
func (c *SeminarController) CancelSeminar(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CancelSeminar)
}

// EndSeminar godoc
// @Summary End a seminar
// @Description Moves the seminar to DONE, closes room and registration, and deletes the live room if one was open.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} controllers.SeminarSuccessResponse "data contains the updated seminar"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/end [post]
func (c *SeminarController) EndSeminar(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.EndSeminar)
}

func (c *SeminarController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Seminar, error)) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	seminar, err := op(r.Context(), seminarID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, seminar)
}

// DeleteSeminar godoc
// @Summary Delete a seminar
// @Description Removes the seminar and best-effort deletes its live room.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID} [delete]
func (c *SeminarController) DeleteSeminar(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	if err := c.Service.DeleteSeminar(r.Context(), seminarID); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "seminar deleted"})
}

// RegisterParticipantSuccessResponse is the success response envelope for registration endpoints (201).
type RegisterParticipantSuccessResponse struct {
	Data  *domain.SeminarParticipant `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Register godoc
// @Summary Register for a seminar
// @Description Registers the authenticated user. Permitted only while the seminar is SCHEDULED or ONGOING. Free seminars register immediately; paid seminars create a booking awaiting payment.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Success 201 {object} controllers.RegisterParticipantSuccessResponse "data contains the registration"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or registration closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /seminars/{seminarID}/register [post]
func (c *SeminarController) Register(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	participant, err := c.Service.RegisterParticipant(r.Context(), seminarID, actor.UserID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// RegisterParticipantRequest is the request body for POST /admin/seminars/{seminarID}/participants.
type RegisterParticipantRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements helpers.Validator.
func (req RegisterParticipantRequest) Validate() []string {
	if strings.TrimSpace(req.UserID) == "" {
		return []string{"user_id is required"}
	}
	return nil
}

// RegisterByAdmin godoc
// @Summary Register a user for a seminar
// @Description Registers the given user on their behalf. Drafts are allowed, terminal seminars are not, and the user's email must be verified.
// @Tags seminars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Param body body controllers.RegisterParticipantRequest true "User to register"
// @Success 201 {object} controllers.RegisterParticipantSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (email not verified)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or seminar closed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/participants [post]
func (c *SeminarController) RegisterByAdmin(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	var req RegisterParticipantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	participant, err := c.Service.RegisterParticipantByAdmin(r.Context(), seminarID, req.UserID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// GetSeminarSuccessResponse is the success response envelope for GET /seminars/{seminarID} (200).
type GetSeminarSuccessResponse struct {
	Data  *domain.SeminarDetail `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// GetSeminar godoc
// @Summary Get a seminar
// @Description Returns the seminar and, for an authenticated caller, their own registration. Drafts are visible only to admins.
// @Tags seminars
// @Produce json
// @Param seminarID path string true "Seminar ID"
// @Success 200 {object} controllers.GetSeminarSuccessResponse "data contains the seminar and the caller's registration"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /seminars/{seminarID} [get]
func (c *SeminarController) GetSeminar(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}

	callerID := ""
	includeDraft := false
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		callerID = actor.UserID
		includeDraft = actor.IsAdmin()
	}

	detail, err := c.Service.GetSeminar(r.Context(), seminarID, callerID, includeDraft)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// ListSeminarsSuccessResponse is the success response envelope for seminar listings (200).
type ListSeminarsSuccessResponse struct {
	Data  []*domain.Seminar `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSeminars godoc
// @Summary List seminars
// @Description Returns seminars, optionally filtered by status via the status query parameter. Without auth only non-draft statuses are queryable.
// @Tags seminars
// @Produce json
// @Param status query string false "Filter by status (SCHEDULED, ONGOING, DONE, CANCELED)"
// @Success 200 {object} controllers.ListSeminarsSuccessResponse "data is an array of seminars"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /seminars [get]
func (c *SeminarController) ListSeminars(w http.ResponseWriter, r *http.Request) {
	isAdmin := false
	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		isAdmin = actor.IsAdmin()
	}

	status := domain.SeminarStatus(r.URL.Query().Get("status"))
	if status == "" {
		if isAdmin {
			seminars, err := c.Service.ListSeminars(r.Context())
			if err != nil {
				c.writeError(w, r, err)
				return
			}
			helpers.WriteJSONSuccess(w, http.StatusOK, seminars)
			return
		}
		status = domain.SeminarScheduled
	}
	if status == domain.SeminarDraft && !isAdmin {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "draft seminars are not listable")
		return
	}

	seminars, err := c.Service.ListSeminarsByStatus(r.Context(), status)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, seminars)
}

// ParticipantsPage is the paginated payload for GET /admin/seminars/{seminarID}/participants.
type ParticipantsPage struct {
	Participants []*domain.SeminarParticipant `json:"participants"`
	Pagination   helpers.PaginationMeta       `json:"pagination"`
}

// ListParticipantsSuccessResponse is the success response envelope for GET /admin/seminars/{seminarID}/participants (200).
type ListParticipantsSuccessResponse struct {
	Data  *ParticipantsPage `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListParticipants godoc
// @Summary List a seminar's participants
// @Description Returns the seminar's registrations, paginated, ordered by registration time.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Param seminarID path string true "Seminar ID"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse "data contains participants and pagination metadata"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/seminars/{seminarID}/participants [get]
func (c *SeminarController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	seminarID := r.PathValue("seminarID")
	if seminarID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing seminarID")
		return
	}
	params := helpers.ParsePagination(r)

	participants, total, err := c.Service.ListParticipants(r.Context(), seminarID, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ParticipantsPage{
		Participants: participants,
		Pagination:   helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListMyParticipationsSuccessResponse is the success response envelope for GET /me/seminars (200).
type ListMyParticipationsSuccessResponse struct {
	Data  []*domain.SeminarParticipant `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListMyParticipations godoc
// @Summary Get the caller's seminar registrations
// @Description Returns all of the authenticated user's seminar registrations.
// @Tags seminars
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyParticipationsSuccessResponse "data is an array of registrations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/seminars [get]
func (c *SeminarController) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participations, err := c.Service.ListMyParticipations(r.Context(), actor.UserID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participations)
}

func (c *SeminarController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "seminar not found")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered")
	case errors.Is(err, domain.ErrInvalidState):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "seminar is not open for registration")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
