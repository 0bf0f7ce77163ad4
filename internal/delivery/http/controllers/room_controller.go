package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"expomeet/internal/delivery/http/helpers"
	"expomeet/internal/delivery/http/middleware"
	"expomeet/internal/domain"
)

// accessTokenTTL bounds how long a minted join token stays usable.
const accessTokenTTL = 2 * time.Hour

type RoomController struct {
	Logger  *slog.Logger
	Service domain.RoomService
}

func NewRoomController(logger *slog.Logger, svc domain.RoomService) *RoomController {
	return &RoomController{
		Logger:  logger,
		Service: svc,
	}
}

// ListRoomsSuccessResponse is the success response envelope for GET /admin/rooms (200).
type ListRoomsSuccessResponse struct {
	Data  []*domain.LiveRoom `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListRooms godoc
// @Summary List live rooms
// @Description Returns the rooms currently active on the room provider.
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListRoomsSuccessResponse "data is an array of rooms"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/rooms [get]
func (c *RoomController) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Service.ListRooms(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if rooms == nil {
		rooms = []*domain.LiveRoom{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// RoomTokenRequest is the request body for POST /rooms/token.
type RoomTokenRequest struct {
	RoomName string `json:"room_name"`
}

// Validate implements helpers.Validator.
func (req RoomTokenRequest) Validate() []string {
	if strings.TrimSpace(req.RoomName) == "" {
		return []string{"room_name is required"}
	}
	return nil
}

// RoomTokenResponse is the response body for POST /rooms/token.
type RoomTokenResponse struct {
	Token    string `json:"token"`
	RoomName string `json:"room_name"`
}

// CreateAccessToken godoc
// @Summary Mint a room join token
// @Description Returns a short-lived access token that lets the authenticated user join the named live room.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RoomTokenRequest true "Room to join"
// @Success 200 {object} helpers.APIResponse "data contains token and room_name"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rooms/token [post]
func (c *RoomController) CreateAccessToken(w http.ResponseWriter, r *http.Request) {
	var req RoomTokenRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	token, err := c.Service.CreateAccessToken(actor.UserID, req.RoomName, accessTokenTTL)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RoomTokenResponse{Token: token, RoomName: req.RoomName})
}
