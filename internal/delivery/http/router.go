package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"expomeet/internal/delivery/http/controllers"
	"expomeet/internal/delivery/http/middleware"
	"expomeet/internal/domain"
)

// Controllers bundles the controllers the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Event        *controllers.EventController
	Consultation *controllers.ConsultationController
	Seminar      *controllers.SeminarController
	Room         *controllers.RoomController
}

// NewRouter initializes the HTTP router with all application routes.
// Routes under /admin require the admin role; /me and the booking and
// registration writes require authentication; the remaining reads are public,
// with visibility widened when a valid token is supplied.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	optional := middleware.OptionalAuth(verifier)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireAdmin(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Public event reads
	mux.HandleFunc("GET /events/phase/{phase}", c.Event.ListEventsByPhase)
	mux.HandleFunc("GET /events/{eventID}", optional(c.Event.GetEventOverview))
	mux.HandleFunc("GET /events/{eventID}/consultations", c.Consultation.ListConsultationsByEvent)
	mux.HandleFunc("GET /consultations/{consultationID}", c.Consultation.GetConsultation)

	// Public seminar reads
	mux.HandleFunc("GET /seminars", optional(c.Seminar.ListSeminars))
	mux.HandleFunc("GET /seminars/{seminarID}", optional(c.Seminar.GetSeminar))

	// Participant actions
	mux.HandleFunc("POST /events/{eventID}/exhibitors/{exhibitorID}/slots/{slotID}/book", auth(c.Consultation.BookSlot))
	mux.HandleFunc("POST /slots/{slotID}/cancel", auth(c.Consultation.CancelSlot))
	mux.HandleFunc("POST /seminars/{seminarID}/register", auth(c.Seminar.Register))
	mux.HandleFunc("POST /rooms/token", auth(c.Room.CreateAccessToken))
	mux.HandleFunc("GET /me/schedule", auth(c.Consultation.ListMySchedule))
	mux.HandleFunc("GET /me/seminars", auth(c.Seminar.ListMyParticipations))

	// Event administration
	mux.HandleFunc("POST /admin/events", admin(c.Event.CreateEvent))
	mux.HandleFunc("GET /admin/events", admin(c.Event.ListEvents))
	mux.HandleFunc("PATCH /admin/events/{eventID}", admin(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", admin(c.Event.DeleteEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/schedule", admin(c.Event.ScheduleEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/start", admin(c.Event.StartEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/cancel", admin(c.Event.CancelEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/complete", admin(c.Event.CompleteEvent))

	// Consultation and slot administration
	mux.HandleFunc("POST /admin/consultations", admin(c.Consultation.CreateConsultation))
	mux.HandleFunc("POST /admin/consultations/{consultationID}/slots", admin(c.Consultation.CreateSlots))
	mux.HandleFunc("POST /admin/consultations/{consultationID}/slots/{slotID}/book", admin(c.Consultation.BookSlotByAdmin))
	mux.HandleFunc("POST /admin/slots/{slotID}/start", admin(c.Consultation.StartSlot))
	mux.HandleFunc("POST /admin/slots/{slotID}/end", admin(c.Consultation.EndSlot))
	mux.HandleFunc("POST /admin/slots/{slotID}/done", admin(c.Consultation.MarkSlotDone))
	mux.HandleFunc("POST /admin/slots/{slotID}/not-present", admin(c.Consultation.MarkSlotNotPresent))
	mux.HandleFunc("POST /admin/slots/{slotID}/available", admin(c.Consultation.MarkSlotAvailable))
	mux.HandleFunc("POST /admin/slots/{slotID}/not-available", admin(c.Consultation.MarkSlotNotAvailable))
	mux.HandleFunc("POST /admin/slots/{slotID}/remove-participant", admin(c.Consultation.RemoveParticipant))
	mux.HandleFunc("DELETE /admin/slots/{slotID}", admin(c.Consultation.DeleteSlot))

	// Seminar administration
	mux.HandleFunc("POST /admin/seminars", admin(c.Seminar.CreateSeminar))
	mux.HandleFunc("PATCH /admin/seminars/{seminarID}", admin(c.Seminar.UpdateSeminar))
	mux.HandleFunc("DELETE /admin/seminars/{seminarID}", admin(c.Seminar.DeleteSeminar))
	mux.HandleFunc("POST /admin/seminars/{seminarID}/schedule", admin(c.Seminar.ScheduleSeminar))
	mux.HandleFunc("POST /admin/seminars/{seminarID}/start", admin(c.Seminar.StartSeminar))
	mux.HandleFunc("POST /admin/seminars/{seminarID}/cancel", admin(c.Seminar.CancelSeminar))
	mux.HandleFunc("POST /admin/seminars/{seminarID}/end", admin(c.Seminar.EndSeminar))
	mux.HandleFunc("POST /admin/seminars/{seminarID}/participants", admin(c.Seminar.RegisterByAdmin))
	mux.HandleFunc("GET /admin/seminars/{seminarID}/participants", admin(c.Seminar.ListParticipants))

	// Rooms
	mux.HandleFunc("GET /admin/rooms", admin(c.Room.ListRooms))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
