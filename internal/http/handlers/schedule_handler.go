package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"service-schedule/internal/domain"
	"service-schedule/internal/service"
)

type ScheduleHandler struct {
	service  *service.ScheduleService
	identity service.IdentityClient
	validate *validator.Validate
}

func NewScheduleHandler(svc *service.ScheduleService, identity service.IdentityClient) *ScheduleHandler {
	return &ScheduleHandler{
		service:  svc,
		identity: identity,
		validate: validator.New(),
	}
}

func (h *ScheduleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /events", h.handleCreate)
	mux.HandleFunc("GET /events", h.handleList)
	mux.HandleFunc("GET /events/pending", h.handleListPending)
	mux.HandleFunc("GET /events/history", h.handleListHistory)
	mux.HandleFunc("GET /events/{id}", h.handleGet)
	mux.HandleFunc("PATCH /events/{id}", h.handleUpdate)
	mux.HandleFunc("POST /events/{id}/move", h.handleMove)
	mux.HandleFunc("POST /events/{id}/approve", h.handleApprove)
	mux.HandleFunc("POST /events/{id}/reject", h.handleReject)
	mux.HandleFunc("DELETE /events/{id}", h.handleDelete)
	mux.HandleFunc("GET /calendar", h.handleCalendar)
}

func (h *ScheduleHandler) requireRole(r *http.Request, roles ...string) (service.IdentityUser, error) {
	return requireRole(r, h.identity, roles...)
}

type eventRequest struct {
	Title   string `json:"title"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Kind    string `json:"kind" validate:"omitempty,oneof=class event"`
	Faculty string `json:"faculty"`
	Room    string `json:"room"`
	Details string `json:"details"`
}

func (h *ScheduleHandler) decodeCandidate(r *http.Request) (service.EventCandidate, error) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		return service.EventCandidate{}, service.ErrInvalidInput
	}
	if err := h.validate.Struct(req); err != nil {
		return service.EventCandidate{}, service.ErrInvalidInput
	}

	start, err := parseTimeOptional(req.Start)
	if err != nil {
		return service.EventCandidate{}, service.ErrInvalidInput
	}
	end, err := parseTimeOptional(req.End)
	if err != nil {
		return service.EventCandidate{}, service.ErrInvalidInput
	}

	return service.EventCandidate{
		Title:   req.Title,
		Start:   start,
		End:     end,
		Kind:    domain.EventKind(req.Kind),
		Faculty: req.Faculty,
		Room:    req.Room,
		Details: req.Details,
	}, nil
}

func (h *ScheduleHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireRole(r, service.RoleFaculty, service.RoleHead); err != nil {
		writeServiceError(w, err)
		return
	}

	candidate, err := h.decodeCandidate(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), candidate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventToResponse(event))
}

func (h *ScheduleHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireRole(r, service.RoleFaculty, service.RoleHead); err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	candidate, err := h.decodeCandidate(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), id, candidate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(event))
}

type moveEventRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (h *ScheduleHandler) handleMove(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireRole(r, service.RoleFaculty, service.RoleHead); err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	var req moveEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	event, err := h.service.MoveEvent(r.Context(), id, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(event))
}

func (h *ScheduleHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, domain.StatusApproved)
}

func (h *ScheduleHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, domain.StatusRejected)
}

func (h *ScheduleHandler) handleDecision(w http.ResponseWriter, r *http.Request, next domain.ApprovalStatus) {
	user, err := h.requireRole(r, service.RoleHead)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	event, err := h.service.SetEventStatus(r.Context(), id, next, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(event))
}

func (h *ScheduleHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireRole(r, service.RoleHead); err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToResponse(event))
}

func (h *ScheduleHandler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if window := query.Get("window"); window != "" {
		h.listByWindow(w, r, service.CalendarWindow(window), query.Get("date"))
		return
	}

	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	events, err := h.service.ListEventsBetween(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventsToResponse(events))
}

func (h *ScheduleHandler) listByWindow(w http.ResponseWriter, r *http.Request, window service.CalendarWindow, date string) {
	ref := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			writeServiceError(w, service.ErrInvalidInput)
			return
		}
		ref = parsed
	}

	view, err := h.service.CalendarViewAt(r.Context(), window, ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventsToResponse(view.Events))
}

func (h *ScheduleHandler) handleListPending(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListPendingEvents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsToResponse(events))
}

func (h *ScheduleHandler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEventHistory(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsToResponse(events))
}

type calendarResponse struct {
	Window string                                  `json:"window"`
	From   string                                  `json:"from"`
	To     string                                  `json:"to"`
	Events []eventResponse                         `json:"events"`
	Styles map[domain.EventKind]service.EventStyle `json:"styles"`
}

func (h *ScheduleHandler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	window := service.CalendarWindow(query.Get("window"))
	if window == "" {
		window = service.WindowWeek
	}

	ref := time.Now()
	if date := query.Get("date"); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			writeServiceError(w, service.ErrInvalidInput)
			return
		}
		ref = parsed
	}

	view, err := h.service.CalendarViewAt(r.Context(), window, ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Window: string(view.Window),
		From:   view.From.Format(time.RFC3339),
		To:     view.To.Format(time.RFC3339),
		Events: eventsToResponse(view.Events),
		Styles: view.Styles,
	})
}
