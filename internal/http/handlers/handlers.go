package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"service-schedule/internal/domain"
	"service-schedule/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeServiceError maps engine errors onto HTTP statuses. The error message
// travels verbatim in the body: the UI shows it in a transient banner.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusForbidden
		message = "forbidden"
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
		message = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func parseTimeOptional(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// requireRole resolves the acting user from the X-User-ID header and checks
// that they carry one of the given roles. The engine itself never checks
// roles; this is the caller-side gate.
func requireRole(r *http.Request, identity service.IdentityClient, roles ...string) (service.IdentityUser, error) {
	header := r.Header.Get("X-User-ID")
	if header == "" {
		return service.IdentityUser{}, service.ErrUnauthorized
	}
	userID, err := uuid.Parse(header)
	if err != nil {
		return service.IdentityUser{}, service.ErrInvalidInput
	}

	user, err := identity.GetMe(r.Context(), userID)
	if err != nil {
		return service.IdentityUser{}, err
	}
	if !user.HasRole(roles...) {
		return service.IdentityUser{}, service.ErrUnauthorized
	}
	return user, nil
}

type eventResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	Faculty   string `json:"faculty,omitempty"`
	Room      string `json:"room,omitempty"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func eventToResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:        event.ID.String(),
		Title:     event.Title,
		Start:     event.Start.Format(time.RFC3339),
		End:       event.End.Format(time.RFC3339),
		Kind:      string(event.Kind),
		Status:    string(event.Status),
		Faculty:   event.Faculty,
		Room:      event.Room,
		Details:   event.Details,
		CreatedAt: event.CreatedAt.Format(time.RFC3339),
		UpdatedAt: event.UpdatedAt.Format(time.RFC3339),
	}
}

func eventsToResponse(events []domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, eventToResponse(event))
	}
	return out
}
