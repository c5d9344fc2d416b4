package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"service-schedule/internal/domain"
	"service-schedule/internal/service"
)

type SubstitutionHandler struct {
	service  *service.ScheduleService
	identity service.IdentityClient
	validate *validator.Validate
}

func NewSubstitutionHandler(svc *service.ScheduleService, identity service.IdentityClient) *SubstitutionHandler {
	return &SubstitutionHandler{
		service:  svc,
		identity: identity,
		validate: validator.New(),
	}
}

func (h *SubstitutionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /substitutions", h.handleCreate)
	mux.HandleFunc("GET /substitutions", h.handleList)
	mux.HandleFunc("POST /substitutions/{id}/approve", h.handleApprove)
	mux.HandleFunc("POST /substitutions/{id}/reject", h.handleReject)
}

func (h *SubstitutionHandler) requireRole(r *http.Request, roles ...string) (service.IdentityUser, error) {
	return requireRole(r, h.identity, roles...)
}

type substitutionRequest struct {
	Original   string `json:"original" validate:"required"`
	Substitute string `json:"substitute" validate:"required"`
	Course     string `json:"course" validate:"required"`
	Date       string `json:"date" validate:"required"`
}

type substitutionResponse struct {
	ID         string `json:"id"`
	Original   string `json:"original"`
	Substitute string `json:"substitute"`
	Course     string `json:"course"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func substitutionToResponse(request domain.SubstitutionRequest) substitutionResponse {
	return substitutionResponse{
		ID:         request.ID.String(),
		Original:   request.Original,
		Substitute: request.Substitute,
		Course:     request.Course,
		Date:       request.Date.Format("2006-01-02"),
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  request.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *SubstitutionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.requireRole(r, service.RoleFaculty, service.RoleHead); err != nil {
		writeServiceError(w, err)
		return
	}

	var req substitutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		writeServiceError(w, service.ErrInvalidInput)
		return
	}

	created, err := h.service.CreateSubstitutionRequest(r.Context(), service.SubstitutionCandidate{
		Original:   req.Original,
		Substitute: req.Substitute,
		Course:     req.Course,
		Date:       date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, substitutionToResponse(created))
}

func (h *SubstitutionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	var status *domain.ApprovalStatus
	if value := r.URL.Query().Get("status"); value != "" {
		parsed := domain.ApprovalStatus(value)
		status = &parsed
	}

	requests, err := h.service.ListSubstitutionRequests(r.Context(), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]substitutionResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, substitutionToResponse(request))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *SubstitutionHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, domain.StatusApproved)
}

func (h *SubstitutionHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, domain.StatusRejected)
}

func (h *SubstitutionHandler) handleDecision(w http.ResponseWriter, r *http.Request, next domain.ApprovalStatus) {
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

	decided, err := h.service.SetSubstitutionStatus(r.Context(), id, next, user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, substitutionToResponse(decided))
}
