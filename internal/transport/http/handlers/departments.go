package handlers

import (
	"net/http"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

type departmentRequest struct {
	Name string `json:"name"`
}

type departmentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func departmentFromModel(d *models.Department) departmentResponse {
	return departmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateDepartment — POST /department.
func (h *Handlers) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var in departmentRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	dep, err := h.svc.CreateDepartment(r.Context(), in.Name)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, departmentFromModel(dep))
}

// DepartmentByID — GET /department/{id}.
func (h *Handlers) DepartmentByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	dep, err := h.svc.DepartmentByID(r.Context(), id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, departmentFromModel(dep))
}

// ListDepartments — GET /department.
func (h *Handlers) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.svc.ListDepartments(r.Context())
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	out := make([]departmentResponse, 0, len(deps))
	for i := range deps {
		out = append(out, departmentFromModel(&deps[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// UpdateDepartment — PUT /department/{id}.
func (h *Handlers) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	var in departmentRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	dep, err := h.svc.UpdateDepartment(r.Context(), id, in.Name)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, departmentFromModel(dep))
}

// DeleteDepartment — DELETE /department/{id}.
// Отдел, на который ссылаются сотрудники, не удаляется (409).
func (h *Handlers) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteDepartment(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
