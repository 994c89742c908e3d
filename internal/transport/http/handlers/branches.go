package handlers

import (
	"net/http"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

type addressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

func (a addressPayload) toModel() models.Address {
	return models.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: models.Country(a.Country),
	}
}

type addressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

func addressFromModel(a models.Address) addressResponse {
	return addressResponse{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: string(a.Country),
	}
}

type createBranchRequest struct {
	Name    string         `json:"name"`
	Address addressPayload `json:"address"`
}

type updateBranchRequest struct {
	Name    *string         `json:"name"`
	Address *addressPayload `json:"address"`
}

type branchResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Address   addressResponse `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func branchFromModel(b *models.Branch) branchResponse {
	return branchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   addressFromModel(b.Address),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateBranch — POST /branch.
func (h *Handlers) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var in createBranchRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	branch, err := h.svc.CreateBranch(r.Context(), service.CreateBranchInput{
		Name:    in.Name,
		Address: in.Address.toModel(),
	})
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, branchFromModel(branch))
}

// BranchByID — GET /branch/{id}.
func (h *Handlers) BranchByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	branch, err := h.svc.BranchByID(r.Context(), id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, branchFromModel(branch))
}

// ListBranches — GET /branch.
func (h *Handlers) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.svc.ListBranches(r.Context())
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	out := make([]branchResponse, 0, len(branches))
	for i := range branches {
		out = append(out, branchFromModel(&branches[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// UpdateBranch — PUT /branch/{id}.
// Частичное обновление: отсутствующее поле не трогается.
func (h *Handlers) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	var in updateBranchRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	update := storage.BranchUpdate{Name: in.Name}
	if in.Address != nil {
		addr := in.Address.toModel()
		update.Address = &addr
	}

	branch, err := h.svc.UpdateBranch(r.Context(), id, update)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, branchFromModel(branch))
}

// DeleteBranch — DELETE /branch/{id}.
// Филиал, на который ссылаются сотрудники, не удаляется (409).
func (h *Handlers) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteBranch(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
