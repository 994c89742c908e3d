package handlers

import (
	"net/http"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

type createEmployeeRequest struct {
	Email        string         `json:"email"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Role         string         `json:"role"`
	Salary       float64        `json:"salary"`
	Position     string         `json:"position"`
	HireDate     time.Time      `json:"hire_date"`
	DepartmentID int64          `json:"department_id"`
	BranchID     int64          `json:"branch_id"`
	Address      addressPayload `json:"address"`
}

type updateEmployeeRequest struct {
	FirstName    *string         `json:"first_name"`
	LastName     *string         `json:"last_name"`
	Role         *string         `json:"role"`
	Salary       *float64        `json:"salary"`
	Position     *string         `json:"position"`
	HireDate     *time.Time      `json:"hire_date"`
	DepartmentID *int64          `json:"department_id"`
	BranchID     *int64          `json:"branch_id"`
	Address      *addressPayload `json:"address"`
}

type employeeResponse struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Email        string          `json:"email"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Role         string          `json:"role"`
	Salary       float64         `json:"salary"`
	Position     string          `json:"position"`
	HireDate     time.Time       `json:"hire_date"`
	DepartmentID int64           `json:"department_id"`
	BranchID     int64           `json:"branch_id"`
	Address      addressResponse `json:"address"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// createEmployeeResponse дополняет сотрудника временным паролем.
// Пароль показывается администратору один-единственный раз: в системе
// хранится только его bcrypt-хэш.
type createEmployeeResponse struct {
	employeeResponse
	TemporaryPassword string `json:"temporary_password"`
}

func employeeFromModel(e *models.Employee) employeeResponse {
	return employeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Email:        e.Email,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Role:         string(e.Role),
		Salary:       e.Salary,
		Position:     string(e.Position),
		HireDate:     e.HireDate,
		DepartmentID: e.DepartmentID,
		BranchID:     e.BranchID,
		Address:      addressFromModel(e.Address),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// CreateEmployee — POST /employee.
// Заводит сотрудника одной транзакцией: адрес, пользователь, активные
// учётные данные со сгенерированным временным паролем, кадровая запись.
func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in createEmployeeRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	employee, tempPassword, err := h.svc.CreateEmployee(r.Context(), service.CreateEmployeeInput{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.Role(in.Role),
		Salary:       in.Salary,
		Position:     models.Position(in.Position),
		HireDate:     in.HireDate,
		DepartmentID: in.DepartmentID,
		BranchID:     in.BranchID,
		Address:      in.Address.toModel(),
	})
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createEmployeeResponse{
		employeeResponse:  employeeFromModel(employee),
		TemporaryPassword: tempPassword,
	})
}

// EmployeeByID — GET /employee/{id}.
func (h *Handlers) EmployeeByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	employee, err := h.svc.EmployeeByID(r.Context(), id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, employeeFromModel(employee))
}

// ListEmployees — GET /employee.
func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	out := make([]employeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, employeeFromModel(&employees[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// UpdateEmployee — PUT /employee/{id}.
// Частичное обновление: отсутствующее поле не трогается.
func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	var in updateEmployeeRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	update := storage.EmployeeUpdate{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Salary:       in.Salary,
		HireDate:     in.HireDate,
		DepartmentID: in.DepartmentID,
		BranchID:     in.BranchID,
	}

	if in.Role != nil {
		role := models.Role(*in.Role)
		update.Role = &role
	}

	if in.Position != nil {
		position := models.Position(*in.Position)
		update.Position = &position
	}

	if in.Address != nil {
		addr := in.Address.toModel()
		update.Address = &addr
	}

	employee, err := h.svc.UpdateEmployee(r.Context(), id, update)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, employeeFromModel(employee))
}

// DeleteEmployee — DELETE /employee/{id}.
// Вместе с кадровой записью удаляются учётная запись пользователя,
// его учётные данные и адрес.
func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteEmployee(r.Context(), id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
