package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/учётные данные/сущность).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrReferenced — сущность нельзя удалить, на неё есть ссылки (FK).
	ErrReferenced = errors.New("referenced by other records")
)

// UserStorage выполняет операции чтения пользователей и их учётных данных.
//
// Создание/ротация учётных данных — административная операция и выполняется
// только внутри EmployeeStorage.CreateEmployee; со стороны авторизации
// хранилище используется только на чтение.
type UserStorage interface {
	// UserByEmail находит пользователя по нормализованному email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id int64) (*models.User, error)
	// RoleByID возвращает текущую роль пользователя.
	RoleByID(ctx context.Context, id int64) (models.Role, error)
	// ActiveCredential возвращает самую свежую активную запись учётных данных
	// пользователя или ErrNotFound, если активных записей нет.
	ActiveCredential(ctx context.Context, userID int64) (*models.Credential, error)
}

// EmployeeUpdate — частичное обновление сотрудника.
// nil-поле означает «не менять».
type EmployeeUpdate struct {
	FirstName    *string
	LastName     *string
	Role         *models.Role
	Salary       *float64
	Position     *models.Position
	HireDate     *time.Time
	DepartmentID *int64
	BranchID     *int64
	Address      *models.Address
}

// EmployeeStorage выполняет операции над сотрудниками.
type EmployeeStorage interface {
	// CreateEmployee атомарно создаёт адрес, пользователя, активную запись
	// учётных данных (passwordHash) и запись сотрудника.
	CreateEmployee(ctx context.Context, employee *models.Employee, passwordHash string) (*models.Employee, error)
	// EmployeeByID находит сотрудника по ID вместе с адресом.
	EmployeeByID(ctx context.Context, id int64) (*models.Employee, error)
	// ListEmployees возвращает всех сотрудников.
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	// UpdateEmployee применяет частичное обновление.
	UpdateEmployee(ctx context.Context, id int64, update EmployeeUpdate) (*models.Employee, error)
	// DeleteEmployee удаляет сотрудника.
	DeleteEmployee(ctx context.Context, id int64) error
}

// DepartmentStorage выполняет операции над отделами.
type DepartmentStorage interface {
	CreateDepartment(ctx context.Context, name string) (*models.Department, error)
	DepartmentByID(ctx context.Context, id int64) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, id int64, name string) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
}

// BranchUpdate — частичное обновление филиала.
type BranchUpdate struct {
	Name    *string
	Address *models.Address
}

// BranchStorage выполняет операции над филиалами.
type BranchStorage interface {
	// CreateBranch создаёт филиал вместе с адресом (одной транзакцией).
	CreateBranch(ctx context.Context, branch *models.Branch) (*models.Branch, error)
	BranchByID(ctx context.Context, id int64) (*models.Branch, error)
	ListBranches(ctx context.Context) ([]models.Branch, error)
	UpdateBranch(ctx context.Context, id int64, update BranchUpdate) (*models.Branch, error)
	DeleteBranch(ctx context.Context, id int64) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	EmployeeStorage
	DepartmentStorage
	BranchStorage
	Close()
}
