package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/storage"
)

// Интеграционные тесты пакета postgres:
// - поднимают реальный PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют goose-миграции из embed-каталога migrations/;
// - проверяют транзакционное заведение сотрудника, выбор активных учётных
//   данных, уникальность email (CITEXT) и защиту справочников от удаления по FK.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres поднимает временный PostgreSQL, применяет миграции и
// возвращает инициализированное хранилище с функцией очистки.
// Если GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	require.NoError(t, RunMigrations(ctx, dsn))

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

// seedRefs создаёт отдел и филиал, на которые ссылаются сотрудники.
func seedRefs(t *testing.T, st *Storage) (depID, branchID int64) {
	t.Helper()
	ctx := context.Background()

	dep, err := st.CreateDepartment(ctx, "Engineering")
	require.NoError(t, err)

	branch, err := st.CreateBranch(ctx, &models.Branch{
		Name: "HQ",
		Address: models.Address{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62704",
			Country: models.CountryUSA,
		},
	})
	require.NoError(t, err)
	require.NotZero(t, branch.Address.ID)

	return dep.ID, branch.ID
}

func testEmployee(depID, branchID int64, email string) *models.Employee {
	return &models.Employee{
		Email:        email,
		FirstName:    "Anna",
		LastName:     "Smith",
		Role:         models.RoleUser,
		Salary:       4200,
		Position:     models.PositionStaff,
		HireDate:     time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
		DepartmentID: depID,
		BranchID:     branchID,
		Address: models.Address{
			Street:  "2 Oak Ave",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
			Country: models.CountryUSA,
		},
	}
}

// TestIntegration_CreateEmployee_FullTransaction — заведение сотрудника создаёт
// адрес, пользователя и активные учётные данные атомарно; логин-путь
// (UserByEmail + ActiveCredential) видит результат.
func TestIntegration_CreateEmployee_FullTransaction(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	created, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "Anna.Smith@Example.com"), "bcrypt-hash-1")
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotZero(t, created.UserID)
	require.NotZero(t, created.Address.ID)
	require.Equal(t, models.PositionStaff, created.Position)

	// CITEXT: поиск регистронезависим.
	user, err := st.UserByEmail(ctx, "anna.smith@example.com")
	require.NoError(t, err)
	require.Equal(t, created.UserID, user.ID)
	require.Equal(t, models.RoleUser, user.Role)

	cred, err := st.ActiveCredential(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "bcrypt-hash-1", cred.PasswordHash)
	require.True(t, cred.Active)

	role, err := st.RoleByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, role)
}

// TestIntegration_CreateEmployee_DuplicateEmail — повторный email (в другом
// регистре) даёт ErrAlreadyExists, и никаких частичных записей не остаётся.
func TestIntegration_CreateEmployee_DuplicateEmail(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	_, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "dup@example.com"), "h1")
	require.NoError(t, err)

	_, err = st.CreateEmployee(ctx, testEmployee(depID, branchID, "DUP@EXAMPLE.COM"), "h2")
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	list, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

// TestIntegration_CreateEmployee_MissingReference — ссылка на несуществующий
// отдел даёт ErrNotFound.
func TestIntegration_CreateEmployee_MissingReference(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	_, branchID := seedRefs(t, st)

	e := testEmployee(999999, branchID, "nobody@example.com")
	_, err := st.CreateEmployee(ctx, e, "h")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ActiveCredential_PicksLatestActive — при нескольких записях
// учётных данных авторитетна самая свежая активная.
func TestIntegration_ActiveCredential_PicksLatestActive(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	created, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "hist@example.com"), "old-hash")
	require.NoError(t, err)

	// История смены пароля: старая запись деактивируется, добавляется новая.
	_, err = st.db.Exec(ctx, `UPDATE credentials SET active = FALSE WHERE user_id = $1`, created.UserID)
	require.NoError(t, err)
	_, err = st.db.Exec(ctx,
		`INSERT INTO credentials (user_id, password_hash, active, created_at) VALUES ($1, $2, TRUE, now())`,
		created.UserID, "new-hash")
	require.NoError(t, err)

	cred, err := st.ActiveCredential(ctx, created.UserID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", cred.PasswordHash)

	// Ни одной активной записи — ErrNotFound.
	_, err = st.db.Exec(ctx, `UPDATE credentials SET active = FALSE WHERE user_id = $1`, created.UserID)
	require.NoError(t, err)

	_, err = st.ActiveCredential(ctx, created.UserID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_UpdateEmployee_Partial — частичное обновление меняет только
// переданные поля, включая адрес и роль.
func TestIntegration_UpdateEmployee_Partial(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	created, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "upd@example.com"), "h")
	require.NoError(t, err)

	newSalary := 5000.0
	newRole := models.RoleAdmin
	newCity := created.Address
	newCity.City = "Chicago"

	got, err := st.UpdateEmployee(ctx, created.ID, storage.EmployeeUpdate{
		Salary:  &newSalary,
		Role:    &newRole,
		Address: &newCity,
	})
	require.NoError(t, err)
	require.Equal(t, newSalary, got.Salary)
	require.Equal(t, models.RoleAdmin, got.Role)
	require.Equal(t, "Chicago", got.Address.City)
	// Нетронутые поля сохраняются.
	require.Equal(t, created.FirstName, got.FirstName)
	require.Equal(t, created.Position, got.Position)

	_, err = st.UpdateEmployee(ctx, 999999, storage.EmployeeUpdate{Salary: &newSalary})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_DeleteEmployee_Cascades — удаление сотрудника убирает
// учётную запись, учётные данные и адрес.
func TestIntegration_DeleteEmployee_Cascades(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	created, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "gone@example.com"), "h")
	require.NoError(t, err)

	require.NoError(t, st.DeleteEmployee(ctx, created.ID))

	_, err = st.EmployeeByID(ctx, created.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByEmail(ctx, "gone@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	var addrCount int
	require.NoError(t, st.db.QueryRow(ctx,
		`SELECT count(*) FROM addresses WHERE id = $1`, created.Address.ID).Scan(&addrCount))
	require.Zero(t, addrCount)

	require.ErrorIs(t, st.DeleteEmployee(ctx, created.ID), storage.ErrNotFound)
}

// TestIntegration_DeleteReferencedRefs — отдел/филиал с сотрудниками
// удалить нельзя (ErrReferenced), после удаления сотрудника — можно.
func TestIntegration_DeleteReferencedRefs(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	depID, branchID := seedRefs(t, st)

	created, err := st.CreateEmployee(ctx, testEmployee(depID, branchID, "ref@example.com"), "h")
	require.NoError(t, err)

	require.ErrorIs(t, st.DeleteDepartment(ctx, depID), storage.ErrReferenced)
	require.ErrorIs(t, st.DeleteBranch(ctx, branchID), storage.ErrReferenced)

	require.NoError(t, st.DeleteEmployee(ctx, created.ID))

	require.NoError(t, st.DeleteDepartment(ctx, depID))
	require.NoError(t, st.DeleteBranch(ctx, branchID))
}

// TestIntegration_Branches_CRUD — филиал создаётся вместе с адресом,
// обновляется частично и удаляется вместе с адресом.
func TestIntegration_Branches_CRUD(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()

	branch, err := st.CreateBranch(ctx, &models.Branch{
		Name: "East",
		Address: models.Address{
			Street:  "5 Pine Rd",
			City:    "Beirut",
			State:   "BA",
			ZipCode: "1100",
			Country: models.CountryLEB,
		},
	})
	require.NoError(t, err)

	newName := "East Office"
	got, err := st.UpdateBranch(ctx, branch.ID, storage.BranchUpdate{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, got.Name)
	require.Equal(t, "Beirut", got.Address.City)

	addrID := got.Address.ID
	require.NoError(t, st.DeleteBranch(ctx, branch.ID))

	var addrCount int
	require.NoError(t, st.db.QueryRow(ctx,
		`SELECT count(*) FROM addresses WHERE id = $1`, addrID).Scan(&addrCount))
	require.Zero(t, addrCount)

	_, err = st.BranchByID(ctx, branch.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_ContextCanceled — отменённый контекст даёт ошибку, а не зависание.
func TestIntegration_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.ListDepartments(ctx)
	require.Error(t, err)
}
