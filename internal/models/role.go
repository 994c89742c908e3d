package models

// Role — классификация пользователя в системе.
//
// Значения совпадают с enum в БД:
//   - RoleUser — обычный пользователь;
//   - RoleAdmin — администратор, которому доступны защищённые
//     административные операции (см. service.Authorize).
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid сообщает, является ли значение известной ролью.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}

	return false
}
