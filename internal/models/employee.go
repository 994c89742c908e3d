package models

import "time"

// Position — должность сотрудника.
type Position string

const (
	PositionExecutive Position = "EXECUTIVE"
	PositionManager   Position = "MANAGER"
	PositionStaff     Position = "STAFF"
)

// Valid сообщает, является ли значение известной должностью.
func (p Position) Valid() bool {
	switch p {
	case PositionExecutive, PositionManager, PositionStaff:
		return true
	}

	return false
}

// Employee — сотрудник компании.
//
// Агрегирует данные пользователя (email, имя, роль) и кадровые атрибуты.
// UserID ссылается на учётную запись, через которую сотрудник входит в систему.
type Employee struct {
	ID           int64
	UserID       int64
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Salary       float64
	Position     Position
	HireDate     time.Time
	DepartmentID int64
	BranchID     int64
	Address      Address
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
