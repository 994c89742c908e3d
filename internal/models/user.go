package models

import "time"

// User - модель пользователя в системе.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
