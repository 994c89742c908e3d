package models

import "time"

// Credential — запись учётных данных пользователя.
//
// У одного пользователя может быть несколько записей (история смен пароля);
// авторитетной для входа является самая свежая запись с Active = true.
// Выбор «текущей» записи делает хранилище (created_at DESC среди активных).
type Credential struct {
	ID           int64
	UserID       int64
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
