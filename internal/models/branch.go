package models

import "time"

// Branch — филиал компании вместе с адресом.
type Branch struct {
	ID        int64
	Name      string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
}
