package models

import "time"

// BaseModel defines the common fields for entities that own a server-assigned ID.
// IDs are positive, assigned on create and never reused.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

