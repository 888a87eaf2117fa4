package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// Subscribe is the follow edge: user follows owner. Self-follow is rejected
// in the service layer; the composite unique index rejects duplicates.
type Subscribe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscribe_user_owner" json:"user_id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_subscribe_user_owner" json:"owner_id"`
}

func (Subscribe) TableName() string {
	return "subscribes"
}
