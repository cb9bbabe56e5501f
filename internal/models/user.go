package models

import "time"

type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex:idx_users_username;size:50;not null"`
	Email        string   `gorm:"uniqueIndex:idx_users_email;size:180;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'"`

	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// PasswordResetToken is a single-use, time-bounded credential permitting
// exactly one password change for its owning user. A token is valid iff it
// exists, Consumed is false and ExpiresAt is in the future.
type PasswordResetToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"size:64;not null;uniqueIndex:idx_reset_tokens_token"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Consumed  bool      `gorm:"not null;default:false"`

	User *User `gorm:"foreignKey:UserID"`
}
