package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"travel_backend/internal/models"
)

// ErrTokenNotFound covers missing, expired and already-consumed tokens
// alike; the store never distinguishes them.
var ErrTokenNotFound = errors.New("reset token not found")

// ResetTokenRepository stores password-reset tokens. Validity ("exists,
// unconsumed, unexpired") and the exactly-once consume transition are
// storage-layer contracts: Consume is a conditional update, not a
// read-then-write, so concurrent redemptions of one token admit a single
// winner.
type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	FindValid(token string) (*models.PasswordResetToken, error)
	// Consume atomically marks the token consumed, swaps the owning
	// user's password hash and removes the spent row. Returns
	// ErrTokenNotFound unless exactly one valid token made the
	// transition.
	Consume(token string, newPasswordHash string) error
	// DeleteExpired reclaims expired and consumed rows; they are inert
	// either way since every lookup checks expiry, so this is pure
	// garbage collection.
	DeleteExpired() (int64, error)
}

type ResetTokenRepositoryImpl struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &ResetTokenRepositoryImpl{db: db}
}

func (r *ResetTokenRepositoryImpl) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *ResetTokenRepositoryImpl) FindValid(token string) (*models.PasswordResetToken, error) {
	var prt models.PasswordResetToken
	err := r.db.
		Where("token = ? AND consumed = ? AND expires_at > ?", token, false, time.Now()).
		First(&prt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &prt, nil
}

func (r *ResetTokenRepositoryImpl) Consume(token string, newPasswordHash string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Conditional update: of two concurrent redemptions only one
		// sees consumed = false and wins the row.
		result := tx.Model(&models.PasswordResetToken{}).
			Where("token = ? AND consumed = ? AND expires_at > ?", token, false, time.Now()).
			Update("consumed", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTokenNotFound
		}

		var prt models.PasswordResetToken
		if err := tx.First(&prt, "token = ?", token).Error; err != nil {
			return err
		}

		userResult := tx.Model(&models.User{}).
			Where("id = ?", prt.UserID).
			Updates(map[string]interface{}{
				"password_hash": newPasswordHash,
				"updated_at":    time.Now(),
			})
		if userResult.Error != nil {
			return userResult.Error
		}
		if userResult.RowsAffected == 0 {
			// Owner vanished between issue and redemption.
			return ErrTokenNotFound
		}

		// Spent tokens are removed, not kept as tombstones.
		return tx.Delete(&prt).Error
	})
}

func (r *ResetTokenRepositoryImpl) DeleteExpired() (int64, error) {
	result := r.db.
		Where("expires_at <= ? OR consumed = ?", time.Now(), true).
		Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
