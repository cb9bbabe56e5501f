package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"travel_backend/internal/auth"
	"travel_backend/internal/config"
	"travel_backend/internal/email"
	"travel_backend/internal/logger"
	"travel_backend/internal/models"
	"travel_backend/internal/repositories"
	"travel_backend/internal/services/dto"
	"travel_backend/internal/validator"
	"travel_backend/pkg/apperrors"
)

// resetTokenTTL is how long an issued recovery token stays redeemable.
const resetTokenTTL = 1 * time.Hour

// forgotPasswordMessage is returned for every well-formed recovery
// request, known account or not, so the endpoint cannot be used to probe
// which emails are registered.
const forgotPasswordMessage = "If the email exists, a reset link has been sent"

// PasswordResetService issues and redeems single-use recovery tokens.
// Tokens are 256 bits from crypto/rand, stored and transported as hex;
// the raw token appears only inside the mailed link and is never logged.
type PasswordResetService interface {
	// RequestReset handles the self-service flow. The outcome is
	// identical whether or not the email maps to an account.
	RequestReset(req *dto.ForgotPasswordRequest) error

	// AdminTriggerReset issues a token for an arbitrary account. Unlike
	// RequestReset it reports a missing account, since the caller is
	// already trusted.
	AdminTriggerReset(principal auth.Principal, userID string) error

	// Redeem consumes the token and installs the new password. Exactly
	// one redemption per token succeeds.
	Redeem(token string, req *dto.ResetPasswordRequest) error
}

type PasswordResetServiceImpl struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	mailer    email.Provider
}

func NewPasswordResetService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.ResetTokenRepository,
	mailer email.Provider,
) PasswordResetService {
	return &PasswordResetServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
	}
}

func (s *PasswordResetServiceImpl) RequestReset(req *dto.ForgotPasswordRequest) error {
	emailAddr := validator.NormalizeEmail(req.Email)
	if vErr := validator.ValidateEmail(emailAddr); vErr != nil {
		return vErr
	}

	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			// Unknown address: report success without issuing anything.
			return nil
		}
		return apperrors.InternalError(err)
	}

	return s.issueToken(user)
}

func (s *PasswordResetServiceImpl) AdminTriggerReset(principal auth.Principal, userID string) error {
	if !principal.CanManageAccounts() {
		return apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	return s.issueToken(user)
}

func (s *PasswordResetServiceImpl) Redeem(token string, req *dto.ResetPasswordRequest) error {
	if vErr := validator.ValidatePassword(req.Password); vErr != nil {
		return vErr
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.tokenRepo.Consume(token, hash); err != nil {
		if apperrors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// issueToken mints a fresh token for the user and sends the recovery
// mail in the background. Earlier tokens stay valid until they expire or
// are consumed.
func (s *PasswordResetServiceImpl) issueToken(user *models.User) error {
	token, err := generateResetToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	prt := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.tokenRepo.Create(prt); err != nil {
		return apperrors.InternalError(err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", config.GetConfig().FrontendURL, token)

	// Delivery runs detached: the token is already persisted and the
	// caller's response must not depend on the mail round-trip.
	go func(to, displayName, url string) {
		if sendErr := s.mailer.SendPasswordReset(to, displayName, url); sendErr != nil {
			logger.Error("failed to send password reset email",
				"user_id", user.ID,
				"error", sendErr,
			)
		}
	}(user.Email, user.Username, resetURL)

	return nil
}

// generateResetToken returns 32 bytes of crypto/rand entropy hex encoded,
// a 64 character token.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
