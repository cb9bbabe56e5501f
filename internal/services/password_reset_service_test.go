package services

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_backend/internal/auth"
	"travel_backend/internal/models"
	"travel_backend/internal/services/dto"
	"travel_backend/pkg/apperrors"
)

func newResetFixture(t *testing.T) (*fakeUserRepo, *fakeTokenRepo, *fakeMailer, PasswordResetService) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo(users)
	mailer := newFakeMailer()
	svc := NewPasswordResetService(users, tokens, mailer)
	return users, tokens, mailer, svc
}

func seedUser(t *testing.T, users *fakeUserRepo) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("abc12345")
	require.NoError(t, err)
	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.UserRoleUser,
	}
	require.NoError(t, users.Create(user))
	return user
}

func TestRequestResetIssuesTokenAndMail(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)

	err := svc.RequestReset(&dto.ForgotPasswordRequest{Email: "  Alice@Example.COM "})
	require.NoError(t, err)

	require.Equal(t, 1, tokens.tokenCount())
	token := tokens.anyToken()
	assert.Len(t, token.Token, 64)
	assert.False(t, token.Consumed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	mail, ok := mailer.waitForDelivery(2 * time.Second)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", mail.To)
	assert.Equal(t, "alice", mail.Name)
	assert.Equal(t, "http://localhost:5177/reset-password/"+token.Token, mail.ResetURL)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)

	err := svc.RequestReset(&dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 0, tokens.tokenCount())
	_, delivered := mailer.waitForDelivery(100 * time.Millisecond)
	assert.False(t, delivered)
}

func TestRequestResetRejectsInvalidEmail(t *testing.T) {
	_, tokens, _, svc := newResetFixture(t)

	appErr := requireAppError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "not-an-email"}))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, 0, tokens.callCount())
}

func TestMailFailureDoesNotFailRequest(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)
	mailer.failNext = true

	err := svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	// The token survives even though delivery failed.
	_, delivered := mailer.waitForDelivery(2 * time.Second)
	require.True(t, delivered)
	assert.Equal(t, 1, tokens.tokenCount())
}

func TestRepeatedRequestsIssueIndependentTokens(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)

	require.NoError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"}))
	require.NoError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"}))
	mailer.waitForDelivery(2 * time.Second)
	mailer.waitForDelivery(2 * time.Second)

	// Earlier tokens are not revoked by later requests.
	assert.Equal(t, 2, tokens.tokenCount())
}

func TestRedeemHappyPathThenReplayFails(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	user := seedUser(t, users)

	require.NoError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"}))
	mailer.waitForDelivery(2 * time.Second)
	token := tokens.anyToken()

	require.NoError(t, svc.Redeem(token.Token, &dto.ResetPasswordRequest{Password: "newpass99"}))

	updated, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("newpass99", updated.PasswordHash))
	assert.False(t, auth.CheckPasswordHash("abc12345", updated.PasswordHash))

	// Second redemption of the same token is indistinguishable from a
	// token that never existed.
	appErr := requireAppError(t, svc.Redeem(token.Token, &dto.ResetPasswordRequest{Password: "another99"}))
	assert.Equal(t, apperrors.CodeInvalidToken, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPCode)

	// And the replay did not change the password again.
	updated, _ = users.FindByID(user.ID)
	assert.True(t, auth.CheckPasswordHash("newpass99", updated.PasswordHash))
}

func TestRedeemUnknownAndExpiredLookAlike(t *testing.T) {
	users, tokens, _, svc := newResetFixture(t)
	user := seedUser(t, users)

	expired := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     strings.Repeat("ab", 32),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokens.Create(expired))

	errExpired := svc.Redeem(expired.Token, &dto.ResetPasswordRequest{Password: "newpass99"})
	errUnknown := svc.Redeem(strings.Repeat("cd", 32), &dto.ResetPasswordRequest{Password: "newpass99"})

	appErr1 := requireAppError(t, errExpired)
	appErr2 := requireAppError(t, errUnknown)
	assert.Equal(t, appErr1.Message, appErr2.Message)
	assert.Equal(t, appErr1.HTTPCode, appErr2.HTTPCode)
}

func TestRedeemValidatesPasswordFirst(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)
	require.NoError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"}))
	mailer.waitForDelivery(2 * time.Second)
	token := tokens.anyToken()

	appErr := requireAppError(t, svc.Redeem(token.Token, &dto.ResetPasswordRequest{Password: "short"}))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// A rejected password leaves the token redeemable.
	require.NoError(t, svc.Redeem(token.Token, &dto.ResetPasswordRequest{Password: "newpass99"}))
}

func TestConcurrentRedemptionSingleWinner(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	seedUser(t, users)
	require.NoError(t, svc.RequestReset(&dto.ForgotPasswordRequest{Email: "alice@example.com"}))
	mailer.waitForDelivery(2 * time.Second)
	token := tokens.anyToken()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Redeem(token.Token, &dto.ResetPasswordRequest{Password: "newpass99"})
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else {
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)
}

func TestAdminTriggerReset(t *testing.T) {
	users, tokens, mailer, svc := newResetFixture(t)
	user := seedUser(t, users)

	require.NoError(t, svc.AdminTriggerReset(adminPrincipal, user.ID))
	mail, ok := mailer.waitForDelivery(2 * time.Second)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", mail.To)
	assert.Equal(t, 1, tokens.tokenCount())

	// Unlike the self-service flow, a missing account is reported.
	appErr := requireAppError(t, svc.AdminTriggerReset(adminPrincipal, "missing-id"))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestAdminTriggerResetForbiddenBeforeStoreAccess(t *testing.T) {
	users, tokens, _, svc := newResetFixture(t)

	appErr := requireAppError(t, svc.AdminTriggerReset(userPrincipal, "any-id"))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
	assert.Equal(t, 0, users.callCount())
	assert.Equal(t, 0, tokens.callCount())
}

func TestTokenSweepReclaimsExpired(t *testing.T) {
	users, tokens, _, _ := newResetFixture(t)
	user := seedUser(t, users)

	require.NoError(t, tokens.Create(&models.PasswordResetToken{
		UserID: user.ID, Token: strings.Repeat("aa", 32), ExpiresAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, tokens.Create(&models.PasswordResetToken{
		UserID: user.ID, Token: strings.Repeat("bb", 32), ExpiresAt: time.Now().Add(time.Hour),
	}))

	removed, err := tokens.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, tokens.tokenCount())
}
