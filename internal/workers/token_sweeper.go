package workers

import (
	"context"
	"time"

	"travel_backend/internal/logger"
	"travel_backend/internal/repositories"
)

// TokenSweeper periodically deletes expired and consumed password-reset
// tokens. Sweeping is garbage collection only; validity is enforced at
// lookup time, so a delayed sweep never extends a token's life.
type TokenSweeper struct {
	tokenRepo repositories.ResetTokenRepository
	interval  time.Duration
}

func NewTokenSweeper(tokenRepo repositories.ResetTokenRepository, interval time.Duration) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{
		tokenRepo: tokenRepo,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (w *TokenSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Token sweeper started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *TokenSweeper) sweep() {
	removed, err := w.tokenRepo.DeleteExpired()
	if err != nil {
		logger.Error("Failed to sweep reset tokens", "error", err)
		return
	}
	if removed > 0 {
		logger.Info("Swept reset tokens", "removed", removed)
	}
}
