package jobs

import (
	"blog-api/services"

	"go.uber.org/zap"
)

// TokenCleanupJob deletes refresh-token records past their expiry.
type TokenCleanupJob struct {
	tokens services.TokenService
	log    *zap.Logger
}

func NewTokenCleanupJob(tokens services.TokenService, log *zap.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{tokens: tokens, log: log}
}

func (j *TokenCleanupJob) Run() {
	removed, err := j.tokens.PurgeExpired()
	if err != nil {
		j.log.Warn("refresh token cleanup failed", zap.Error(err))
		return
	}
	j.log.Debug("refresh token cleanup finished", zap.Int64("removed", removed))
}
