package jobs

import (
	"testing"
	"time"

	"blog-api/services"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeTokens struct {
	services.TokenService
	purged int
}

func (f *fakeTokens) PurgeExpired() (int64, error) {
	f.purged++
	return 3, nil
}

func TestTokenCleanupJobRun(t *testing.T) {
	tokens := &fakeTokens{}
	NewTokenCleanupJob(tokens, zap.NewNop()).Run()
	assert.Equal(t, 1, tokens.purged)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	err := s.Add("not a spec", "cleanup", NewTokenCleanupJob(&fakeTokens{}, zap.NewNop()))
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerRunsJobs(t *testing.T) {
	tokens := &fakeTokens{}
	s := NewScheduler(zap.NewNop())
	require.NoError(t, s.Add("@every 1s", "cleanup", NewTokenCleanupJob(tokens, zap.NewNop())))
	assert.Equal(t, 1, s.Len())

	s.Start()
	time.Sleep(1500 * time.Millisecond)
	s.Stop()

	assert.GreaterOrEqual(t, tokens.purged, 1)
}

func TestJobPanicIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	wrapped := cron.Recover(cronLogger{log: zap.New(core).Sugar()})(cron.FuncJob(func() {
		panic("cleanup exploded")
	}))

	assert.NotPanics(t, wrapped.Run)

	entries := logs.FilterMessage("panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "cleanup exploded")
}
