package config

import (
	"testing"
	"time"

	"blog-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.True(t, cfg.Auth.TokenBlacklist)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 0, cfg.Comments.MaxReplyDepth)
	assert.False(t, cfg.Policy.CommentAuthorDelete)
	assert.Equal(t, "@daily", cfg.Jobs.TokenCleanupSpec)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("BLOG_HTTP_PORT", "9090")
	t.Setenv("BLOG_CACHE_TTL", "0s")
	t.Setenv("BLOG_COMMENTS_MAX_REPLY_DEPTH", "3")
	t.Setenv("BLOG_POLICY_COMMENT_AUTHOR_DELETE", "true")
	t.Setenv("BLOG_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Comments.MaxReplyDepth)
	assert.True(t, cfg.Policy.CommentAuthorDelete)
	assert.Equal(t, []byte("s3cret"), cfg.JWT.SigningKey())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BLOG_DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", DSN: t.TempDir() + "/seed.db"}, nil)
	require.NoError(t, err)

	require.NoError(t, SeedGroups(db))
	require.NoError(t, SeedGroups(db))

	var groups int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	assert.Equal(t, int64(4), groups)
}

func TestSeedSampleData(t *testing.T) {
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", DSN: t.TempDir() + "/sample.db"}, nil)
	require.NoError(t, err)
	log := zap.NewNop()

	require.NoError(t, SeedGroups(db))
	require.NoError(t, SeedAdmin(db, SeedConfig{AdminUsername: "root", AdminEmail: "root@example.com", AdminPassword: "root-pass-123"}, log))
	require.NoError(t, SeedSample(db, log))
	require.NoError(t, SeedSample(db, log))

	var admin models.User
	require.NoError(t, db.Preload("Groups").Preload("Profile").Where("username = ?", "root").First(&admin).Error)
	assert.True(t, admin.IsStaff)
	assert.Equal(t, []string{models.GroupAdmin}, admin.GroupNames())
	assert.NotNil(t, admin.Profile)

	var articles int64
	require.NoError(t, db.Model(&models.Article{}).Count(&articles).Error)
	assert.Equal(t, int64(len(sampleArticles)), articles)
}
