package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60, c.FeedIntervalMinutes)
	assert.NotEmpty(t, c.FeedURL)
	assert.Equal(t, "release", c.GinMode)

	// The app logger and the gin access logger must never share a file:
	// two lumberjack instances rotating the same path is unsupported.
	assert.Equal(t, "logs/app.log", c.LogPath)
	assert.Equal(t, "logs/gin.log", c.GinPath)
	assert.NotEqual(t, c.LogPath, c.GinPath)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := AppConfig{
		AppPort:        "9090",
		GinPath:        "/var/log/it/access.log",
		AllowedOrigins: []string{"https://interntrack.dev"},
	}
	applyDefaults(&c)

	assert.Equal(t, "9090", c.AppPort)
	assert.Equal(t, "/var/log/it/access.log", c.GinPath)
	assert.Equal(t, []string{"https://interntrack.dev"}, c.AllowedOrigins)
}
