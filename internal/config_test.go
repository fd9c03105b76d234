package internal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())

	// Given only the required variables
	t.Setenv("BADGER_FILEPATH", "/tmp/hive")
	t.Setenv("JWT_SECRET", "secret")

	// When the config is loaded
	config, err := Load()

	// Then the defaults apply
	req.NoError(err)
	req.Equal("localhost:8080", config.Address())
	req.Equal(54*time.Second, config.PingPeriod)
	req.Equal(60*time.Second, config.PongWait)
	req.Equal(5*time.Minute, config.InactivityThreshold)
	req.Equal(256, config.ConnectionBufferSize)
	req.Equal(50, config.LimitMessages)
	req.Empty(config.Origins())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BADGER_FILEPATH", "/tmp/hive")
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := Load()

	require.Error(t, err)
}

func TestLoad_PingMustBeShorterThanPong(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("BADGER_FILEPATH", "/tmp/hive")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PING_PERIOD", "90s")
	t.Setenv("PONG_WAIT", "60s")

	_, err := Load()

	req.ErrorContains(err, "PING_PERIOD")
}

func TestConfig_Origins(t *testing.T) {
	config := Config{AllowedOrigins: " https://a.example.com, ,https://b.example.com "}

	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, config.Origins())
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero auto unmute interval", "AUTO_UNMUTE_INTERVAL", "0s"},
		{"negative away demotion interval", "AWAY_DEMOTION_INTERVAL", "-1m"},
		{"zero stale offline interval", "STALE_OFFLINE_INTERVAL", "0s"},
		{"zero inactivity threshold", "INACTIVITY_THRESHOLD", "0s"},
		{"zero message limit", "LIMIT_MESSAGES", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			t.Chdir(t.TempDir())
			t.Setenv("BADGER_FILEPATH", "/tmp/hive")
			t.Setenv("JWT_SECRET", "secret")

			// Given one setting that would stall a worker
			t.Setenv(tt.key, tt.value)

			// When the config is loaded
			_, err := Load()

			// Then it is refused, naming the variable
			req.ErrorContains(err, tt.key)
		})
	}
}
