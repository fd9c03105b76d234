package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	JWTSecret      string `env:"JWT_SECRET,required=true"`
	LimitMessages  int    `env:"LIMIT_MESSAGES,default=50"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	ReadLimit            int           `env:"READ_LIMIT,default=65536"`
	PingPeriod           time.Duration `env:"PING_PERIOD,default=54s"`
	PongWait             time.Duration `env:"PONG_WAIT,default=60s"`
	WriteWait            time.Duration `env:"WRITE_WAIT,default=10s"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`

	AutoUnmuteInterval   time.Duration `env:"AUTO_UNMUTE_INTERVAL,default=1m"`
	AwayDemotionInterval time.Duration `env:"AWAY_DEMOTION_INTERVAL,default=1m"`
	StaleOfflineInterval time.Duration `env:"STALE_OFFLINE_INTERVAL,default=5m"`
	InactivityThreshold  time.Duration `env:"INACTIVITY_THRESHOLD,default=5m"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=200ms"`
}

// Load reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) validate() error {
	if c.PingPeriod >= c.PongWait {
		return fmt.Errorf("PING_PERIOD (%s) must be shorter than PONG_WAIT (%s)", c.PingPeriod, c.PongWait)
	}
	if c.ConnectionBufferSize <= 0 {
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	}
	if c.LimitMessages <= 0 {
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", c.LimitMessages)
	}
	// time.NewTicker panics on a non-positive period
	for name, d := range map[string]time.Duration{
		"AUTO_UNMUTE_INTERVAL":   c.AutoUnmuteInterval,
		"AWAY_DEMOTION_INTERVAL": c.AwayDemotionInterval,
		"STALE_OFFLINE_INTERVAL": c.StaleOfflineInterval,
		"INACTIVITY_THRESHOLD":   c.InactivityThreshold,
		"PING_PERIOD":            c.PingPeriod,
		"WRITE_WAIT":             c.WriteWait,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
