package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	ORSAPIKey  string
	ORSBaseURL string
	ORSProfile string

	Geocoder          string
	Directions        string
	DirectionsTimeout time.Duration
	AverageSpeedKmh   float64
	RoadFactor        float64
	GazetteerPath     string

	RedisAddr string
	CacheTTL  time.Duration

	RabbitMQURL        string
	TripEventsExchange string

	HOSRulesPath string
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               Get("PORT", "8080"),
		LogLevel:           Get("LOG_LEVEL", "info"),
		LogFormat:          Get("LOG_FORMAT", "text"),
		DBDriver:           Get("DB_DRIVER", "sqlite"),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		ORSAPIKey:          Get("ORS_API_KEY", ""),
		ORSBaseURL:         Get("ORS_BASE_URL", ""),
		ORSProfile:         Get("ORS_PROFILE", ""),
		Geocoder:           strings.ToLower(Get("GEOCODER", "stub")),
		Directions:         strings.ToLower(Get("DIRECTIONS", "ors")),
		GazetteerPath:      Get("GAZETTEER_PATH", "data/places.yaml"),
		RedisAddr:          Get("REDIS_ADDR", ""),
		RabbitMQURL:        Get("RABBITMQ_URL", ""),
		TripEventsExchange: Get("TRIP_EVENTS_EXCHANGE", "trip-events"),
		HOSRulesPath:       Get("HOS_RULES_PATH", ""),
	}

	var err error
	if cfg.DirectionsTimeout, err = getDuration("DIRECTIONS_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AverageSpeedKmh, err = getFloat("AVERAGE_SPEED_KMH", 80); err != nil {
		return nil, err
	}
	if cfg.RoadFactor, err = getFloat("ROAD_FACTOR", 1.2); err != nil {
		return nil, err
	}

	switch cfg.Geocoder {
	case "stub", "static", "ors":
	default:
		return nil, fmt.Errorf("config: GEOCODER must be stub, static or ors, got %q", cfg.Geocoder)
	}
	switch cfg.Directions {
	case "ors", "haversine":
	default:
		return nil, fmt.Errorf("config: DIRECTIONS must be ors or haversine, got %q", cfg.Directions)
	}
	if (cfg.Geocoder == "ors" || cfg.Directions == "ors") && cfg.ORSAPIKey == "" {
		return nil, fmt.Errorf("config: ORS_API_KEY is required when GEOCODER or DIRECTIONS is ors")
	}

	return cfg, nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// LoadHOSRules reads a YAML rules file over DefaultHOSRules. Keys missing
// from the file keep their default. An empty path returns the defaults.
func LoadHOSRules(path string) (domain.HOSRules, error) {
	rules := domain.DefaultHOSRules()
	if path == "" {
		return rules, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.HOSRules{}, fmt.Errorf("load hos rules: %w", err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return domain.HOSRules{}, fmt.Errorf("error parsing hos rules file %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return domain.HOSRules{}, fmt.Errorf("load hos rules %s: %w", path, err)
	}
	return rules, nil
}
