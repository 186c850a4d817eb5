package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/events"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/api"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (SQL, ORS, Redis, RabbitMQ) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("init logging: %v", err)
	}
	if envErr != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		logrus.Fatal(err)
	}
	conn, err := db.Open(dialect, cfg.DSN())
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	if err := repositories.InitSchema(context.Background(), conn); err != nil {
		logrus.Fatal(err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = openRedis(cfg.RedisAddr)
		if err != nil {
			logrus.Fatal(err)
		}
		defer rdb.Close()
	}

	geocoder, err := newGeocoder(cfg, conn, dialect, rdb)
	if err != nil {
		logrus.Fatal(err)
	}
	directions, err := newDirections(cfg, rdb)
	if err != nil {
		logrus.Fatal(err)
	}

	routes, err := services.NewRouteComputer(geocoder, directions, cfg.DirectionsTimeout)
	if err != nil {
		logrus.Fatal(err)
	}

	rules, err := config.LoadHOSRules(cfg.HOSRulesPath)
	if err != nil {
		logrus.Fatal(err)
	}
	scheduler, err := services.NewComplianceScheduler(rules)
	if err != nil {
		logrus.Fatal(err)
	}

	repo := repositories.NewSQLTripRepository(conn, dialect)
	planner := &services.TripPlanner{
		Routes:    routes,
		Scheduler: scheduler,
		Repo:      repo,
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.TripEventsExchange)
		if err != nil {
			logrus.Fatal(err)
		}
		defer publisher.Close()
		planner.Events = publisher
	}

	router := api.NewRouter(planner, repo)

	logrus.WithFields(logrus.Fields{
		"addr":       ":" + cfg.Port,
		"db":         dialect,
		"geocoder":   cfg.Geocoder,
		"directions": cfg.Directions,
		"policy":     rules.CycleLimitPolicy,
	}).Info("Server listening")

	// Timeouts are tuned for cold-cache planning (two geocodes and two directions calls).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logrus.Fatal(srv.ListenAndServe())
}

func openRedis(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("open redis %s: %w", addr, err)
	}
	return rdb, nil
}

// newGeocoder builds the configured geocoder. ORS lookups are cached in
// Redis when available, otherwise in the SQL geocode_cache table.
func newGeocoder(cfg *config.Config, conn *sql.DB, dialect db.Dialect, rdb *redis.Client) (ports.Geocoder, error) {
	switch cfg.Geocoder {
	case "static":
		return distance.LoadGazetteer(cfg.GazetteerPath)
	case "ors":
		g, err := distance.NewORSGeocoder(orsConfig(cfg))
		if err != nil {
			return nil, err
		}
		var c ports.GeocodeCache = cache.NewSQLGeocodeCache(conn, dialect)
		if rdb != nil {
			c = cache.NewRedisCache(rdb, cfg.CacheTTL)
		}
		return distance.NewCachedGeocoder(g, c), nil
	default:
		return distance.StubGeocoder{}, nil
	}
}

func newDirections(cfg *config.Config, rdb *redis.Client) (ports.DirectionsProvider, error) {
	var p ports.DirectionsProvider
	switch cfg.Directions {
	case "haversine":
		h, err := distance.NewHaversineDirections(cfg.RoadFactor, cfg.AverageSpeedKmh)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		o, err := distance.NewORSDirectionsProvider(orsConfig(cfg))
		if err != nil {
			return nil, err
		}
		p = o
	}

	if rdb != nil {
		p = distance.NewCachedDirections(p, cache.NewRedisCache(rdb, cfg.CacheTTL))
	}
	return p, nil
}

func orsConfig(cfg *config.Config) distance.ORSConfig {
	return distance.ORSConfig{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Timeout: cfg.DirectionsTimeout,
	}
}
