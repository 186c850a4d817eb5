package main

import (
	"context"
	"flag"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// dbtool creates the trip schema on the configured database.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	driver := flag.String("driver", config.Get("DB_DRIVER", "sqlite"), "database driver: sqlite or postgres")
	dsn := flag.String("dsn", config.Get("DATABASE_URL", config.Get("DB_PATH", "data/app.db")), "sqlite path or postgres URL")
	flag.Parse()

	if err := logging.Init(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "text")); err != nil {
		logrus.Fatal(err)
	}

	dialect, err := db.ParseDialect(*driver)
	if err != nil {
		logrus.Fatal(err)
	}

	conn, err := db.Open(dialect, *dsn)
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	logrus.WithField("db", dialect).Info("Initializing database schema...")
	if err := repositories.InitSchema(context.Background(), conn); err != nil {
		logrus.Fatalf("schema initialization failed: %v", err)
	}
	logrus.Info("Schema ready.")
}
