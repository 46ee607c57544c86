package database

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
)

func postgresDSN(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func Open(conf *core.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Database.Engine {
	case "sqlite":
		dsn := conf.Database.Name
		if dsn == "" || conf.TestMode {
			dsn = "file::memory:?cache=shared"
		}
		// sqlite keeps referential actions (cascade, set-null) off by default
		if strings.Contains(dsn, "?") {
			dsn += "&_foreign_keys=on"
		} else {
			dsn += "?_foreign_keys=on"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(postgresDSN(conf))
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}

	logLevel := logger.Silent
	if conf.Debug && !conf.TestMode {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting underlying DB")
	}

	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = sqlDB.Ping(); err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate creates or updates the schema for all app models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&catalog.College{},
		&catalog.Course{},
		&catalog.Facility{},
		&catalog.CollegeReview{},
		&user.User{},
		&agency.Inquiry{},
		&agency.AgentProfile{},
	)
	if err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
