package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"pojistovna/config"
	logg "pojistovna/internal/logger"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memoryDBCounter atomic.Int64

type CacheClient valkey.Client

type Cache struct {
	Session CacheClient
}

// DB holds one connection per schema. The schemas are independent: no
// cross-schema transactions are ever attempted.
type DB struct {
	Identity  *gorm.DB
	Insurance *gorm.DB
	Contact   *gorm.DB
	Cache     Cache
	log       logg.Logger
}

func New(config config.Config) (DB, error) {
	log := logg.New("database").Function("New")

	log.Info("Initializing databases")
	db := &DB{log: log}

	gormConfig := defaultGormConfig()

	var err error
	if db.Identity, err = openSQLite(config.DatabaseIdentityPath, gormConfig); err != nil {
		return DB{}, log.Err("failed to open identity database", err)
	}
	if db.Insurance, err = openSQLite(config.DatabaseInsurancePath, gormConfig); err != nil {
		return DB{}, log.Err("failed to open insurance database", err)
	}
	if db.Contact, err = openSQLite(config.DatabaseContactPath, gormConfig); err != nil {
		return DB{}, log.Err("failed to open contact database", err)
	}

	if err := db.Migrate(); err != nil {
		return DB{}, log.Err("failed to run migrations", err)
	}

	if err := db.initializeCache(config); err != nil {
		return DB{}, log.Err("failed to initialize cache", err)
	}

	return *db, nil
}

func defaultGormConfig() *gorm.Config {
	gormLogger := logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:          gormLogger,
		PrepareStmt:     true,
		CreateBatchSize: 100,
	}
}

func openSQLite(dbPath string, gormConfig *gorm.Config) (*gorm.DB, error) {
	log := logg.New("database").Function("openSQLite")

	if dbPath == "" {
		return nil, log.Error("database path is empty")
	}

	inMemory := dbPath == ":memory:"
	dsn := dbPath + "?_foreign_keys=on"
	if inMemory {
		// Each :memory: request gets its own named database so the three
		// schemas (and parallel tests) never share state.
		dsn = fmt.Sprintf("file:mem-%d?mode=memory&cache=shared&_foreign_keys=on", memoryDBCounter.Add(1))
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, log.Err("failed to create database directory", err, "dbPath", dbPath)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, log.Err("failed to open database with GORM", err, "dbPath", dbPath)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, log.Err("failed to ping database through GORM", err)
	}

	if inMemory {
		// A shared in-memory database disappears once its last
		// connection closes; pin a single connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

func (s *DB) initializeCache(config config.Config) error {
	log := s.log.Function("initializeCache")

	if config.DatabaseCacheAddress == "" {
		log.Info("No cache address configured, session lookups go to the database")
		return nil
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
	})
	if err != nil {
		return log.Err("failed to connect to cache", err, "address", address)
	}

	s.Cache.Session = client
	log.Info("Connected session cache", "address", address)
	return nil
}

func (s *DB) IdentityWithContext(ctx context.Context) *gorm.DB {
	return s.Identity.WithContext(ctx)
}

func (s *DB) InsuranceWithContext(ctx context.Context) *gorm.DB {
	return s.Insurance.WithContext(ctx)
}

func (s *DB) ContactWithContext(ctx context.Context) *gorm.DB {
	return s.Contact.WithContext(ctx)
}

func (s *DB) Close() (err error) {
	for _, db := range []*gorm.DB{s.Identity, s.Insurance, s.Contact} {
		if db == nil {
			continue
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			err = dbErr
			continue
		}
		if closeErr := sqlDB.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if s.Cache.Session != nil {
		s.Cache.Session.Close()
	}

	return err
}
