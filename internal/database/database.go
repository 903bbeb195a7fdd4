package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	// Pure-Go SQLite driver, registered under "sqlite". No CGO needed,
	// which keeps builds and Alpine images simple.
	_ "modernc.org/sqlite"
)

// --- Global handles ---
var (
	DB    *sql.DB
	Redis *redis.Client
)

// ConnectDatabases opens SQLite and Redis. Fatal on failure: the server
// cannot do anything useful without its stores.
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := os.Getenv("FASTFOOD_DB_PATH")
	if path == "" {
		path = "fastfood.db"
	}

	db, err := Open(path)
	if err != nil {
		log.Fatalf("❌ SQLite connection failed: %v", err)
	}
	if err := InitSchema(db); err != nil {
		log.Fatalf("❌ Schema initialization failed: %v", err)
	}
	DB = db
	log.Printf("✅ Connected to SQLite (%s)", path)

	connectRedis(ctx)

	log.Println("✅ All data stores connected")
}

// Open opens a SQLite database ready for concurrent checkouts.
//
// _txlock=immediate makes every transaction take the write lock at BEGIN,
// so two checkouts racing for the last unit of stock are fully serialized:
// the second observes the first one's decrement or times out. WAL mode
// keeps readers (catalog browsing, order listings) from blocking writers.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// InitSchema creates all tables when missing and seeds the fixed roles.
// Safe to run on every startup.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Redis connection failed: ", err)
	}
	log.Println("✅ Connected to Redis")
}
