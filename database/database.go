package database

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pool is the shared database connection pool.
var pool *pgxpool.Pool

// InitDB sets up the database connection pool.
func InitDB(databaseURL string) {
	var err error
	pool, err = pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		log.Fatalf("Database ping failed: %v\n", err)
	}

	log.Println("Successfully connected to the database")
}

// GetDB returns the shared connection pool.
func GetDB() *pgxpool.Pool {
	return pool
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if pool != nil {
		pool.Close()
		log.Println("Database connection pool closed")
	}
}
