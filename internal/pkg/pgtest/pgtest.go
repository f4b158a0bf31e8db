// Package pgtest starts a throwaway Postgres in Docker for store tests.
package pgtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"gorm.io/gorm"

	"github.com/vietanh2810/lottery-api/internal/db"
)

// Run starts postgres, hands the connection to ready and runs the tests. Without
// Docker, ready is never called and the tests run against a nil database, which
// callers are expected to skip on.
func Run(m *testing.M, ready func(*gorm.DB)) int {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		fmt.Println("docker unavailable, store tests will be skipped:", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=lottery",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=lottery",
		},
	})
	if err != nil {
		fmt.Println("could not start postgres, store tests will be skipped:", err)
		return m.Run()
	}
	defer func() {
		_ = pool.Purge(resource)
	}()
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://lottery:secret@%s/lottery?sslmode=disable", resource.GetHostPort("5432/tcp"))
	pool.MaxWait = 2 * time.Minute

	var conn *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		conn, openErr = db.OpenPostgresWithURL(dsn)
		return openErr
	})
	if err != nil {
		fmt.Println("postgres never became ready:", err)
		return m.Run()
	}

	ready(conn)

	return m.Run()
}
