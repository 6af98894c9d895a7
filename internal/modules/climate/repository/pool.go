package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"climate-server/internal/modules/climate/service"
)

// Pool hands out one pooled connection per request.
type Pool struct {
	db *sql.DB
}

func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// Acquire borrows a connection and returns a store bound to it. The caller
// must call release exactly once, typically via defer, on every path.
func (p *Pool) Acquire(ctx context.Context) (store service.Store, release func(), err error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}
	release = func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}
	return NewRepository(conn), release, nil
}

// Ping checks that a connection can be borrowed and used.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
