package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// DBQueue serializes all SQLite access through a single worker goroutine so
// concurrent bot, API and dispatcher paths never trip over SQLITE_BUSY.
type DBQueue struct {
	db       *sql.DB
	requests chan *dbRequest
	done     chan struct{}
}

type dbRequest struct {
	op       func(*sql.DB) error
	response chan error
}

// NewDBQueue wraps db and starts the worker.
func NewDBQueue(db *sql.DB) *DBQueue {
	q := &DBQueue{
		db:       db,
		requests: make(chan *dbRequest, 128),
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *DBQueue) run() {
	for {
		select {
		case req := <-q.requests:
			req.response <- q.withRetry(req.op)
		case <-q.done:
			return
		}
	}
}

// withRetry retries an operation a few times when SQLite reports the
// database as locked.
func (q *DBQueue) withRetry(op func(*sql.DB) error) error {
	const maxAttempts = 3
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := op(q.db)
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(time.Duration(100*attempt) * time.Millisecond)
	}
	return errors.New("max retries exceeded for SQLITE_BUSY")
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// Execute runs op on the worker goroutine and waits for its result.
func (q *DBQueue) Execute(op func(*sql.DB) error) error {
	req := &dbRequest{op: op, response: make(chan error, 1)}
	q.requests <- req
	return <-req.response
}

// Close stops the worker. Pending requests already queued are abandoned.
func (q *DBQueue) Close() {
	close(q.done)
}
