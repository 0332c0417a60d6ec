// Package journal records reaction events in SQLite. It implements the
// sandbox observer, so a run can be replayed into a discovery log without
// the simulation waiting on disk.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"mad-sand/internal/material"
	"mad-sand/internal/sims/sandbox"
)

// Journal is an asynchronous reaction log. Events are queued on a buffered
// channel and written by a single goroutine. Events that cannot be stored,
// because the queue is full or a write failed, are dropped and counted.
type Journal struct {
	db *sql.DB

	insertReaction *sql.Stmt
	upsertCombo    *sql.Stmt

	mu     sync.RWMutex // guards ch against Close
	ch     chan req
	closed bool
	wg     sync.WaitGroup
	once   sync.Once

	dropped  atomic.Uint64
	warnOnce sync.Once
}

type reqKind int

const (
	reqReaction reqKind = iota + 1
	reqFlush
)

type req struct {
	kind     reqKind
	reaction sandbox.Reaction
	done     chan struct{}
}

// Combination is one distinct reaction outcome with the tick it was first
// seen and how often it has fired since.
type Combination struct {
	A, B       material.ID
	OutA, OutB material.ID
	FirstTick  uint64
	Count      int
}

// OpenSQLite opens (creating if needed) the journal database at path.
func OpenSQLite(path string) (*Journal, error) {
	return open(path, 65536)
}

func open(path string, buffer int) (*Journal, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &Journal{db: db, ch: make(chan req, buffer)}
	if err := j.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.loop()
	}()
	return j, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS materials (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			state TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS reactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tick INTEGER NOT NULL,
			a INTEGER NOT NULL,
			b INTEGER NOT NULL,
			out_a INTEGER NOT NULL,
			out_b INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_tick ON reactions(tick);`,
		`CREATE TABLE IF NOT EXISTS combinations (
			a INTEGER NOT NULL,
			b INTEGER NOT NULL,
			out_a INTEGER NOT NULL,
			out_b INTEGER NOT NULL,
			first_tick INTEGER NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (a, b, out_a, out_b)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (j *Journal) prepare() error {
	var err error
	j.insertReaction, err = j.db.Prepare(`INSERT INTO reactions(tick,a,b,out_a,out_b) VALUES(?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	j.upsertCombo, err = j.db.Prepare(`INSERT INTO combinations(a,b,out_a,out_b,first_tick,count) VALUES(?,?,?,?,?,1)
		ON CONFLICT(a,b,out_a,out_b) DO UPDATE SET count=count+1, first_tick=min(first_tick, excluded.first_tick)`)
	if err != nil {
		_ = j.insertReaction.Close()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	return nil
}

// RecordCatalog stores the material names and the catalog digest so the
// journal can be read without the catalog file.
func (j *Journal) RecordCatalog(ctx context.Context, cat *material.Catalog) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, d := range cat.Defs() {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO materials(id,name,state) VALUES(?,?,?)`,
			int(d.ID), d.Name, d.State.String(),
		); err != nil {
			return fmt.Errorf("record material %q: %w", d.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('catalog_digest',?)`, cat.Digest(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// ObserveReaction implements sandbox.Observer. It never blocks and is safe
// to call concurrently with Close; events after Close are ignored.
func (j *Journal) ObserveReaction(r sandbox.Reaction) {
	if j == nil {
		return
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	select {
	case j.ch <- req{kind: reqReaction, reaction: r}:
	default:
		j.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded, either because the writer
// fell behind or because their transaction failed.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() }

// Flush blocks until every event queued before the call is committed.
func (j *Journal) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := j.enqueueFlush(ctx, done); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) enqueueFlush(ctx context.Context, done chan struct{}) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return errors.New("journal closed")
	}
	select {
	case j.ch <- req{kind: reqFlush, done: done}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Combinations lists the distinct reactions seen so far in discovery order.
func (j *Journal) Combinations(ctx context.Context) ([]Combination, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT a,b,out_a,out_b,first_tick,count FROM combinations ORDER BY first_tick,a,b,out_a,out_b`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Combination
	for rows.Next() {
		var (
			c                Combination
			a, b, outA, outB int
			first            int64
		)
		if err := rows.Scan(&a, &b, &outA, &outB, &first, &c.Count); err != nil {
			return nil, err
		}
		c.A, c.B = material.ID(a), material.ID(b)
		c.OutA, c.OutB = material.ID(outA), material.ID(outB)
		c.FirstTick = uint64(first)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Reactions counts the logged reaction events.
func (j *Journal) Reactions(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reactions`).Scan(&n)
	return n, err
}

// Close drains the queue, commits and closes the database.
func (j *Journal) Close() error {
	var err error
	j.once.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.ch)
		j.mu.Unlock()
		j.wg.Wait()
		err = errors.Join(j.insertReaction.Close(), j.upsertCombo.Close(), j.db.Close())
	})
	return err
}

// lose counts events that were queued but never committed.
func (j *Journal) lose(n int, err error) {
	if n <= 0 {
		return
	}
	j.dropped.Add(uint64(n))
	j.warnOnce.Do(func() {
		log.Printf("journal: dropping reactions: %v", err)
	})
}

func (j *Journal) loop() {
	ctx := context.Background()

	var (
		tx            *sql.Tx
		pending       int
		lastCommit    = time.Now()
		commitEvery   = 1000
		commitMaxWait = 2 * time.Second
	)

	begin := func() error {
		if tx != nil {
			return nil
		}
		txx, err := j.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		tx = txx
		pending = 0
		lastCommit = time.Now()
		return nil
	}
	commit := func() {
		if tx == nil {
			return
		}
		if err := tx.Commit(); err != nil {
			j.lose(pending, err)
		}
		tx = nil
		pending = 0
		lastCommit = time.Now()
	}
	rollback := func(err error) {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		j.lose(pending, err)
		tx = nil
		pending = 0
		lastCommit = time.Now()
	}

	for r := range j.ch {
		switch r.kind {
		case reqFlush:
			commit()
			close(r.done)
			continue
		case reqReaction:
		default:
			continue
		}

		if err := begin(); err != nil {
			j.lose(1, err)
			continue
		}
		pending++
		e := r.reaction
		if _, err := tx.Stmt(j.insertReaction).Exec(int64(e.Tick), int(e.A), int(e.B), int(e.OutA), int(e.OutB)); err != nil {
			rollback(err)
			continue
		}
		if _, err := tx.Stmt(j.upsertCombo).Exec(int(e.A), int(e.B), int(e.OutA), int(e.OutB), int64(e.Tick)); err != nil {
			rollback(err)
			continue
		}
		if pending >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}
	commit()
}
