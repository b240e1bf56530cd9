package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/kernel/model"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
)

// SQLiteIndex is a query-friendly copy of the tick log and finished rounds.
// Writes are queued to a single writer goroutine; the JSONL logs stay the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropTick  atomic.Uint64
	dropRound atomic.Uint64
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqRound
)

type req struct {
	kind reqKind

	tick  world.TickLogEntry
	round roundRow
}

type roundRow struct {
	ID         string
	Summary    world.RoundSummary
	RecordedAt string
}

// RoundRow is one finished round as stored in the index.
type RoundRow struct {
	ID         string  `json:"id"`
	Round      uint64  `json:"round"`
	Outcome    string  `json:"outcome"`
	StartTick  uint64  `json:"start_tick"`
	EndTick    uint64  `json:"end_tick"`
	Depth      int     `json:"depth"`
	MaxDepth   int     `json:"max_depth"`
	Tool       string  `json:"tool"`
	Health     int     `json:"health"`
	Elapsed    float64 `json:"elapsed"`
	Mined      int     `json:"mined"`
	Crafted    int     `json:"crafted"`
	Digest     string  `json:"digest"`
	RecordedAt string  `json:"recorded_at"`
}

type Stats struct {
	QueueDepth     int    `json:"queue_depth"`
	QueueCapacity  int    `json:"queue_capacity"`
	DropTickTotal  uint64 `json:"drop_tick_total"`
	DropRoundTotal uint64 `json:"drop_round_total"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
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

	s := &SQLiteIndex{
		db: db,
		// One tick per frame at 60Hz; leave room for a slow disk.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
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
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			dt REAL NOT NULL,
			start INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			round INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			start_tick INTEGER NOT NULL,
			end_tick INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			max_depth INTEGER NOT NULL,
			tool TEXT NOT NULL,
			health INTEGER NOT NULL,
			elapsed REAL NOT NULL,
			mined INTEGER NOT NULL,
			crafted INTEGER NOT NULL,
			digest TEXT NOT NULL,
			stats_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_end_tick ON rounds(end_tick);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_outcome_depth ON rounds(outcome, max_depth);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropTickTotal:  s.dropTick.Load(),
		DropRoundTotal: s.dropRound.Load(),
	}
}

func (s *SQLiteIndex) WriteTick(entry world.TickLogEntry) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqTick, tick: entry}:
	default:
		// Drop if the indexer falls behind; JSONL logs remain the source of truth.
		s.dropTick.Add(1)
	}
	return nil
}

// RecordRound queues a finished round under a fresh UUID.
func (s *SQLiteIndex) RecordRound(summary world.RoundSummary) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	r := roundRow{
		ID:         uuid.NewString(),
		Summary:    summary,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqRound, round: r}:
	default:
		s.dropRound.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	if cats != nil {
		defs := make([]catalogs.Recipe, 0, len(cats.Recipes.ByKind))
		for _, k := range []model.CraftKind{model.CraftStone, model.CraftIron} {
			if r, ok := cats.Recipes.ByKind[k]; ok {
				defs = append(defs, r)
			}
		}
		if b, _ := json.Marshal(defs); len(b) > 0 {
			rows = append(rows, kv{name: "recipes", digest: cats.Recipes.Digest, json: b})
		}
	}
	if b, _ := json.Marshal(tune); len(b) > 0 {
		rows = append(rows, kv{name: "tuning", digest: tune.Digest(), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CatalogDigest returns the stored digest for name, or "" if absent.
func (s *SQLiteIndex) CatalogDigest(ctx context.Context, name string) (string, error) {
	var d string
	err := s.db.QueryRowContext(ctx, `SELECT digest FROM catalogs WHERE name = ?`, name).Scan(&d)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return d, err
}

// RecentRounds lists finished rounds, newest first.
func (s *SQLiteIndex) RecentRounds(ctx context.Context, limit int) ([]RoundRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, round, outcome, start_tick, end_tick, depth, max_depth, tool, health, elapsed, mined, crafted, digest, recorded_at
		FROM rounds ORDER BY end_tick DESC, recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundRow
	for rows.Next() {
		var r RoundRow
		var round, start, end int64
		if err := rows.Scan(&r.ID, &round, &r.Outcome, &start, &end, &r.Depth, &r.MaxDepth, &r.Tool, &r.Health, &r.Elapsed, &r.Mined, &r.Crafted, &r.Digest, &r.RecordedAt); err != nil {
			return nil, err
		}
		r.Round, r.StartTick, r.EndTick = uint64(round), uint64(start), uint64(end)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertTick, _ := s.db.Prepare(`INSERT OR REPLACE INTO ticks(tick,digest,dt,start,raw_json) VALUES(?,?,?,?,?)`)
	insertRound, _ := s.db.Prepare(`INSERT OR REPLACE INTO rounds(id,round,outcome,start_tick,end_tick,depth,max_depth,tool,health,elapsed,mined,crafted,digest,stats_json,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertTick != nil {
			_ = insertTick.Close()
		}
		if insertRound != nil {
			_ = insertRound.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			// If we can't start a tx, we can't do much; sleep a bit.
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqTick:
			if insertTick == nil {
				break
			}
			b, _ := json.Marshal(r.tick)
			if _, err := tx.Stmt(insertTick).Exec(
				int64(r.tick.Tick),
				r.tick.Digest,
				r.tick.Dt,
				boolInt(r.tick.Start),
				string(b),
			); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqRound:
			if insertRound == nil {
				break
			}
			sum := r.round.Summary
			stats, _ := json.Marshal(sum.Stats)
			if _, err := tx.Stmt(insertRound).Exec(
				r.round.ID,
				int64(sum.Round),
				sum.Outcome,
				int64(sum.StartTick),
				int64(sum.EndTick),
				sum.Depth,
				sum.Stats.MaxDepth,
				sum.Tool.String(),
				sum.Health,
				sum.Stats.Elapsed,
				sum.Stats.TotalMined(),
				sum.Stats.Crafted,
				sum.Digest,
				string(stats),
				r.round.RecordedAt,
			); err != nil {
				rollback()
				continue
			}
			opCount++
			// Rounds are rare and read by the HTTP surface; make them visible now.
			commit()
			continue
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
