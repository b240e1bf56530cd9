package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bedrockdescent.io/internal/persistence/indexdb"
	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "rounds"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	path := strings.TrimSpace(*dbPath)
	if path == "" {
		path = filepath.Join(*dataDir, "index", "rounds.sqlite")
	}
	if *limit <= 0 {
		*limit = 20
	}

	switch q {
	case "rounds":
		idx, err := indexdb.OpenSQLite(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open:", err)
			os.Exit(1)
		}
		defer idx.Close()
		rows, err := idx.RecentRounds(context.Background(), *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, r := range rows {
			printJSON(r)
		}

	case "ticks", "catalogs", "best":
		db, err := sql.Open("sqlite", path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open:", err)
			os.Exit(1)
		}
		defer db.Close()
		var qerr error
		switch q {
		case "ticks":
			qerr = queryTicks(db, *limit)
		case "catalogs":
			qerr = queryCatalogs(db)
		case "best":
			qerr = queryBest(db, *limit)
		}
		if qerr != nil {
			fmt.Fprintln(os.Stderr, "query:", qerr)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		os.Exit(2)
	}
}

func queryTicks(db *sql.DB, limit int) error {
	rows, err := db.Query(`SELECT tick,digest,dt,start FROM ticks ORDER BY tick DESC LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Tick   uint64  `json:"tick"`
			Digest string  `json:"digest"`
			Dt     float64 `json:"dt"`
			Start  bool    `json:"start"`
		}
		var start int
		if err := rows.Scan(&r.Tick, &r.Digest, &r.Dt, &start); err != nil {
			return err
		}
		r.Start = start != 0
		printJSON(r)
	}
	return rows.Err()
}

func queryCatalogs(db *sql.DB) error {
	rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Name      string `json:"name"`
			Digest    string `json:"digest"`
			UpdatedAt string `json:"updated_at"`
		}
		if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
			return err
		}
		printJSON(r)
	}
	return rows.Err()
}

// queryBest lists the fastest wins.
func queryBest(db *sql.DB, limit int) error {
	rows, err := db.Query(`SELECT round,elapsed,tool,health,mined,crafted,recorded_at FROM rounds WHERE outcome='won' ORDER BY elapsed ASC LIMIT ?`, limit)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r struct {
			Round      uint64  `json:"round"`
			Elapsed    float64 `json:"elapsed"`
			Tool       string  `json:"tool"`
			Health     int     `json:"health"`
			Mined      int     `json:"mined"`
			Crafted    int     `json:"crafted"`
			RecordedAt string  `json:"recorded_at"`
		}
		if err := rows.Scan(&r.Round, &r.Elapsed, &r.Tool, &r.Health, &r.Mined, &r.Crafted, &r.RecordedAt); err != nil {
			return err
		}
		printJSON(r)
	}
	return rows.Err()
}
