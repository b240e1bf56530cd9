package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"bedrockdescent.io/internal/persistence/indexdb"
	"bedrockdescent.io/internal/sim/catalogs"
	"bedrockdescent.io/internal/sim/tuning"
	"bedrockdescent.io/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.RoundRecorder
	Close() error
	UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error
	RecentRounds(ctx context.Context, limit int) ([]indexdb.RoundRow, error)
	Stats() indexdb.Stats
}

func openRuntimeIndex(dataDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BD_INDEX_BACKEND"))) {
	case "none", "off", "disabled":
		return nil, nil
	}
	idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index", "rounds.sqlite"))
	if err != nil {
		return nil, err
	}
	return idx, nil
}
