package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"bedrockdescent.io/internal/sim/world"
)

// Directory and file prefix of each stream under the server's data dir.
const (
	TickStream  = "events"
	RoundStream = "rounds"

	segmentExt = ".jsonl.zst"
	hourLayout = "2006-01-02-15"
)

// ErrClosed is returned by writes that arrive after Close.
var ErrClosed = errors.New("log: segment writer closed")

// SegmentWriter appends one JSON value per line to a zstd segment. A new
// segment named <stream>-YYYY-MM-DD-HH.jsonl.zst starts each UTC hour, so a
// long-running server never grows one unbounded file.
type SegmentWriter struct {
	dir    string
	stream string
	now    func() time.Time

	mu     sync.Mutex
	closed bool
	hour   string
	f      *os.File
	enc    *zstd.Encoder
	buf    *bufio.Writer
}

func NewSegmentWriter(dir, stream string) *SegmentWriter {
	return &SegmentWriter{dir: dir, stream: stream, now: time.Now}
}

// Append writes v as one line and flushes it, so a crash loses at most the
// line being written.
func (s *SegmentWriter) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if hour := s.now().UTC().Format(hourLayout); hour != s.hour {
		if err := s.openLocked(hour); err != nil {
			return err
		}
	}
	if _, err := s.buf.Write(line); err != nil {
		return err
	}
	return s.buf.Flush()
}

// Close finishes the open segment. Later appends fail with ErrClosed.
func (s *SegmentWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.finishLocked()
}

func (s *SegmentWriter) openLocked(hour string) error {
	if err := s.finishLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(SegmentPath(s.dir, s.stream, hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	s.f, s.enc, s.hour = f, enc, hour
	s.buf = bufio.NewWriterSize(enc, 64*1024)
	return nil
}

// finishLocked flushes and closes the current segment; the zstd frame must be
// closed for readers to see a complete file.
func (s *SegmentWriter) finishLocked() error {
	var err error
	if s.buf != nil {
		err = s.buf.Flush()
	}
	if s.enc != nil {
		if cerr := s.enc.Close(); err == nil {
			err = cerr
		}
	}
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
	}
	s.f, s.enc, s.buf, s.hour = nil, nil, nil, ""
	return err
}

// SegmentPath is the file holding stream's lines for one UTC hour.
func SegmentPath(dir, stream, hour string) string {
	return filepath.Join(dir, stream+"-"+hour+segmentExt)
}

// Segments lists the segment files of stream in dir, oldest first. The hour
// layout sorts lexically in time order.
func Segments(dir, stream string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, stream+"-") || !strings.HasSuffix(name, segmentExt) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

// TickLogger records every world tick (dt, start flag, sanitized input and
// the resulting digest). cmd/replay re-runs these lines against a fresh world
// and cmd/admin summarizes them.
type TickLogger struct{ seg *SegmentWriter }

func NewTickLogger(dataDir string) *TickLogger {
	return &TickLogger{seg: NewSegmentWriter(filepath.Join(dataDir, TickStream), TickStream)}
}

func (l *TickLogger) WriteTick(e world.TickLogEntry) error { return l.seg.Append(e) }
func (l *TickLogger) Close() error                         { return l.seg.Close() }

// RoundLogger keeps one line per finished round (won, lost or abandoned).
type RoundLogger struct{ seg *SegmentWriter }

func NewRoundLogger(dataDir string) *RoundLogger {
	return &RoundLogger{seg: NewSegmentWriter(filepath.Join(dataDir, RoundStream), RoundStream)}
}

func (l *RoundLogger) RecordRound(s world.RoundSummary) error { return l.seg.Append(s) }
func (l *RoundLogger) Close() error                           { return l.seg.Close() }
