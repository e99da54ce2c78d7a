// Package persist serializes the whole collection into a single
// snapshot slot backed by SQLite.
package persist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"github.com/refdeck/refdeck/internal/paper"
	"github.com/refdeck/refdeck/internal/validate"
)

// Slot keys inside the snapshots table.
const (
	deckSlot  = "deck"
	probeSlot = "probe"
)

// DefaultCooldown is the minimum interval between snapshot writes on
// the rate-limited path. Faster calls coalesce into one trailing write
// at the window boundary.
const DefaultCooldown = time.Second

// DefaultMaxSnapshotBytes is the snapshot byte ceiling. Crossing it is
// treated as quota exhaustion: the payload is compacted (empty fields
// dropped) and rewritten.
const DefaultMaxSnapshotBytes = 4 << 20

// ErrSnapshotTooLarge is returned when even the compacted payload
// exceeds the ceiling.
var ErrSnapshotTooLarge = errors.New("snapshot exceeds size limit even after compaction")

// Snapshot is the persisted shape: the full record array, the id
// counter, and a modification timestamp.
type Snapshot struct {
	Papers       []*paper.Paper `json:"papers"`
	NextID       int            `json:"nextId"`
	LastModified string         `json:"lastModified"`
}

// Store owns the snapshot slot and the save cooldown.
type Store struct {
	db *sql.DB

	// Source produces the current snapshot at write time, so a
	// deferred save always captures the latest state.
	Source func() Snapshot

	// OnDegraded is called when a save fell back to the compacted
	// payload. Nil disables reporting.
	OnDegraded func()

	cooldown time.Duration
	maxBytes int
	limiter  *rate.Limiter

	mu       sync.Mutex
	deferred *time.Timer
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	// SQLite doesn't support concurrent writes.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshot schema: %w", err)
	}

	return &Store{
		db:       db,
		cooldown: DefaultCooldown,
		maxBytes: DefaultMaxSnapshotBytes,
		limiter:  rate.NewLimiter(rate.Every(DefaultCooldown), 1),
	}, nil
}

// SetCooldown overrides the save cooldown window.
func (s *Store) SetCooldown(d time.Duration) {
	s.cooldown = d
	s.limiter = rate.NewLimiter(rate.Every(d), 1)
}

// SetMaxSnapshotBytes overrides the snapshot byte ceiling. Zero
// disables the ceiling.
func (s *Store) SetMaxSnapshotBytes(n int) { s.maxBytes = n }

// Close flushes a pending deferred save and closes the underlying
// database. A trailing write armed inside the cooldown window holds
// the latest state; dropping it would silently lose the final edits.
func (s *Store) Close() error {
	s.mu.Lock()
	pending := s.deferred != nil
	if s.deferred != nil {
		s.deferred.Stop()
		s.deferred = nil
	}
	s.mu.Unlock()

	if pending {
		if err := s.SaveNow(); err != nil {
			s.db.Close()
			return fmt.Errorf("flushing deferred save: %w", err)
		}
	}
	return s.db.Close()
}

// Save writes a snapshot, rate-limited to once per cooldown window.
// Calls arriving inside the window arm one trailing write at the
// boundary; repeats while a write is pending are no-ops.
func (s *Store) Save() error {
	s.mu.Lock()
	if s.limiter.Allow() {
		s.mu.Unlock()
		return s.SaveNow()
	}
	if s.deferred == nil {
		s.deferred = time.AfterFunc(s.cooldown, func() {
			s.mu.Lock()
			s.deferred = nil
			s.limiter.Allow() // consume the fresh token
			s.mu.Unlock()
			s.SaveNow()
		})
	}
	s.mu.Unlock()
	return nil
}

// SaveNow writes a snapshot immediately, bypassing the cooldown.
// Destructive operations (delete, clear) use this path.
func (s *Store) SaveNow() error {
	if s.Source == nil {
		return fmt.Errorf("snapshot source not configured")
	}
	snap := s.Source()
	snap.LastModified = time.Now().UTC().Format(time.RFC3339)

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := s.probe(payload); err == nil {
		return s.writeSlot(deckSlot, payload)
	}

	// Quota path: drop empty fields per record and retry.
	compacted, err := json.Marshal(compact(snap))
	if err != nil {
		return fmt.Errorf("encoding compacted snapshot: %w", err)
	}
	if err := s.probe(compacted); err != nil {
		return fmt.Errorf("saving snapshot: %w", ErrSnapshotTooLarge)
	}
	if err := s.writeSlot(deckSlot, compacted); err != nil {
		return err
	}
	if s.OnDegraded != nil {
		s.OnDegraded()
	}
	return nil
}

// probe performs a disposable write/delete of the same payload size to
// detect exhaustion before committing to the real slot.
func (s *Store) probe(payload []byte) error {
	if s.maxBytes > 0 && len(payload) > s.maxBytes {
		return ErrSnapshotTooLarge
	}
	if err := s.writeSlot(probeSlot, payload); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, probeSlot)
	return err
}

func (s *Store) writeSlot(key string, payload []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing snapshot slot %q: %w", key, err)
	}
	return nil
}

// Wipe removes the stored snapshot entirely.
func (s *Store) Wipe() error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, deckSlot)
	if err != nil {
		return fmt.Errorf("wiping snapshot: %w", err)
	}
	return nil
}

// Load reads and validates the stored snapshot. It returns
// (snapshot, true, nil) on success and (zero, false, nil) when no
// snapshot exists. A structurally corrupt snapshot is wiped and
// reported as absent rather than surfaced partially: data loss is
// preferred over a crash loop.
//
// Loaded records are untrusted input: every field is re-coerced, and
// the id counter is recomputed against the maximum id seen.
func (s *Store) Load() (Snapshot, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, deckSlot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("reading snapshot: %w", err)
	}

	snap, ok := decodeSnapshot([]byte(value))
	if !ok {
		if err := s.Wipe(); err != nil {
			return Snapshot{}, false, err
		}
		return Snapshot{}, false, nil
	}

	maxID := 0
	for _, p := range snap.Papers {
		validate.Record(p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if snap.NextID <= maxID {
		snap.NextID = maxID + 1
	}
	if snap.NextID < 1 {
		snap.NextID = 1
	}

	return snap, true, nil
}

// decodeSnapshot enforces the top-level shape: papers must decode to
// an array and nextId to a number. Individual records may be sparse
// (the compacted payload drops empty fields); missing fields default.
func decodeSnapshot(data []byte) (Snapshot, bool) {
	var shape struct {
		Papers       json.RawMessage `json:"papers"`
		NextID       json.RawMessage `json:"nextId"`
		LastModified string          `json:"lastModified"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Snapshot{}, false
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(shape.Papers, &rows); err != nil {
		return Snapshot{}, false
	}
	var nextID int
	if err := json.Unmarshal(shape.NextID, &nextID); err != nil {
		return Snapshot{}, false
	}

	snap := Snapshot{NextID: nextID, LastModified: shape.LastModified}
	for _, row := range rows {
		p := paper.New()
		if err := json.Unmarshal(row, p); err != nil {
			continue // skip unreadable rows, keep the rest
		}
		snap.Papers = append(snap.Papers, p)
	}
	return snap, true
}

// compact is the quota-degradation transform: per-record sparse maps
// holding only non-empty fields, so a near-limit snapshot still fits.
func compact(snap Snapshot) map[string]any {
	rows := make([]map[string]any, 0, len(snap.Papers))
	for _, p := range snap.Papers {
		row := map[string]any{"id": p.ID}
		for _, f := range paper.ExportOrder {
			if f == "pdf" {
				continue
			}
			if v := p.Get(f); v != "" {
				row[f] = v
			}
		}
		if p.PDF.HasPDF {
			row["pdf"] = p.PDF
		}
		rows = append(rows, row)
	}
	return map[string]any{
		"papers":       rows,
		"nextId":       snap.NextID,
		"lastModified": snap.LastModified,
	}
}
