// Package collection holds the authoritative in-memory ordered set of
// paper records and every mutation entry point.
package collection

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/refdeck/refdeck/internal/cite"
	"github.com/refdeck/refdeck/internal/paper"
	"github.com/refdeck/refdeck/internal/validate"
)

// Scheduler receives refresh requests from mutations. The collection
// never renders or persists directly on ordinary edits; destructive
// operations bypass the debounce via ImmediateRefresh.
type Scheduler interface {
	RecordDirty(id int)
	ImmediateRefresh()
	CountFailure(err error)
}

// BlobStore is the external PDF store collaborator. Only Delete is
// needed here; attach goes through the app layer.
type BlobStore interface {
	Delete(recordID int) error
}

// Hooks are the collaborators a collection drives on mutation. Any of
// them may be nil; the collection degrades to a plain in-memory store.
type Hooks struct {
	Scheduler Scheduler
	Blobs     BlobStore

	// Gate serializes mutations against scheduler pass execution.
	// Timer-fired passes read the collection from their own
	// goroutines; holding the gate across each mutating critical
	// section means no pass ever observes a half-applied edit. The
	// gate is released before any hook runs: passes acquire the same
	// mutex and would deadlock otherwise.
	Gate sync.Locker

	// Confirm gates destructive operations. Nil means always yes
	// (non-interactive callers pass their own gate).
	Confirm func(prompt string) bool

	// PersistNow writes a snapshot synchronously, bypassing the save
	// cooldown. Used by Delete, which must be visibly immediate.
	PersistNow func() error

	// WipeSnapshot removes the persisted snapshot entirely.
	WipeSnapshot func() error

	// Logf reports swallowed errors (not-found updates, blob delete
	// failures). Defaults to stderr.
	Logf func(format string, args ...any)
}

// Collection is the ordered record store. It is single-writer: all
// mutations come from synchronous call paths, and each mutating
// critical section holds the hooks' Gate so concurrent scheduler
// passes never read mid-mutation state.
type Collection struct {
	papers    []*paper.Paper
	nextID    int
	formatter *cite.Formatter
	hooks     Hooks
}

// New returns an empty collection with id allocation starting at 1.
func New(hooks Hooks) *Collection {
	if hooks.Logf == nil {
		hooks.Logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return &Collection{
		nextID:    1,
		formatter: cite.NewFormatter(),
		hooks:     hooks,
	}
}

// Formatter exposes the collection's citation formatter.
func (c *Collection) Formatter() *cite.Formatter { return c.formatter }

// Create allocates the next id and inserts a record with all defaults.
func (c *Collection) Create() int {
	c.lock()
	p := paper.New()
	p.ID = c.nextID
	c.nextID++
	p.DateAdded = time.Now().Format("2006-01-02")
	c.papers = append(c.papers, p)
	id := p.ID
	c.unlock()

	c.recordDirty(id)
	return id
}

// Update sanitizes and commits one field of a record. A missing id is
// a logged no-op that counts toward the failure threshold. Edits to
// citation-relevant fields regenerate the denormalized citation.
func (c *Collection) Update(id int, field, raw string) {
	c.lock()
	p := c.Get(id)
	if p == nil {
		c.unlock()
		err := fmt.Errorf("update: record %d not found", id)
		c.hooks.Logf("%v", err)
		if c.hooks.Scheduler != nil {
			c.hooks.Scheduler.CountFailure(err)
		}
		return
	}

	p.Set(field, validate.Sanitize(field, raw))

	if paper.IsCitationField(field) {
		p.Citation = c.formatter.FormatCached(p).Plain
	}
	c.unlock()

	c.recordDirty(id)
}

// Delete removes a record and its external blob after confirmation.
// The snapshot is persisted synchronously and a full refresh runs
// immediately: delete is infrequent and must be visible at once.
func (c *Collection) Delete(id int) bool {
	if !c.confirm(fmt.Sprintf("Delete paper %d?", id)) {
		return false
	}

	c.lock()
	idx := -1
	for i, p := range c.papers {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.unlock()
		err := fmt.Errorf("delete: record %d not found", id)
		c.hooks.Logf("%v", err)
		if c.hooks.Scheduler != nil {
			c.hooks.Scheduler.CountFailure(err)
		}
		return false
	}

	c.papers = append(c.papers[:idx], c.papers[idx+1:]...)
	c.unlock()

	if c.hooks.Blobs != nil {
		if err := c.hooks.Blobs.Delete(id); err != nil {
			c.hooks.Logf("deleting blob for %d: %v", id, err)
		}
	}
	if c.hooks.PersistNow != nil {
		if err := c.hooks.PersistNow(); err != nil {
			c.hooks.Logf("persisting after delete: %v", err)
		}
	}
	if c.hooks.Scheduler != nil {
		c.hooks.Scheduler.ImmediateRefresh()
	}
	return true
}

// Clear empties the collection, resets id allocation, and wipes the
// persisted snapshot, after confirmation.
func (c *Collection) Clear() bool {
	if !c.confirm("Delete ALL papers?") {
		return false
	}
	c.lock()
	c.papers = nil
	c.nextID = 1
	c.unlock()
	if c.hooks.WipeSnapshot != nil {
		if err := c.hooks.WipeSnapshot(); err != nil {
			c.hooks.Logf("wiping snapshot: %v", err)
		}
	}
	if c.hooks.Scheduler != nil {
		c.hooks.Scheduler.ImmediateRefresh()
	}
	return true
}

// BulkInsert appends imported records, each under a fresh id, without
// per-record refresh scheduling. Fields are re-sanitized: import data
// is untrusted. Callers trigger exactly one refresh after the batch.
func (c *Collection) BulkInsert(records []*paper.Paper) []int {
	c.lock()
	defer c.unlock()

	ids := make([]int, 0, len(records))
	for _, p := range records {
		validate.Record(p)
		p.ID = c.nextID
		c.nextID++
		if p.DateAdded == "" {
			p.DateAdded = time.Now().Format("2006-01-02")
		}
		if p.Citation == "" {
			p.Citation = c.formatter.FormatCached(p).Plain
		}
		c.papers = append(c.papers, p)
		ids = append(ids, p.ID)
	}
	return ids
}

// Replace swaps in a loaded record set and id counter wholesale. Used
// by snapshot load, which has already sanitized every field.
func (c *Collection) Replace(records []*paper.Paper, nextID int) {
	c.lock()
	defer c.unlock()

	c.papers = records
	maxID := 0
	for _, p := range records {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	// Guard against a stored counter stale relative to the records.
	if nextID <= maxID {
		nextID = maxID + 1
	}
	if nextID < 1 {
		nextID = 1
	}
	c.nextID = nextID
}

// Get returns the record with the given id, or nil.
func (c *Collection) Get(id int) *paper.Paper {
	for _, p := range c.papers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// List returns the records in insertion order. The slice is shared;
// callers must not reorder it.
func (c *Collection) List() []*paper.Paper { return c.papers }

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.papers) }

// NextID returns the current id counter, for snapshotting.
func (c *Collection) NextID() int { return c.nextID }

func (c *Collection) confirm(prompt string) bool {
	if c.hooks.Confirm == nil {
		return true
	}
	return c.hooks.Confirm(prompt)
}

func (c *Collection) recordDirty(id int) {
	if c.hooks.Scheduler != nil {
		c.hooks.Scheduler.RecordDirty(id)
	}
}

func (c *Collection) lock() {
	if c.hooks.Gate != nil {
		c.hooks.Gate.Lock()
	}
}

func (c *Collection) unlock() {
	if c.hooks.Gate != nil {
		c.hooks.Gate.Unlock()
	}
}

// Stats are aggregate counts computed in one pass over the records.
type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	WithPDF    int            `json:"with_pdf"`
	AvgRating  float64        `json:"avg_rating"`
	ReadPct    float64        `json:"read_pct"`
}

// ComputeStats aggregates the collection in a single pass.
func (c *Collection) ComputeStats() Stats {
	s := Stats{
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	ratingSum, rated := 0, 0
	for _, p := range c.papers {
		s.Total++
		s.ByStatus[p.Status]++
		s.ByPriority[p.Priority]++
		if p.PDF.HasPDF {
			s.WithPDF++
		}
		if p.Rating != "" {
			if n, err := strconv.Atoi(p.Rating); err == nil {
				ratingSum += n
				rated++
			}
		}
	}
	if rated > 0 {
		s.AvgRating = float64(ratingSum) / float64(rated)
	}
	if s.Total > 0 {
		s.ReadPct = 100 * float64(s.ByStatus[paper.StatusRead]) / float64(s.Total)
	}
	return s
}
