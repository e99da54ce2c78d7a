package persist

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/refdeck/refdeck/internal/paper"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "deck.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func titledPapers(n int) []*paper.Paper {
	papers := make([]*paper.Paper, 0, n)
	for i := 1; i <= n; i++ {
		p := paper.New()
		p.ID = i
		p.Title = fmt.Sprintf("Paper %d", i)
		papers = append(papers, p)
	}
	return papers
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	s.Source = func() Snapshot {
		return Snapshot{Papers: titledPapers(3), NextID: 4}
	}

	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	snap, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load reported no snapshot after a save")
	}
	if len(snap.Papers) != 3 {
		t.Fatalf("got %d papers, want 3", len(snap.Papers))
	}
	if snap.Papers[0].Title != "Paper 1" || snap.Papers[2].ID != 3 {
		t.Errorf("papers did not round-trip: %+v", snap.Papers)
	}
	if snap.NextID != 4 {
		t.Errorf("nextID = %d, want 4", snap.NextID)
	}
	if snap.LastModified == "" {
		t.Error("lastModified should be stamped on save")
	}

	// Saving again overwrites the single slot, not appends.
	if err := s.SaveNow(); err != nil {
		t.Fatalf("second SaveNow: %v", err)
	}
	snap, _, _ = s.Load()
	if len(snap.Papers) != 3 {
		t.Errorf("repeated saves should stay idempotent, got %d papers", len(snap.Papers))
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Error("fresh store should report no snapshot")
	}
}

func TestLoadWipesCorruptSnapshot(t *testing.T) {
	cases := []string{
		`not json`,
		`{"papers": 42, "nextId": 1}`,
		`{"papers": [], "nextId": "one"}`,
		`{"nextId": 1}`,
	}

	for _, c := range cases {
		s := openTestStore(t)
		if err := s.writeSlot(deckSlot, []byte(c)); err != nil {
			t.Fatalf("writeSlot: %v", err)
		}

		_, ok, err := s.Load()
		if err != nil {
			t.Fatalf("Load(%q): %v", c, err)
		}
		if ok {
			t.Errorf("corrupt snapshot %q should read as absent", c)
		}

		// The corrupt payload is gone for good.
		var value string
		row := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, deckSlot)
		if err := row.Scan(&value); err == nil {
			t.Errorf("corrupt snapshot %q should have been wiped, found %q", c, value)
		}
	}
}

func TestLoadSanitizesRecords(t *testing.T) {
	s := openTestStore(t)
	payload := `{"papers":[{"id":2,"title":"X","status":"bogus","rating":"11"}],"nextId":1}`
	if err := s.writeSlot(deckSlot, []byte(payload)); err != nil {
		t.Fatalf("writeSlot: %v", err)
	}

	snap, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}

	p := snap.Papers[0]
	if p.Status != paper.StatusToRead {
		t.Errorf("status should be re-coerced, got %q", p.Status)
	}
	if p.Rating != "" {
		t.Errorf("out-of-range rating should clear, got %q", p.Rating)
	}
	if snap.NextID != 3 {
		t.Errorf("nextID should be recomputed past the max id, got %d", snap.NextID)
	}
}

func TestLoadSkipsUnreadableRows(t *testing.T) {
	s := openTestStore(t)
	payload := `{"papers":[{"id":1,"title":"Good"}, "not an object"],"nextId":5}`
	if err := s.writeSlot(deckSlot, []byte(payload)); err != nil {
		t.Fatalf("writeSlot: %v", err)
	}

	snap, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(snap.Papers) != 1 || snap.Papers[0].Title != "Good" {
		t.Errorf("readable rows should survive a bad sibling: %+v", snap.Papers)
	}
}

func TestWipe(t *testing.T) {
	s := openTestStore(t)
	s.Source = func() Snapshot { return Snapshot{Papers: titledPapers(1), NextID: 2} }

	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	if err := s.Wipe(); err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	if _, ok, _ := s.Load(); ok {
		t.Error("snapshot should be gone after wipe")
	}
}

func TestQuotaDegradation(t *testing.T) {
	s := openTestStore(t)
	s.Source = func() Snapshot {
		return Snapshot{Papers: titledPapers(10), NextID: 11}
	}

	degraded := 0
	s.OnDegraded = func() { degraded++ }

	// A ceiling between the full and compacted payload sizes forces
	// the degradation path.
	s.SetMaxSnapshotBytes(2000)

	if err := s.SaveNow(); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	if degraded != 1 {
		t.Fatalf("OnDegraded calls = %d, want 1", degraded)
	}

	snap, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(snap.Papers) != 10 {
		t.Fatalf("compacted snapshot lost records: %d", len(snap.Papers))
	}
	if snap.Papers[4].Title != "Paper 5" {
		t.Errorf("non-empty fields must survive compaction, got %q", snap.Papers[4].Title)
	}
	if snap.Papers[4].Status != paper.StatusToRead {
		t.Errorf("dropped empty fields should re-default on load, got %q", snap.Papers[4].Status)
	}
}

func TestQuotaExhausted(t *testing.T) {
	s := openTestStore(t)
	s.Source = func() Snapshot {
		return Snapshot{Papers: titledPapers(10), NextID: 11}
	}
	s.SetMaxSnapshotBytes(100)

	if err := s.SaveNow(); err == nil {
		t.Fatal("save below the compacted size should fail")
	}
}

func TestCloseFlushesDeferredSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	title := "first"
	s.Source = func() Snapshot {
		p := paper.New()
		p.ID = 1
		p.Title = title
		return Snapshot{Papers: []*paper.Paper{p}, NextID: 2}
	}

	// A long cooldown ensures the second save stays deferred until
	// Close; the trailing timer must not be dropped on the floor.
	s.SetCooldown(time.Hour)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	title = "second"
	if err := s.Save(); err != nil {
		t.Fatalf("deferred Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	snap, ok, err := s2.Load()
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got := snap.Papers[0].Title; got != "second" {
		t.Errorf("persisted title = %q, want %q", got, "second")
	}
}

func TestSaveCooldown(t *testing.T) {
	s := openTestStore(t)

	var writes atomic.Int32
	s.Source = func() Snapshot {
		writes.Add(1)
		return Snapshot{Papers: titledPapers(1), NextID: 2}
	}
	s.SetCooldown(50 * time.Millisecond)

	// First save spends the burst token and writes immediately.
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n := writes.Load(); n != 1 {
		t.Fatalf("writes = %d after first save, want 1", n)
	}

	// Calls inside the window coalesce into one trailing write.
	for i := 0; i < 5; i++ {
		if err := s.Save(); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	if n := writes.Load(); n != 1 {
		t.Fatalf("writes = %d inside the cooldown window, want still 1", n)
	}

	time.Sleep(150 * time.Millisecond)
	if n := writes.Load(); n != 2 {
		t.Errorf("writes = %d after the window, want 2 (one trailing write)", n)
	}
}
