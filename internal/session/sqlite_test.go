package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "intervue.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.AddQuestion(ctx, sess.ID, sampleQuestion("q1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := store.RecordAnswer(ctx, sess.ID, Answer{
		QuestionID:  "q1",
		Text:        "goroutines are multiplexed onto OS threads",
		TimeSpent:   90 * time.Second,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.CurrentIndex != 1 {
		t.Errorf("expected current index 1, got %d", p.CurrentIndex)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Questions) != 1 || len(got.Answers) != 1 {
		t.Fatalf("expected 1 question and 1 answer, got %d/%d",
			len(got.Questions), len(got.Answers))
	}
	if got.Questions[0].Topic != "Concurrency" {
		t.Errorf("question did not survive the round trip: %+v", got.Questions[0])
	}
	if got.Answers[0].TimeSpent != 90*time.Second {
		t.Errorf("answer time did not survive the round trip: %v", got.Answers[0].TimeSpent)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_LedgerInvariant(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	sess, _ := store.Create(ctx, validParams())

	_, err := store.RecordAnswer(ctx, sess.ID, Answer{QuestionID: "q1", Text: "hi"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSQLiteStore_CompleteIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	clock := base
	store.now = func() time.Time { return clock }

	ctx := context.Background()
	sess, _ := store.Create(ctx, validParams())

	clock = base.Add(5 * time.Minute)
	first, err := store.Complete(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Duration != "5:00" {
		t.Errorf("expected duration 5:00, got %q", first.Duration)
	}

	clock = base.Add(time.Hour)
	second, err := store.Complete(ctx, sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Duration != first.Duration || !second.EndedAt.Equal(first.EndedAt) {
		t.Errorf("second Complete changed state")
	}
}

func TestSQLiteStore_ListByOwner(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	i := 0
	store.now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Minute)
	}

	ctx := context.Background()
	var ids []string
	for range [3]int{} {
		s, _ := store.Create(ctx, validParams())
		ids = append(ids, s.ID)
	}

	all, err := store.ListByOwner(ctx, "amit", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != ids[2] {
		t.Errorf("expected newest-first ordering")
	}

	page, _ := store.ListByOwner(ctx, "amit", 1, 1)
	if len(page) != 1 || page[0].ID != ids[1] {
		t.Errorf("unexpected page contents")
	}
}

func TestSQLiteStore_ListByOwnerSubsecondOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	// 100ms and 150ms past the same second; a textual timestamp encoding
	// would compare these lexicographically and get the order wrong.
	stamps := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}
	i := 0
	store.now = func() time.Time {
		ts := base.Add(stamps[i])
		i++
		return ts
	}

	ctx := context.Background()
	older, _ := store.Create(ctx, validParams())
	newer, _ := store.Create(ctx, validParams())

	all, err := store.ListByOwner(ctx, "amit", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}
	if all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Errorf("expected newest-first ordering, got %s then %s", all[0].ID, all[1].ID)
	}
	if !all[0].CreatedAt.Equal(base.Add(150 * time.Millisecond)) {
		t.Errorf("created_at did not survive the round trip: %v", all[0].CreatedAt)
	}
}
