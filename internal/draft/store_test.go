// Copyright (c) 2025-2026 The hubcms Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kemujan/hubcms/internal/apperr"
	"github.com/kemujan/hubcms/internal/keypath"
	"github.com/kemujan/hubcms/internal/testutil"
)

// fakeContent is an in-memory ContentBackend.
type fakeContent struct {
	mu      sync.Mutex
	tree    keypath.Node
	failPut error
	puts    []string
}

func newFakeContent(t *testing.T, raw string) *fakeContent {
	t.Helper()
	var n keypath.Node
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &fakeContent{tree: n}
}

func (f *fakeContent) FetchContent(context.Context) (keypath.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tree, nil
}

func (f *fakeContent) UpdateSection(_ context.Context, section string, value keypath.Node) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut != nil {
		return f.failPut
	}
	f.puts = append(f.puts, section)
	updated, err := keypath.Set(f.tree, keypath.Path{section}, value)
	if err != nil {
		return err
	}
	f.tree = updated
	return nil
}

const sampleContent = `{
	"hero": {"title": "Welcome", "subtitle": "Hello"},
	"stats": {"stat1": {"label": "Members", "value": 10}},
	"faq": {"title": "FAQ", "questions": [{"id": 1, "question": "Q1", "answer": "A1"}]}
}`

func newLoadedStore(t *testing.T) (*Store, *fakeContent) {
	t.Helper()
	backend := newFakeContent(t, sampleContent)
	s := NewStore(backend, testutil.TestLoggerSilent())
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return s, backend
}

func mustStr(t *testing.T, s *Store, section, path string) string {
	t.Helper()
	n, err := s.ReadPath(section, path)
	if err != nil {
		t.Fatalf("ReadPath(%q, %q) error = %v", section, path, err)
	}
	str, ok := n.Str()
	if !ok {
		t.Fatalf("ReadPath(%q, %q) is %s, want string", section, path, n.Kind())
	}
	return str
}

func TestStore_WriteIsDraftOnly(t *testing.T) {
	s, _ := newLoadedStore(t)

	if err := s.Write("stats", "stat1.label", keypath.String("Users")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := mustStr(t, s, "stats", "stat1.label"); got != "Users" {
		t.Errorf("draft label = %q, want %q", got, "Users")
	}
	synced, _ := s.Synced("stats")
	label, _ := keypath.Get(synced, keypath.MustParse("stat1.label"))
	if str, _ := label.Str(); str != "Members" {
		t.Errorf("synced label = %q, want %q", str, "Members")
	}
	if !s.Dirty("stats") {
		t.Error("Dirty(stats) = false, want true")
	}
	if s.Dirty("hero") {
		t.Error("Dirty(hero) = true, want false")
	}
}

func TestStore_CommitPromotesDraft(t *testing.T) {
	s, backend := newLoadedStore(t)
	var published []keypath.Node
	cancel := s.Subscribe(func(n keypath.Node) { published = append(published, n) })
	defer cancel()

	if err := s.Write("hero", "title", keypath.String("Hi there")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Commit(context.Background(), "hero"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if s.Dirty("hero") {
		t.Error("Dirty(hero) = true after commit")
	}
	if got := mustStr(t, s, "hero", "title"); got != "Hi there" {
		t.Errorf("title = %q, want %q", got, "Hi there")
	}
	synced, _ := s.Synced("hero")
	remote, _ := backend.tree.Field("hero")
	if !synced.Equal(remote) {
		t.Error("synced hero differs from persisted hero")
	}
	if len(published) != 1 {
		t.Fatalf("published %d snapshots, want 1", len(published))
	}
	title, _ := keypath.Get(published[0], keypath.MustParse("hero.title"))
	if str, _ := title.Str(); str != "Hi there" {
		t.Errorf("published title = %q", str)
	}
}

func TestStore_CommitFailureKeepsDraft(t *testing.T) {
	s, backend := newLoadedStore(t)
	backend.failPut = &apperr.RemoteError{Op: "update section", Status: 500, Message: "down"}

	if err := s.Write("hero", "title", keypath.String("New")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	err := s.Commit(context.Background(), "hero")
	if !errors.Is(err, apperr.ErrRemote) {
		t.Fatalf("Commit() error = %v, want ErrRemote", err)
	}
	if !s.Dirty("hero") {
		t.Error("draft cleared after failed commit")
	}
	if got := mustStr(t, s, "hero", "title"); got != "New" {
		t.Errorf("draft title = %q, want %q", got, "New")
	}
	synced, _ := s.Synced("hero")
	title, _ := synced.Field("title")
	if str, _ := title.Str(); str != "Welcome" {
		t.Errorf("synced title = %q, want %q", str, "Welcome")
	}
}

func TestStore_Discard(t *testing.T) {
	s, backend := newLoadedStore(t)

	if err := s.Write("hero", "subtitle", keypath.String("Changed")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	s.Discard("hero")

	if got := mustStr(t, s, "hero", "subtitle"); got != "Hello" {
		t.Errorf("subtitle after discard = %q, want %q", got, "Hello")
	}
	if len(backend.puts) != 0 {
		t.Errorf("discard issued %d updates", len(backend.puts))
	}
}

func TestStore_CommitWithoutDraftIsNoop(t *testing.T) {
	s, backend := newLoadedStore(t)
	if err := s.Commit(context.Background(), "hero"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(backend.puts) != 0 {
		t.Errorf("puts = %v, want none", backend.puts)
	}
	if err := s.Commit(context.Background(), "nope"); !errors.Is(err, apperr.ErrUnknownSection) {
		t.Errorf("Commit(nope) error = %v, want ErrUnknownSection", err)
	}
}

func TestStore_UnknownSectionAndPath(t *testing.T) {
	s, _ := newLoadedStore(t)

	if _, err := s.Read("missing"); !errors.Is(err, apperr.ErrUnknownSection) {
		t.Errorf("Read(missing) error = %v, want ErrUnknownSection", err)
	}
	if err := s.Write("missing", "title", keypath.String("x")); !errors.Is(err, apperr.ErrUnknownSection) {
		t.Errorf("Write(missing) error = %v, want ErrUnknownSection", err)
	}
	err := s.Write("hero", "cta.label", keypath.String("x"))
	if !errors.Is(err, keypath.ErrPathResolution) {
		t.Errorf("Write(hero, cta.label) error = %v, want ErrPathResolution", err)
	}
	if s.Dirty("hero") {
		t.Error("failed write left a draft behind")
	}
}

func TestStore_AppendRemoveFAQ(t *testing.T) {
	s, _ := newLoadedStore(t)

	item := keypath.Map(map[string]keypath.Node{
		"id":       keypath.Number(2),
		"question": keypath.String("Q2"),
		"answer":   keypath.String("A2"),
	})
	if err := s.Append("faq", "questions", item); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if got := mustStr(t, s, "faq", "questions.1.question"); got != "Q2" {
		t.Errorf("questions.1.question = %q, want %q", got, "Q2")
	}
	if err := s.Remove("faq", "questions.0"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := mustStr(t, s, "faq", "questions.0.question"); got != "Q2" {
		t.Errorf("questions.0.question = %q, want %q", got, "Q2")
	}
	if got := s.DirtySections(); len(got) != 1 || got[0] != "faq" {
		t.Errorf("DirtySections() = %v, want [faq]", got)
	}
}

func TestStore_RefreshKeepsDrafts(t *testing.T) {
	s, _ := newLoadedStore(t)
	if err := s.Write("hero", "title", keypath.String("Draft")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := mustStr(t, s, "hero", "title"); got != "Draft" {
		t.Errorf("title after refresh = %q, want %q", got, "Draft")
	}
	if got := s.Sections(); len(got) != 3 {
		t.Errorf("Sections() = %v, want 3 sections", got)
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	s, _ := newLoadedStore(t)
	calls := 0
	cancel := s.Subscribe(func(keypath.Node) { calls++ })
	cancel()
	cancel()
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe, want 0", calls)
	}
}

func TestStore_NotificationsFollowSyncedOrder(t *testing.T) {
	s, _ := newLoadedStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	var last keypath.Node
	defer s.Subscribe(func(n keypath.Node) {
		mu.Lock()
		last = n
		mu.Unlock()
	})()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.Refresh(ctx)
				return
			}
			_ = s.Write("hero", "title", keypath.String(fmt.Sprintf("title %d", i)))
			_ = s.Commit(ctx, "hero")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if !last.Equal(s.Snapshot()) {
		t.Errorf("last notified tree = %v, want synced %v", last.Any(), s.Snapshot().Any())
	}
}
