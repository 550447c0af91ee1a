package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/logicdiagram/pkg/config"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/ids"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

func sampleTree(t *testing.T, name string) *tree.Tree {
	t.Helper()
	tr, err := tree.New(name)
	if err != nil {
		t.Fatal(err)
	}
	p, err := tr.AddProject("Main")
	if err != nil {
		t.Fatal(err)
	}
	d, err := tr.AddDiagram(p, "Top")
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.SwitchTo(d); err != nil {
		t.Fatal(err)
	}
	g, _ := tr.Graph()
	if _, err := g.CreateElement(ids.AndGate, 10, 20); err != nil {
		t.Fatal(err)
	}
	return tr
}

// testStore exercises the Store contract. The store must start empty.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if docs, err := s.List(ctx); err != nil || len(docs) != 0 {
		t.Fatalf("List() on empty store = %v, %v", docs, err)
	}

	beta := NewDocument(sampleTree(t, "Beta"))
	if err := s.Put(ctx, beta); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if beta.ID == "" {
		t.Fatal("Put() did not assign an id")
	}
	if beta.UpdatedAt.IsZero() {
		t.Error("Put() did not set UpdatedAt")
	}
	alpha := NewDocument(sampleTree(t, "Alpha"))
	alpha.ID = "alpha"
	if err := s.Put(ctx, alpha); err != nil {
		t.Fatalf("Put(alpha) error: %v", err)
	}

	got, err := s.Get(ctx, beta.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "Beta" || got.Content != beta.Content {
		t.Errorf("Get() = %+v, want %+v", got, beta)
	}
	tr, err := got.Tree()
	if err != nil {
		t.Fatalf("Tree() error: %v", err)
	}
	if tree.Serialize(tr) != beta.Content {
		t.Errorf("stored content does not round trip:\n%s", tree.Serialize(tr))
	}

	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(docs) != 2 || docs[0].Name != "Alpha" || docs[1].Name != "Beta" {
		t.Errorf("List() = %v, want Alpha then Beta", docs)
	}

	// Replace keeps the id.
	alpha.Content = tree.Serialize(sampleTree(t, "Alpha"))
	alpha.Name = "Gamma"
	if err := s.Put(ctx, alpha); err != nil {
		t.Fatalf("Put(replace) error: %v", err)
	}
	if got, _ := s.Get(ctx, "alpha"); got == nil || got.Name != "Gamma" {
		t.Errorf("Get(alpha) after replace = %+v", got)
	}

	if err := s.Delete(ctx, beta.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, beta.ID); !IsNotFound(err) {
		t.Errorf("Get() after Delete = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, beta.ID); !IsNotFound(err) {
		t.Errorf("Delete() twice = %v, want NOT_FOUND", err)
	}
	if docs, _ := s.List(ctx); len(docs) != 1 {
		t.Errorf("List() after Delete = %v", docs)
	}

	bad := &Document{Name: "", Content: ""}
	if err := s.Put(ctx, bad); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("Put(empty name) = %v, want INVALID_NAME", err)
	}
	bad = &Document{ID: "../x", Name: "X"}
	if err := s.Put(ctx, bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Put(bad id) = %v, want INVALID_INPUT", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "docs"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteRevisions(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	doc := NewDocument(sampleTree(t, "Adder"))
	first := doc.Content
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Content = tree.Serialize(sampleTree(t, "Adder2"))
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}

	revs, err := s.Revisions(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Revisions() error: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Revisions() = %d entries, want 2", len(revs))
	}
	if revs[0].Content != first || revs[1].Content != doc.Content {
		t.Errorf("revisions out of order: %q, %q", revs[0].Content, revs[1].Content)
	}

	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Revisions(ctx, doc.ID); !IsNotFound(err) {
		t.Errorf("Revisions() after Delete = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := NewDocument(sampleTree(t, "Adder"))
	if err := s.Put(ctx, doc); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() after reopen: %v", err)
	}
	if got.Content != doc.Content {
		t.Errorf("content changed across reopen")
	}
}

func TestFileStoreGetInvalidID(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "../etc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(../etc) = %v, want INVALID_INPUT", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tests := []struct {
		name    string
		cfg     config.Store
		want    string
		wantErr bool
	}{
		{"file", config.Store{Backend: config.BackendFile, Path: filepath.Join(dir, "f")}, "*store.FileStore", false},
		{"default backend", config.Store{Path: filepath.Join(dir, "g")}, "*store.FileStore", false},
		{"sqlite", config.Store{Backend: config.BackendSQLite, Path: filepath.Join(dir, "s.db")}, "*store.SQLiteStore", false},
		{"unknown", config.Store{Backend: "tape"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("Open() = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("Open() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *FileStore:
		return "*store.FileStore"
	case *SQLiteStore:
		return "*store.SQLiteStore"
	case *RedisStore:
		return "*store.RedisStore"
	case *MongoStore:
		return "*store.MongoStore"
	}
	return "unknown"
}
