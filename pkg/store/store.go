// Package store persists solution documents.
//
// A [Document] holds one solution in the text format of package tree.
// Four backends implement [Store]:
//   - [FileStore]: one JSON file per document, for CLI use
//   - [SQLiteStore]: a single database file that also keeps every revision
//   - [RedisStore]: shared storage for multiple server instances
//   - [MongoStore]: a MongoDB collection
//
// [Open] picks the backend named in the configuration.
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	doc, err := store.NewDocument(t)
//	err = st.Put(ctx, doc) // assigns doc.ID
//
// Missing documents are reported with the NOT_FOUND error code.
package store

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/logicdiagram/pkg/config"
	"github.com/matzehuels/logicdiagram/pkg/errors"
	"github.com/matzehuels/logicdiagram/pkg/tree"
)

// Document is a stored solution.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Content   string    `json:"content" bson:"content"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewDocument serializes t into a document without an id.
func NewDocument(t *tree.Tree) *Document {
	return &Document{Name: t.Solution().Name(), Content: tree.Serialize(t)}
}

// Tree parses the document content.
func (d *Document) Tree(opts ...tree.Option) (*tree.Tree, error) {
	return tree.Parse(d.Content, opts...)
}

// Store is a document store.
type Store interface {
	// Get returns the document with the given id.
	Get(ctx context.Context, id string) (*Document, error)

	// Put inserts or replaces doc. An empty ID is assigned a new one, and
	// UpdatedAt is set to the current time.
	Put(ctx context.Context, doc *Document) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error

	// List returns every document ordered by name.
	List(ctx context.Context) ([]Document, error)

	// Close releases resources held by the store.
	Close() error
}

// IsNotFound reports whether err means a document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "document %s not found", id)
}

// prepare validates doc before a write and fills in its id and timestamp.
func prepare(doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := validateID(doc.ID); err != nil {
		return err
	}
	if err := errors.ValidateName(doc.Name); err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

// validateID rejects ids that cannot be used as a file name or key.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\:`) || len(id) > 128 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
	}
	return nil
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		dir := cfg.Path
		if dir == "" {
			data, err := config.DataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(data, "solutions")
		}
		return NewFileStore(dir)
	case config.BackendSQLite:
		path := cfg.Path
		if path == "" {
			data, err := config.DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(data, "solutions.db")
		}
		return NewSQLiteStore(path)
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Prefix: cfg.RedisPrefix})
	case config.BackendMongo:
		return NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
}
