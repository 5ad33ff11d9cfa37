// Package store persists bookmarks: named views of the plane that can be
// rendered again later.
//
// Bookmarks hold a view and an iteration cap, never a computed field. Fields
// are always recomputed from the bookmark.
//
// Three backends implement [Store]:
//   - file: one JSON file per bookmark, for the CLI
//   - redis: a single Redis hash, for servers sharing bookmarks
//   - mongo: a MongoDB collection keyed by name
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: store.BackendFile}, logger)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	b, err := store.NewBookmark("spiral", view, 1024)
//	if err != nil {
//	    return err
//	}
//	if err := s.Save(ctx, b); err != nil {
//	    return err
//	}
//
//	b, err = s.Get(ctx, "spiral")
//	if errors.Is(err, store.ErrNotFound) {
//	    // no such bookmark
//	}
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
)

// ErrNotFound is returned when a bookmark does not exist.
var ErrNotFound = errors.New("bookmark not found")

// Bookmark is a named view.
type Bookmark struct {
	ID            uuid.UUID    `json:"id" bson:"id"`
	Name          string       `json:"name" bson:"name"`
	View          fractal.View `json:"view" bson:"view"`
	MaxIterations uint32       `json:"max_iterations,omitempty" bson:"max_iterations,omitempty"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
}

// NewBookmark validates name and view and returns a bookmark with a fresh ID.
func NewBookmark(name string, v fractal.View, maxIterations uint32) (*Bookmark, error) {
	b := &Bookmark{
		ID:            uuid.New(),
		Name:          name,
		View:          v,
		MaxIterations: maxIterations,
		CreatedAt:     time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the name and view.
func (b *Bookmark) Validate() error {
	if err := mberr.ValidateBookmarkName(b.Name); err != nil {
		return err
	}
	return b.View.Validate()
}

// Store is the interface for bookmark storage backends.
type Store interface {
	// Get retrieves a bookmark by name. Returns an error matching
	// ErrNotFound if it doesn't exist.
	Get(ctx context.Context, name string) (*Bookmark, error)

	// List returns all bookmarks sorted by name.
	List(ctx context.Context) ([]*Bookmark, error)

	// Save stores a bookmark, replacing any bookmark with the same name.
	Save(ctx context.Context, b *Bookmark) error

	// Delete removes a bookmark. Returns an error matching ErrNotFound if
	// it doesn't exist.
	Delete(ctx context.Context, name string) error

	// Close releases backend connections.
	Close() error
}

// notFound wraps ErrNotFound with the NOT_FOUND code so both errors.Is and
// the code lookup in pkg/errors match.
func notFound(name string) error {
	return mberr.Wrap(mberr.ErrCodeNotFound, ErrNotFound, "bookmark %q not found", name)
}

func storageErr(err error, format string, args ...any) error {
	return mberr.Wrap(mberr.ErrCodeStorage, err, format, args...)
}

func sortByName(bs []*Bookmark) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].Name < bs[j].Name })
}
