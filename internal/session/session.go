package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
	"github.com/spevenexe/S25-NLP-project/internal/rag/index"
)

// Session is the per-user pipeline state: the current document and its index.
// The lock serializes uploads and question generation; readers take a snapshot
// of the index pointer and never see a half-built index.
type Session struct {
	Id string

	mu       sync.Mutex
	index    atomic.Pointer[index.Index]
	document atomic.Pointer[commonModels.Document]
	lastUsed atomic.Int64
}

func newSession(id string, now time.Time) *Session {
	s := &Session{Id: id}
	s.lastUsed.Store(now.UnixNano())
	return s
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Index returns the current index, nil when no document is indexed.
// Callers that query it without holding the session lock use AcquireIndex instead.
func (s *Session) Index() *index.Index {
	return s.index.Load()
}

// AcquireIndex returns the current index with a reader registered on it, or nil.
// The caller must Release it; until then a concurrent replace does not drop its collection.
func (s *Session) AcquireIndex() *index.Index {
	for {
		idx := s.index.Load()
		if idx == nil {
			return nil
		}
		if idx.Acquire() {
			return idx
		}
		// retired between Load and Acquire, the pointer has moved on
	}
}

// SwapIndex installs idx (which may be nil) and returns the previous index.
func (s *Session) SwapIndex(idx *index.Index) *index.Index {
	return s.index.Swap(idx)
}

func (s *Session) Document() *commonModels.Document {
	return s.document.Load()
}

func (s *Session) SetDocument(doc *commonModels.Document) {
	s.document.Store(doc)
}

func (s *Session) Touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// ReplaceIndex swaps in idx and retires the previous index. Its collection is dropped
// once readers that acquired it are done.
func (s *Session) ReplaceIndex(ctx context.Context, idx *index.Index) error {
	if old := s.SwapIndex(idx); old != nil {
		return old.Retire(ctx)
	}
	return nil
}
