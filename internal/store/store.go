package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a document id does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when a conditional write was computed
	// against a stale base version. Callers re-read and retry.
	ErrVersionConflict = errors.New("document version conflict")
)

// Document wraps one persisted record. Data is the caller's JSON payload;
// Version increments on every write and guards conditional replaces.
type Document struct {
	ID      string          `json:"id"`
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Update is one entry of a batched conditional write.
type Update struct {
	ID            string
	ExpectVersion int64
	Data          json.RawMessage
}

// Store holds keyed document collections with subscribe/create/replace/delete
// semantics. Collections are kept in memory and, when a data directory is
// configured, mirrored to one JSON file per collection using an atomic
// temp-file-then-rename write. An empty dir keeps the store memory-only.
type Store struct {
	mu   sync.RWMutex
	dir  string
	cols map[string]map[string]Document

	subMu sync.Mutex
	subs  map[string]map[chan []Document]struct{}
}

// Open creates a Store rooted at dir and loads any existing collection files.
func Open(dir string) (*Store, error) {
	s := &Store{
		dir:  dir,
		cols: make(map[string]map[string]Document),
		subs: make(map[string]map[chan []Document]struct{}),
	}
	if dir == "" {
		return s, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading store dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading collection %s: %w", name, err)
		}
		docs := make(map[string]Document)
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("parsing collection %s: %w", name, err)
		}
		s.cols[name[:len(name)-len(".json")]] = docs
	}
	return s, nil
}

// Get returns a copy of the document with the given id.
func (s *Store) Get(collection, id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.cols[collection][id]
	return doc, ok
}

// List returns every document in the collection, ordered by id so output is
// stable across calls.
func (s *Store) List(collection string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(collection)
}

func (s *Store) listLocked(collection string) []Document {
	docs := make([]Document, 0, len(s.cols[collection]))
	for _, d := range s.cols[collection] {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// Create inserts a new document with a fresh id at version 1.
func (s *Store) Create(collection string, data json.RawMessage) (Document, error) {
	doc := Document{
		ID:      uuid.NewString(),
		Version: 1,
		Data:    append(json.RawMessage(nil), data...),
	}

	s.mu.Lock()
	if s.cols[collection] == nil {
		s.cols[collection] = make(map[string]Document)
	}
	s.cols[collection][doc.ID] = doc
	err := s.persistLocked(collection)
	snapshot := s.listLocked(collection)
	s.mu.Unlock()

	if err != nil {
		return Document{}, err
	}
	s.notify(collection, snapshot)
	return doc, nil
}

// Replace performs a conditional whole-document replace. The write succeeds
// only when expectVersion matches the stored version; otherwise the caller
// raced another writer and must re-read.
func (s *Store) Replace(collection, id string, data json.RawMessage, expectVersion int64) (Document, error) {
	s.mu.Lock()
	cur, ok := s.cols[collection][id]
	if !ok {
		s.mu.Unlock()
		return Document{}, ErrNotFound
	}
	if cur.Version != expectVersion {
		s.mu.Unlock()
		return Document{}, fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, cur.Version, expectVersion)
	}
	doc := Document{
		ID:      id,
		Version: cur.Version + 1,
		Data:    append(json.RawMessage(nil), data...),
	}
	s.cols[collection][id] = doc
	err := s.persistLocked(collection)
	snapshot := s.listLocked(collection)
	s.mu.Unlock()

	if err != nil {
		return Document{}, err
	}
	s.notify(collection, snapshot)
	return doc, nil
}

// ReplaceBatch applies a set of conditional replaces as one write: every
// update's base version is checked before any is applied, and the collection
// is persisted and announced once. A single stale entry fails the whole
// batch with no changes.
func (s *Store) ReplaceBatch(collection string, updates []Update) error {
	s.mu.Lock()
	for _, u := range updates {
		cur, ok := s.cols[collection][u.ID]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%s: %w", u.ID, ErrNotFound)
		}
		if cur.Version != u.ExpectVersion {
			s.mu.Unlock()
			return fmt.Errorf("%s: %w: have %d, expected %d", u.ID, ErrVersionConflict, cur.Version, u.ExpectVersion)
		}
	}
	for _, u := range updates {
		cur := s.cols[collection][u.ID]
		s.cols[collection][u.ID] = Document{
			ID:      u.ID,
			Version: cur.Version + 1,
			Data:    append(json.RawMessage(nil), u.Data...),
		}
	}
	err := s.persistLocked(collection)
	snapshot := s.listLocked(collection)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(collection, snapshot)
	return nil
}

// Delete removes a document permanently.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	if _, ok := s.cols[collection][id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.cols[collection], id)
	err := s.persistLocked(collection)
	snapshot := s.listLocked(collection)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(collection, snapshot)
	return nil
}

// Subscribe returns a channel that receives the full current document set of
// the collection after every change, starting with an immediate snapshot.
// A subscriber that falls behind misses intermediate sets, never writes.
// The returned func cancels the subscription.
func (s *Store) Subscribe(collection string) (<-chan []Document, func()) {
	ch := make(chan []Document, 8)

	s.subMu.Lock()
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[chan []Document]struct{})
	}
	s.subs[collection][ch] = struct{}{}
	s.subMu.Unlock()

	ch <- s.List(collection)

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[collection][ch]; ok {
			delete(s.subs[collection], ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) notify(collection string, snapshot []Document) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs[collection] {
		select {
		case ch <- snapshot:
		default:
			// Subscriber too slow, drop this set
		}
	}
}

// persistLocked writes the collection file under s.mu. The temp file is
// renamed into place so readers never observe a partial write.
func (s *Store) persistLocked(collection string) error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	data, err := json.MarshalIndent(s.cols[collection], "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling collection %s: %w", collection, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, "."+collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, collection+".json")); err != nil {
		return fmt.Errorf("renaming collection file: %w", err)
	}
	committed = true
	return nil
}
