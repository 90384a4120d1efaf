// Package localstore is the persisted fallback used when no remote document
// database is configured. Each collection lives in one JSON file holding the
// whole array, the same way the panels kept one localStorage key per
// collection. Every write rewrites the file after a linear scan by id; that
// is O(n) per write and stays that way on purpose, since a single shop's
// records never grow past a few thousand documents and there are no
// concurrent writers beyond this process.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists collections as JSON files under a data directory.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// New creates the data directory if needed and returns the store.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) collectionPath(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *Store) singletonPath(collection, id string) string {
	return filepath.Join(s.dir, collection+"-"+id+".json")
}

func (s *Store) readAll(collection string) ([]map[string]any, error) {
	raw, err := os.ReadFile(s.collectionPath(collection))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return docs, nil
}

func (s *Store) writeAll(collection string, docs []map[string]any) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	path := s.collectionPath(collection)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}

// docSortKey orders documents newest-first. Collections store ISO-8601
// timestamps under "date" (admissions, invoices) or "createdAt" (bookings),
// both of which sort correctly as strings.
func docSortKey(doc map[string]any) string {
	if v, ok := doc["date"].(string); ok && v != "" {
		return v
	}
	if v, ok := doc["createdAt"].(string); ok {
		return v
	}
	return ""
}

// toDoc converts an arbitrary value into a generic document via JSON.
func toDoc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadCollection decodes the whole collection into out, newest first.
func (s *Store) LoadCollection(_ context.Context, collection string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readAll(collection)
	if err != nil {
		return err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docSortKey(docs[i]) > docSortKey(docs[j])
	})

	raw, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode collection %s into target: %w", collection, err)
	}
	return nil
}

// Create appends doc with a generated timestamp id and rewrites the file.
func (s *Store) Create(_ context.Context, collection string, doc any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readAll(collection)
	if err != nil {
		return "", err
	}

	m, err := toDoc(doc)
	if err != nil {
		return "", fmt.Errorf("encode document for %s: %w", collection, err)
	}

	id := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	m["id"] = id

	docs = append([]map[string]any{m}, docs...)
	if err := s.writeAll(collection, docs); err != nil {
		return "", err
	}

	s.logger.Debug("document created", zap.String("collection", collection), zap.String("id", id))
	return id, nil
}

// Update merges patch onto the matching document. A missing id is a silent
// no-op, matching the remote adapter.
func (s *Store) Update(_ context.Context, collection string, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readAll(collection)
	if err != nil {
		return err
	}

	changed := false
	for _, doc := range docs {
		if doc["id"] != id {
			continue
		}
		for k, v := range patch {
			normalized, err := normalizeValue(v)
			if err != nil {
				return fmt.Errorf("encode patch field %s: %w", k, err)
			}
			doc[k] = normalized
		}
		changed = true
		break
	}

	if !changed {
		return nil
	}
	return s.writeAll(collection, docs)
}

// Remove filters the document out. Removing an absent id is a no-op, so the
// call is idempotent.
func (s *Store) Remove(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.readAll(collection)
	if err != nil {
		return err
	}

	kept := docs[:0]
	for _, doc := range docs {
		if doc["id"] != id {
			kept = append(kept, doc)
		}
	}
	if len(kept) == len(docs) {
		return nil
	}
	return s.writeAll(collection, kept)
}

// GetSingleton reads a fixed-id document such as the site content blob.
func (s *Store) GetSingleton(_ context.Context, collection, id string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.singletonPath(collection, id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return true, nil
}

// SetSingleton writes a fixed-id document, replacing any previous content.
func (s *Store) SetSingleton(_ context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if err := os.WriteFile(s.singletonPath(collection, id), raw, 0o644); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return nil
}

func normalizeValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
