package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// Document is an in-memory mapping from composite key to record, mirrored to a Store.
// Every mutation rewrites the whole document. Store failures are logged and the
// in-memory map stays authoritative for the rest of the process lifetime.
type Document[V any] struct {
	name  string
	store Store

	mu      sync.RWMutex
	entries map[string]V

	// writeMu serializes snapshot+save so a later write never lands before an earlier one
	writeMu sync.Mutex
}

// OpenDocument loads the named document from store. A missing, empty or unreadable
// document starts as an empty mapping.
func OpenDocument[V any](ctx context.Context, store Store, name string) *Document[V] {
	d := &Document[V]{
		name:    name,
		store:   store,
		entries: make(map[string]V),
	}

	data, err := store.Load(ctx, name)
	switch {
	case errors.Is(err, ErrNotFound):
		log.WithField("document", name).Debug("Document not found, starting empty")
	case err != nil:
		log.WithFields(log.Fields{
			"document": name,
			"error":    err,
		}).Error("Failed to load document, starting empty")
	case len(strings.TrimSpace(string(data))) == 0:
		log.WithField("document", name).Debug("Document is empty")
	default:
		if err := sonic.ConfigStd.Unmarshal(data, &d.entries); err != nil {
			log.WithFields(log.Fields{
				"document": name,
				"error":    err,
			}).Error("Failed to decode document, starting empty")
			d.entries = make(map[string]V)
		}
		if d.entries == nil {
			d.entries = make(map[string]V)
		}
	}

	return d
}

// Name returns the document name
func (d *Document[V]) Name() string {
	return d.name
}

// Get returns the record stored under key
func (d *Document[V]) Get(key string) (V, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.entries[key]
	return v, ok
}

// Put stores v under key and flushes the document
func (d *Document[V]) Put(ctx context.Context, key string, v V) {
	d.mu.Lock()
	d.entries[key] = v
	d.mu.Unlock()

	d.Flush(ctx)
}

// PutAll stores every entry and flushes the document once
func (d *Document[V]) PutAll(ctx context.Context, entries map[string]V) {
	if len(entries) == 0 {
		return
	}

	d.mu.Lock()
	for k, v := range entries {
		d.entries[k] = v
	}
	d.mu.Unlock()

	d.Flush(ctx)
}

// Delete removes key and flushes the document. It reports whether the key existed.
func (d *Document[V]) Delete(ctx context.Context, key string) bool {
	d.mu.Lock()
	_, ok := d.entries[key]
	if ok {
		delete(d.entries, key)
	}
	d.mu.Unlock()

	if ok {
		d.Flush(ctx)
	}
	return ok
}

// Scan returns a copy of every entry whose key starts with prefix
func (d *Document[V]) Scan(prefix string) map[string]V {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]V)
	for k, v := range d.entries {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// Keys returns all keys in sorted order
func (d *Document[V]) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries
func (d *Document[V]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Flush serializes the whole mapping and saves it
func (d *Document[V]) Flush(ctx context.Context) {
	if err := d.flush(ctx); err != nil {
		log.WithFields(log.Fields{
			"document": d.name,
			"error":    err,
		}).Error("Failed to persist document")
	}
}

func (d *Document[V]) flush(ctx context.Context) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	d.mu.RLock()
	data, err := sonic.ConfigStd.MarshalIndent(d.entries, "", "  ")
	d.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return d.store.Save(ctx, d.name, data)
}

// Key joins id parts into a composite document key such as "guildID-userID"
func Key(parts ...string) string {
	return strings.Join(parts, "-")
}
