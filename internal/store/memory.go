package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

// Memory is an in-process Store used by tests and local development. It
// mirrors the merge and query semantics of the networked backends.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]map[string]any)}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "record not found", nil)
	}
	return copyDoc(doc), nil
}

func (m *Memory) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]map[string]any)
	}
	m.collections[collection][id] = copyDoc(fields)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return common.NewError(common.CodeNotFound, "record not found", nil)
	}
	merged := copyDoc(doc)
	for key, value := range copyDoc(fields) {
		merged[key] = value
	}
	m.collections[collection][id] = merged
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return common.NewError(common.CodeNotFound, "record not found", nil)
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order) ([]map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var results []map[string]any
	for _, doc := range m.collections[collection] {
		if Matches(doc, filters) {
			results = append(results, copyDoc(doc))
		}
	}
	SortDocs(results, orderBy)
	return results, nil
}

// copyDoc round-trips through JSON so stored documents carry the same value
// types (float64, string, bool) a networked backend would return.
func copyDoc(doc map[string]any) map[string]any {
	raw, err := json.Marshal(doc)
	if err != nil {
		out := make(map[string]any, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return doc
	}
	return out
}
