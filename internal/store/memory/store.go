// Package memory is an in-memory store.Store used by unit tests and local
// development. Documents go through a bson round trip on the way in and
// out so field naming and type coercion match the MongoDB implementation.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/binpoint/wms/internal/store"
)

// Memory holds every collection as a map of id to normalized document.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
}

var _ store.Store = (*Memory)(nil)

// New returns an empty in-memory store.
func New() *Memory {
	return &Memory{collections: map[string]map[string]bson.M{}}
}

func (m *Memory) Get(ctx context.Context, collectionPath, id string, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(collectionPath, id, out)
}

func (m *Memory) List(ctx context.Context, collectionPath string, filter store.Filter, orderBy *store.OrderBy, out any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list(collectionPath, filter, orderBy, out)
}

func (m *Memory) Create(ctx context.Context, collectionPath, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.create(collectionPath, id, doc)
}

func (m *Memory) Update(ctx context.Context, collectionPath, id string, patch map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(collectionPath, id, patch)
}

func (m *Memory) Delete(ctx context.Context, collectionPath, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(collectionPath, id)
}

// Transaction serializes: it holds the write lock for the whole function
// and restores a snapshot when fn fails, so a failed transaction leaves no
// partial writes. fn must use the handle it is given, not the outer store.
func (m *Memory) Transaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(ctx, &txView{m: m}); err != nil {
		m.collections = snapshot
		return err
	}
	return nil
}

// txView routes calls to the already-locked store.
type txView struct {
	m *Memory
}

var _ store.Store = (*txView)(nil)

func (t *txView) Get(ctx context.Context, collectionPath, id string, out any) error {
	return t.m.get(collectionPath, id, out)
}

func (t *txView) List(ctx context.Context, collectionPath string, filter store.Filter, orderBy *store.OrderBy, out any) error {
	return t.m.list(collectionPath, filter, orderBy, out)
}

func (t *txView) Create(ctx context.Context, collectionPath, id string, doc any) error {
	return t.m.create(collectionPath, id, doc)
}

func (t *txView) Update(ctx context.Context, collectionPath, id string, patch map[string]any) error {
	return t.m.update(collectionPath, id, patch)
}

func (t *txView) Delete(ctx context.Context, collectionPath, id string) error {
	return t.m.delete(collectionPath, id)
}

func (t *txView) Transaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	// Already inside a transaction; nested calls join it.
	return fn(ctx, t)
}

// ── unlocked internals ───────────────────────────────────────────────────

func (m *Memory) get(collectionPath, id string, out any) error {
	coll, ok := m.collections[collectionPath]
	if !ok {
		return store.ErrNotFound
	}
	doc, ok := coll[id]
	if !ok {
		return store.ErrNotFound
	}
	return decodeInto(doc, out)
}

func (m *Memory) list(collectionPath string, filter store.Filter, orderBy *store.OrderBy, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Ptr || outValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("list target must be a pointer to a slice, got %T", out)
	}

	var docs []bson.M
	for _, doc := range m.collections[collectionPath] {
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}

	sortDocs(docs, orderBy)

	slice := outValue.Elem()
	slice.SetLen(0)
	elemType := slice.Type().Elem()
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decodeInto(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	outValue.Elem().Set(slice)
	return nil
}

func (m *Memory) create(collectionPath, id string, doc any) error {
	normalized, err := normalize(doc)
	if err != nil {
		return err
	}
	normalized["_id"] = id

	coll, ok := m.collections[collectionPath]
	if !ok {
		coll = map[string]bson.M{}
		m.collections[collectionPath] = coll
	}
	if _, exists := coll[id]; exists {
		return fmt.Errorf("create %s/%s: duplicate id", collectionPath, id)
	}
	coll[id] = normalized
	return nil
}

func (m *Memory) update(collectionPath, id string, patch map[string]any) error {
	coll, ok := m.collections[collectionPath]
	if !ok {
		return store.ErrNotFound
	}
	doc, ok := coll[id]
	if !ok {
		return store.ErrNotFound
	}

	normalized, err := normalize(patch)
	if err != nil {
		return err
	}
	for k, v := range normalized {
		doc[k] = v
	}
	return nil
}

func (m *Memory) delete(collectionPath, id string) error {
	coll, ok := m.collections[collectionPath]
	if !ok {
		return store.ErrNotFound
	}
	if _, ok := coll[id]; !ok {
		return store.ErrNotFound
	}
	delete(coll, id)
	return nil
}

func (m *Memory) snapshot() map[string]map[string]bson.M {
	snap := make(map[string]map[string]bson.M, len(m.collections))
	for path, coll := range m.collections {
		collCopy := make(map[string]bson.M, len(coll))
		for id, doc := range coll {
			raw, _ := bson.Marshal(doc)
			var deep bson.M
			_ = bson.Unmarshal(raw, &deep)
			collCopy[id] = deep
		}
		snap[path] = collCopy
	}
	return snap
}

// normalize runs a value through bson so stored documents use the same
// representation the driver would persist.
func normalize(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	return m, nil
}

func decodeInto(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal stored document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode stored document: %w", err)
	}
	return nil
}

func matches(doc bson.M, filter store.Filter) bool {
	for field, want := range filter {
		if !valueEqual(doc[field], normalizeValue(want)) {
			return false
		}
	}
	return true
}

// normalizeValue coerces a filter value the same way stored values were
// coerced, so string-backed enums and time values compare correctly.
func normalizeValue(v any) any {
	wrapped, err := normalize(bson.M{"v": v})
	if err != nil {
		return v
	}
	return wrapped["v"]
}

func valueEqual(a, b any) bool {
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			return fa == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func sortDocs(docs []bson.M, orderBy *store.OrderBy) {
	if orderBy == nil {
		// Stable fallback so listings do not depend on map iteration order.
		orderBy = &store.OrderBy{Field: "_id"}
	}
	field, desc := orderBy.Field, orderBy.Desc
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return valueLess(docs[j][field], docs[i][field])
		}
		return valueLess(docs[i][field], docs[j][field])
	})
}

func valueLess(a, b any) bool {
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			return fa < fb
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as < bs
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	}
	return 0, false
}
