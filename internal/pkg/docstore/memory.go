package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents as encoded bson so callers never share memory with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, collection, key string, out any) error {
	s.mu.RLock()
	raw, ok := s.docs[collection][key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (s *MemoryStore) Create(_ context.Context, collection, key string, doc any) error {
	m, err := withID(key, doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[collection][key]; ok {
		return ErrDuplicate
	}
	return s.put(collection, key, m)
}

func (s *MemoryStore) Set(_ context.Context, collection, key string, doc any) error {
	m, err := withID(key, doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(collection, key, m)
}

func (s *MemoryStore) Update(_ context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(collection, key)
	if err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	return s.put(collection, key, m)
}

func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[collection], key)
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, collection, key string, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(collection, key)
	if err != nil {
		return err
	}
	for field, delta := range deltas {
		switch cur := m[field].(type) {
		case nil:
			m[field] = delta
		case int32:
			m[field] = int64(cur) + delta
		case int64:
			m[field] = cur + delta
		case float64:
			m[field] = cur + float64(delta)
		default:
			return fmt.Errorf("docstore: cannot increment non-numeric field %q", field)
		}
	}
	return s.put(collection, key, m)
}

func (s *MemoryStore) Query(_ context.Context, collection string, q Query, out any) error {
	slice := reflect.ValueOf(out)
	if slice.Kind() != reflect.Pointer || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("docstore: query target must be a pointer to a slice, got %T", out)
	}

	matches, err := s.match(collection, q.Filters)
	if err != nil {
		return err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compare(matches[i].doc[q.OrderBy], matches[j].doc[q.OrderBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return matches[i].key < matches[j].key
	})
	if q.Limit > 0 && int64(len(matches)) > q.Limit {
		matches = matches[:q.Limit]
	}

	elemType := slice.Elem().Type().Elem()
	result := reflect.MakeSlice(slice.Elem().Type(), 0, len(matches))
	for _, hit := range matches {
		target := elemType
		if elemType.Kind() == reflect.Pointer {
			target = elemType.Elem()
		}
		ptr := reflect.New(target)
		if err = bson.Unmarshal(hit.raw, ptr.Interface()); err != nil {
			return err
		}
		if elemType.Kind() == reflect.Pointer {
			result = reflect.Append(result, ptr)
		} else {
			result = reflect.Append(result, ptr.Elem())
		}
	}
	slice.Elem().Set(result)
	return nil
}

func (s *MemoryStore) Count(_ context.Context, collection string, filters ...Filter) (int64, error) {
	matches, err := s.match(collection, filters)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

type hit struct {
	key string
	raw []byte
	doc bson.M
}

func (s *MemoryStore) match(collection string, filters []Filter) ([]hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []hit
	for key, raw := range s.docs[collection] {
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		if matchesAll(m, filters) {
			hits = append(hits, hit{key: key, raw: raw, doc: m})
		}
	}
	return hits, nil
}

// load must be called with the write lock held.
func (s *MemoryStore) load(collection, key string) (bson.M, error) {
	raw, ok := s.docs[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// put must be called with the write lock held.
func (s *MemoryStore) put(collection, key string, m bson.M) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string][]byte)
	}
	s.docs[collection][key] = raw
	return nil
}

func matchesAll(doc bson.M, filters []Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if !ok {
			return false
		}
		switch f.Op {
		case OpEq:
			if arr, isArr := v.(bson.A); isArr {
				found := false
				for _, el := range arr {
					if compare(el, f.Value) == 0 {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			} else if compare(v, f.Value) != 0 {
				return false
			}
		case OpGte:
			if compare(v, f.Value) < 0 {
				return false
			}
		case OpLt:
			if compare(v, f.Value) >= 0 {
				return false
			}
		}
	}
	return true
}

// compare orders two scalar values after folding bson and Go representations together.
// Values of unrelated kinds compare by their printed form.
func compare(a, b any) int {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case float64:
		if y, ok := nb.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := nb.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := nb.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(na), fmt.Sprint(nb))
}

func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return float64(x.UnixMilli())
	case primitive.DateTime:
		return float64(int64(x))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}
