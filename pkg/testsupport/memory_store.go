package testsupport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-storefront/kv"
)

var _ kv.Store = (*MemoryStore)(nil)

// ErrWrongType mirrors the WRONGTYPE reply a real store gives when a key
// is used with an operation for a different value type.
var ErrWrongType = errors.New("WRONGTYPE operation against a key holding the wrong kind of value")

type memoryEntry struct {
	hash      map[string]string
	list      []string
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-memory kv.Store used by tests. It records how many
// times each method is called, can inject failures, and uses a settable
// clock so TTL expiry can be driven without sleeping.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]*memoryEntry
	calls  map[string]int
	errors map[string]error
	now    time.Time
}

// NewMemoryStore returns an empty store whose clock starts at a fixed instant.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]*memoryEntry),
		calls:  make(map[string]int),
		errors: make(map[string]error),
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Advance moves the store clock forward.
func (m *MemoryStore) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// FailOn makes every subsequent call to method return err. A nil err clears it.
func (m *MemoryStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errors, method)
		return
	}
	m.errors[method] = err
}

// CallCount returns how many times method was called.
func (m *MemoryStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (m *MemoryStore) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

// SeedHash replaces the hash at key with fields.
func (m *MemoryStore) SeedHash(key string, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hash := make(map[string]string, len(fields))
	for k, v := range fields {
		hash[k] = v
	}
	m.data[key] = &memoryEntry{hash: hash}
}

// List returns a copy of the list at key without counting as a call.
func (m *MemoryStore) List(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.live(key)
	if e == nil {
		return nil
	}
	return append([]string(nil), e.list...)
}

// begin records the call and returns any injected failure. Callers hold m.mu.
func (m *MemoryStore) begin(method string) error {
	m.calls[method]++
	return m.errors[method]
}

// live returns the entry for key, dropping it if expired. Callers hold m.mu.
func (m *MemoryStore) live(key string) *memoryEntry {
	e, ok := m.data[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !m.now.Before(e.expiresAt) {
		delete(m.data, key)
		return nil
	}
	return e
}

func (m *MemoryStore) HVals(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("HVals"); err != nil {
		return nil, err
	}
	e := m.live(key)
	if e == nil {
		return []string{}, nil
	}
	if e.hash == nil {
		return nil, ErrWrongType
	}
	vals := make([]string, 0, len(e.hash))
	for _, v := range e.hash {
		vals = append(vals, v)
	}
	return vals, nil
}

func (m *MemoryStore) LRem(ctx context.Context, key string, count int64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("LRem"); err != nil {
		return err
	}
	e := m.live(key)
	if e == nil {
		return nil
	}
	if e.hash != nil || e.value != nil {
		return ErrWrongType
	}

	kept := e.list[:0:0]
	removed := int64(0)
	for _, item := range e.list {
		if item == value && (count == 0 || removed < count) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	e.list = kept
	if len(e.list) == 0 {
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryStore) LPush(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("LPush"); err != nil {
		return err
	}
	e := m.live(key)
	if e == nil {
		e = &memoryEntry{}
		m.data[key] = e
	}
	if e.hash != nil || e.value != nil {
		return ErrWrongType
	}
	e.list = append([]string{value}, e.list...)
	return nil
}

func (m *MemoryStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("LTrim"); err != nil {
		return err
	}
	e := m.live(key)
	if e == nil {
		return nil
	}
	lo, hi, ok := listBounds(int64(len(e.list)), start, stop)
	if !ok {
		delete(m.data, key)
		return nil
	}
	e.list = append([]string(nil), e.list[lo:hi+1]...)
	return nil
}

func (m *MemoryStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("LRange"); err != nil {
		return nil, err
	}
	e := m.live(key)
	if e == nil {
		return []string{}, nil
	}
	lo, hi, ok := listBounds(int64(len(e.list)), start, stop)
	if !ok {
		return []string{}, nil
	}
	return append([]string(nil), e.list[lo:hi+1]...), nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("Get"); err != nil {
		return nil, err
	}
	e := m.live(key)
	if e == nil {
		return nil, kv.ErrNil
	}
	if e.value == nil {
		return nil, ErrWrongType
	}
	return append([]byte(nil), e.value...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("Set"); err != nil {
		return err
	}
	e := &memoryEntry{value: append([]byte{}, value...)}
	if ttl > 0 {
		e.expiresAt = m.now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin("Del"); err != nil {
		return err
	}
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// listBounds resolves redis-style inclusive indexes (negative counts from the end).
func listBounds(length, start, stop int64) (int64, int64, bool) {
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if length == 0 || start > stop || start >= length {
		return 0, 0, false
	}
	return start, stop, true
}
