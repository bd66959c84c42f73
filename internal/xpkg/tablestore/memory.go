package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// MemoryStore keeps tables in process memory. Only the tables passed to
// NewMemoryStore exist; every other table reports ErrTableMissing.
type MemoryStore struct {
	mu       sync.RWMutex
	tables   map[string][]Row
	failures map[string]error
	now      func() time.Time
}

func NewMemoryStore(tables ...string) *MemoryStore {
	m := &MemoryStore{
		tables:   make(map[string][]Row, len(tables)),
		failures: make(map[string]error),
		now:      time.Now,
	}
	for _, t := range tables {
		m.tables[t] = nil
	}
	return m
}

// NewProvisionedMemoryStore creates every table from schema.sql.
func NewProvisionedMemoryStore() *MemoryStore {
	return NewMemoryStore(Products, Orders, Promotions, AppSettings)
}

// Fail makes every operation on table return err until Recover is called.
func (m *MemoryStore) Fail(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[table] = err
}

func (m *MemoryStore) Recover(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, table)
}

// Drop removes a table, simulating an unprovisioned backend resource.
func (m *MemoryStore) Drop(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, table)
}

func (m *MemoryStore) SelectAll(ctx context.Context, table string, order ...Order) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table(table)
	if err != nil {
		return nil, err
	}

	out := cloneRows(rows)
	for i := len(order) - 1; i >= 0; i-- {
		sortRows(out, order[i])
	}
	return out, nil
}

func (m *MemoryStore) Select(ctx context.Context, table string, where Eq) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table(table)
	if err != nil {
		return nil, err
	}

	var out []Row
	for _, r := range rows {
		if matches(r, where) {
			out = append(out, cloneRow(r))
		}
	}
	return out, nil
}

func (m *MemoryStore) Insert(ctx context.Context, table string, rows ...Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.table(table)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if len(r) == 0 {
			return ErrEmptyRow
		}
		n, err := normalize(r)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		if _, ok := n["id"]; !ok && table != AppSettings {
			n["id"] = uuid.NewString()
		}
		if id, ok := n["id"]; ok {
			for _, e := range existing {
				if e["id"] == id {
					return fmt.Errorf("insert into %s: %w id=%v", table, ErrDuplicateKey, id)
				}
			}
		}
		if _, ok := n["created_at"]; !ok {
			n["created_at"] = m.now().UTC().Format(timestampLayout)
		}
		existing = append(existing, n)
	}
	m.tables[table] = existing
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, table string, values Row, where ...Eq) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.table(table)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrEmptyRow
	}
	if len(where) == 0 {
		return 0, ErrNoFilter
	}
	n, err := normalize(values)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}

	var affected int64
	for _, r := range rows {
		if !matchesAll(r, where) {
			continue
		}
		for k, v := range n {
			r[k] = v
		}
		affected++
	}
	return affected, nil
}

func (m *MemoryStore) Delete(ctx context.Context, table string, where Eq) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.table(table)
	if err != nil {
		return 0, err
	}

	kept := rows[:0:0]
	for _, r := range rows {
		if !matches(r, where) {
			kept = append(kept, r)
		}
	}
	m.tables[table] = kept
	return int64(len(rows) - len(kept)), nil
}

func (m *MemoryStore) Count(ctx context.Context, table string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.table(table)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// table must be called with the lock held.
func (m *MemoryStore) table(name string) ([]Row, error) {
	if err := m.failures[name]; err != nil {
		return nil, err
	}
	rows, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableMissing, name)
	}
	return rows, nil
}

// normalize round-trips a row through JSON so stored values have the same
// shapes the Postgres adapter returns.
func normalize(r Row) (Row, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	out := Row{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(r Row, where Eq) bool {
	v, ok := r[where.Column]
	if !ok {
		return false
	}
	return fmt.Sprint(v) == fmt.Sprint(where.Value)
}

func matchesAll(r Row, where []Eq) bool {
	for _, w := range where {
		if !matches(r, w) {
			return false
		}
	}
	return true
}

func sortRows(rows []Row, o Order) {
	if o.Desc {
		slices.Reverse(rows)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][o.Column], rows[j][o.Column])
		if o.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}

func cloneRow(r Row) Row {
	// Values are JSON-shaped, so a JSON round-trip is a deep copy.
	c, err := normalize(r)
	if err != nil {
		c = make(Row, len(r))
		for k, v := range r {
			c[k] = v
		}
	}
	return c
}
