package catalog

import "sort"

// Store is an immutable in-memory catalog. It is safe for concurrent reads.
type Store struct {
	records []Vehicle
	index   map[string]int
}

// NewStore builds a store from records. Duplicate ids keep the first occurrence.
func NewStore(records []Vehicle) *Store {
	s := &Store{
		records: make([]Vehicle, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if _, dup := s.index[r.ID]; dup {
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r.clone())
	}
	return s
}

// DefaultStore returns the showroom catalog
func DefaultStore() *Store {
	return NewStore(seedVehicles())
}

// All returns a copy of every record in seed order
func (s *Store) All() []Vehicle {
	out := make([]Vehicle, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out
}

// Get returns a copy of the record with the given id
func (s *Store) Get(id string) (Vehicle, bool) {
	i, ok := s.index[id]
	if !ok {
		return Vehicle{}, false
	}
	return s.records[i].clone(), true
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// Categories returns the storefront tabs with record counts
func (s *Store) Categories() []CategoryInfo {
	counts := make(map[Category]int)
	for _, r := range s.records {
		counts[r.Category]++
	}

	out := make([]CategoryInfo, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		count := counts[c]
		if c == CategoryAll {
			count = len(s.records)
		}
		out = append(out, CategoryInfo{ID: c, Name: c.DisplayName(), Count: count})
	}
	return out
}

// AvailableFeatures returns the feature filter checklist
func AvailableFeatures() []string {
	return append([]string(nil), availableFeatures...)
}

// Features returns every feature listed by at least one record, sorted
func (s *Store) Features() []string {
	seen := make(map[string]struct{})
	for _, r := range s.records {
		for _, f := range r.Features {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
