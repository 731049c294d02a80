// Package store owns the in-memory company collection and its status flags,
// and mirrors the collection into a kv.Storage after every mutation.
package store

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-tracker/internal/kv"
	"github.com/sells-group/lead-tracker/internal/matching"
	"github.com/sells-group/lead-tracker/internal/model"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "company-data"

// ErrIndexOutOfRange is returned by UpdateCompany for an index outside the
// collection.
var ErrIndexOutOfRange = eris.New("store: index out of range")

// State is a point-in-time copy of the store. Error is empty when no error
// is recorded.
type State struct {
	Companies []model.CompanyData `json:"companies"`
	IsLoading bool                `json:"is_loading"`
	Error     string              `json:"error,omitempty"`
}

// UpsertResult reports what AddOrUpdateCompany did. Index is the position
// the submitted record now occupies.
type UpsertResult struct {
	WasUpdated bool `json:"was_updated"`
	Index      int  `json:"index"`
}

// Option configures a CompanyStore.
type Option func(*CompanyStore)

// WithKey sets the storage key (default DefaultKey).
func WithKey(key string) Option {
	return func(s *CompanyStore) {
		s.key = key
	}
}

// CompanyStore is the single owner of the company collection. All methods
// are safe for concurrent use; each mutation, including the match-then-write
// of AddOrUpdateCompany, runs under one lock.
type CompanyStore struct {
	mu        sync.Mutex
	companies []model.CompanyData
	isLoading bool
	err       string

	storage kv.Storage
	key     string
}

// New creates an empty store mirroring into storage. A nil storage disables
// mirroring.
func New(storage kv.Storage, opts ...Option) *CompanyStore {
	s := &CompanyStore{
		storage:   storage,
		key:       DefaultKey,
		companies: []model.CompanyData{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted collection. It is meant to run once at
// startup and reports whether a non-empty collection was found.
func (s *CompanyStore) Hydrate(ctx context.Context) bool {
	if s.storage == nil {
		return false
	}
	stored := kv.Get(ctx, s.storage, s.key, []model.CompanyData(nil))
	if len(stored) == 0 {
		return false
	}
	s.SetCompanies(ctx, stored)
	zap.L().Info("store: hydrated from storage",
		zap.String("key", s.key),
		zap.Int("count", len(stored)),
	)
	return true
}

// SetCompanies replaces the whole collection and clears any recorded error.
func (s *CompanyStore) SetCompanies(ctx context.Context, companies []model.CompanyData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = clone(companies)
	s.err = ""
	s.persistLocked(ctx)
}

// SetLoading sets the loading flag.
func (s *CompanyStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

// SetError records an error message and clears the loading flag. An empty
// message clears the error and leaves loading untouched.
func (s *CompanyStore) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
	if msg != "" {
		s.isLoading = false
	}
}

// AddCompany appends c to the collection.
func (s *CompanyStore) AddCompany(ctx context.Context, c model.CompanyData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append(s.companies, c)
	s.persistLocked(ctx)
}

// UpdateCompany replaces the record at index with c.
func (s *CompanyStore) UpdateCompany(ctx context.Context, index int, c model.CompanyData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.companies) {
		return eris.Wrapf(ErrIndexOutOfRange, "update %d of %d", index, len(s.companies))
	}
	s.companies[index] = c
	s.persistLocked(ctx)
	return nil
}

// AddOrUpdateCompany replaces the first record matching candidate in place,
// or appends candidate when none matches. A replaced record is fully
// overwritten, notes and last-contacted date included.
func (s *CompanyStore) AddOrUpdateCompany(ctx context.Context, candidate model.CompanyData) UpsertResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := matching.FindMatchingEntryIndex(candidate, s.companies)
	if idx != matching.NotFound {
		zap.L().Info("store: updating matched company",
			zap.String("company", candidate.Company),
			zap.Int("index", idx),
			zap.Strings("matched_fields", matching.MatchedFields(candidate, s.companies[idx])),
		)
		s.companies[idx] = candidate
		s.persistLocked(ctx)
		return UpsertResult{WasUpdated: true, Index: idx}
	}

	idx = len(s.companies)
	s.companies = append(s.companies, candidate)
	zap.L().Info("store: added company",
		zap.String("company", candidate.Company),
		zap.Int("index", idx),
	)
	s.persistLocked(ctx)
	return UpsertResult{WasUpdated: false, Index: idx}
}

// ResetCompanies empties the collection and clears any recorded error.
func (s *CompanyStore) ResetCompanies(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = []model.CompanyData{}
	s.err = ""
	s.persistLocked(ctx)
}

// Companies returns a copy of the collection.
func (s *CompanyStore) Companies() []model.CompanyData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.companies)
}

// Len returns the number of records.
func (s *CompanyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.companies)
}

// Snapshot returns a copy of the full store state.
func (s *CompanyStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Companies: clone(s.companies),
		IsLoading: s.isLoading,
		Error:     s.err,
	}
}

// Persist writes the current collection to storage.
func (s *CompanyStore) Persist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
}

// persistLocked mirrors the collection into storage. An empty collection
// is stored as an absent key. Write failures are logged; memory stays the
// source of truth. The write ignores cancellation of ctx so a mutation
// already applied in memory always reaches storage.
func (s *CompanyStore) persistLocked(ctx context.Context) {
	if s.storage == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	var err error
	if len(s.companies) == 0 {
		err = s.storage.Remove(ctx, s.key)
	} else {
		err = kv.Set(ctx, s.storage, s.key, s.companies)
	}
	if err != nil {
		zap.L().Warn("store: mirror write failed",
			zap.String("key", s.key),
			zap.Int("count", len(s.companies)),
			zap.Error(err),
		)
	}
}

func clone(in []model.CompanyData) []model.CompanyData {
	out := make([]model.CompanyData, len(in))
	copy(out, in)
	return out
}
