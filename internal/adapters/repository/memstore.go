package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// All records for one user live in the shard their user id hashes into,
// so a window query touches a single shard lock. Per-user series are kept
// sorted ascending by time on insert; reads copy slices so callers never
// alias store-owned memory.

// defaultShardCount spreads user records across locks.
const defaultShardCount = 8

// userRecords bundles everything stored for one user.
type userRecords struct {
	user        model.User
	moods       []model.Mood
	tests       []model.Test
	responses   map[string][]model.Response // test id -> responses
	samples     []model.HealthSample
	assessments []model.MicroAssessment
	journals    []model.JournalEntry
}

type shard struct {
	mu    sync.RWMutex
	users map[string]*userRecords
}

// MemStore is the default in-memory Store.
type MemStore struct {
	shardCount int
	shards     []*shard

	// email -> user id index, maintained on user writes.
	emailMu sync.RWMutex
	byEmail map[string]string

	// journal id -> user id index so entry lookups skip a full scan.
	journalMu sync.RWMutex
	byJournal map[string]string
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		shardCount: defaultShardCount,
		byEmail:    make(map[string]string),
		byJournal:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{users: make(map[string]*userRecords)}
	}
	metrics.UpdateRepositoryShardCount(s.shardCount)
	return s
}

var _ Store = (*MemStore)(nil)

func (s *MemStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// records returns the record bundle for a user, or nil when unknown.
// Must be called with the shard lock held.
func (sh *shard) records(userID string) *userRecords {
	return sh.users[userID]
}

// CreateUser inserts a new user, enforcing email uniqueness.
func (s *MemStore) CreateUser(_ context.Context, u model.User) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.emailMu.Lock()
	if _, taken := s.byEmail[u.Email]; taken {
		s.emailMu.Unlock()
		return ErrEmailTaken
	}
	s.byEmail[u.Email] = u.ID
	s.emailMu.Unlock()

	sh := s.shardFor(u.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.users[u.ID] = &userRecords{
		user:      u,
		responses: make(map[string][]model.Response),
	}
	return nil
}

// UserByID returns the user with the given id.
func (s *MemStore) UserByID(_ context.Context, id string) (model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(id)
	if rec == nil {
		return model.User{}, ErrNotFound
	}
	return rec.user, nil
}

// UserByEmail resolves the email index and loads the user.
func (s *MemStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	s.emailMu.RLock()
	id, ok := s.byEmail[email]
	s.emailMu.RUnlock()
	if !ok {
		return model.User{}, ErrNotFound
	}
	return s.UserByID(ctx, id)
}

// UpdateUser overwrites an existing user record.
func (s *MemStore) UpdateUser(_ context.Context, u model.User) error {
	sh := s.shardFor(u.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(u.ID)
	if rec == nil {
		return ErrNotFound
	}
	rec.user = u
	return nil
}

// UpsertDailyMood overwrites any same-day check-in for the user.
func (s *MemStore) UpsertDailyMood(_ context.Context, m model.Mood) (model.MoodKind, bool, error) {
	sh := s.shardFor(m.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(m.UserID)
	if rec == nil {
		return "", false, ErrNotFound
	}

	day := m.CreatedAt.UTC().Truncate(24 * time.Hour)
	for i, existing := range rec.moods {
		if existing.CreatedAt.UTC().Truncate(24*time.Hour) == day {
			previous := existing.Mood
			rec.moods[i].Mood = m.Mood
			return previous, true, nil
		}
	}

	rec.moods = insertByTime(rec.moods, m, func(v model.Mood) time.Time { return v.CreatedAt })
	return "", false, nil
}

// RecentMoods returns up to limit moods ordered ascending by time.
func (s *MemStore) RecentMoods(_ context.Context, userID string, limit int) ([]model.Mood, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	moods := rec.moods
	if len(moods) > limit {
		moods = moods[:limit]
	}
	return append([]model.Mood(nil), moods...), nil
}

// MoodsByUser returns all moods for a user.
func (s *MemStore) MoodsByUser(_ context.Context, userID string) ([]model.Mood, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	return append([]model.Mood(nil), rec.moods...), nil
}

// CreateTest inserts a new, incomplete test.
func (s *MemStore) CreateTest(_ context.Context, t model.Test) error {
	sh := s.shardFor(t.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(t.UserID)
	if rec == nil {
		return ErrNotFound
	}
	rec.tests = insertByTime(rec.tests, t, func(v model.Test) time.Time { return v.CreatedAt })
	return nil
}

// IncompleteTest returns the user's unfinished test if one exists.
func (s *MemStore) IncompleteTest(_ context.Context, userID string) (model.Test, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return model.Test{}, ErrNotFound
	}
	for _, t := range rec.tests {
		if !t.Completed {
			return t, nil
		}
	}
	return model.Test{}, ErrNotFound
}

// CompleteTest writes scores, the completed flag, and responses together.
func (s *MemStore) CompleteTest(_ context.Context, t model.Test, responses []model.Response) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(t.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(t.UserID)
	if rec == nil {
		return ErrNotFound
	}
	for i := range rec.tests {
		if rec.tests[i].ID == t.ID {
			t.Completed = true
			rec.tests[i] = t
			rec.responses[t.ID] = append([]model.Response(nil), responses...)
			return nil
		}
	}
	return ErrNotFound
}

// TestsByUser returns tests newest first.
func (s *MemStore) TestsByUser(_ context.Context, userID string, completedOnly bool) ([]model.Test, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	out := make([]model.Test, 0, len(rec.tests))
	for i := len(rec.tests) - 1; i >= 0; i-- {
		t := rec.tests[i]
		if completedOnly && !t.Completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// InsertSample stores one health sample.
func (s *MemStore) InsertSample(_ context.Context, sample model.HealthSample) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(sample.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(sample.UserID)
	if rec == nil {
		return ErrNotFound
	}
	rec.samples = insertByTime(rec.samples, sample, func(v model.HealthSample) time.Time { return v.RecordedAt })
	return nil
}

// SamplesSince returns samples recorded at or after from, ascending.
func (s *MemStore) SamplesSince(_ context.Context, userID string, from time.Time) ([]model.HealthSample, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds())) }()

	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	idx := sort.Search(len(rec.samples), func(i int) bool {
		return !rec.samples[i].RecordedAt.Before(from)
	})
	return append([]model.HealthSample(nil), rec.samples[idx:]...), nil
}

// CreateAssessment inserts a micro-assessment.
func (s *MemStore) CreateAssessment(_ context.Context, a model.MicroAssessment) error {
	sh := s.shardFor(a.UserID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(a.UserID)
	if rec == nil {
		return ErrNotFound
	}
	rec.assessments = insertByTime(rec.assessments, a, func(v model.MicroAssessment) time.Time { return v.CreatedAt })
	return nil
}

// AssessmentsByUser returns up to limit assessments newest first.
func (s *MemStore) AssessmentsByUser(_ context.Context, userID string, limit int) ([]model.MicroAssessment, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	out := make([]model.MicroAssessment, 0, limit)
	for i := len(rec.assessments) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rec.assessments[i])
	}
	return out, nil
}

// AssessmentsSince returns assessments created at or after from, ascending.
func (s *MemStore) AssessmentsSince(_ context.Context, userID string, from time.Time) ([]model.MicroAssessment, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	idx := sort.Search(len(rec.assessments), func(i int) bool {
		return !rec.assessments[i].CreatedAt.Before(from)
	})
	return append([]model.MicroAssessment(nil), rec.assessments[idx:]...), nil
}

// CreateJournal inserts a journal entry.
func (s *MemStore) CreateJournal(_ context.Context, j model.JournalEntry) error {
	sh := s.shardFor(j.UserID)
	sh.mu.Lock()
	rec := sh.records(j.UserID)
	if rec == nil {
		sh.mu.Unlock()
		return ErrNotFound
	}
	rec.journals = insertByTime(rec.journals, j, func(v model.JournalEntry) time.Time { return v.CreatedAt })
	sh.mu.Unlock()

	s.journalMu.Lock()
	s.byJournal[j.ID] = j.UserID
	s.journalMu.Unlock()
	return nil
}

// JournalsByUser returns entries newest first.
func (s *MemStore) JournalsByUser(_ context.Context, userID string) ([]model.JournalEntry, error) {
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return nil, ErrNotFound
	}
	out := make([]model.JournalEntry, 0, len(rec.journals))
	for i := len(rec.journals) - 1; i >= 0; i-- {
		out = append(out, rec.journals[i])
	}
	return out, nil
}

// JournalByID returns one entry via the journal index.
func (s *MemStore) JournalByID(_ context.Context, id string) (model.JournalEntry, error) {
	s.journalMu.RLock()
	userID, ok := s.byJournal[id]
	s.journalMu.RUnlock()
	if !ok {
		return model.JournalEntry{}, ErrNotFound
	}

	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	rec := sh.records(userID)
	if rec == nil {
		return model.JournalEntry{}, ErrNotFound
	}
	for _, j := range rec.journals {
		if j.ID == id {
			return j, nil
		}
	}
	return model.JournalEntry{}, ErrNotFound
}

// DeleteJournal removes one entry.
func (s *MemStore) DeleteJournal(_ context.Context, id string) error {
	s.journalMu.Lock()
	userID, ok := s.byJournal[id]
	if ok {
		delete(s.byJournal, id)
	}
	s.journalMu.Unlock()
	if !ok {
		return ErrNotFound
	}

	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	rec := sh.records(userID)
	if rec == nil {
		return ErrNotFound
	}
	for i, j := range rec.journals {
		if j.ID == id {
			rec.journals = append(rec.journals[:i], rec.journals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Count returns the number of registered users across all shards.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.users)
		sh.mu.RUnlock()
	}
	return total
}

// insertByTime inserts v keeping the slice sorted ascending by its
// timestamp. Appends are the common case; wearable batches mostly arrive
// in order.
func insertByTime[T any](series []T, v T, at func(T) time.Time) []T {
	if n := len(series); n == 0 || !at(v).Before(at(series[n-1])) {
		return append(series, v)
	}
	idx := sort.Search(len(series), func(i int) bool {
		return at(series[i]).After(at(v))
	})
	series = append(series, v)
	copy(series[idx+1:], series[idx:])
	series[idx] = v
	return series
}
