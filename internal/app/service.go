// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	samplequeue "github.com/okian/ember/internal/adapters/mq/queue"
	workerpool "github.com/okian/ember/internal/adapters/mq/worker"
	repository "github.com/okian/ember/internal/adapters/repository"
	"github.com/okian/ember/internal/domain/assessment"
	"github.com/okian/ember/internal/domain/dedupe"
	"github.com/okian/ember/internal/domain/health"
	"github.com/okian/ember/internal/domain/mbi"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/internal/domain/streak"
	"github.com/okian/ember/pkg/logger"
	"github.com/okian/ember/pkg/metrics"
	"github.com/okian/ember/pkg/password"
)

// Nominal analysis windows, in days. The configured default must be one
// of these; ad hoc report requests may use any positive length.
var healthWindows = map[int]struct{}{1: {}, 7: {}, 30: {}, 90: {}}

// Service implements the API dependencies for the wellness backend.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	deduper     dedupe.Deduper
	sampleQueue samplequeue.Queue
	workerPool  *workerpool.Pool
	hasher      password.Hasher
	scorer      *mbi.Scorer
	analyzer    *health.Analyzer

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	shardCount       int
	maxListLimit     int
	trendWindowDays  int
	healthWindowDays int
	bcryptCost       int
	databaseURL      string

	// now is swappable so streak math is testable.
	now func() time.Time

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the sample ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the in-memory store shard count.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxListLimit caps limit parameters on listing operations.
func WithMaxListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxListLimit = limit
		}
	}
}

// WithTrendWindow sets the default assessment trend lookback in days.
func WithTrendWindow(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.trendWindowDays = days
		}
	}
}

// WithHealthWindow sets the default health report lookback in days.
func WithHealthWindow(days int) Option {
	return func(s *Service) {
		if _, ok := healthWindows[days]; ok {
			s.healthWindowDays = days
		}
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithDatabaseURL selects the PostgreSQL store. Empty keeps the in-memory
// store.
func WithDatabaseURL(dsn string) Option {
	return func(s *Service) {
		s.databaseURL = dsn
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        100000,
		dedupeSize:       50000,
		shardCount:       8,
		maxListLimit:     100,
		trendWindowDays:  30,
		healthWindowDays: 7,
		bcryptCost:       10,
		now:              time.Now,
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wellness service...")

	if s.databaseURL != "" {
		pg, err := repository.NewPGStore(ctx, s.databaseURL)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = pg
		s.logger.Info(ctx, "using postgres store")
	} else {
		s.store = repository.NewMemStore(ctx, repository.WithShardCount(s.shardCount))
		s.logger.Info(ctx, "using in-memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.sampleQueue = samplequeue.NewInMemoryQueue(
		samplequeue.WithCapacity(s.queueSize),
		samplequeue.WithBufferSize(s.queueSize),
	)
	s.hasher = password.NewBcryptHasher(password.WithCost(s.bcryptCost))
	s.scorer = mbi.NewScorer()
	s.analyzer = health.NewAnalyzer()

	s.workerPool = workerpool.NewPool(s.workerCount, s.sampleQueue, s.store, s.deduper)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wellness service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping wellness service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.sampleQueue.(*samplequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "wellness service stopped")
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return model.User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	now := s.now().UTC()
	u := model.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return model.User{}, err
	}

	s.logger.Info(ctx, "user registered", logger.String("userID", u.ID))
	return u, nil
}

// Login verifies credentials and returns the account.
func (s *Service) Login(ctx context.Context, email, plaintext string) (model.User, error) {
	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err := s.hasher.Compare(u.Password, plaintext); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// User returns the account with the given id.
func (s *Service) User(ctx context.Context, userID string) (model.User, error) {
	return s.store.UserByID(ctx, userID)
}

// ProfileUpdate carries optional profile fields; nil means leave unchanged.
type ProfileUpdate struct {
	Name            *string
	Age             *int
	Gender          *string
	MaritalStatus   *string
	HasChildren     *bool
	Specialty       *string
	WorkSetting     *string
	CareerStage     *string
	WorkHours       *int
	OnCallFrequency *string
	YearsExperience *int
	PreviousBurnout *int
	Reasons         []int
}

// UpdateProfile applies the non-nil fields of upd to the user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (model.User, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Age != nil {
		u.Age = upd.Age
	}
	if upd.Gender != nil {
		u.Gender = *upd.Gender
	}
	if upd.MaritalStatus != nil {
		u.MaritalStatus = *upd.MaritalStatus
	}
	if upd.HasChildren != nil {
		u.HasChildren = upd.HasChildren
	}
	if upd.Specialty != nil {
		u.Specialty = *upd.Specialty
	}
	if upd.WorkSetting != nil {
		u.WorkSetting = *upd.WorkSetting
	}
	if upd.CareerStage != nil {
		u.CareerStage = *upd.CareerStage
	}
	if upd.WorkHours != nil {
		u.WorkHours = upd.WorkHours
	}
	if upd.OnCallFrequency != nil {
		u.OnCallFrequency = *upd.OnCallFrequency
	}
	if upd.YearsExperience != nil {
		u.YearsExperience = upd.YearsExperience
	}
	if upd.PreviousBurnout != nil {
		u.PreviousBurnout = upd.PreviousBurnout
	}
	if upd.Reasons != nil {
		u.Reasons = upd.Reasons
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// RecordMood records a daily mood check-in. A second check-in on the same
// calendar day replaces the first; the previous value is returned.
func (s *Service) RecordMood(ctx context.Context, userID string, kind model.MoodKind) (model.Mood, model.MoodKind, bool, error) {
	if !kind.Valid() {
		return model.Mood{}, "", false, fmt.Errorf("%w: unknown mood %q", ErrInvalidInput, kind)
	}

	m := model.Mood{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      kind,
		CreatedAt: s.now().UTC(),
	}
	previous, replaced, err := s.store.UpsertDailyMood(ctx, m)
	if err != nil {
		return model.Mood{}, "", false, err
	}

	metrics.RecordMoodRecorded()
	return m, previous, replaced, nil
}

// RecentMoods returns up to limit recent check-ins. A zero limit falls
// back to ten entries; the configured cap bounds it.
func (s *Service) RecentMoods(ctx context.Context, userID string, limit int) ([]model.Mood, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	return s.store.RecentMoods(ctx, userID, limit)
}

// Questions returns the inventory question catalog and its version.
func (s *Service) Questions(_ context.Context) (string, []mbi.Question) {
	c := s.scorer.Catalog()
	return c.Version(), c.Questions()
}

// StartTest returns the user's unfinished test, creating one when none
// exists. The second return reports whether an existing test was resumed.
func (s *Service) StartTest(ctx context.Context, userID string) (model.Test, bool, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return model.Test{}, false, err
	}

	if t, err := s.store.IncompleteTest(ctx, userID); err == nil {
		return t, true, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.Test{}, false, err
	}

	t := model.Test{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateTest(ctx, t); err != nil {
		return model.Test{}, false, err
	}
	return t, false, nil
}

// SubmitTest scores a full answer submission and completes the test.
func (s *Service) SubmitTest(ctx context.Context, userID, testID string, answers []mbi.Answer) (model.Test, error) {
	t, err := s.store.IncompleteTest(ctx, userID)
	if err != nil {
		return model.Test{}, err
	}
	if t.ID != testID {
		return model.Test{}, repository.ErrNotFound
	}

	start := time.Now()
	result, err := s.scorer.Score(ctx, answers)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		return model.Test{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	t.EmotionalExhaustionScore = result.EmotionalExhaustionScore
	t.DepersonalizationScore = result.DepersonalizationScore
	t.PersonalAccomplishmentScore = result.PersonalAccomplishmentScore
	t.EmotionalExhaustionLevel = result.EmotionalExhaustionLevel
	t.DepersonalizationLevel = result.DepersonalizationLevel
	t.PersonalAccomplishmentLevel = result.PersonalAccomplishmentLevel
	t.BurnoutLevel = result.BurnoutLevel
	t.Completed = true

	responses := make([]model.Response, len(answers))
	for i, a := range answers {
		responses[i] = model.Response{
			ID:         uuid.NewString(),
			TestID:     t.ID,
			QuestionID: a.QuestionID,
			Score:      a.Score,
		}
	}

	if err := s.store.CompleteTest(ctx, t, responses); err != nil {
		return model.Test{}, err
	}

	metrics.RecordTestScored()
	s.logger.Info(ctx, "test scored",
		logger.String("userID", userID),
		logger.String("testID", t.ID),
		logger.String("burnoutLevel", t.BurnoutLevel),
	)
	return t, nil
}

// Tests returns the user's tests, newest first.
func (s *Service) Tests(ctx context.Context, userID string, completedOnly bool) ([]model.Test, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.TestsByUser(ctx, userID, completedOnly)
}

// SetConsent updates the health data consent flag.
func (s *Service) SetConsent(ctx context.Context, userID string, consent bool) (model.User, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	u.HealthConsent = consent
	u.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return model.User{}, err
	}

	s.logger.Info(ctx, "health consent updated",
		logger.String("userID", userID),
		logger.Bool("consent", consent),
	)
	return u, nil
}

// SyncResult summarizes one sample batch submission.
type SyncResult struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// SyncSamples accepts a batch of wearable samples for asynchronous
// persistence. Samples already seen are counted as duplicates and
// skipped. A full queue aborts the batch with ErrQueueFull; ids already
// reserved for the aborted remainder are released so the device can
// resend them.
func (s *Service) SyncSamples(ctx context.Context, userID string, samples []model.HealthSample) (SyncResult, error) {
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return SyncResult{}, err
	}
	if !u.HealthConsent {
		metrics.RecordConsentDenied()
		return SyncResult{}, ErrConsentRequired
	}

	var res SyncResult
	for _, sample := range samples {
		sample.UserID = userID
		if sample.ID == "" {
			if sample.RecordedAt.IsZero() {
				// No id and no timestamp: a resend is indistinguishable
				// from a new reading, so deterministic dedupe does not
				// apply. A derived id would also collide across every
				// such sample in the batch.
				sample.ID = uuid.NewString()
			} else {
				// Deterministic id so an identical resend still dedupes.
				sample.ID = deriveSampleID(userID, sample.RecordedAt)
			}
		}
		if sample.RecordedAt.IsZero() {
			sample.RecordedAt = s.now().UTC()
		}

		if s.deduper.SeenAndRecord(ctx, sample.ID) {
			metrics.RecordSampleDuplicate()
			res.Duplicates++
			continue
		}

		if !s.sampleQueue.Enqueue(ctx, sample) {
			s.deduper.Unrecord(ctx, sample.ID)
			s.logger.Warn(ctx, "ingest queue full, rejecting batch remainder",
				logger.String("userID", userID),
				logger.Int("accepted", res.Accepted),
			)
			return res, ErrQueueFull
		}
		res.Accepted++
	}

	metrics.UpdateQueueSize(s.sampleQueue.Len(ctx))
	return res, nil
}

// deriveSampleID builds a stable id for samples that arrive without one,
// keyed on the recording instant so an identical resend maps back to the
// same id.
func deriveSampleID(userID string, recordedAt time.Time) string {
	return fmt.Sprintf("%s_%s", userID, recordedAt.UTC().Format(time.RFC3339Nano))
}

// HealthReport analyzes the user's samples over the given window.
// Nominal windows are 1, 7, 30 and 90 days but any positive length is
// accepted; zero selects the configured default. Consent gates only the
// sync path; a user who never consented simply has no samples to report.
func (s *Service) HealthReport(ctx context.Context, userID string, windowDays int) (health.Report, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return health.Report{}, err
	}

	if windowDays == 0 {
		windowDays = s.healthWindowDays
	}
	if windowDays < 0 {
		return health.Report{}, fmt.Errorf("%w: negative window %d days", ErrInvalidInput, windowDays)
	}

	from := s.now().UTC().AddDate(0, 0, -windowDays)
	samples, err := s.store.SamplesSince(ctx, userID, from)
	if err != nil {
		return health.Report{}, err
	}
	return s.analyzer.Analyze(ctx, samples, windowDays), nil
}

// CreateAssessment records a micro-assessment and derives its risk score.
func (s *Service) CreateAssessment(ctx context.Context, userID string, ratings assessment.Ratings, comments string) (model.MicroAssessment, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return model.MicroAssessment{}, err
	}
	for _, v := range []int{ratings.Fatigue, ratings.Stress, ratings.WorkSatisfaction, ratings.SleepQuality, ratings.SupportFeeling} {
		if v < 1 || v > 5 {
			return model.MicroAssessment{}, fmt.Errorf("%w: ratings must be between 1 and 5", ErrInvalidInput)
		}
	}

	a := model.MicroAssessment{
		ID:               uuid.NewString(),
		UserID:           userID,
		FatigueLevel:     ratings.Fatigue,
		StressLevel:      ratings.Stress,
		WorkSatisfaction: ratings.WorkSatisfaction,
		SleepQuality:     ratings.SleepQuality,
		SupportFeeling:   ratings.SupportFeeling,
		Comments:         comments,
		RiskScore:        assessment.RiskScore(ratings),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.CreateAssessment(ctx, a); err != nil {
		return model.MicroAssessment{}, err
	}

	metrics.RecordAssessmentCreated()
	return a, nil
}

// Assessments returns up to limit assessments, newest first.
func (s *Service) Assessments(ctx context.Context, userID string, limit int) ([]model.MicroAssessment, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	return s.store.AssessmentsByUser(ctx, userID, limit)
}

// LatestAssessment returns the most recent assessment.
func (s *Service) LatestAssessment(ctx context.Context, userID string) (model.MicroAssessment, error) {
	list, err := s.Assessments(ctx, userID, 1)
	if err != nil {
		return model.MicroAssessment{}, err
	}
	if len(list) == 0 {
		return model.MicroAssessment{}, repository.ErrNotFound
	}
	return list[0], nil
}

// AssessmentTrend summarizes risk direction over the given lookback.
// Zero days selects the configured default window.
func (s *Service) AssessmentTrend(ctx context.Context, userID string, days int) (assessment.TrendReport, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return assessment.TrendReport{}, err
	}
	if days <= 0 {
		days = s.trendWindowDays
	}

	from := s.now().UTC().AddDate(0, 0, -days)
	series, err := s.store.AssessmentsSince(ctx, userID, from)
	if err != nil {
		return assessment.TrendReport{}, err
	}

	report, ok := assessment.Trend(series)
	if !ok {
		return assessment.TrendReport{Direction: assessment.TrendInsufficient}, nil
	}
	return report, nil
}

// Streaks derives engagement statistics across every activity source,
// journals included. A source that fails to load is skipped rather than
// zeroing the result, and an unknown user yields the zero payload
// instead of an error: streak display is non-critical and always
// answers.
func (s *Service) Streaks(ctx context.Context, userID string) (streak.Stats, error) {
	sources := make([]streak.Source, 0, 4)

	moods, err := s.store.MoodsByUser(ctx, userID)
	sources = append(sources, moodSource(moods, err))

	totalTests := 0
	tests, err := s.store.TestsByUser(ctx, userID, true)
	if err != nil {
		sources = append(sources, streak.Unavailable())
	} else {
		totalTests = len(tests)
		ts := make([]time.Time, len(tests))
		for i, t := range tests {
			ts[i] = t.CreatedAt
		}
		sources = append(sources, streak.Dates(ts))
	}

	assessments, err := s.store.AssessmentsSince(ctx, userID, time.Time{})
	if err != nil {
		sources = append(sources, streak.Unavailable())
	} else {
		ts := make([]time.Time, len(assessments))
		for i, a := range assessments {
			ts[i] = a.CreatedAt
		}
		sources = append(sources, streak.Dates(ts))
	}

	journals, err := s.store.JournalsByUser(ctx, userID)
	if err != nil {
		sources = append(sources, streak.Unavailable())
	} else {
		ts := make([]time.Time, len(journals))
		for i, j := range journals {
			ts[i] = j.CreatedAt
		}
		sources = append(sources, streak.Dates(ts))
	}

	stats := streak.Calculate(s.now().UTC(), sources...)
	stats.TotalAssessments = totalTests

	metrics.RecordStreakQuery()
	return stats, nil
}

func moodSource(moods []model.Mood, err error) streak.Source {
	if err != nil {
		return streak.Unavailable()
	}
	ts := make([]time.Time, len(moods))
	for i, m := range moods {
		ts[i] = m.CreatedAt
	}
	return streak.Dates(ts)
}

// CreateJournal stores a new journal entry.
func (s *Service) CreateJournal(ctx context.Context, userID, title, content, analysis string) (model.JournalEntry, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return model.JournalEntry{}, err
	}
	if title == "" || content == "" {
		return model.JournalEntry{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}

	j := model.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Analysis:  analysis,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateJournal(ctx, j); err != nil {
		return model.JournalEntry{}, err
	}
	return j, nil
}

// Journals lists the user's entries, newest first.
func (s *Service) Journals(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.JournalsByUser(ctx, userID)
}

// Journal returns one entry; users can only read their own.
func (s *Service) Journal(ctx context.Context, userID, entryID string) (model.JournalEntry, error) {
	j, err := s.store.JournalByID(ctx, entryID)
	if err != nil {
		return model.JournalEntry{}, err
	}
	if j.UserID != userID {
		return model.JournalEntry{}, ErrForbidden
	}
	return j, nil
}

// DeleteJournal removes one entry; users can only delete their own.
func (s *Service) DeleteJournal(ctx context.Context, userID, entryID string) error {
	j, err := s.store.JournalByID(ctx, entryID)
	if err != nil {
		return err
	}
	if j.UserID != userID {
		return ErrForbidden
	}
	return s.store.DeleteJournal(ctx, entryID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.sampleQueue.Len(ctx)
		totalUsers := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = totalUsers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalUsers(totalUsers)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
