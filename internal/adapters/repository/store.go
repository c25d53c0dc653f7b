// Package repository defines the record store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/ember/internal/domain/model"
)

// Store provides read/write access to user records and their time-ordered
// activity series. The scoring engines never touch the store; the app
// service fetches windows here and hands them to the engines.
type Store interface {
	// CreateUser inserts a new user. Returns ErrEmailTaken when the email
	// is already registered.
	CreateUser(ctx context.Context, u model.User) error
	// UserByID returns the user with the given id, or ErrNotFound.
	UserByID(ctx context.Context, id string) (model.User, error)
	// UserByEmail returns the user registered under email, or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (model.User, error)
	// UpdateUser overwrites an existing user record.
	UpdateUser(ctx context.Context, u model.User) error

	// UpsertDailyMood stores a mood check-in, overwriting any existing
	// check-in for the same user and calendar day. It returns the previous
	// mood when one was replaced.
	UpsertDailyMood(ctx context.Context, m model.Mood) (previous model.MoodKind, replaced bool, err error)
	// RecentMoods returns up to limit moods ordered ascending by time.
	RecentMoods(ctx context.Context, userID string, limit int) ([]model.Mood, error)
	// MoodsByUser returns all moods for a user.
	MoodsByUser(ctx context.Context, userID string) ([]model.Mood, error)

	// CreateTest inserts a new, incomplete test.
	CreateTest(ctx context.Context, t model.Test) error
	// IncompleteTest returns the user's unfinished test, or ErrNotFound.
	IncompleteTest(ctx context.Context, userID string) (model.Test, error)
	// CompleteTest stores scores and levels on a test, marks it completed,
	// and inserts its responses. The write is atomic: a failure leaves
	// neither scores nor responses behind.
	CompleteTest(ctx context.Context, t model.Test, responses []model.Response) error
	// TestsByUser returns a user's tests ordered descending by creation
	// time, optionally restricted to completed ones.
	TestsByUser(ctx context.Context, userID string, completedOnly bool) ([]model.Test, error)

	// InsertSample stores one health sample.
	InsertSample(ctx context.Context, s model.HealthSample) error
	// SamplesSince returns a user's samples recorded at or after from,
	// ordered ascending by time.
	SamplesSince(ctx context.Context, userID string, from time.Time) ([]model.HealthSample, error)

	// CreateAssessment inserts a micro-assessment with its derived score.
	CreateAssessment(ctx context.Context, a model.MicroAssessment) error
	// AssessmentsByUser returns up to limit assessments ordered descending
	// by creation time.
	AssessmentsByUser(ctx context.Context, userID string, limit int) ([]model.MicroAssessment, error)
	// AssessmentsSince returns assessments created at or after from,
	// ordered ascending by time.
	AssessmentsSince(ctx context.Context, userID string, from time.Time) ([]model.MicroAssessment, error)

	// CreateJournal inserts a journal entry.
	CreateJournal(ctx context.Context, j model.JournalEntry) error
	// JournalsByUser returns a user's entries ordered descending by time.
	JournalsByUser(ctx context.Context, userID string) ([]model.JournalEntry, error)
	// JournalByID returns a single entry, or ErrNotFound.
	JournalByID(ctx context.Context, id string) (model.JournalEntry, error)
	// DeleteJournal removes an entry, or returns ErrNotFound.
	DeleteJournal(ctx context.Context, id string) error

	// Count returns the number of registered users.
	Count(ctx context.Context) int
}
