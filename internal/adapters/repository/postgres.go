package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/pkg/metrics"
)

// PGStore is the PostgreSQL Store implementation. Schema management is
// out of scope here; the expected tables are users, moods, tests,
// responses, health_samples, micro_assessments, and journal_entries with
// columns matching the queries below.
type PGStore struct {
	db *sql.DB
}

// NewPGStore opens a connection pool for the given DSN and verifies it.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{db: db}, nil
}

var _ Store = (*PGStore)(nil)

// Close releases the connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user, enforcing email uniqueness.
func (s *PGStore) CreateUser(ctx context.Context, u model.User) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, u.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrEmailTaken
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (
			user_id, name, email, password, health_consent,
			age, gender, marital_status, has_children, specialty,
			work_setting, career_stage, work_hours, on_call_frequency,
			years_experience, previous_burnout, reasons,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		u.ID, u.Name, u.Email, u.Password, u.HealthConsent,
		nullInt(u.Age), nullStr(u.Gender), nullStr(u.MaritalStatus), nullBool(u.HasChildren), nullStr(u.Specialty),
		nullStr(u.WorkSetting), nullStr(u.CareerStage), nullInt(u.WorkHours), nullStr(u.OnCallFrequency),
		nullInt(u.YearsExperience), nullInt(u.PreviousBurnout), joinReasons(u.Reasons),
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

const userColumns = `
	user_id, name, email, password, health_consent,
	age, COALESCE(gender,''), COALESCE(marital_status,''), has_children, COALESCE(specialty,''),
	COALESCE(work_setting,''), COALESCE(career_stage,''), work_hours, COALESCE(on_call_frequency,''),
	years_experience, previous_burnout, COALESCE(reasons,''),
	created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u        model.User
		age      sql.NullInt64
		children sql.NullBool
		hours    sql.NullInt64
		years    sql.NullInt64
		burnout  sql.NullInt64
		reasons  string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.HealthConsent,
		&age, &u.Gender, &u.MaritalStatus, &children, &u.Specialty,
		&u.WorkSetting, &u.CareerStage, &hours, &u.OnCallFrequency,
		&years, &burnout, &reasons,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Age = intPtr(age)
	u.HasChildren = boolPtr(children)
	u.WorkHours = intPtr(hours)
	u.YearsExperience = intPtr(years)
	u.PreviousBurnout = intPtr(burnout)
	u.Reasons = splitReasons(reasons)
	return u, nil
}

// UserByID returns the user with the given id.
func (s *PGStore) UserByID(ctx context.Context, id string) (model.User, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds())) }()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	return scanUser(row)
}

// UserByEmail returns the user registered under email.
func (s *PGStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateUser overwrites an existing user record.
func (s *PGStore) UpdateUser(ctx context.Context, u model.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name = $2, email = $3, password = $4, health_consent = $5,
			age = $6, gender = $7, marital_status = $8, has_children = $9, specialty = $10,
			work_setting = $11, career_stage = $12, work_hours = $13, on_call_frequency = $14,
			years_experience = $15, previous_burnout = $16, reasons = $17,
			updated_at = $18
		WHERE user_id = $1`,
		u.ID, u.Name, u.Email, u.Password, u.HealthConsent,
		nullInt(u.Age), nullStr(u.Gender), nullStr(u.MaritalStatus), nullBool(u.HasChildren), nullStr(u.Specialty),
		nullStr(u.WorkSetting), nullStr(u.CareerStage), nullInt(u.WorkHours), nullStr(u.OnCallFrequency),
		nullInt(u.YearsExperience), nullInt(u.PreviousBurnout), joinReasons(u.Reasons),
		u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

// UpsertDailyMood overwrites any same-day check-in for the user.
func (s *PGStore) UpsertDailyMood(ctx context.Context, m model.Mood) (model.MoodKind, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := m.CreatedAt.UTC().Truncate(24 * time.Hour)
	var (
		existingID string
		previous   string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT mood_id, mood FROM moods
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		 LIMIT 1`,
		m.UserID, day, day.AddDate(0, 0, 1)).Scan(&existingID, &previous)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO moods (mood_id, user_id, mood, created_at)
			VALUES ($1, $2, $3, $4)`,
			m.ID, m.UserID, string(m.Mood), m.CreatedAt); err != nil {
			return "", false, fmt.Errorf("insert mood: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return "", false, fmt.Errorf("commit mood: %w", err)
		}
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("query mood: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE moods SET mood = $2 WHERE mood_id = $1`,
		existingID, string(m.Mood)); err != nil {
		return "", false, fmt.Errorf("update mood: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit mood: %w", err)
	}
	return model.MoodKind(previous), true, nil
}

// RecentMoods returns up to limit moods ordered ascending by time.
func (s *PGStore) RecentMoods(ctx context.Context, userID string, limit int) ([]model.Mood, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT mood_id, user_id, mood, created_at FROM moods
		 WHERE user_id = $1 ORDER BY created_at ASC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	return scanMoods(rows)
}

// MoodsByUser returns all moods for a user.
func (s *PGStore) MoodsByUser(ctx context.Context, userID string) ([]model.Mood, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mood_id, user_id, mood, created_at FROM moods
		 WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	return scanMoods(rows)
}

func scanMoods(rows *sql.Rows) ([]model.Mood, error) {
	defer rows.Close()
	var out []model.Mood
	for rows.Next() {
		var (
			m    model.Mood
			kind string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &kind, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		m.Mood = model.MoodKind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateTest inserts a new, incomplete test.
func (s *PGStore) CreateTest(ctx context.Context, t model.Test) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tests (test_id, user_id, completed, created_at)
		VALUES ($1, $2, false, $3)`,
		t.ID, t.UserID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	return nil
}

// IncompleteTest returns the user's unfinished test if one exists.
func (s *PGStore) IncompleteTest(ctx context.Context, userID string) (model.Test, error) {
	var t model.Test
	err := s.db.QueryRowContext(ctx, `
		SELECT test_id, user_id, created_at FROM tests
		 WHERE user_id = $1 AND completed = false
		 ORDER BY created_at ASC LIMIT 1`,
		userID).Scan(&t.ID, &t.UserID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Test{}, ErrNotFound
	}
	if err != nil {
		return model.Test{}, fmt.Errorf("query incomplete test: %w", err)
	}
	return t, nil
}

// CompleteTest writes scores, the completed flag, and responses in one
// transaction.
func (s *PGStore) CompleteTest(ctx context.Context, t model.Test, responses []model.Response) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE tests SET
			emotional_exhaustion_score = $2, depersonalization_score = $3,
			personal_accomplishment_score = $4, emotional_exhaustion_level = $5,
			depersonalization_level = $6, personal_accomplishment_level = $7,
			burnout_level = $8, completed = true
		WHERE test_id = $1`,
		t.ID, t.EmotionalExhaustionScore, t.DepersonalizationScore,
		t.PersonalAccomplishmentScore, t.EmotionalExhaustionLevel,
		t.DepersonalizationLevel, t.PersonalAccomplishmentLevel,
		t.BurnoutLevel)
	if err != nil {
		return fmt.Errorf("update test: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	for _, r := range responses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO responses (response_id, test_id, question_id, score)
			VALUES ($1, $2, $3, $4)`,
			r.ID, r.TestID, r.QuestionID, r.Score); err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit test: %w", err)
	}
	return nil
}

// TestsByUser returns tests newest first.
func (s *PGStore) TestsByUser(ctx context.Context, userID string, completedOnly bool) ([]model.Test, error) {
	q := `
		SELECT test_id, user_id,
		       COALESCE(emotional_exhaustion_score, 0), COALESCE(depersonalization_score, 0),
		       COALESCE(personal_accomplishment_score, 0), COALESCE(emotional_exhaustion_level, ''),
		       COALESCE(depersonalization_level, ''), COALESCE(personal_accomplishment_level, ''),
		       COALESCE(burnout_level, ''), completed, created_at
		  FROM tests WHERE user_id = $1`
	if completedOnly {
		q += ` AND completed = true`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()

	var out []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(
			&t.ID, &t.UserID,
			&t.EmotionalExhaustionScore, &t.DepersonalizationScore,
			&t.PersonalAccomplishmentScore, &t.EmotionalExhaustionLevel,
			&t.DepersonalizationLevel, &t.PersonalAccomplishmentLevel,
			&t.BurnoutLevel, &t.Completed, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InsertSample stores one health sample.
func (s *PGStore) InsertSample(ctx context.Context, sample model.HealthSample) error {
	start := time.Now()
	defer func() { metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO health_samples (
			sample_id, user_id, heart_rate, sleep_duration, sleep_quality,
			steps, stress_level, hrv, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		sample.ID, sample.UserID,
		nullFloat(sample.HeartRate), nullFloat(sample.SleepDuration), nullFloat(sample.SleepQuality),
		nullInt(sample.Steps), nullFloat(sample.StressLevel), nullFloat(sample.HRV),
		sample.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// SamplesSince returns samples recorded at or after from, ascending.
func (s *PGStore) SamplesSince(ctx context.Context, userID string, from time.Time) ([]model.HealthSample, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds())) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT sample_id, user_id, heart_rate, sleep_duration, sleep_quality,
		       steps, stress_level, hrv, recorded_at
		  FROM health_samples
		 WHERE user_id = $1 AND recorded_at >= $2
		 ORDER BY recorded_at ASC`,
		userID, from)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []model.HealthSample
	for rows.Next() {
		var (
			sm                     model.HealthSample
			hr, sd, sq, stress, hv sql.NullFloat64
			steps                  sql.NullInt64
		)
		if err := rows.Scan(&sm.ID, &sm.UserID, &hr, &sd, &sq, &steps, &stress, &hv, &sm.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sm.HeartRate = floatPtr(hr)
		sm.SleepDuration = floatPtr(sd)
		sm.SleepQuality = floatPtr(sq)
		sm.Steps = intPtr(steps)
		sm.StressLevel = floatPtr(stress)
		sm.HRV = floatPtr(hv)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// CreateAssessment inserts a micro-assessment.
func (s *PGStore) CreateAssessment(ctx context.Context, a model.MicroAssessment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO micro_assessments (
			assessment_id, user_id, fatigue_level, stress_level,
			work_satisfaction, sleep_quality, support_feeling,
			comments, burnout_risk_score, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.UserID, a.FatigueLevel, a.StressLevel,
		a.WorkSatisfaction, a.SleepQuality, a.SupportFeeling,
		nullStr(a.Comments), a.RiskScore, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

const assessmentColumns = `
	assessment_id, user_id, fatigue_level, stress_level,
	work_satisfaction, sleep_quality, support_feeling,
	COALESCE(comments, ''), burnout_risk_score, created_at`

// AssessmentsByUser returns up to limit assessments newest first.
func (s *PGStore) AssessmentsByUser(ctx context.Context, userID string, limit int) ([]model.MicroAssessment, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assessmentColumns+`
		   FROM micro_assessments WHERE user_id = $1
		  ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	return scanAssessments(rows)
}

// AssessmentsSince returns assessments created at or after from, ascending.
func (s *PGStore) AssessmentsSince(ctx context.Context, userID string, from time.Time) ([]model.MicroAssessment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assessmentColumns+`
		   FROM micro_assessments WHERE user_id = $1 AND created_at >= $2
		  ORDER BY created_at ASC`,
		userID, from)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	return scanAssessments(rows)
}

func scanAssessments(rows *sql.Rows) ([]model.MicroAssessment, error) {
	defer rows.Close()
	var out []model.MicroAssessment
	for rows.Next() {
		var a model.MicroAssessment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.FatigueLevel, &a.StressLevel,
			&a.WorkSatisfaction, &a.SleepQuality, &a.SupportFeeling,
			&a.Comments, &a.RiskScore, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateJournal inserts a journal entry.
func (s *PGStore) CreateJournal(ctx context.Context, j model.JournalEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (entry_id, user_id, title, content, analysis, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		j.ID, j.UserID, j.Title, j.Content, nullStr(j.Analysis), j.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert journal: %w", err)
	}
	return nil
}

// JournalsByUser returns entries newest first.
func (s *PGStore) JournalsByUser(ctx context.Context, userID string) ([]model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, user_id, title, content, COALESCE(analysis, ''), created_at
		  FROM journal_entries WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query journals: %w", err)
	}
	defer rows.Close()

	var out []model.JournalEntry
	for rows.Next() {
		var j model.JournalEntry
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.Analysis, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// JournalByID returns one entry.
func (s *PGStore) JournalByID(ctx context.Context, id string) (model.JournalEntry, error) {
	var j model.JournalEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT entry_id, user_id, title, content, COALESCE(analysis, ''), created_at
		  FROM journal_entries WHERE entry_id = $1`,
		id).Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.Analysis, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, ErrNotFound
	}
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("query journal: %w", err)
	}
	return j, nil
}

// DeleteJournal removes one entry.
func (s *PGStore) DeleteJournal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE entry_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	return requireRow(res)
}

// Count returns the number of registered users.
func (s *PGStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// requireRow maps zero affected rows to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// joinReasons flattens onboarding reason ids to comma-separated text.
func joinReasons(reasons []int) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

func splitReasons(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, n)
		}
	}
	return out
}
