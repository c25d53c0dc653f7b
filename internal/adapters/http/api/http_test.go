package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/ember/internal/adapters/http/api"
	repository "github.com/okian/ember/internal/adapters/repository"
	service "github.com/okian/ember/internal/app"
	"github.com/okian/ember/internal/domain/assessment"
	"github.com/okian/ember/internal/domain/health"
	"github.com/okian/ember/internal/domain/mbi"
	"github.com/okian/ember/internal/domain/model"
	"github.com/okian/ember/internal/domain/streak"
	. "github.com/smartystreets/goconvey/convey"
)

// mockService implements api.Dependencies with canned results so each
// handler can be exercised in isolation.
type mockService struct {
	user model.User
	err  error

	mood     model.Mood
	previous model.MoodKind
	replaced bool
	moods    []model.Mood

	test    model.Test
	resumed bool
	tests   []model.Test

	syncResult api.SyncResult
	report     health.Report

	assessment  model.MicroAssessment
	assessments []model.MicroAssessment
	trend       assessment.TrendReport

	stats streak.Stats

	journal  model.JournalEntry
	journals []model.JournalEntry

	submittedAnswers []mbi.Answer
	syncedSamples    []model.HealthSample
}

func (m *mockService) Register(_ context.Context, in api.RegisterInput) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	u := m.user
	u.Name = in.Name
	u.Email = in.Email
	return u, nil
}

func (m *mockService) Login(_ context.Context, email, _ string) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	u := m.user
	u.Email = email
	return u, nil
}

func (m *mockService) User(_ context.Context, _ string) (model.User, error) {
	return m.user, m.err
}

func (m *mockService) UpdateProfile(_ context.Context, _ string, upd api.ProfileUpdate) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	u := m.user
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Age != nil {
		u.Age = upd.Age
	}
	return u, nil
}

func (m *mockService) RecordMood(_ context.Context, _ string, kind model.MoodKind) (model.Mood, model.MoodKind, bool, error) {
	if m.err != nil {
		return model.Mood{}, "", false, m.err
	}
	mood := m.mood
	mood.Mood = kind
	return mood, m.previous, m.replaced, nil
}

func (m *mockService) RecentMoods(_ context.Context, _ string, _ int) ([]model.Mood, error) {
	return m.moods, m.err
}

func (m *mockService) Questions(_ context.Context) (string, []mbi.Question) {
	c := mbi.DefaultCatalog()
	return c.Version(), c.Questions()
}

func (m *mockService) StartTest(_ context.Context, _ string) (model.Test, bool, error) {
	return m.test, m.resumed, m.err
}

func (m *mockService) SubmitTest(_ context.Context, _, _ string, answers []mbi.Answer) (model.Test, error) {
	m.submittedAnswers = answers
	return m.test, m.err
}

func (m *mockService) Tests(_ context.Context, _ string, _ bool) ([]model.Test, error) {
	return m.tests, m.err
}

func (m *mockService) SetConsent(_ context.Context, _ string, consent bool) (model.User, error) {
	if m.err != nil {
		return model.User{}, m.err
	}
	u := m.user
	u.HealthConsent = consent
	return u, nil
}

func (m *mockService) SyncSamples(_ context.Context, _ string, samples []model.HealthSample) (api.SyncResult, error) {
	m.syncedSamples = samples
	return m.syncResult, m.err
}

func (m *mockService) HealthReport(_ context.Context, _ string, _ int) (health.Report, error) {
	return m.report, m.err
}

func (m *mockService) CreateAssessment(_ context.Context, _ string, _ assessment.Ratings, _ string) (model.MicroAssessment, error) {
	return m.assessment, m.err
}

func (m *mockService) Assessments(_ context.Context, _ string, _ int) ([]model.MicroAssessment, error) {
	return m.assessments, m.err
}

func (m *mockService) LatestAssessment(_ context.Context, _ string) (model.MicroAssessment, error) {
	return m.assessment, m.err
}

func (m *mockService) AssessmentTrend(_ context.Context, _ string, _ int) (assessment.TrendReport, error) {
	return m.trend, m.err
}

func (m *mockService) Streaks(_ context.Context, _ string) (streak.Stats, error) {
	return m.stats, m.err
}

func (m *mockService) CreateJournal(_ context.Context, _, title, content, analysis string) (model.JournalEntry, error) {
	if m.err != nil {
		return model.JournalEntry{}, m.err
	}
	j := m.journal
	j.Title = title
	j.Content = content
	j.Analysis = analysis
	return j, nil
}

func (m *mockService) Journals(_ context.Context, _ string) ([]model.JournalEntry, error) {
	return m.journals, m.err
}

func (m *mockService) Journal(_ context.Context, _, _ string) (model.JournalEntry, error) {
	return m.journal, m.err
}

func (m *mockService) DeleteJournal(_ context.Context, _, _ string) error {
	return m.err
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	srv.Register(context.Background(), mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestAuthEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{user: model.User{ID: "u-1", CreatedAt: time.Now()}}
		mux := newTestMux(mock)

		Convey("When registering with a valid payload", func() {
			w := doRequest(mux, "POST", "/auth/register",
				`{"name":"Dr. Chen","email":"chen@example.com","password":"pw"}`)

			Convey("Then it returns 201 with the user", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["id"], ShouldEqual, "u-1")
				So(resp["email"], ShouldEqual, "chen@example.com")
				So(resp["password"], ShouldBeNil)
			})
		})

		Convey("When registering without an email", func() {
			w := doRequest(mux, "POST", "/auth/register", `{"name":"x","password":"pw"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When registering with malformed JSON", func() {
			w := doRequest(mux, "POST", "/auth/register", `{notjson`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the email is already taken", func() {
			mock.err = repository.ErrEmailTaken
			w := doRequest(mux, "POST", "/auth/register",
				`{"name":"x","email":"chen@example.com","password":"pw"}`)
			So(w.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When logging in with valid credentials", func() {
			w := doRequest(mux, "POST", "/auth/login",
				`{"email":"chen@example.com","password":"pw"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When logging in with bad credentials", func() {
			mock.err = service.ErrInvalidCredentials
			w := doRequest(mux, "POST", "/auth/login",
				`{"email":"chen@example.com","password":"wrong"}`)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When using the wrong method", func() {
			w := doRequest(mux, "GET", "/auth/register", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestProfileEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{user: model.User{ID: "u-1", Name: "Dr. Chen"}}
		mux := newTestMux(mock)

		Convey("When fetching a profile", func() {
			w := doRequest(mux, "GET", "/users/u-1", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["name"], ShouldEqual, "Dr. Chen")
		})

		Convey("When the user does not exist", func() {
			mock.err = repository.ErrNotFound
			w := doRequest(mux, "GET", "/users/missing", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When patching profile fields", func() {
			w := doRequest(mux, "PATCH", "/users/u-1", `{"name":"Dr. Lee","age":40}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["name"], ShouldEqual, "Dr. Lee")
			So(resp["age"], ShouldEqual, 40)
		})
	})
}

func TestMoodEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{
			mood:     model.Mood{ID: "m-1", CreatedAt: time.Now()},
			previous: model.MoodSad,
			replaced: true,
		}
		mux := newTestMux(mock)

		Convey("When recording a mood", func() {
			w := doRequest(mux, "POST", "/users/u-1/moods", `{"mood":"happy"}`)

			Convey("Then it echoes the check-in with replacement info", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["replaced"], ShouldEqual, true)
				So(resp["previous_mood"], ShouldEqual, "sad")
			})
		})

		Convey("When the mood value is rejected", func() {
			mock.err = service.ErrInvalidInput
			w := doRequest(mux, "POST", "/users/u-1/moods", `{"mood":"furious"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing recent moods", func() {
			mock.moods = []model.Mood{{ID: "m-1", Mood: model.MoodCalm}}
			w := doRequest(mux, "GET", "/users/u-1/moods?limit=5", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp), ShouldEqual, 1)
			So(resp[0]["mood"], ShouldEqual, "calm")
		})

		Convey("When the limit is not a number", func() {
			w := doRequest(mux, "GET", "/users/u-1/moods?limit=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestTestEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{test: model.Test{ID: "t-1", UserID: "u-1"}}
		mux := newTestMux(mock)

		Convey("When fetching the question catalog", func() {
			w := doRequest(mux, "GET", "/questions", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["version"], ShouldNotBeEmpty)
			questions := resp["questions"].([]any)
			So(len(questions), ShouldEqual, 22)
		})

		Convey("When starting a fresh test", func() {
			w := doRequest(mux, "POST", "/users/u-1/tests", "")
			So(w.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("When resuming an unfinished test", func() {
			mock.resumed = true
			w := doRequest(mux, "POST", "/users/u-1/tests", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["resumed"], ShouldEqual, true)
		})

		Convey("When submitting answers", func() {
			mock.test.Completed = true
			w := doRequest(mux, "POST", "/users/u-1/tests/t-1/submit",
				`{"answers":[{"question_id":1,"score":4},{"question_id":2,"score":2}]}`)

			Convey("Then the scored test is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(mock.submittedAnswers), ShouldEqual, 2)
				So(mock.submittedAnswers[0].QuestionID, ShouldEqual, 1)
			})
		})

		Convey("When submitting no answers", func() {
			w := doRequest(mux, "POST", "/users/u-1/tests/t-1/submit", `{"answers":[]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing tests", func() {
			mock.tests = []model.Test{{ID: "t-1"}, {ID: "t-2"}}
			w := doRequest(mux, "GET", "/users/u-1/tests?completed=true", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp), ShouldEqual, 2)
		})
	})
}

func TestHealthDataEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{user: model.User{ID: "u-1"}}
		mux := newTestMux(mock)

		Convey("When setting consent", func() {
			w := doRequest(mux, "PUT", "/users/u-1/consent", `{"consent":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["health_consent"], ShouldEqual, true)
		})

		Convey("When the consent field is missing", func() {
			w := doRequest(mux, "PUT", "/users/u-1/consent", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When syncing a sample batch", func() {
			mock.syncResult = api.SyncResult{Accepted: 2, Duplicates: 1}
			body := `{"samples":[
				{"id":"s-1","heart_rate":70,"recorded_at":"2025-03-01T08:00:00Z"},
				{"id":"s-2","sleep_duration":7.5,"recorded_at":"2025-03-01T09:00:00Z"},
				{"id":"s-1","heart_rate":70,"recorded_at":"2025-03-01T08:00:00Z"}
			]}`
			w := doRequest(mux, "POST", "/users/u-1/health-data", body)

			Convey("Then the batch is accepted asynchronously", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(len(mock.syncedSamples), ShouldEqual, 3)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["accepted"], ShouldEqual, 2)
				So(resp["duplicates"], ShouldEqual, 1)
			})
		})

		Convey("When a timestamp is not RFC3339", func() {
			w := doRequest(mux, "POST", "/users/u-1/health-data",
				`{"samples":[{"id":"s-1","recorded_at":"yesterday"}]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When consent was never granted", func() {
			mock.err = service.ErrConsentRequired
			w := doRequest(mux, "POST", "/users/u-1/health-data",
				`{"samples":[{"id":"s-1"}]}`)
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("When the ingest queue is full", func() {
			mock.err = service.ErrQueueFull
			w := doRequest(mux, "POST", "/users/u-1/health-data",
				`{"samples":[{"id":"s-1"}]}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("When fetching the health report", func() {
			avg := 68.0
			hr := 70.0
			mock.report = health.Report{
				Data:     []model.HealthSample{{ID: "s-1", HeartRate: &hr}},
				Insights: health.Insights{AverageHeartRate: &avg, DataQuality: 0.5},
			}
			w := doRequest(mux, "GET", "/users/u-1/health-report?days=7", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			data := resp["data"].([]any)
			So(len(data), ShouldEqual, 1)
			insights := resp["insights"].(map[string]any)
			So(insights["average_heart_rate"], ShouldEqual, 68.0)
		})

		Convey("When the report window is invalid", func() {
			w := doRequest(mux, "GET", "/users/u-1/health-report?days=zero", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAssessmentEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{
			assessment: model.MicroAssessment{ID: "a-1", RiskScore: 6.4},
		}
		mux := newTestMux(mock)

		Convey("When creating an assessment", func() {
			body := `{"fatigue_level":4,"stress_level":4,"work_satisfaction":2,
				"sleep_quality":2,"support_feeling":3,"comments":"rough"}`
			w := doRequest(mux, "POST", "/users/u-1/assessments", body)

			Convey("Then the derived risk score is returned", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var resp map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["burnout_risk_score"], ShouldEqual, 6.4)
			})
		})

		Convey("When ratings are rejected", func() {
			mock.err = service.ErrInvalidInput
			w := doRequest(mux, "POST", "/users/u-1/assessments",
				`{"fatigue_level":9}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing assessments", func() {
			mock.assessments = []model.MicroAssessment{{ID: "a-1"}, {ID: "a-2"}}
			w := doRequest(mux, "GET", "/users/u-1/assessments?limit=10", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp), ShouldEqual, 2)
		})

		Convey("When fetching the latest with none recorded", func() {
			mock.err = repository.ErrNotFound
			w := doRequest(mux, "GET", "/users/u-1/assessments/latest", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When fetching the trend", func() {
			mock.trend = assessment.TrendReport{Direction: assessment.TrendIncreasing, DataPoints: 5}
			w := doRequest(mux, "GET", "/users/u-1/assessments/trend?days=30", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["direction"], ShouldEqual, "increasing")
		})
	})
}

func TestStreakEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		now := time.Now().UTC()
		mock := &mockService{stats: streak.Stats{
			CurrentStreak:    3,
			LongestStreak:    8,
			WeeklyCheckIns:   5,
			TotalAssessments: 2,
			LastActivity:     &now,
		}}
		mux := newTestMux(mock)

		Convey("When fetching streaks", func() {
			w := doRequest(mux, "GET", "/users/u-1/streaks", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["currentStreak"], ShouldEqual, 3)
			So(resp["longestStreak"], ShouldEqual, 8)
			So(resp["weeklyCheckIns"], ShouldEqual, 5)
		})
	})
}

func TestJournalEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mock := &mockService{journal: model.JournalEntry{ID: "j-1"}}
		mux := newTestMux(mock)

		Convey("When creating an entry", func() {
			w := doRequest(mux, "POST", "/users/u-1/journals",
				`{"title":"Tuesday","content":"long shift"}`)
			So(w.Code, ShouldEqual, http.StatusCreated)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["title"], ShouldEqual, "Tuesday")
		})

		Convey("When reading someone else's entry", func() {
			mock.err = service.ErrForbidden
			w := doRequest(mux, "GET", "/users/u-2/journals/j-1", "")
			So(w.Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("When deleting an entry", func() {
			w := doRequest(mux, "DELETE", "/users/u-1/journals/j-1", "")
			So(w.Code, ShouldEqual, http.StatusNoContent)
		})

		Convey("When listing entries", func() {
			mock.journals = []model.JournalEntry{{ID: "j-1"}, {ID: "j-2"}}
			w := doRequest(mux, "GET", "/users/u-1/journals", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp []map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(len(resp), ShouldEqual, 2)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newTestMux(&mockService{})

		Convey("When fetching stats", func() {
			w := doRequest(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var resp map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["started"], ShouldEqual, true)
		})
	})
}

func TestHealthzEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newTestMux(&mockService{})

		Convey("When scraping metrics", func() {
			w := doRequest(mux, "GET", "/healthz", "")

			Convey("Then the registry is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestInternalErrorMapping(t *testing.T) {
	Convey("Given a dependency that fails unexpectedly", t, func() {
		mock := &mockService{err: fmt.Errorf("connection reset")}
		mux := newTestMux(mock)

		Convey("When any endpoint is hit", func() {
			w := doRequest(mux, "GET", "/users/u-1/streaks", "")

			Convey("Then the error is opaque to the client", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "connection reset")
			})
		})
	})
}
