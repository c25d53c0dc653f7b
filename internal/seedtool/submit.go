package seedtool

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// registerUsers registers all seed users concurrently and records the
// ids the service assigns.
func registerUsers(ctx context.Context, config *Config, users []SeedUser, stats *Stats) error {
	log.Printf("👤 Registering %d users with %d workers...", len(users), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/auth/register"

	var (
		registered int64
		failed     int64
	)

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					id, err := registerSingleUser(ctx, client, url, users[index])
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to register %s: %v", users[index].Email, err)
						}
					} else {
						users[index].ID = id
						atomic.AddInt64(&registered, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range users {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.UsersRegistered = int(atomic.LoadInt64(&registered))
	stats.RequestsFailed += int(atomic.LoadInt64(&failed))

	log.Printf("✅ Registered %d users (%d failed)", stats.UsersRegistered, int(atomic.LoadInt64(&failed)))
	if stats.UsersRegistered == 0 {
		return fmt.Errorf("no users registered")
	}
	return nil
}

// registerSingleUser registers one user and returns the assigned id.
func registerSingleUser(ctx context.Context, client *HTTPClient, url string, user SeedUser) (string, error) {
	resp, err := client.Post(ctx, url, RegisterRequest{
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
	})
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusCreated {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var created UserResponse
	if err := unmarshalJSON(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("register response missing user id")
	}

	return created.ID, nil
}

// submitWellnessData posts consent, the daily mood, the check-in and
// the health sample history for every registered user concurrently.
func submitWellnessData(ctx context.Context, config *Config, users []SeedUser, stats *Stats) error {
	log.Printf("📤 Seeding wellness data for %d users with %d workers...", len(users), config.Workers)

	client := newHTTPClient(config.Timeout)

	var (
		moods       int64
		assessments int64
		accepted    int64
		duplicates  int64
		failed      int64
		done        int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					user := users[index]
					if user.ID == "" {
						continue
					}

					result := seedSingleUser(ctx, client, config.BaseURL, user)
					atomic.AddInt64(&moods, int64(result.moods))
					atomic.AddInt64(&assessments, int64(result.assessments))
					atomic.AddInt64(&accepted, int64(result.samplesAccepted))
					atomic.AddInt64(&duplicates, int64(result.samplesDuplicate))
					atomic.AddInt64(&failed, int64(result.failed))
					total := atomic.AddInt64(&done, 1)

					if result.failed > 0 && config.Verbose {
						log.Printf("⚠️  Partial seed for %s (%d requests failed)", user.Email, result.failed)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						if config.Verbose {
							log.Printf("📊 Progress: %d/%d users seeded (samples accepted: %d, duplicate: %d, failed requests: %d)",
								total, len(users), atomic.LoadInt64(&accepted), atomic.LoadInt64(&duplicates), atomic.LoadInt64(&failed))
						} else {
							fmt.Printf("\r📤 Seeded: %d/%d users", total, len(users))
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range users {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	stats.MoodsRecorded = int(atomic.LoadInt64(&moods))
	stats.AssessmentsCreated = int(atomic.LoadInt64(&assessments))
	stats.SamplesAccepted = int(atomic.LoadInt64(&accepted))
	stats.SamplesDuplicate = int(atomic.LoadInt64(&duplicates))
	stats.RequestsFailed += int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Wellness data seeded:
   Moods: %d
   Check-ins: %d
   Samples accepted: %d
   Samples duplicate: %d
   Failed requests: %d
`, stats.MoodsRecorded, stats.AssessmentsCreated, stats.SamplesAccepted, stats.SamplesDuplicate, int(atomic.LoadInt64(&failed)))

	return nil
}

// seedResult tallies the outcome of seeding one user.
type seedResult struct {
	moods            int
	assessments      int
	samplesAccepted  int
	samplesDuplicate int
	failed           int
}

// seedSingleUser posts consent, mood, check-in and samples for one user.
func seedSingleUser(ctx context.Context, client *HTTPClient, baseURL string, user SeedUser) seedResult {
	var result seedResult
	userBase := baseURL + "/users/" + user.ID

	// Consent first so the sample sync is not rejected.
	if err := expectStatus(client.Put(ctx, userBase+"/consent", ConsentRequest{Consent: true})); err != nil {
		result.failed++
		return result
	}

	if err := expectStatus(client.Post(ctx, userBase+"/moods", MoodRequest{Mood: user.Mood})); err != nil {
		result.failed++
	} else {
		result.moods++
	}

	if err := expectStatus(client.Post(ctx, userBase+"/assessments", user.Assessment)); err != nil {
		result.failed++
	} else {
		result.assessments++
	}

	resp, err := client.Post(ctx, userBase+"/health-data", SyncRequest{Samples: user.Samples})
	if err != nil {
		result.failed++
		return result
	}
	body, err := readResponseBody(resp)
	if err != nil || resp.StatusCode != StatusAccepted {
		result.failed++
		return result
	}
	var sync SyncResponse
	if err := unmarshalJSON(body, &sync); err == nil {
		result.samplesAccepted += sync.Accepted
		result.samplesDuplicate += sync.Duplicates
	}

	return result
}

// expectStatus drains a response and treats any non 2xx status as an error.
func expectStatus(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	body, readErr := readResponseBody(resp)
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < StatusOK || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
