package seedtool

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
)

// verifyStreaks fetches streak stats for every seeded user concurrently
// and checks that the day's activity registered.
func verifyStreaks(ctx context.Context, config *Config, users []SeedUser, stats *Stats) error {
	log.Printf("🔍 Verifying streaks for %d users with %d workers...", len(users), config.Workers)

	client := newHTTPClient(config.Timeout)

	streaks := make([]StreakResponse, len(users))
	var (
		verified int64
		failed   int64
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
					user := users[index]
					if user.ID == "" {
						continue
					}

					streak, err := retrieveSingleStreak(ctx, client, config.BaseURL, user.ID)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get streaks for %s: %v", user.Email, err)
						}
						continue
					}

					streaks[index] = streak
					if streak.CurrentStreak >= 1 && streak.WeeklyCheckIns >= 1 {
						atomic.AddInt64(&verified, 1)
					} else {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Streak mismatch for %s: current=%d weekly=%d",
								user.Email, streak.CurrentStreak, streak.WeeklyCheckIns)
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

	stats.StreaksVerified = int(atomic.LoadInt64(&verified))
	stats.StreaksFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Streak verification completed:
   Verified: %d
   Failed: %d
`, stats.StreaksVerified, stats.StreaksFailed)

	if stats.StreaksVerified == 0 {
		return fmt.Errorf("no streaks verified")
	}

	displayPersonaBreakdown(users, streaks, config.Verbose)
	return nil
}

// retrieveSingleStreak fetches streak stats for one user.
func retrieveSingleStreak(ctx context.Context, client *HTTPClient, baseURL, userID string) (StreakResponse, error) {
	url := fmt.Sprintf("%s/users/%s/streaks", baseURL, userID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return StreakResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return StreakResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return StreakResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var streak StreakResponse
	if err := unmarshalJSON(body, &streak); err != nil {
		return StreakResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return streak, nil
}

// displayPersonaBreakdown summarises seeded users per persona.
func displayPersonaBreakdown(users []SeedUser, streaks []StreakResponse, verbose bool) {
	counts := make(map[string]int)
	checkIns := make(map[string]int)
	for i, user := range users {
		if user.ID == "" {
			continue
		}
		counts[user.Persona]++
		checkIns[user.Persona] += streaks[i].WeeklyCheckIns
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	log.Printf("📊 Seeded personas:")
	for _, name := range names {
		log.Printf("   %-12s users: %d", name, counts[name])
	}

	if verbose {
		for _, name := range names {
			avg := float64(checkIns[name]) / float64(counts[name])
			log.Printf("   %-12s avg weekly check-ins: %.1f", name, avg)
		}
	}
}
