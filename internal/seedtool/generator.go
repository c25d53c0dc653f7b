package seedtool

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/ember/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	personaDivisor     = 8
)

// Persona baselines. Each persona fixes the mood pool, the daily
// check-in ranges (1 to 5) and the health sample baselines the
// generator jitters around.
const (
	caseSteady     = 0
	caseThriving   = 1
	caseStrained   = 2
	caseBurnedOut  = 3
	caseRecovering = 4
	caseOverloaded = 5
	caseDetached   = 6
	caseMixed      = 7
)

// persona describes one generated behaviour profile.
type persona struct {
	name        string
	moods       []string
	fatigueMin  int // fatigue, stress and the other ratings are drawn
	fatigueSpan int // from [min, min+span]
	stressMin   int
	stressSpan  int
	upliftMin   int // work satisfaction, sleep quality, support
	upliftSpan  int
	restingHR   float64
	sleepHours  float64
	stressBase  float64
	hrvBase     float64
	stepsBase   int
}

var personas = map[int64]persona{
	caseSteady:     {name: "steady", moods: []string{"calm", "happy"}, fatigueMin: 2, fatigueSpan: 1, stressMin: 2, stressSpan: 1, upliftMin: 3, upliftSpan: 2, restingHR: 62, sleepHours: 7.5, stressBase: 3.5, hrvBase: 55, stepsBase: 8000},
	caseThriving:   {name: "thriving", moods: []string{"happy", "excited"}, fatigueMin: 1, fatigueSpan: 1, stressMin: 1, stressSpan: 1, upliftMin: 4, upliftSpan: 1, restingHR: 58, sleepHours: 8, stressBase: 2, hrvBase: 65, stepsBase: 11000},
	caseStrained:   {name: "strained", moods: []string{"frustrated", "calm", "sad"}, fatigueMin: 3, fatigueSpan: 2, stressMin: 3, stressSpan: 2, upliftMin: 2, upliftSpan: 2, restingHR: 72, sleepHours: 6.5, stressBase: 6, hrvBase: 42, stepsBase: 6000},
	caseBurnedOut:  {name: "burned-out", moods: []string{"frustrated", "sad"}, fatigueMin: 4, fatigueSpan: 1, stressMin: 4, stressSpan: 1, upliftMin: 1, upliftSpan: 1, restingHR: 82, sleepHours: 5, stressBase: 8.5, hrvBase: 28, stepsBase: 3000},
	caseRecovering: {name: "recovering", moods: []string{"calm", "sad", "happy"}, fatigueMin: 2, fatigueSpan: 2, stressMin: 2, stressSpan: 2, upliftMin: 3, upliftSpan: 2, restingHR: 68, sleepHours: 7, stressBase: 4.5, hrvBase: 48, stepsBase: 7000},
	caseOverloaded: {name: "overloaded", moods: []string{"frustrated", "calm"}, fatigueMin: 3, fatigueSpan: 2, stressMin: 4, stressSpan: 1, upliftMin: 2, upliftSpan: 1, restingHR: 76, sleepHours: 5.5, stressBase: 7.5, hrvBase: 35, stepsBase: 4500},
	caseDetached:   {name: "detached", moods: []string{"sad", "calm"}, fatigueMin: 3, fatigueSpan: 1, stressMin: 2, stressSpan: 2, upliftMin: 1, upliftSpan: 2, restingHR: 70, sleepHours: 6, stressBase: 5.5, hrvBase: 44, stepsBase: 4000},
	caseMixed:      {name: "mixed", moods: []string{"frustrated", "sad", "calm", "happy", "excited"}, fatigueMin: 1, fatigueSpan: 4, stressMin: 1, stressSpan: 4, upliftMin: 1, upliftSpan: 4, restingHR: 66, sleepHours: 7, stressBase: 5, hrvBase: 50, stepsBase: 7500},
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max) using crypto/rand.
func getRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateUsers creates the specified number of seed users with unique emails.
func generateUsers(ctx context.Context, config *Config, stats *Stats) ([]SeedUser, error) {
	logger.Get().Info(ctx, "generating seed users",
		logger.Int("numUsers", config.NumUsers),
		logger.Int("days", config.Days))

	users := make([]SeedUser, config.NumUsers)

	type userResult struct {
		index int
		user  SeedUser
		err   error
	}

	resultChan := make(chan userResult, config.NumUsers)

	// Use worker pool for user generation
	workerCount := minInt(config.Workers, config.NumUsers)
	usersPerWorker := config.NumUsers / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * usersPerWorker
		end := start + usersPerWorker
		if worker == workerCount-1 {
			end = config.NumUsers // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- userResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- userResult{index: i, user: generateSingleUser(i, config.Days)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumUsers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during user generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate user %d: %w", result.index, result.err)
			}
			users[result.index] = result.user
		}
	}

	stats.UsersGenerated = len(users)
	logger.Get().Info(ctx, "generated seed users successfully", logger.Int("count", len(users)))

	return users, nil
}

// generateSingleUser creates one seed user with a random persona.
func generateSingleUser(index, days int) SeedUser {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(personaDivisor))
	p, ok := personas[randNum.Int64()]
	if !ok {
		p = personas[caseMixed]
	}

	suffix := uuid.New().String()[:8]
	user := SeedUser{
		Name:     "Seed User " + strconv.Itoa(index),
		Email:    "seed_" + strconv.Itoa(index) + "_" + suffix + "@example.com",
		Password: "seed-" + uuid.New().String(),
		Persona:  p.name,
		Mood:     p.moods[getRandomInt(len(p.moods))],
		Assessment: CheckInRequest{
			FatigueLevel:     p.fatigueMin + getRandomInt(p.fatigueSpan+1),
			StressLevel:      p.stressMin + getRandomInt(p.stressSpan+1),
			WorkSatisfaction: p.upliftMin + getRandomInt(p.upliftSpan+1),
			SleepQuality:     p.upliftMin + getRandomInt(p.upliftSpan+1),
			SupportFeeling:   p.upliftMin + getRandomInt(p.upliftSpan+1),
			Comments:         "seeded " + p.name + " check-in",
		},
		Samples: generateSampleHistory(p, days),
	}

	return user
}

// generateSampleHistory builds back-dated health samples, one per day,
// jittered around the persona baselines.
func generateSampleHistory(p persona, days int) []Sample {
	samples := make([]Sample, 0, days)
	now := time.Now().UTC()

	for day := 0; day < days; day++ {
		recordedAt := now.AddDate(0, 0, -day)
		samples = append(samples, Sample{
			HeartRate:     jitter(p.restingHR, 8),
			SleepDuration: jitter(p.sleepHours, 1.5),
			SleepQuality:  clampFloat(jitter(10-p.stressBase, 2), 1, 10),
			Steps:         p.stepsBase + getRandomInt(3000) - 1500,
			StressLevel:   clampFloat(jitter(p.stressBase, 1.5), 1, 10),
			HRV:           jitter(p.hrvBase, 10),
			RecordedAt:    recordedAt.Format(time.RFC3339),
		})
	}

	return samples
}

// jitter returns base +/- up to spread.
func jitter(base, spread float64) float64 {
	return base + (getRandomFloat()*2-1)*spread
}

// clampFloat bounds v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
