package seedtool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/ember/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seed flow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting ember seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("days", config.Days),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate seed users
	users, err := generateUsers(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("user generation failed: %w", err)
	}

	// Step 3: Register users concurrently
	if err := registerUsers(ctx, config, users, stats); err != nil {
		return fmt.Errorf("user registration failed: %w", err)
	}

	// Step 4: Post moods, check-ins and health samples
	if err := submitWellnessData(ctx, config, users, stats); err != nil {
		return fmt.Errorf("wellness data submission failed: %w", err)
	}

	// Step 5: Wait for the ingest workers to drain the sample queue
	logger.Get().Info(ctx, "waiting for health samples to be processed")
	time.Sleep(IngestSettleDelay)

	// Step 6: Verify streaks reflect the seeded activity
	if err := verifyStreaks(ctx, config, users, stats); err != nil {
		return fmt.Errorf("streak verification failed: %w", err)
	}

	// Step 7: Save seeded credentials to file
	if err := saveUsersToFile(ctx, config, users); err != nil {
		logger.Get().Warn(ctx, "failed to save seeded users to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveUsersToFile saves the seeded users, ids and passwords included,
// to a JSON file so demos can log in as them later.
func saveUsersToFile(ctx context.Context, config *Config, users []SeedUser) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seeded_users_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Credentials only, the sample history is not worth persisting.
	type savedUser struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Persona  string `json:"persona"`
	}
	saved := make([]savedUser, 0, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		saved = append(saved, savedUser{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.Password, Persona: u.Persona})
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(saved); err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	logger.Get().Info(ctx, "seeded users saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final seed statistics.
func displayFinalStats(stats *Stats) {
	var successRate, usersPerSecond float64

	if stats.UsersGenerated > 0 {
		successRate = float64(stats.UsersRegistered) / float64(stats.UsersGenerated) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		usersPerSecond = float64(stats.UsersRegistered) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("usersGenerated", stats.UsersGenerated),
		logger.Int("usersRegistered", stats.UsersRegistered),
		logger.Int("moodsRecorded", stats.MoodsRecorded),
		logger.Int("assessmentsCreated", stats.AssessmentsCreated),
		logger.Int("samplesAccepted", stats.SamplesAccepted),
		logger.Int("samplesDuplicate", stats.SamplesDuplicate),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("streaksVerified", stats.StreaksVerified),
		logger.Int("streaksFailed", stats.StreaksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("registrationRate", successRate),
		logger.Float64("usersPerSecond", usersPerSecond))
}
