package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/ember/internal/domain/model"
)

func testSample(id, userID string, hr float64) model.HealthSample {
	return model.HealthSample{ID: id, UserID: userID, HeartRate: &hr, RecordedAt: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Test empty queue
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	// Test enqueue
	if !q.Enqueue(ctx, testSample("sample1", "user1", 64)) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	// Test dequeue
	sampleChan := q.Dequeue(ctx)
	sample := <-sampleChan
	if sample.ID != "sample1" {
		t.Errorf("expected sample1, got %v", sample.ID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	// Fill the queue
	if !q.Enqueue(ctx, testSample("sample1", "user1", 64)) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testSample("sample2", "user2", 70)) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full
	if q.Enqueue(ctx, testSample("sample3", "user3", 80)) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numSamples := 100

	// Start producer goroutines
	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numSamples; j++ {
				sample := testSample(
					fmt.Sprintf("sample%d_%d", id, j),
					fmt.Sprintf("user%d", id),
					float64(60+j%40),
				)
				for !q.Enqueue(ctx, sample) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	// Start consumer goroutines
	consumed := make(chan string, numGoroutines*numSamples)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			sampleChan := q.Dequeue(ctx)
			for sample := range sampleChan {
				consumed <- sample.ID
			}
		}()
	}

	// Wait for producers to finish
	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to process
	time.Sleep(100 * time.Millisecond)

	// Check final queue length
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	// Enqueue some samples
	if !q.Enqueue(ctx, testSample("sample1", "user1", 64)) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testSample("sample2", "user2", 70)) {
		t.Error("expected enqueue to succeed")
	}

	// Check initial state
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	// Close the queue
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	// Check closed state
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	// Try to enqueue after closing (should fail)
	if q.Enqueue(ctx, testSample("sample1", "user1", 64)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Dequeue channel should be closed
	sampleChan := q.Dequeue(ctx)

	// Wait for channel to be closed
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-sampleChan:
			if !ok {
				// Channel is closed, which is expected
				goto channelClosed
			}
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:

	// Close again should not error
	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
