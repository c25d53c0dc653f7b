package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/ember/internal/adapters/mq/worker"
	model "github.com/okian/ember/internal/domain/model"
	logging "github.com/okian/ember/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	sampleChan chan worker.Sample
	closeError error
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		sampleChan: make(chan worker.Sample, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Sample {
	return mq.sampleChan
}

func (mq *mockQueue) Close() error {
	close(mq.sampleChan)
	return mq.closeError
}

func (mq *mockQueue) addSample(s worker.Sample) {
	mq.sampleChan <- s
}

type mockWriter struct {
	written map[string]model.HealthSample
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockWriter() *mockWriter {
	return &mockWriter{
		written: make(map[string]model.HealthSample),
		errors:  make(map[string]error),
	}
}

func (mw *mockWriter) InsertSample(ctx context.Context, sample model.HealthSample) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if err, exists := mw.errors[sample.ID]; exists {
		return err
	}
	mw.written[sample.ID] = sample
	return nil
}

func (mw *mockWriter) setError(sampleID string, err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.errors[sampleID] = err
}

func (mw *mockWriter) getSample(sampleID string) (model.HealthSample, bool) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	s, exists := mw.written[sampleID]
	return s, exists
}

type mockReleaser struct {
	released map[string]bool
	mu       sync.RWMutex
}

func newMockReleaser() *mockReleaser {
	return &mockReleaser{released: make(map[string]bool)}
}

func (mr *mockReleaser) Unrecord(ctx context.Context, id string) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.released[id] = true
}

func (mr *mockReleaser) wasReleased(id string) bool {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.released[id]
}

func sampleWithHR(id, userID string, hr float64) worker.Sample {
	return model.HealthSample{
		ID:         id,
		UserID:     userID,
		HeartRate:  &hr,
		RecordedAt: time.Now(),
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		writer := newMockWriter()
		releaser := newMockReleaser()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewInMemoryWorker(queue, writer, releaser)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(
				queue, writer, releaser,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, writer, releaser)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing samples", func() {
				queue.addSample(sampleWithHR("sample-1", "user-1", 68))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the sample should be persisted", func() {
					got, written := writer.getSample("sample-1")
					convey.So(written, convey.ShouldBeTrue)
					convey.So(*got.HeartRate, convey.ShouldEqual, 68)
					convey.So(releaser.wasReleased("sample-1"), convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when persistence fails", func() {
				writer.setError("sample-2", errors.New("store unavailable"))
				queue.addSample(sampleWithHR("sample-2", "user-2", 72))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the dedupe slot should be released", func() {
					_, written := writer.getSample("sample-2")
					convey.So(written, convey.ShouldBeFalse)
					convey.So(releaser.wasReleased("sample-2"), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewInMemoryWorker(queue, writer, releaser)
			ctx, cancel := context.WithCancel(context.Background())

			go w.Run(ctx)

			time.Sleep(10 * time.Millisecond)
			cancel()
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then worker should stop", func() {
				// Worker should have stopped due to context cancellation
				convey.So(true, convey.ShouldBeTrue) // Placeholder assertion
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new WorkerPool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		writer := newMockWriter()
		releaser := newMockReleaser()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, queue, writer, releaser)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker pool with custom count", func() {
			pool := worker.NewPool(3, queue, writer, releaser)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When starting a worker pool", func() {
			pool := worker.NewPool(2, queue, writer, releaser)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			convey.Convey("And when processing multiple samples", func() {
				ids := []string{"sample-1", "sample-2", "sample-3"}
				for i, id := range ids {
					queue.addSample(sampleWithHR(id, fmt.Sprintf("user-%d", i), float64(60+i)))
				}

				// Give workers time to process
				time.Sleep(100 * time.Millisecond)

				convey.Convey("Then all samples should be persisted", func() {
					for _, id := range ids {
						_, written := writer.getSample(id)
						convey.So(written, convey.ShouldBeTrue)
					}
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When stopping a worker pool with the queue still open", func() {
			pool := worker.NewPool(2, queue, writer, releaser)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			time.Sleep(20 * time.Millisecond)
			started := time.Now()
			pool.Stop()
			elapsed := time.Since(started)

			convey.Convey("Then idle workers return without waiting out the timeout", func() {
				convey.So(elapsed, convey.ShouldBeLessThan, time.Second)
			})

			convey.Convey("And samples enqueued afterwards are left unprocessed", func() {
				queue.addSample(sampleWithHR("sample-late", "user-late", 64))
				time.Sleep(50 * time.Millisecond)

				_, written := writer.getSample("sample-late")
				convey.So(written, convey.ShouldBeFalse)
			})
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given a worker pool with multiple workers", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		writer := newMockWriter()
		releaser := newMockReleaser()

		pool := worker.NewPool(4, queue, writer, releaser)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		pool.Start(ctx)

		time.Sleep(20 * time.Millisecond)

		convey.Convey("When processing many concurrent samples", func() {
			const sampleCount = 100
			var wg sync.WaitGroup

			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producerID int) {
					defer wg.Done()
					for j := 0; j < sampleCount/5; j++ {
						id := fmt.Sprintf("sample-%d-%d", producerID, j)
						queue.addSample(sampleWithHR(id, fmt.Sprintf("user-%d", producerID), float64(60+j)))
					}
				}(i)
			}

			wg.Wait()

			// Give workers time to process
			time.Sleep(200 * time.Millisecond)

			convey.Convey("Then all samples should be persisted", func() {
				persisted := 0
				for i := 0; i < 5; i++ {
					for j := 0; j < sampleCount/5; j++ {
						if _, written := writer.getSample(fmt.Sprintf("sample-%d-%d", i, j)); written {
							persisted++
						}
					}
				}
				convey.So(persisted, convey.ShouldEqual, sampleCount)
			})
		})
	})
}

func TestWorkerErrorHandling(t *testing.T) {
	convey.Convey("Given a worker with error conditions", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		writer := newMockWriter()
		releaser := newMockReleaser()

		w := worker.NewInMemoryWorker(queue, writer, releaser)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go w.Run(ctx)

		time.Sleep(10 * time.Millisecond)

		convey.Convey("When persistence consistently fails", func() {
			writer.setError("sample-error", errors.New("persistent store error"))
			queue.addSample(sampleWithHR("sample-error", "user-error", 70))

			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then nothing is written and the id is released", func() {
				_, written := writer.getSample("sample-error")
				convey.So(written, convey.ShouldBeFalse)
				convey.So(releaser.wasReleased("sample-error"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When no releaser is configured", func() {
			bare := worker.NewInMemoryWorker(queue, writer, nil)

			convey.Convey("Then the worker is still usable", func() {
				convey.So(bare, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When queue channel is closed", func() {
			_ = queue.Close()

			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then worker should stop", func() {
				convey.So(true, convey.ShouldBeTrue) // Placeholder assertion
			})
		})
	})
}
