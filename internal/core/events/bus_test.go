package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/danrusdi/card-reconciliation/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("Bus", func() {
	var (
		bus *events.Bus
		ctx context.Context
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	BeforeEach(func() {
		bus = events.NewBus(testLogger)
		ctx = context.Background()
	})

	Describe("Publish", func() {
		It("should deliver the event to every subscribed handler", func() {
			var wg sync.WaitGroup
			wg.Add(2)

			var mu sync.Mutex
			var received []string

			handler := func(name string) events.Handler {
				return func(ctx context.Context, event events.Event) error {
					mu.Lock()
					received = append(received, name)
					mu.Unlock()
					wg.Done()
					return nil
				}
			}
			bus.Subscribe(events.EventTypeStatementUploaded, handler("first"))
			bus.Subscribe(events.EventTypeStatementUploaded, handler("second"))

			err := bus.Publish(ctx, events.NewStatementUploadedEvent("upload-1", "/tmp/upload-1.pdf", "march.pdf"))
			Expect(err).NotTo(HaveOccurred())

			wg.Wait()
			Expect(received).To(ConsistOf("first", "second"))
		})

		It("should be a no-op without subscribers", func() {
			err := bus.Publish(ctx, events.NewStatementExtractedEvent("upload-1", 1, 0, 0))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should keep running handlers after the publisher's context is canceled", func() {
			started := make(chan struct{})
			observed := make(chan error, 1)
			bus.Subscribe(events.EventTypeStatementUploaded, func(ctx context.Context, event events.Event) error {
				<-started
				observed <- ctx.Err()
				return nil
			})

			pubCtx, cancel := context.WithCancel(ctx)
			err := bus.Publish(pubCtx, events.NewStatementUploadedEvent("upload-1", "/tmp/upload-1.pdf", "march.pdf"))
			Expect(err).NotTo(HaveOccurred())

			cancel()
			close(started)

			Eventually(observed).Should(Receive(BeNil()))
		})

		It("should survive a panicking handler and still run the others", func() {
			var wg sync.WaitGroup
			wg.Add(1)

			bus.Subscribe(events.EventTypeStatementUploaded, func(ctx context.Context, event events.Event) error {
				panic("malformed content stream")
			})
			bus.Subscribe(events.EventTypeStatementUploaded, func(ctx context.Context, event events.Event) error {
				wg.Done()
				return nil
			})

			err := bus.Publish(ctx, events.NewStatementUploadedEvent("upload-1", "/tmp/upload-1.pdf", "march.pdf"))
			Expect(err).NotTo(HaveOccurred())
			wg.Wait()
		})
	})

	Describe("PublishSync", func() {
		It("should run handlers inline and stop at the first failure", func() {
			calls := 0
			bus.Subscribe(events.EventTypeExtractionFailed, func(ctx context.Context, event events.Event) error {
				calls++
				return errors.New("handler down")
			})
			bus.Subscribe(events.EventTypeExtractionFailed, func(ctx context.Context, event events.Event) error {
				calls++
				return nil
			})

			err := bus.PublishSync(ctx, events.NewExtractionFailedEvent("upload-1", "scanned"))
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))
		})

		It("should carry the typed payload through", func() {
			var got *events.StatementExtractedEvent
			bus.Subscribe(events.EventTypeStatementExtracted, func(ctx context.Context, event events.Event) error {
				got = event.(*events.StatementExtractedEvent)
				return nil
			})

			err := bus.PublishSync(ctx, events.NewStatementExtractedEvent("upload-1", 10, 2, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.UploadID).To(Equal("upload-1"))
			Expect(got.Total).To(Equal(10))
		})
	})
})
