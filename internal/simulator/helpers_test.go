package simulator

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/models"
)

func fastPacing() Pacing {
	return DefaultPacing().Scale(0.001)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFactory(photos factories.PhotoSource, seed int64) *factories.DriverFactory {
	return factories.NewDriverFactory(photos, factories.NewRand(seed), 0, discardLogger())
}

// blockingPhotos holds ListActive until release is closed or ctx ends.
type blockingPhotos struct {
	release chan struct{}
	once    sync.Once
	photos  []models.DriverPhoto
}

func newBlockingPhotos(photos ...models.DriverPhoto) *blockingPhotos {
	return &blockingPhotos{release: make(chan struct{}), photos: photos}
}

func (b *blockingPhotos) Release() {
	b.once.Do(func() { close(b.release) })
}

func (b *blockingPhotos) ListActive(ctx context.Context) ([]models.DriverPhoto, error) {
	select {
	case <-b.release:
		return b.photos, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// recorder collects session events; safe to read after Run returns.
type recorder struct {
	mu     sync.Mutex
	events []models.SessionEvent
}

func (r *recorder) Observe(ev models.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Events() []models.SessionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.SessionEvent(nil), r.events...)
}

func (r *recorder) Kinds(kind string) []models.SessionEvent {
	var out []models.SessionEvent
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

type memoryOutput struct {
	mu       sync.Mutex
	messages map[string][][]byte
	closed   bool
}

func newMemoryOutput() *memoryOutput {
	return &memoryOutput{messages: make(map[string][][]byte)}
}

func (m *memoryOutput) WriteMessage(topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[topic] = append(m.messages[topic], append([]byte(nil), msg...))
	return nil
}

func (m *memoryOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memoryOutput) Topic(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[topic]
}
