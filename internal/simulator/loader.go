package simulator

import (
	"context"
	"sync"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// DriverLoader tracks the asynchronous driver generation of one session
// through idle, loading and ready. The first resolution wins; later ones are
// discarded.
type DriverLoader struct {
	mu       sync.Mutex
	state    string
	driver   models.AssignedDriver
	fallback bool
	ready    chan struct{}
}

func NewDriverLoader() *DriverLoader {
	return &DriverLoader{state: models.LoaderIdle, ready: make(chan struct{})}
}

// Start runs load in a new goroutine. Calling Start on a loader that is not
// idle does nothing.
func (l *DriverLoader) Start(ctx context.Context, load func(context.Context) (models.AssignedDriver, bool)) {
	l.mu.Lock()
	if l.state != models.LoaderIdle {
		l.mu.Unlock()
		return
	}
	l.state = models.LoaderLoading
	l.mu.Unlock()

	go func() {
		driver, fallback := load(ctx)
		l.Resolve(driver, fallback)
	}()
}

// Resolve moves the loader to ready. It reports false if it already was.
func (l *DriverLoader) Resolve(driver models.AssignedDriver, fallback bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == models.LoaderReady {
		return false
	}
	l.state = models.LoaderReady
	l.driver = driver
	l.fallback = fallback
	close(l.ready)
	return true
}

func (l *DriverLoader) State() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ready is closed once the loader holds a driver.
func (l *DriverLoader) Ready() <-chan struct{} {
	return l.ready
}

// Result returns the driver, whether it came from the fallback catalog, and
// whether the loader is ready at all.
func (l *DriverLoader) Result() (models.AssignedDriver, bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.driver, l.fallback, l.state == models.LoaderReady
}
