package simulator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/lucsky/cuid"
)

// Observer receives every event of a running session, in order, on the
// sequencer's goroutine.
type Observer func(models.SessionEvent)

// Sequencer drives one driver search session through the phase views.
type Sequencer struct {
	factory     *factories.DriverFactory
	views       []PhaseView
	output      OutputDestination
	loadTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Sequencer)

func WithOutput(output OutputDestination) Option {
	return func(s *Sequencer) { s.output = output }
}

// WithLoadTimeout bounds how long the sequencer waits for driver data after
// the search animation. Zero waits indefinitely.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Sequencer) { s.loadTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) { s.logger = logger }
}

func WithViews(views ...PhaseView) Option {
	return func(s *Sequencer) { s.views = views }
}

func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) { s.now = now }
}

func NewSequencer(factory *factories.DriverFactory, pacing Pacing, opts ...Option) *Sequencer {
	s := &Sequencer{
		factory: factory,
		views:   DefaultViews(pacing, factory.OnlineDriverCount),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays every phase once, in order, and returns the assignment. The
// driver is generated concurrently with the search animation; phases after
// searching wait for it. Cancelling ctx stops the session without emitting
// further events.
func (s *Sequencer) Run(ctx context.Context, regionHint string, observe Observer) (*models.Assignment, error) {
	sessionID := cuid.New()
	logger := s.logger.With("session_id", sessionID, "region", regionHint)
	emit := func(ev models.SessionEvent) {
		ev.SessionID = sessionID
		ev.Time = s.now()
		if observe != nil {
			observe(ev)
		}
	}

	loadCtx, cancelLoad := context.WithCancel(ctx)
	defer cancelLoad()
	loader := NewDriverLoader()
	loader.Start(loadCtx, func(ctx context.Context) (models.AssignedDriver, bool) {
		return s.factory.GenerateAssignedDriver(ctx, regionHint)
	})
	logger.Debug("session started")

	var (
		driver   *models.AssignedDriver
		fallback bool
		estimate models.DeliveryTimeEstimate
	)
	for _, view := range s.views {
		phase := view.Phase()
		if phase != models.PhaseSearching && driver == nil {
			d, fb, err := s.awaitDriver(ctx, loader, phase, emit, logger)
			if err != nil {
				return nil, err
			}
			driver, fallback = &d, fb
		}

		started := models.SessionEvent{Kind: models.EventPhaseStarted, Phase: phase, Driver: driver}
		if phase == models.PhaseTimelineShown {
			estimate = s.factory.EstimateDeliveryWindow(driver.AverageDeliveryMinutes)
			started.Estimate = &estimate
		}
		emit(started)
		s.publishPhase(sessionID, regionHint, models.EventPhaseStarted, phase, logger)

		err := view.Run(ctx, Props{Driver: driver, Estimate: estimate}, func(step models.Step) {
			emit(models.SessionEvent{Kind: models.EventStep, Phase: phase, Step: &step})
		})
		if err != nil {
			logger.Info("session aborted", "phase", phase, "error", err)
			return nil, err
		}

		emit(models.SessionEvent{Kind: models.EventPhaseCompleted, Phase: phase})
		s.publishPhase(sessionID, regionHint, models.EventPhaseCompleted, phase, logger)
	}

	if driver == nil {
		// only reachable when no view follows searching
		d, fb, err := s.awaitDriver(ctx, loader, models.PhaseComplete, emit, logger)
		if err != nil {
			return nil, err
		}
		driver, fallback = &d, fb
		estimate = s.factory.EstimateDeliveryWindow(driver.AverageDeliveryMinutes)
	}

	assignment := &models.Assignment{
		SessionID:  sessionID,
		RegionHint: regionHint,
		Driver:     *driver,
		Estimate:   estimate,
		Fallback:   fallback,
		AssignedAt: s.now().UTC(),
	}
	emit(models.SessionEvent{Kind: models.EventCompleted, Phase: models.PhaseComplete, Driver: driver, Estimate: &estimate})
	s.publish(models.TopicDriverAssignments, assignment, logger)
	logger.Info("session completed", "driver", driver.Name, "fallback", fallback)
	return assignment, nil
}

func (s *Sequencer) awaitDriver(ctx context.Context, loader *DriverLoader, next models.Phase, emit func(models.SessionEvent), logger *slog.Logger) (models.AssignedDriver, bool, error) {
	select {
	case <-loader.Ready():
	default:
		emit(models.SessionEvent{Kind: models.EventLoading, Phase: next})

		var timeout <-chan time.Time
		if s.loadTimeout > 0 {
			timer := time.NewTimer(s.loadTimeout)
			defer timer.Stop()
			timeout = timer.C
		}

		select {
		case <-loader.Ready():
		case <-ctx.Done():
			return models.AssignedDriver{}, false, ctx.Err()
		case <-timeout:
			logger.Warn("driver data not ready in time, using fallback catalog", "timeout", s.loadTimeout)
			loader.Resolve(s.factory.FallbackDriver(), true)
		}
	}

	driver, fallback, _ := loader.Result()
	return driver, fallback, nil
}

type phaseMessage struct {
	SessionID string       `json:"session_id"`
	Region    string       `json:"region"`
	Kind      string       `json:"kind"`
	Phase     models.Phase `json:"phase"`
	Timestamp int64        `json:"timestamp"`
}

func (s *Sequencer) publishPhase(sessionID, region, kind string, phase models.Phase, logger *slog.Logger) {
	s.publish(models.TopicPhaseEvents, phaseMessage{
		SessionID: sessionID,
		Region:    region,
		Kind:      kind,
		Phase:     phase,
		Timestamp: s.now().Unix(),
	}, logger)
}

// publish never fails the session: output errors are logged and dropped.
func (s *Sequencer) publish(topic string, payload interface{}, logger *slog.Logger) {
	if s.output == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to serialize message", "topic", topic, "error", err)
		return
	}
	if err := s.output.WriteMessage(topic, msg); err != nil {
		logger.Warn("failed to write message", "topic", topic, "error", err)
	}
}
