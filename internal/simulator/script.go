package simulator

import (
	"context"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// script is a view's timeline: steps at offsets from mount and the offset at
// which the view reports completion.
type script struct {
	steps []models.Step
	done  time.Duration
}

func (sc *script) add(offset time.Duration, step models.Step) {
	step.Offset = offset
	step.Index = len(sc.steps)
	sc.steps = append(sc.steps, step)
}

// play schedules the script's steps on an event queue and fires them from a
// single timer. It returns nil once the completion offset has elapsed, or
// ctx.Err() if ctx is cancelled first. Once play returns, emit is never
// called again.
func play(ctx context.Context, sc script, emit func(models.Step)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	queue := models.NewEventQueue()
	for _, step := range sc.steps {
		queue.Schedule(start.Add(step.Offset), step)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	wait := func(at time.Time) error {
		d := time.Until(at)
		if d <= 0 {
			return ctx.Err()
		}
		timer.Reset(d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return ctx.Err()
		}
	}

	for event := queue.Dequeue(); event != nil; event = queue.Dequeue() {
		if err := wait(event.Time); err != nil {
			queue.Clear()
			return err
		}
		if emit != nil {
			emit(event.Step)
		}
	}
	return wait(start.Add(sc.done))
}
