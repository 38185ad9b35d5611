package simulator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/models"
)

func collect(t *testing.T, view PhaseView, props Props) []models.Step {
	t.Helper()
	var steps []models.Step
	if err := view.Run(context.Background(), props, func(s models.Step) { steps = append(steps, s) }); err != nil {
		t.Fatalf("%s: %v", view.Phase(), err)
	}
	return steps
}

func TestRadarView_ProgressAndRadius(t *testing.T) {
	steps := collect(t, NewRadarView(fastPacing(), func() int { return 12 }), Props{})

	if steps[0].Kind != models.StepOnlineDrivers || steps[0].Count != 12 {
		t.Fatalf("first step = %+v, want online driver count", steps[0])
	}

	lastProgress := 0.0
	lastRadius := 1.0
	progressSteps := 0
	for _, s := range steps[1:] {
		switch s.Kind {
		case models.StepProgress:
			if s.Progress < lastProgress || s.Progress > 100 {
				t.Fatalf("progress went from %v to %v", lastProgress, s.Progress)
			}
			lastProgress = s.Progress
			progressSteps++
		case models.StepRadius:
			if s.RadiusKm != lastRadius+0.5 || s.RadiusKm > 5 {
				t.Fatalf("radius went from %v to %v", lastRadius, s.RadiusKm)
			}
			lastRadius = s.RadiusKm
		default:
			t.Fatalf("unexpected step %s", s.Kind)
		}
	}
	if lastProgress != 100 {
		t.Errorf("progress ended at %v", lastProgress)
	}
	if progressSteps != 100 {
		t.Errorf("got %d progress steps, want 100", progressSteps)
	}
	if lastRadius != 5 {
		t.Errorf("radius ended at %v, want 5", lastRadius)
	}
}

func TestViews_StepOffsetsAreOrdered(t *testing.T) {
	driver := newTestFactory(nil, 2).FallbackDriver()
	props := Props{Driver: &driver, Estimate: factories.EstimateDeliveryWindow(time.Now(), driver.AverageDeliveryMinutes)}

	for _, view := range DefaultViews(fastPacing(), func() int { return 9 }) {
		steps := collect(t, view, props)
		if len(steps) == 0 {
			t.Errorf("%s emitted no steps", view.Phase())
		}
		for i := 1; i < len(steps); i++ {
			if steps[i].Offset < steps[i-1].Offset || steps[i].Index != i {
				t.Errorf("%s: step %d out of order", view.Phase(), i)
			}
		}
	}
}

func TestMatchView_Steps(t *testing.T) {
	driver := models.AssignedDriver{Name: "Ana Souza"}
	steps := collect(t, NewMatchView(fastPacing()), Props{Driver: &driver})

	want := []string{models.StepIcons, models.StepConnection, models.StepCheckmark, models.StepMessage}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i, kind := range want {
		if steps[i].Kind != kind {
			t.Errorf("step %d = %s, want %s", i, steps[i].Kind, kind)
		}
	}
	if !strings.Contains(steps[0].Label, "Ana") || strings.Contains(steps[0].Label, "Souza") {
		t.Errorf("icons label %q should use the first name only", steps[0].Label)
	}
}

func TestTimelineView_ShowsEstimate(t *testing.T) {
	driver := models.AssignedDriver{Name: "Bruno Lima", AverageDeliveryMinutes: 30}
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	props := Props{Driver: &driver, Estimate: factories.EstimateDeliveryWindow(now, 30)}

	steps := collect(t, NewTimelineView(fastPacing()), props)
	want := []string{models.StepOrderConfirmed, models.StepPreparing, models.StepDeparture, models.StepArrival}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i, kind := range want {
		if steps[i].Kind != kind {
			t.Errorf("step %d = %s, want %s", i, steps[i].Kind, kind)
		}
	}
	if !strings.Contains(steps[2].Label, "10:15") || !strings.Contains(steps[2].Label, "Bruno Lima") {
		t.Errorf("departure label = %q", steps[2].Label)
	}
	if !strings.Contains(steps[3].Label, "10:45") {
		t.Errorf("arrival label = %q", steps[3].Label)
	}
}

func TestPlay_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var sc script
	sc.add(0, models.Step{Kind: "a"})
	sc.add(time.Hour, models.Step{Kind: "b"})
	sc.done = 2 * time.Hour

	var got []string
	done := make(chan error, 1)
	go func() {
		done <- play(ctx, sc, func(s models.Step) { got = append(got, s.Kind) })
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("play did not stop after cancel")
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("emitted %v, want only the first step", got)
	}
}

func TestPlay_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sc script
	sc.add(0, models.Step{Kind: "a"})
	called := false
	err := play(ctx, sc, func(models.Step) { called = true })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}

func TestPacing_Scale(t *testing.T) {
	p := DefaultPacing()
	if p.Scale(1) != p || p.Scale(0) != p {
		t.Fatal("factor 1 and non-positive factors must leave pacing unchanged")
	}
	half := p.Scale(0.5)
	if half.RadarDuration != 2500*time.Millisecond || half.CardHold != 2*time.Second {
		t.Errorf("unexpected scaled pacing %+v", half)
	}
	if tiny := p.Scale(1e-9); tiny.RadarTick != time.Microsecond {
		t.Errorf("tick floor not applied: %v", tiny.RadarTick)
	}
	huge := p.Scale(1e10)
	if huge.RadarDuration != maxScaledDuration || huge.RadarTick != maxScaledDuration {
		t.Errorf("scaled durations not capped: %v, %v", huge.RadarDuration, huge.RadarTick)
	}
	if huge.CardHold <= 0 || huge.TimelineHold <= 0 {
		t.Errorf("scaled durations overflowed: %+v", huge)
	}
}
