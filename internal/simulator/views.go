package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// Props is what a view receives when it is mounted.
type Props struct {
	Driver   *models.AssignedDriver
	Estimate models.DeliveryTimeEstimate
}

// PhaseView owns the timers of one phase. Run returns nil when the phase
// completes and ctx.Err() when the view is torn down early; after Run
// returns no step is emitted.
type PhaseView interface {
	Phase() models.Phase
	Run(ctx context.Context, props Props, emit func(models.Step)) error
}

// RadarView animates the search: a progress bar, a growing search radius and
// the count of couriers online.
type RadarView struct {
	pacing        Pacing
	onlineDrivers func() int
}

func NewRadarView(pacing Pacing, onlineDrivers func() int) *RadarView {
	return &RadarView{pacing: pacing, onlineDrivers: onlineDrivers}
}

func (v *RadarView) Phase() models.Phase { return models.PhaseSearching }

func (v *RadarView) Run(ctx context.Context, _ Props, emit func(models.Step)) error {
	return play(ctx, v.script(), emit)
}

func (v *RadarView) script() script {
	p := v.pacing
	var sc script

	online := 0
	if v.onlineDrivers != nil {
		online = v.onlineDrivers()
	}
	sc.add(0, models.Step{
		Kind:  models.StepOnlineDrivers,
		Count: online,
		Label: fmt.Sprintf("%d couriers online nearby", online),
	})

	ticks := int(p.RadarDuration / p.RadarTick)
	if ticks < 1 {
		ticks = 1
	}
	radius := 1.0
	nextRadius := p.RadarRadiusTick
	for i := 1; i <= ticks; i++ {
		at := time.Duration(i) * p.RadarTick
		for nextRadius <= at && radius < 5 {
			radius += 0.5
			sc.add(nextRadius, models.Step{Kind: models.StepRadius, RadiusKm: radius})
			nextRadius += p.RadarRadiusTick
		}
		sc.add(at, models.Step{
			Kind:     models.StepProgress,
			Progress: float64(i) * 100 / float64(ticks),
			Label:    "Analysing availability...",
		})
	}
	sc.done = time.Duration(ticks)*p.RadarTick + p.RadarSettle
	return sc
}

// DriverCardView reveals the assigned driver and holds it on screen.
type DriverCardView struct {
	pacing Pacing
}

func NewDriverCardView(pacing Pacing) *DriverCardView {
	return &DriverCardView{pacing: pacing}
}

func (v *DriverCardView) Phase() models.Phase { return models.PhaseFound }

func (v *DriverCardView) Run(ctx context.Context, props Props, emit func(models.Step)) error {
	var sc script
	label := "Courier found!"
	if props.Driver != nil {
		d := props.Driver
		label = fmt.Sprintf("Courier found: %s (%.1f★, %d deliveries, %s, %.1f km away at %s, ~%d min)",
			d.Name, d.Rating, d.CompletedDeliveries, d.VehicleDescription, d.DistanceKm,
			d.CurrentLocationLabel, d.AverageDeliveryMinutes)
	}
	sc.add(v.pacing.CardReveal, models.Step{Kind: models.StepReveal, Label: label})
	sc.done = v.pacing.CardHold
	return play(ctx, sc, emit)
}

// MatchView plays the customer/courier connection animation.
type MatchView struct {
	pacing Pacing
}

func NewMatchView(pacing Pacing) *MatchView {
	return &MatchView{pacing: pacing}
}

func (v *MatchView) Phase() models.Phase { return models.PhaseMatched }

func (v *MatchView) Run(ctx context.Context, props Props, emit func(models.Step)) error {
	p := v.pacing
	first := ""
	if props.Driver != nil {
		first = firstName(props.Driver.Name)
	}

	var sc script
	sc.add(p.MatchIcons, models.Step{Kind: models.StepIcons, Label: "You ↔ " + first})
	sc.add(p.MatchConnection, models.Step{Kind: models.StepConnection})
	sc.add(p.MatchCheckmark, models.Step{Kind: models.StepCheckmark})
	sc.add(p.MatchMessage, models.Step{Kind: models.StepMessage, Label: "Match confirmed!"})
	sc.done = p.MatchHold
	return play(ctx, sc, emit)
}

// TimelineView reveals the delivery timeline one step at a time.
type TimelineView struct {
	pacing Pacing
}

func NewTimelineView(pacing Pacing) *TimelineView {
	return &TimelineView{pacing: pacing}
}

func (v *TimelineView) Phase() models.Phase { return models.PhaseTimelineShown }

func (v *TimelineView) Run(ctx context.Context, props Props, emit func(models.Step)) error {
	p := v.pacing
	name := "Your courier"
	if props.Driver != nil {
		name = props.Driver.Name
	}

	steps := []models.Step{
		{Kind: models.StepOrderConfirmed, Label: "Order confirmed: we received your order"},
		{Kind: models.StepPreparing, Label: "Preparing: the kitchen is working on your order"},
		{Kind: models.StepDeparture, Label: fmt.Sprintf("Expected departure %s: %s will pick it up", props.Estimate.DepartureLabel(), name)},
		{Kind: models.StepArrival, Label: fmt.Sprintf("Estimated delivery %s: at your address", props.Estimate.ArrivalLabel())},
	}

	var sc script
	for i, step := range steps {
		sc.add(p.TimelineFirst+time.Duration(i)*p.TimelineGap, step)
	}
	sc.done = p.TimelineFirst + time.Duration(len(steps))*p.TimelineGap + p.TimelineHold
	return play(ctx, sc, emit)
}

// DefaultViews returns the four phase views in session order.
func DefaultViews(pacing Pacing, onlineDrivers func() int) []PhaseView {
	return []PhaseView{
		NewRadarView(pacing, onlineDrivers),
		NewDriverCardView(pacing),
		NewMatchView(pacing),
		NewTimelineView(pacing),
	}
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
