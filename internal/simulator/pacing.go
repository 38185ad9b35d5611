package simulator

import "time"

const maxScaledDuration = 24 * time.Hour

// Pacing holds the animation timings of every phase view.
type Pacing struct {
	RadarDuration   time.Duration // time for the progress bar to reach 100%
	RadarTick       time.Duration
	RadarRadiusTick time.Duration
	RadarSettle     time.Duration // pause after 100% before completing

	CardReveal time.Duration
	CardHold   time.Duration

	MatchIcons      time.Duration
	MatchConnection time.Duration
	MatchCheckmark  time.Duration
	MatchMessage    time.Duration
	MatchHold       time.Duration

	TimelineFirst time.Duration
	TimelineGap   time.Duration
	TimelineHold  time.Duration // reading time after the last step
}

func DefaultPacing() Pacing {
	return Pacing{
		RadarDuration:   5000 * time.Millisecond,
		RadarTick:       50 * time.Millisecond,
		RadarRadiusTick: 500 * time.Millisecond,
		RadarSettle:     300 * time.Millisecond,

		CardReveal: 100 * time.Millisecond,
		CardHold:   4000 * time.Millisecond,

		MatchIcons:      300 * time.Millisecond,
		MatchConnection: 800 * time.Millisecond,
		MatchCheckmark:  1400 * time.Millisecond,
		MatchMessage:    2000 * time.Millisecond,
		MatchHold:       3000 * time.Millisecond,

		TimelineFirst: 300 * time.Millisecond,
		TimelineGap:   400 * time.Millisecond,
		TimelineHold:  1200 * time.Millisecond,
	}
}

// Scale multiplies every duration by factor. Tick intervals never drop
// below a microsecond and no duration grows past maxScaledDuration.
func (p Pacing) Scale(factor float64) Pacing {
	if factor == 1 || !(factor > 0) {
		return p
	}
	s := func(d time.Duration) time.Duration {
		if v := float64(d) * factor; v < float64(maxScaledDuration) {
			return time.Duration(v)
		}
		return maxScaledDuration
	}
	tick := func(d time.Duration) time.Duration {
		if v := s(d); v >= time.Microsecond {
			return v
		}
		return time.Microsecond
	}
	return Pacing{
		RadarDuration:   s(p.RadarDuration),
		RadarTick:       tick(p.RadarTick),
		RadarRadiusTick: tick(p.RadarRadiusTick),
		RadarSettle:     s(p.RadarSettle),

		CardReveal: s(p.CardReveal),
		CardHold:   s(p.CardHold),

		MatchIcons:      s(p.MatchIcons),
		MatchConnection: s(p.MatchConnection),
		MatchCheckmark:  s(p.MatchCheckmark),
		MatchMessage:    s(p.MatchMessage),
		MatchHold:       s(p.MatchHold),

		TimelineFirst: s(p.TimelineFirst),
		TimelineGap:   s(p.TimelineGap),
		TimelineHold:  s(p.TimelineHold),
	}
}
