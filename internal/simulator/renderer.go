package simulator

import (
	"fmt"
	"io"
	"sync"

	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/schollz/progressbar/v3"
)

// ConsoleRenderer draws a session on a terminal. The search phase is shown as
// a progress bar when showProgress is set; every other step is one line.
type ConsoleRenderer struct {
	mu           sync.Mutex
	w            io.Writer
	showProgress bool
	bar          *progressbar.ProgressBar
}

func NewConsoleRenderer(w io.Writer, showProgress bool) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, showProgress: showProgress}
}

// Observe is an Observer.
func (r *ConsoleRenderer) Observe(ev models.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case models.EventLoading:
		fmt.Fprintln(r.w, "Loading courier details...")
	case models.EventPhaseStarted:
		if ev.Phase == models.PhaseSearching {
			fmt.Fprintln(r.w, "Searching for an available courier...")
		}
	case models.EventStep:
		r.step(ev.Step)
	case models.EventPhaseCompleted:
		if ev.Phase == models.PhaseSearching && r.bar != nil {
			r.bar.Finish()
			r.bar = nil
			fmt.Fprintln(r.w)
		}
	case models.EventCompleted:
		if ev.Driver != nil && ev.Estimate != nil {
			fmt.Fprintf(r.w, "%s (%s) is on the way. Departure %s, arrival %s.\n",
				ev.Driver.Name, ev.Driver.Initials(), ev.Estimate.DepartureLabel(), ev.Estimate.ArrivalLabel())
		}
	}
}

func (r *ConsoleRenderer) step(step *models.Step) {
	if step == nil {
		return
	}
	switch step.Kind {
	case models.StepProgress:
		if !r.showProgress {
			return
		}
		if r.bar == nil {
			r.bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(r.w),
				progressbar.OptionSetDescription(step.Label),
				progressbar.OptionSetWidth(30),
				progressbar.OptionSetPredictTime(false),
			)
		}
		r.bar.Set(int(step.Progress))
	case models.StepRadius:
		if r.bar != nil {
			r.bar.Describe(fmt.Sprintf("Searching within %.1f km", step.RadiusKm))
			return
		}
		if !r.showProgress {
			fmt.Fprintf(r.w, "Search radius %.1f km\n", step.RadiusKm)
		}
	case models.StepConnection, models.StepCheckmark:
	default:
		if step.Label != "" {
			fmt.Fprintln(r.w, step.Label)
		}
	}
}
