package factories

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/chrisdamba/couriermatch/internal/models"
)

// PhotoSource is the read side of the driver photo catalog.
type PhotoSource interface {
	ListActive(ctx context.Context) ([]models.DriverPhoto, error)
}

// DriverFactory builds synthetic assigned drivers. It is safe for concurrent use.
type DriverFactory struct {
	photos       PhotoSource
	fetchTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDriverFactory returns a factory drawing from rng. photos may be nil, in
// which case every driver comes from the fallback catalog.
func NewDriverFactory(photos PhotoSource, rng *rand.Rand, fetchTimeout time.Duration, logger *slog.Logger) *DriverFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DriverFactory{
		photos:       photos,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          time.Now,
		rng:          rng,
	}
}

// NewRand returns a random source for seed; zero seeds from the wall clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// WithClock overrides the time source used for estimates.
func (f *DriverFactory) WithClock(now func() time.Time) {
	f.now = now
}

// GenerateAssignedDriver never fails: store errors are logged and the
// fallback catalog is used instead. The boolean reports whether it was.
func (f *DriverFactory) GenerateAssignedDriver(ctx context.Context, regionHint string) (models.AssignedDriver, bool) {
	photos := f.fetchPhotos(ctx, regionHint)

	f.mu.Lock()
	defer f.mu.Unlock()

	var name, photo string
	fallback := len(photos) == 0
	if fallback {
		name, photo = f.fallbackIdentity()
	} else {
		selected := photos[f.rng.Intn(len(photos))]
		name, photo = selected.Name, selected.PhotoURL
	}
	return f.populate(name, photo), fallback
}

// FallbackDriver builds a driver from the bundled catalog without touching the store.
func (f *DriverFactory) FallbackDriver() models.AssignedDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, photo := f.fallbackIdentity()
	return f.populate(name, photo)
}

// OnlineDriverCount returns a count in [8, 20).
func (f *DriverFactory) OnlineDriverCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return 8 + f.rng.Intn(12)
}

// EstimateDeliveryWindow is EstimateDeliveryWindow evaluated at the factory's clock.
func (f *DriverFactory) EstimateDeliveryWindow(averageMinutes int) models.DeliveryTimeEstimate {
	return EstimateDeliveryWindow(f.now(), averageMinutes)
}

// maxEstimateMinutes is the largest minute count whose window still fits in a
// time.Duration.
const maxEstimateMinutes = math.MaxInt64/int64(time.Minute) - models.DepartureLeadMinutes

// EstimateDeliveryWindow puts departure 15 minutes after now and arrival
// averageMinutes after departure. Negative minutes are treated as zero and
// counts beyond what a time.Duration can hold are clamped.
func EstimateDeliveryWindow(now time.Time, averageMinutes int) models.DeliveryTimeEstimate {
	if averageMinutes < 0 {
		averageMinutes = 0
	}
	if limit := int64(maxEstimateMinutes); int64(averageMinutes) > limit {
		averageMinutes = int(limit)
	}
	departure := now.Add(models.DepartureLeadMinutes * time.Minute)
	return models.DeliveryTimeEstimate{
		CreatedAt:     now,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(time.Duration(averageMinutes) * time.Minute),
	}
}

func (f *DriverFactory) fetchPhotos(ctx context.Context, regionHint string) []models.DriverPhoto {
	if f.photos == nil {
		return nil
	}
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	photos, err := f.photos.ListActive(ctx)
	if err != nil {
		f.logger.Warn("failed to fetch driver photos, using fallback catalog",
			"region", regionHint, "error", err)
		return nil
	}

	valid := photos[:0:0]
	for _, p := range photos {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.PhotoURL) == "" {
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) < len(photos) {
		f.logger.Debug("skipped malformed driver photos", "skipped", len(photos)-len(valid))
	}
	return valid
}

// fallbackIdentity must be called with f.mu held.
func (f *DriverFactory) fallbackIdentity() (string, string) {
	i := f.rng.Intn(len(models.FallbackDriverPhotos))
	return models.FallbackDriverNames[i], models.FallbackDriverPhotos[i]
}

// populate must be called with f.mu held.
func (f *DriverFactory) populate(name, photo string) models.AssignedDriver {
	return models.AssignedDriver{
		Name:                   name,
		PhotoURL:               photo,
		Rating:                 math.Round((4.5+f.rng.Float64()*0.5)*10) / 10,
		CompletedDeliveries:    800 + f.rng.Intn(1500),
		VehicleDescription:     models.Vehicles[f.rng.Intn(len(models.Vehicles))],
		DistanceKm:             math.Floor((0.5+f.rng.Float64()*2.5)*10) / 10,
		CurrentLocationLabel:   models.LocationLabels[f.rng.Intn(len(models.LocationLabels))],
		AverageDeliveryMinutes: 25 + f.rng.Intn(20),
	}
}
