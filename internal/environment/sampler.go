package environment

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/metrics"
)

// Steps are the full widths of the random walk applied per tick. Each
// sensor moves by (u-0.5)*step for u uniform in [0,1).
type Steps struct {
	Temperature  float64
	SoilMoisture float64
	Humidity     float64
	Light        float64
}

func DefaultSteps() Steps {
	return Steps{
		Temperature:  constants.TemperatureStep,
		SoilMoisture: constants.SoilStep,
		Humidity:     constants.HumidityStep,
		Light:        constants.LightStep,
	}
}

// SampleFunc receives each new reading together with the one before it.
type SampleFunc func(prev, cur Reading)

type Option func(*Sampler)

func WithInterval(d time.Duration) Option {
	return func(s *Sampler) { s.interval = d }
}

func WithSeed(seed uint64) Option {
	return func(s *Sampler) { s.rng = rand.New(rand.NewPCG(seed, seed)) }
}

func WithSteps(steps Steps) Option {
	return func(s *Sampler) { s.steps = steps }
}

func WithInitial(r Reading) Option {
	return func(s *Sampler) { s.current = r }
}

// OnSample registers a callback run on the sampler goroutine for every tick.
func OnSample(fn SampleFunc) Option {
	return func(s *Sampler) { s.onSample = fn }
}

// Sampler produces a random-walk reading every interval until stopped.
type Sampler struct {
	mu       sync.Mutex
	interval time.Duration
	steps    Steps
	rng      *rand.Rand
	current  Reading
	onSample SampleFunc

	readings chan Reading
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{
		interval: constants.SampleInterval,
		steps:    DefaultSteps(),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		current:  InitialReading(),
		readings: make(chan Reading, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sampler) Current() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Readings delivers the latest reading. Slow consumers miss intermediate
// samples rather than blocking the sampler.
func (s *Sampler) Readings() <-chan Reading {
	return s.readings
}

// Step advances the walk once and returns the previous and new readings.
func (s *Sampler) Step() (Reading, Reading) {
	s.mu.Lock()
	prev := s.current
	next := Reading{
		Temperature:  roundTo(prev.Temperature+s.delta(s.steps.Temperature), 1),
		SoilMoisture: clamp(roundTo(prev.SoilMoisture+s.delta(s.steps.SoilMoisture), 0), 0, 100),
		Humidity:     clamp(roundTo(prev.Humidity+s.delta(s.steps.Humidity), 0), 0, 100),
		Light:        math.Max(0, roundTo(prev.Light+s.delta(s.steps.Light), 0)),
	}
	s.current = next
	s.mu.Unlock()

	metrics.EnvironmentReadings.WithLabelValues("temperature").Set(next.Temperature)
	metrics.EnvironmentReadings.WithLabelValues("humidity").Set(next.Humidity)
	metrics.EnvironmentReadings.WithLabelValues("soil_moisture").Set(next.SoilMoisture)
	metrics.EnvironmentReadings.WithLabelValues("light").Set(next.Light)
	return prev, next
}

func (s *Sampler) delta(step float64) float64 {
	return (s.rng.Float64() - 0.5) * step
}

// Start launches the sampling goroutine. Calling Start on a running sampler
// is a no-op.
func (s *Sampler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	logger.Debug("Environment sampler started", "interval", s.interval)
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prev, cur := s.Step()
			if s.onSample != nil {
				s.onSample(prev, cur)
			}
			s.publish(cur)
		}
	}
}

func (s *Sampler) publish(r Reading) {
	// Drop a stale unread value so the channel always holds the newest one
	select {
	case <-s.readings:
	default:
	}
	select {
	case s.readings <- r:
	default:
	}
}

// Stop cancels the sampler and waits for its goroutine to exit. It is safe
// to call more than once, and on a sampler that was never started.
func (s *Sampler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Debug("Environment sampler stopped")
}

// Running reports whether Start has been called without a matching Stop.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
