package environment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/smartgrow/internal/models"
)

func temps(vals ...float64) []Reading {
	out := make([]Reading, len(vals))
	for i, v := range vals {
		out[i] = Reading{Temperature: v, SoilMoisture: 50}
	}
	return out
}

func TestEvaluator_HeatFiresOncePerCrossing(t *testing.T) {
	e := NewEvaluator()
	var fired []models.AlertDraft
	for _, r := range temps(30, 32, 33, 30, 29) {
		fired = append(fired, e.Evaluate(r)...)
	}

	if len(fired) != 1 {
		t.Fatalf("expected exactly one alert, got %d: %+v", len(fired), fired)
	}
	if fired[0].Title != TitleHeat {
		t.Errorf("expected %q, got %q", TitleHeat, fired[0].Title)
	}
	if fired[0].Message != "Temperature reached 32°C. Ensure your plants have shade." {
		t.Errorf("unexpected message %q", fired[0].Message)
	}
	if fired[0].Severity != models.AlertWarning {
		t.Errorf("expected warning, got %q", fired[0].Severity)
	}
}

func TestCrossings(t *testing.T) {
	tests := []struct {
		name   string
		prev   Reading
		cur    Reading
		titles []string
	}{
		{"boundary is not a crossing", Reading{Temperature: 30, SoilMoisture: 40}, Reading{Temperature: 31, SoilMoisture: 40}, nil},
		{"heat", Reading{Temperature: 31, SoilMoisture: 40}, Reading{Temperature: 31.2, SoilMoisture: 40}, []string{TitleHeat}},
		{"cooling", Reading{Temperature: 22, SoilMoisture: 40}, Reading{Temperature: 21.8, SoilMoisture: 40}, []string{TitleCooling}},
		{"still cold", Reading{Temperature: 21, SoilMoisture: 40}, Reading{Temperature: 20, SoilMoisture: 40}, nil},
		{"thirsty", Reading{Temperature: 25, SoilMoisture: 30}, Reading{Temperature: 25, SoilMoisture: 29}, []string{TitleThirsty}},
		{"heat and thirsty", Reading{Temperature: 30, SoilMoisture: 31}, Reading{Temperature: 32, SoilMoisture: 28}, []string{TitleHeat, TitleThirsty}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Crossings(tt.prev, tt.cur)
			if len(got) != len(tt.titles) {
				t.Fatalf("expected %d alerts, got %+v", len(tt.titles), got)
			}
			for i, title := range tt.titles {
				if got[i].Title != title {
					t.Errorf("alert %d: expected %q, got %q", i, title, got[i].Title)
				}
			}
		})
	}
}

func TestCrossingMessages(t *testing.T) {
	cool := Crossings(Reading{Temperature: 22, SoilMoisture: 50}, Reading{Temperature: 21.9, SoilMoisture: 50})
	if cool[0].Message != "It's getting chilly (21.9°C). Monitor tropical plants." {
		t.Errorf("unexpected message %q", cool[0].Message)
	}
	if cool[0].Severity != models.AlertInfo {
		t.Errorf("expected info, got %q", cool[0].Severity)
	}
	dry := Crossings(Reading{Temperature: 25, SoilMoisture: 30}, Reading{Temperature: 25, SoilMoisture: 29})
	if dry[0].Message != "Soil moisture dropped to 29%. Consider watering." {
		t.Errorf("unexpected message %q", dry[0].Message)
	}
}

func TestPrimedEvaluator(t *testing.T) {
	e := NewPrimedEvaluator(Reading{Temperature: 30, SoilMoisture: 50})
	if got := e.Evaluate(Reading{Temperature: 32, SoilMoisture: 50}); len(got) != 1 {
		t.Errorf("expected primed evaluator to fire on first reading, got %+v", got)
	}
}

func TestSamplerStep(t *testing.T) {
	s := NewSampler(WithSeed(7))
	for i := 0; i < 500; i++ {
		prev, cur := s.Step()
		if d := cur.Temperature - prev.Temperature; d > 0.25 || d < -0.25 {
			t.Fatalf("temperature moved too far: %v -> %v", prev.Temperature, cur.Temperature)
		}
		if cur.Temperature != roundTo(cur.Temperature, 1) {
			t.Fatalf("temperature not rounded to 0.1: %v", cur.Temperature)
		}
		if cur.SoilMoisture < 0 || cur.SoilMoisture > 100 || cur.Humidity < 0 || cur.Humidity > 100 {
			t.Fatalf("reading out of range: %+v", cur)
		}
		if cur.Light < 0 {
			t.Fatalf("negative light: %v", cur.Light)
		}
	}
}

func TestSamplerClamps(t *testing.T) {
	s := NewSampler(
		WithSeed(1),
		WithInitial(Reading{Temperature: 25, Humidity: 100, SoilMoisture: 0, Light: 0}),
		WithSteps(Steps{Temperature: 0, SoilMoisture: 50, Humidity: 50, Light: 500}),
	)
	for i := 0; i < 50; i++ {
		_, cur := s.Step()
		if cur.Humidity > 100 || cur.SoilMoisture < 0 || cur.Light < 0 {
			t.Fatalf("clamp violated: %+v", cur)
		}
	}
}

func TestSamplerDeterministicWithSeed(t *testing.T) {
	a := NewSampler(WithSeed(42))
	b := NewSampler(WithSeed(42))
	for i := 0; i < 10; i++ {
		_, ra := a.Step()
		_, rb := b.Step()
		if ra != rb {
			t.Fatalf("step %d differs: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestSamplerStartStop(t *testing.T) {
	var mu sync.Mutex
	ticks := 0
	s := NewSampler(
		WithSeed(3),
		WithInterval(5*time.Millisecond),
		OnSample(func(prev, cur Reading) {
			mu.Lock()
			ticks++
			mu.Unlock()
		}),
	)

	s.Start(context.Background())
	s.Start(context.Background())
	if !s.Running() {
		t.Fatal("expected sampler to be running")
	}

	select {
	case <-s.Readings():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reading")
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Error("expected sampler to be stopped")
	}

	mu.Lock()
	after := ticks
	mu.Unlock()
	if after == 0 {
		t.Error("expected at least one tick")
	}
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if ticks != after {
		t.Errorf("sampler kept ticking after Stop: %d -> %d", after, ticks)
	}
}

func TestSamplerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSampler(WithInterval(time.Millisecond))
	s.Start(ctx)
	cancel()
	// Stop still waits for the goroutine and clears state
	s.Stop()
	if s.Running() {
		t.Error("expected sampler to be stopped")
	}
}

func TestStopWithoutStart(t *testing.T) {
	NewSampler().Stop()
}
