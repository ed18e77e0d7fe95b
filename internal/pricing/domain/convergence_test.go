package domain

import (
	"math"
	"testing"
)

func convergenceSample(t *testing.T, n int) (*PayoffSample, SimulationConfig) {
	t.Helper()
	cfg := DefaultSimulationConfig()
	cfg.Drift = cfg.RiskFreeRate
	cfg.NumSimulations = n
	cfg.NumSteps = 50

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return EvaluatePayoffs(sim.Simulate().TerminalPrices(), cfg.Strike), cfg
}

func TestTrackSchedule(t *testing.T) {
	sample, cfg := convergenceSample(t, 10000)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	tracker := NewConvergenceTracker(pricer, 100, 20)

	points := tracker.Track(sample)
	if len(points) < 2 {
		t.Fatalf("got %d points, want at least 2", len(points))
	}
	if points[0].SampleSize != 100 {
		t.Errorf("first checkpoint = %d, want 100", points[0].SampleSize)
	}
	if last := points[len(points)-1].SampleSize; last != sample.Size() {
		t.Errorf("last checkpoint = %d, want %d", last, sample.Size())
	}
	for i := 1; i < len(points); i++ {
		if points[i].SampleSize <= points[i-1].SampleSize {
			t.Errorf("checkpoints not strictly increasing at %d: %d <= %d",
				i, points[i].SampleSize, points[i-1].SampleSize)
		}
	}
}

func TestTrackFinalPointMatchesFullSample(t *testing.T) {
	sample, cfg := convergenceSample(t, 5000)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	tracker := NewConvergenceTracker(pricer, 100, 15)

	points := tracker.Track(sample)
	last := points[len(points)-1]

	call, put := pricer.Price(sample)
	if last.CallPrice != call.Price || last.CallStdErr != call.StandardError {
		t.Errorf("final call point = (%v, %v), full sample = (%v, %v)",
			last.CallPrice, last.CallStdErr, call.Price, call.StandardError)
	}
	if last.PutPrice != put.Price || last.PutStdErr != put.StandardError {
		t.Errorf("final put point = (%v, %v), full sample = (%v, %v)",
			last.PutPrice, last.PutStdErr, put.Price, put.StandardError)
	}
}

func TestTrackConvergesToAnalytic(t *testing.T) {
	sample, cfg := convergenceSample(t, 20000)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	tracker := NewConvergenceTracker(pricer, 100, 20)

	points := tracker.Track(sample)
	last := points[len(points)-1]

	bsCall, _, err := NewBlackScholesModel().Price(
		cfg.InitialPrice, cfg.Strike, cfg.RiskFreeRate, cfg.Volatility, cfg.TimeHorizon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := math.Abs(last.CallPrice - bsCall); diff > 5*last.CallStdErr {
		t.Errorf("final estimate off by %v, std err %v", diff, last.CallStdErr)
	}

	// 标准误按 1/sqrt(n) 收缩，末点应小于首点
	if points[0].CallStdErr <= last.CallStdErr {
		t.Errorf("std err did not shrink: first=%v last=%v", points[0].CallStdErr, last.CallStdErr)
	}
}

func TestTrackSmallSample(t *testing.T) {
	// 样本量低于最小检查点时退化为单点序列
	sample, cfg := convergenceSample(t, 50)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	tracker := NewConvergenceTracker(pricer, 100, 20)

	points := tracker.Track(sample)
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	if points[0].SampleSize != 50 {
		t.Errorf("checkpoint = %d, want 50", points[0].SampleSize)
	}
}
