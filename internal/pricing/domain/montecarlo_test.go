package domain

import (
	"math"
	"testing"
)

func TestEvaluatePayoffs(t *testing.T) {
	terminal := []float64{90, 105, 120}
	sample := EvaluatePayoffs(terminal, 105)

	if sample.Size() != 3 {
		t.Fatalf("size = %d, want 3", sample.Size())
	}
	wantCalls := []float64{0, 0, 15}
	wantPuts := []float64{15, 0, 0}
	for i := range terminal {
		if sample.Calls[i] != wantCalls[i] {
			t.Errorf("call payoff[%d] = %v, want %v", i, sample.Calls[i], wantCalls[i])
		}
		if sample.Puts[i] != wantPuts[i] {
			t.Errorf("put payoff[%d] = %v, want %v", i, sample.Puts[i], wantPuts[i])
		}
		if sample.Calls[i] < 0 || sample.Puts[i] < 0 {
			t.Errorf("payoff[%d] negative", i)
		}
	}
}

func TestEstimateKnownSample(t *testing.T) {
	// r=0 时无折现，均值与标准误可手算
	pricer := NewMonteCarloPricer(0, 1)
	est := pricer.Estimate([]float64{1, 2, 3})

	if !almostEqual(est.Price, 2, 1e-12) {
		t.Errorf("price = %v, want 2", est.Price)
	}
	if !almostEqual(est.StandardError, 1/math.Sqrt(3), 1e-12) {
		t.Errorf("std err = %v, want %v", est.StandardError, 1/math.Sqrt(3))
	}
	if est.SampleSize != 3 {
		t.Errorf("sample size = %d, want 3", est.SampleSize)
	}
}

func TestEstimateDiscounting(t *testing.T) {
	pricer := NewMonteCarloPricer(0.05, 2)
	est := pricer.Estimate([]float64{10})

	if !almostEqual(est.Price, 10*math.Exp(-0.1), 1e-12) {
		t.Errorf("price = %v, want %v", est.Price, 10*math.Exp(-0.1))
	}
	// 单样本无标准误
	if est.StandardError != 0 {
		t.Errorf("std err = %v, want 0", est.StandardError)
	}
}

func TestEstimateEmptySample(t *testing.T) {
	pricer := NewMonteCarloPricer(0.05, 1)
	est := pricer.Estimate(nil)
	if est.Price != 0 || est.StandardError != 0 || est.SampleSize != 0 {
		t.Errorf("empty sample estimate = %+v, want zero value", est)
	}
}

func TestMonteCarloParityIdentity(t *testing.T) {
	// 逐路径恒有 callPayoff - putPayoff = S_T - K，
	// 折现后 mcCall - mcPut = (mean(S_T) - K) * exp(-rT) 为精确恒等式
	cfg := DefaultSimulationConfig()
	cfg.NumSimulations = 2000
	cfg.NumSteps = 50

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terminal := sim.Simulate().TerminalPrices()
	sample := EvaluatePayoffs(terminal, cfg.Strike)

	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	call, put := pricer.Price(sample)

	var meanTerminal float64
	for _, s := range terminal {
		meanTerminal += s
	}
	meanTerminal /= float64(len(terminal))

	want := (meanTerminal - cfg.Strike) * math.Exp(-cfg.RiskFreeRate*cfg.TimeHorizon)
	if !almostEqual(call.Price-put.Price, want, 1e-9) {
		t.Errorf("mc parity: call-put = %v, want %v", call.Price-put.Price, want)
	}
}

func TestMonteCarloMatchesBlackScholes(t *testing.T) {
	// mu = r 的风险中性模拟应在抽样误差内复现解析价格
	cfg := DefaultSimulationConfig()
	cfg.Drift = cfg.RiskFreeRate
	cfg.NumSimulations = 20000
	cfg.NumSteps = 50

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sample := EvaluatePayoffs(sim.Simulate().TerminalPrices(), cfg.Strike)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	mcCall, mcPut := pricer.Price(sample)

	bsCall, bsPut, err := NewBlackScholesModel().Price(
		cfg.InitialPrice, cfg.Strike, cfg.RiskFreeRate, cfg.Volatility, cfg.TimeHorizon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := math.Abs(mcCall.Price - bsCall); diff > 5*mcCall.StandardError {
		t.Errorf("call off by %v, std err %v", diff, mcCall.StandardError)
	}
	if diff := math.Abs(mcPut.Price - bsPut); diff > 5*mcPut.StandardError {
		t.Errorf("put off by %v, std err %v", diff, mcPut.StandardError)
	}
	if mcCall.StandardError <= 0 || mcPut.StandardError <= 0 {
		t.Errorf("std errs must be positive: call=%v put=%v", mcCall.StandardError, mcPut.StandardError)
	}
}

func TestMonteCarloConcreteScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 100k path scenario in short mode")
	}

	// S0=100 K=105 r=5% sigma=20% T=1 的基准场景
	cfg := DefaultSimulationConfig()
	cfg.Drift = cfg.RiskFreeRate
	cfg.NumSimulations = 100000
	cfg.NumSteps = 252

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sample := EvaluatePayoffs(sim.Simulate().TerminalPrices(), cfg.Strike)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	mcCall, mcPut := pricer.Price(sample)

	bsCall, bsPut, err := NewBlackScholesModel().Price(
		cfg.InitialPrice, cfg.Strike, cfg.RiskFreeRate, cfg.Volatility, cfg.TimeHorizon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(bsCall, 8.02, 0.01) {
		t.Errorf("bs call = %v, want ~8.02", bsCall)
	}
	if !almostEqual(bsPut, 7.90, 0.01) {
		t.Errorf("bs put = %v, want ~7.90", bsPut)
	}

	if diff := math.Abs(mcCall.Price - bsCall); diff > 4*mcCall.StandardError {
		t.Errorf("call off by %v, std err %v", diff, mcCall.StandardError)
	}
	if diff := math.Abs(mcPut.Price - bsPut); diff > 4*mcPut.StandardError {
		t.Errorf("put off by %v, std err %v", diff, mcPut.StandardError)
	}
}

func TestMonteCarloZeroHorizonLimit(t *testing.T) {
	// T -> 0 时蒙特卡洛价格收敛到未折现内在价值
	cfg := DefaultSimulationConfig()
	cfg.Drift = cfg.RiskFreeRate
	cfg.NumSimulations = 1000
	cfg.NumSteps = 1
	cfg.TimeHorizon = 1e-8

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sample := EvaluatePayoffs(sim.Simulate().TerminalPrices(), cfg.Strike)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	mcCall, mcPut := pricer.Price(sample)

	wantCall, wantPut := IntrinsicValue(cfg.InitialPrice, cfg.Strike)
	if !almostEqual(mcCall.Price, wantCall, 0.01) {
		t.Errorf("call = %v, want ~%v", mcCall.Price, wantCall)
	}
	if !almostEqual(mcPut.Price, wantPut, 0.01) {
		t.Errorf("put = %v, want ~%v", mcPut.Price, wantPut)
	}
}

func TestMonteCarloDeepOutOfTheMoney(t *testing.T) {
	// 行权价远高于任何可能的终值时，看涨收益全为零
	cfg := DefaultSimulationConfig()
	cfg.NumSimulations = 200
	cfg.NumSteps = 20
	cfg.Strike = 1e9

	sim, err := NewPathSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sample := EvaluatePayoffs(sim.Simulate().TerminalPrices(), cfg.Strike)
	pricer := NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	call, _ := pricer.Price(sample)

	if call.Price != 0 || call.StandardError != 0 {
		t.Errorf("deep OTM call = %+v, want zero estimate", call)
	}
}
