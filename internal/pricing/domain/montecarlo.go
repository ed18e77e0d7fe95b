package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MonteCarloEstimate 蒙特卡洛价格估计及其抽样精度
type MonteCarloEstimate struct {
	Price         float64
	StandardError float64
	SampleSize    int
}

// MonteCarloPricer 折现平均收益定价器
// 折现始终使用 r；只有路径漂移 mu == r 时估计值才是风险中性现值，
// mu != r 的场景属于真实世界漂移模拟，由调用方自行解释
type MonteCarloPricer struct {
	RiskFreeRate float64
	TimeHorizon  float64
}

// NewMonteCarloPricer 创建定价器
func NewMonteCarloPricer(riskFreeRate, timeHorizon float64) *MonteCarloPricer {
	return &MonteCarloPricer{RiskFreeRate: riskFreeRate, TimeHorizon: timeHorizon}
}

// Estimate 计算折现均值与标准误
// price = mean(payoffs) * exp(-r*T)，se = sd(payoffs)/sqrt(n) * exp(-r*T)
func (p *MonteCarloPricer) Estimate(payoffs []float64) MonteCarloEstimate {
	n := len(payoffs)
	if n == 0 {
		return MonteCarloEstimate{}
	}
	discount := math.Exp(-p.RiskFreeRate * p.TimeHorizon)
	mean := stat.Mean(payoffs, nil)

	se := 0.0
	if n > 1 {
		se = stat.StdDev(payoffs, nil) / math.Sqrt(float64(n))
	}
	return MonteCarloEstimate{
		Price:         mean * discount,
		StandardError: se * discount,
		SampleSize:    n,
	}
}

// Price 对收益样本的看涨/看跌两侧分别估计
func (p *MonteCarloPricer) Price(sample *PayoffSample) (call, put MonteCarloEstimate) {
	return p.Estimate(sample.Calls), p.Estimate(sample.Puts)
}
