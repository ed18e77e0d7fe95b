package domain

// PayoffSample 每条路径的到期收益样本
// Calls[i] 与 Puts[i] 对应同一条路径的终值；生成后只读
type PayoffSample struct {
	Strike float64
	Calls  []float64
	Puts   []float64
}

// Size 样本数量
func (p *PayoffSample) Size() int {
	return len(p.Calls)
}

// EvaluatePayoffs 由终值计算欧式期权收益
// call = max(S_T - K, 0)，put = max(K - S_T, 0)；纯函数，收益恒非负
func EvaluatePayoffs(terminalPrices []float64, strike float64) *PayoffSample {
	calls := make([]float64, len(terminalPrices))
	puts := make([]float64, len(terminalPrices))
	for i, s := range terminalPrices {
		if s > strike {
			calls[i] = s - strike
		}
		if strike > s {
			puts[i] = strike - s
		}
	}
	return &PayoffSample{Strike: strike, Calls: calls, Puts: puts}
}
