package domain

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TerminalStatistics 终值样本统计
type TerminalStatistics struct {
	Mean               float64
	StdDev             float64
	Min                float64
	Max                float64
	CallITMProbability float64 // S_T > K 的路径占比
	PutITMProbability  float64 // S_T < K 的路径占比
}

// ComputeTerminalStatistics 计算终值统计与价内概率
func ComputeTerminalStatistics(terminalPrices []float64, strike float64) TerminalStatistics {
	if len(terminalPrices) == 0 {
		return TerminalStatistics{}
	}

	stats := TerminalStatistics{
		Mean: stat.Mean(terminalPrices, nil),
		Min:  floats.Min(terminalPrices),
		Max:  floats.Max(terminalPrices),
	}
	if len(terminalPrices) > 1 {
		stats.StdDev = stat.StdDev(terminalPrices, nil)
	}

	var callITM, putITM int
	for _, s := range terminalPrices {
		if s > strike {
			callITM++
		}
		if s < strike {
			putITM++
		}
	}
	n := float64(len(terminalPrices))
	stats.CallITMProbability = float64(callITM) / n
	stats.PutITMProbability = float64(putITM) / n
	return stats
}

// Degenerate 样本是否退化（如 sigma=0 时所有路径相同）
// 退化不是错误，作为警告上报
func (s TerminalStatistics) Degenerate() bool {
	return s.StdDev == 0
}
