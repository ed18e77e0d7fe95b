package domain

import "math"

// ConvergencePoint 某一样本量下的蒙特卡洛估计
type ConvergencePoint struct {
	SampleSize int     `json:"sample_size"`
	CallPrice  float64 `json:"call_price"`
	PutPrice   float64 `json:"put_price"`
	CallStdErr float64 `json:"call_std_err"`
	PutStdErr  float64 `json:"put_std_err"`
}

// ConvergenceTracker 收敛诊断
// 在递增的检查点上用收益样本的前缀重新估价，不做二次模拟。
// 路径独立同分布且与顺序无关，任意固定前缀本身就是该规模的有效样本
type ConvergenceTracker struct {
	pricer      *MonteCarloPricer
	minSamples  int
	checkpoints int
}

// NewConvergenceTracker 创建收敛诊断器
// 检查点在 [minSamples, n] 区间内按对数间隔分布
func NewConvergenceTracker(pricer *MonteCarloPricer, minSamples, checkpoints int) *ConvergenceTracker {
	if minSamples < 1 {
		minSamples = 100
	}
	if checkpoints < 2 {
		checkpoints = 20
	}
	return &ConvergenceTracker{pricer: pricer, minSamples: minSamples, checkpoints: checkpoints}
}

// Track 生成收敛序列，末尾检查点恰好为全样本
func (t *ConvergenceTracker) Track(sample *PayoffSample) []ConvergencePoint {
	sizes := t.schedule(sample.Size())
	points := make([]ConvergencePoint, 0, len(sizes))
	for _, n := range sizes {
		call := t.pricer.Estimate(sample.Calls[:n])
		put := t.pricer.Estimate(sample.Puts[:n])
		points = append(points, ConvergencePoint{
			SampleSize: n,
			CallPrice:  call.Price,
			PutPrice:   put.Price,
			CallStdErr: call.StandardError,
			PutStdErr:  put.StandardError,
		})
	}
	return points
}

// schedule 对数间隔的样本量检查点，去重且以 n 收尾
func (t *ConvergenceTracker) schedule(n int) []int {
	lo := t.minSamples
	if lo > n {
		lo = n
	}
	if lo == n || t.checkpoints == 1 {
		return []int{n}
	}

	ratio := float64(n) / float64(lo)
	sizes := make([]int, 0, t.checkpoints)
	prev := 0
	for k := range t.checkpoints {
		frac := float64(k) / float64(t.checkpoints-1)
		size := int(math.Round(float64(lo) * math.Pow(ratio, frac)))
		if size > n {
			size = n
		}
		if size <= prev {
			continue
		}
		sizes = append(sizes, size)
		prev = size
	}
	if sizes[len(sizes)-1] != n {
		sizes = append(sizes, n)
	}
	return sizes
}
