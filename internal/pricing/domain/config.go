// Package domain 期权估值服务的领域模型
package domain

import "fmt"

// SimulationConfig 蒙特卡洛模拟配置
// 创建校验通过后不可变；所有派生量（dt、子种子）由方法计算
type SimulationConfig struct {
	NumSimulations int     // 模拟路径数
	NumSteps       int     // 每条路径的时间步数
	InitialPrice   float64 // S0 标的初始价格
	Strike         float64 // K 行权价
	RiskFreeRate   float64 // r 无风险利率（年化）
	Volatility     float64 // sigma 波动率（年化）
	Drift          float64 // mu 漂移率（年化）
	TimeHorizon    float64 // T 期限（年）
	Seed           int64   // 随机种子，保证可复现
}

// DefaultSimulationConfig 返回默认模拟参数
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		NumSimulations: 10000,
		NumSteps:       252,
		InitialPrice:   100,
		Strike:         105,
		RiskFreeRate:   0.05,
		Volatility:     0.2,
		Drift:          0.08,
		TimeHorizon:    1,
		Seed:           123,
	}
}

// Validate 在任何模拟开始前校验参数
// 返回的错误指明违反约束的参数
func (c SimulationConfig) Validate() error {
	if c.InitialPrice <= 0 {
		return fmt.Errorf("%w: S0=%v", ErrInvalidInitialPrice, c.InitialPrice)
	}
	if c.Strike <= 0 {
		return fmt.Errorf("%w: K=%v", ErrInvalidStrike, c.Strike)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("%w: sigma=%v", ErrInvalidVolatility, c.Volatility)
	}
	if c.TimeHorizon <= 0 {
		return fmt.Errorf("%w: T=%v", ErrInvalidTimeHorizon, c.TimeHorizon)
	}
	if c.NumSimulations < 1 {
		return fmt.Errorf("%w: n=%d", ErrInvalidSimulations, c.NumSimulations)
	}
	if c.NumSteps < 1 {
		return fmt.Errorf("%w: steps=%d", ErrInvalidSteps, c.NumSteps)
	}
	return nil
}

// Dt 单步时长（年）
func (c SimulationConfig) Dt() float64 {
	return c.TimeHorizon / float64(c.NumSteps)
}

// PathSeed 第 i 条路径的子种子
// 每条路径持有独立的随机流，确保集合与并发度无关
func (c SimulationConfig) PathSeed(i int) int64 {
	return c.Seed + int64(i)
}

// RiskNeutral 判断漂移是否与折现率一致
// mu != r 时蒙特卡洛均值是真实世界漂移下的模拟值，而非风险中性现值；
// 引擎不强制二者一致，由调用方负责
func (c SimulationConfig) RiskNeutral() bool {
	return c.Drift == c.RiskFreeRate
}
