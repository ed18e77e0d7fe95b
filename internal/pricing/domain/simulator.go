package domain

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// PricePathEnsemble 一次模拟产生的全部价格路径
// 生成后只读；Paths[i][t] 为第 i 条路径在 t*dt 时刻的价格
type PricePathEnsemble struct {
	Steps int
	Dt    float64
	Paths [][]float64
}

// NumPaths 路径数量
func (e *PricePathEnsemble) NumPaths() int {
	return len(e.Paths)
}

// TerminalPrices 各路径的到期价格
func (e *PricePathEnsemble) TerminalPrices() []float64 {
	terminal := make([]float64, len(e.Paths))
	for i, path := range e.Paths {
		terminal[i] = path[len(path)-1]
	}
	return terminal
}

// PathSimulator 几何布朗运动路径模拟器
type PathSimulator struct {
	cfg SimulationConfig
}

// NewPathSimulator 创建路径模拟器
// 参数校验失败时立即返回错误，不做任何模拟工作
func NewPathSimulator(cfg SimulationConfig) (*PathSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PathSimulator{cfg: cfg}, nil
}

// Simulate 生成路径集合
// 对数正态转移 S_t = S_{t-1} * exp((mu - 0.5*sigma^2)*dt + sigma*sqrt(dt)*Z)
// 对任意 dt 精确，步数只影响路径采样密度，不引入终值偏差。
// 每条路径使用独立子种子，结果与并发 worker 数无关
func (s *PathSimulator) Simulate() *PricePathEnsemble {
	cfg := s.cfg
	dt := cfg.Dt()
	paths := make([][]float64, cfg.NumSimulations)

	// 预计算常量
	driftTerm := (cfg.Drift - 0.5*cfg.Volatility*cfg.Volatility) * dt
	volTerm := cfg.Volatility * math.Sqrt(dt)

	numWorkers := runtime.GOMAXPROCS(0)
	if cfg.NumSimulations < 100 {
		numWorkers = 1
	}
	sem := make(chan struct{}, numWorkers)

	var wg sync.WaitGroup
	wg.Add(cfg.NumSimulations)
	for i := range cfg.NumSimulations {
		go func(pathIdx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rng := rand.New(rand.NewSource(cfg.PathSeed(pathIdx)))
			paths[pathIdx] = simulatePath(rng, cfg.InitialPrice, cfg.NumSteps, driftTerm, volTerm)
		}(i)
	}
	wg.Wait()

	return &PricePathEnsemble{
		Steps: cfg.NumSteps,
		Dt:    dt,
		Paths: paths,
	}
}

func simulatePath(rng *rand.Rand, initialPrice float64, steps int, driftTerm, volTerm float64) []float64 {
	path := make([]float64, steps+1)
	path[0] = initialPrice
	for t := 1; t <= steps; t++ {
		z := rng.NormFloat64()
		path[t] = path[t-1] * math.Exp(driftTerm+volTerm*z)
	}
	return path
}
