package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ValuationStatus 估值任务状态
type ValuationStatus string

const (
	ValuationStatusPending   ValuationStatus = "PENDING"
	ValuationStatusRunning   ValuationStatus = "RUNNING"
	ValuationStatusCompleted ValuationStatus = "COMPLETED"
	ValuationStatusFailed    ValuationStatus = "FAILED"
)

// ValuationRun 一次估值任务实体
type ValuationRun struct {
	gorm.Model
	// RunID 任务唯一标识
	RunID string `gorm:"column:run_id;type:varchar(32);uniqueIndex;not null" json:"run_id"`
	// Symbol 标的标识
	Symbol string `gorm:"column:symbol;type:varchar(20);not null" json:"symbol"`
	// Status 任务状态
	Status ValuationStatus `gorm:"column:status;type:varchar(20);default:'PENDING'" json:"status"`
	// FailureReason 失败原因
	FailureReason string `gorm:"column:failure_reason;type:text" json:"failure_reason"`

	// 模拟参数（首层字段，便于查询）
	NumSimulations int     `gorm:"column:num_simulations;type:int" json:"num_simulations"`
	NumSteps       int     `gorm:"column:num_steps;type:int" json:"num_steps"`
	InitialPrice   float64 `gorm:"column:initial_price;type:decimal(20,8)" json:"initial_price"`
	Strike         float64 `gorm:"column:strike;type:decimal(20,8)" json:"strike"`
	RiskFreeRate   float64 `gorm:"column:risk_free_rate;type:decimal(10,6)" json:"risk_free_rate"`
	Volatility     float64 `gorm:"column:volatility;type:decimal(10,6)" json:"volatility"`
	Drift          float64 `gorm:"column:drift;type:decimal(10,6)" json:"drift"`
	TimeHorizon    float64 `gorm:"column:time_horizon;type:decimal(10,6)" json:"time_horizon"`
	Seed           int64   `gorm:"column:seed;type:bigint" json:"seed"`

	StartedAt  *time.Time `gorm:"column:started_at;type:datetime" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at;type:datetime" json:"finished_at"`
}

// NewValuationRun 创建估值任务
func NewValuationRun(runID, symbol string, cfg SimulationConfig) *ValuationRun {
	return &ValuationRun{
		RunID:          runID,
		Symbol:         symbol,
		Status:         ValuationStatusPending,
		NumSimulations: cfg.NumSimulations,
		NumSteps:       cfg.NumSteps,
		InitialPrice:   cfg.InitialPrice,
		Strike:         cfg.Strike,
		RiskFreeRate:   cfg.RiskFreeRate,
		Volatility:     cfg.Volatility,
		Drift:          cfg.Drift,
		TimeHorizon:    cfg.TimeHorizon,
		Seed:           cfg.Seed,
	}
}

// Config 还原模拟配置
func (r *ValuationRun) Config() SimulationConfig {
	return SimulationConfig{
		NumSimulations: r.NumSimulations,
		NumSteps:       r.NumSteps,
		InitialPrice:   r.InitialPrice,
		Strike:         r.Strike,
		RiskFreeRate:   r.RiskFreeRate,
		Volatility:     r.Volatility,
		Drift:          r.Drift,
		TimeHorizon:    r.TimeHorizon,
		Seed:           r.Seed,
	}
}

// Start 标记任务开始
func (r *ValuationRun) Start() {
	now := time.Now()
	r.Status = ValuationStatusRunning
	r.StartedAt = &now
}

// Complete 标记任务完成
func (r *ValuationRun) Complete() {
	now := time.Now()
	r.Status = ValuationStatusCompleted
	r.FinishedAt = &now
}

// Fail 标记任务失败并记录原因
func (r *ValuationRun) Fail(reason string) {
	now := time.Now()
	r.Status = ValuationStatusFailed
	r.FailureReason = reason
	r.FinishedAt = &now
}

// ValuationReport 估值报告实体（持久化的 PricingResult）
type ValuationReport struct {
	gorm.Model
	RunID string `gorm:"column:run_id;type:varchar(32);uniqueIndex;not null" json:"run_id"`

	MonteCarloCall decimal.Decimal `gorm:"column:mc_call;type:decimal(20,8)" json:"mc_call"`
	MonteCarloPut  decimal.Decimal `gorm:"column:mc_put;type:decimal(20,8)" json:"mc_put"`
	CallStdErr     decimal.Decimal `gorm:"column:call_std_err;type:decimal(20,8)" json:"call_std_err"`
	PutStdErr      decimal.Decimal `gorm:"column:put_std_err;type:decimal(20,8)" json:"put_std_err"`
	AnalyticCall   decimal.Decimal `gorm:"column:bs_call;type:decimal(20,8)" json:"bs_call"`
	AnalyticPut    decimal.Decimal `gorm:"column:bs_put;type:decimal(20,8)" json:"bs_put"`

	TerminalMean   decimal.Decimal `gorm:"column:terminal_mean;type:decimal(20,8)" json:"terminal_mean"`
	TerminalStdDev decimal.Decimal `gorm:"column:terminal_std_dev;type:decimal(20,8)" json:"terminal_std_dev"`
	TerminalMin    decimal.Decimal `gorm:"column:terminal_min;type:decimal(20,8)" json:"terminal_min"`
	TerminalMax    decimal.Decimal `gorm:"column:terminal_max;type:decimal(20,8)" json:"terminal_max"`
	CallITMProb    decimal.Decimal `gorm:"column:call_itm_prob;type:decimal(10,6)" json:"call_itm_prob"`
	PutITMProb     decimal.Decimal `gorm:"column:put_itm_prob;type:decimal(10,6)" json:"put_itm_prob"`

	// Convergence 收敛序列 (JSON)
	Convergence string `gorm:"column:convergence;type:text" json:"convergence"`
	// Warnings 非致命警告，分号分隔
	Warnings string `gorm:"column:warnings;type:text" json:"warnings"`
}

// PricingResult 一次估值的内存聚合结果
// 每次运行创建一次，之后不再修改
type PricingResult struct {
	Config         SimulationConfig
	MonteCarloCall MonteCarloEstimate
	MonteCarloPut  MonteCarloEstimate
	AnalyticCall   float64
	AnalyticPut    float64
	Statistics     TerminalStatistics
	Convergence    []ConvergencePoint
	Warnings       []string
}

// CallAbsError 蒙特卡洛看涨价与解析价的绝对误差
func (r *PricingResult) CallAbsError() float64 {
	return absFloat(r.MonteCarloCall.Price - r.AnalyticCall)
}

// PutAbsError 蒙特卡洛看跌价与解析价的绝对误差
func (r *PricingResult) PutAbsError() float64 {
	return absFloat(r.MonteCarloPut.Price - r.AnalyticPut)
}

// JoinedWarnings 警告列表的持久化形式
func (r *PricingResult) JoinedWarnings() string {
	return strings.Join(r.Warnings, "; ")
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
