// Package application 期权估值服务的应用层
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/idgen"
)

// RunValuationCommand 运行估值命令
type RunValuationCommand struct {
	Symbol string
	Config domain.SimulationConfig
}

// ValuationApplicationService 估值应用服务
type ValuationApplicationService struct {
	repo      domain.ValuationRepository
	publisher domain.EventPublisher
	model     *domain.BlackScholesModel
	logger    *slog.Logger

	// 收敛诊断参数
	convergenceMinSamples  int
	convergenceCheckpoints int
}

// NewValuationApplicationService 创建估值应用服务
func NewValuationApplicationService(repo domain.ValuationRepository, publisher domain.EventPublisher, logger *slog.Logger) *ValuationApplicationService {
	return &ValuationApplicationService{
		repo:                   repo,
		publisher:              publisher,
		model:                  domain.NewBlackScholesModel(),
		logger:                 logger,
		convergenceMinSamples:  100,
		convergenceCheckpoints: 20,
	}
}

// RunValuation 创建并异步执行估值任务
// 配置校验失败时立即返回错误，不落任何任务记录
func (s *ValuationApplicationService) RunValuation(ctx context.Context, cmd RunValuationCommand) (string, error) {
	if err := cmd.Config.Validate(); err != nil {
		return "", fmt.Errorf("invalid simulation config: %w", err)
	}

	runID := fmt.Sprintf("VAL-%d", idgen.GenID())
	run := domain.NewValuationRun(runID, cmd.Symbol, cmd.Config)
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return "", fmt.Errorf("failed to save valuation run: %w", err)
	}

	s.publisher.Publish(ctx, domain.ValuationRunCreatedEventType, runID, domain.ValuationRunCreatedEvent{
		RunID:          runID,
		Symbol:         cmd.Symbol,
		NumSimulations: cmd.Config.NumSimulations,
		NumSteps:       cmd.Config.NumSteps,
		Seed:           cmd.Config.Seed,
		Timestamp:      time.Now(),
	})

	s.logger.Info("valuation run created", "run_id", runID, "symbol", cmd.Symbol,
		"simulations", cmd.Config.NumSimulations, "seed", cmd.Config.Seed)

	go s.execute(context.Background(), run)

	return runID, nil
}

// execute 执行估值流水线并持久化结果
func (s *ValuationApplicationService) execute(ctx context.Context, run *domain.ValuationRun) {
	run.Start()
	if err := s.repo.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to mark run running", "run_id", run.RunID, "error", err)
		return
	}

	result, err := s.Evaluate(run.Config())
	if err != nil {
		run.Fail(err.Error())
		if saveErr := s.repo.SaveRun(ctx, run); saveErr != nil {
			s.logger.Error("failed to mark run failed", "run_id", run.RunID, "error", saveErr)
		}
		s.publisher.Publish(ctx, domain.ValuationRunFailedEventType, run.RunID, domain.ValuationRunFailedEvent{
			RunID:     run.RunID,
			Symbol:    run.Symbol,
			Reason:    err.Error(),
			Timestamp: time.Now(),
		})
		s.logger.Error("valuation run failed", "run_id", run.RunID, "error", err)
		return
	}

	report := s.toReport(run.RunID, result)
	if err := s.repo.SaveReport(ctx, report); err != nil {
		run.Fail(fmt.Sprintf("failed to save report: %v", err))
		s.repo.SaveRun(ctx, run)
		s.logger.Error("failed to save valuation report", "run_id", run.RunID, "error", err)
		return
	}

	run.Complete()
	if err := s.repo.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to mark run completed", "run_id", run.RunID, "error", err)
		return
	}

	s.publisher.Publish(ctx, domain.ValuationRunCompletedEventType, run.RunID, domain.ValuationRunCompletedEvent{
		RunID:          run.RunID,
		Symbol:         run.Symbol,
		MonteCarloCall: report.MonteCarloCall.String(),
		MonteCarloPut:  report.MonteCarloPut.String(),
		AnalyticCall:   report.AnalyticCall.String(),
		AnalyticPut:    report.AnalyticPut.String(),
		Timestamp:      time.Now(),
	})

	s.logger.Info("valuation run completed", "run_id", run.RunID,
		"mc_call", result.MonteCarloCall.Price, "bs_call", result.AnalyticCall,
		"call_abs_error", result.CallAbsError())
}

// Evaluate 同步执行估值流水线
// Config -> Ensemble -> PayoffSample -> {MC 价格, BS 价格, 收敛序列}
func (s *ValuationApplicationService) Evaluate(cfg domain.SimulationConfig) (*domain.PricingResult, error) {
	simulator, err := domain.NewPathSimulator(cfg)
	if err != nil {
		return nil, err
	}

	ensemble := simulator.Simulate()
	terminal := ensemble.TerminalPrices()
	sample := domain.EvaluatePayoffs(terminal, cfg.Strike)

	pricer := domain.NewMonteCarloPricer(cfg.RiskFreeRate, cfg.TimeHorizon)
	mcCall, mcPut := pricer.Price(sample)

	result := &domain.PricingResult{
		Config:         cfg,
		MonteCarloCall: mcCall,
		MonteCarloPut:  mcPut,
		Statistics:     domain.ComputeTerminalStatistics(terminal, cfg.Strike),
	}

	// 解析参考价；奇异点退化为相应极限值
	bsCall, bsPut, err := s.model.Price(cfg.InitialPrice, cfg.Strike, cfg.RiskFreeRate, cfg.Volatility, cfg.TimeHorizon)
	if err == nil {
		result.AnalyticCall, result.AnalyticPut = bsCall, bsPut
	} else {
		result.AnalyticCall, result.AnalyticPut = domain.ZeroVolatilityPrice(cfg.InitialPrice, cfg.Strike, cfg.RiskFreeRate, cfg.TimeHorizon)
		result.Warnings = append(result.Warnings, "analytic formula singular, deterministic limit used")
	}

	tracker := domain.NewConvergenceTracker(pricer, s.convergenceMinSamples, s.convergenceCheckpoints)
	result.Convergence = tracker.Track(sample)

	if result.Statistics.Degenerate() {
		result.Warnings = append(result.Warnings, "terminal price sample degenerate, all paths identical")
	}
	if !cfg.RiskNeutral() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("drift mu=%v differs from discount rate r=%v, estimate is not a risk-neutral present value", cfg.Drift, cfg.RiskFreeRate))
	}

	return result, nil
}

// GetRun 查询估值任务
func (s *ValuationApplicationService) GetRun(ctx context.Context, runID string) (*ValuationRunDTO, error) {
	run, err := s.repo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	dto := toRunDTO(run)

	if run.Status == domain.ValuationStatusCompleted {
		report, err := s.repo.FindReportByRunID(ctx, runID)
		if err != nil {
			return nil, err
		}
		dto.Report = toReportDTO(report, run)
	}
	return dto, nil
}

// ListRuns 列出最近的估值任务
func (s *ValuationApplicationService) ListRuns(ctx context.Context, limit int) ([]*ValuationRunDTO, error) {
	runs, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*ValuationRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	return dtos, nil
}

// GetConvergence 查询收敛序列
func (s *ValuationApplicationService) GetConvergence(ctx context.Context, runID string) ([]domain.ConvergencePoint, error) {
	report, err := s.repo.FindReportByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	var points []domain.ConvergencePoint
	if err := json.Unmarshal([]byte(report.Convergence), &points); err != nil {
		return nil, fmt.Errorf("failed to decode convergence series: %w", err)
	}
	return points, nil
}

// AnalyticQuote 同步计算解析报价
// 奇异点按约定取极限：T=0 取未折现内在价值，sigma=0 取确定性漂移折现价值
func (s *ValuationApplicationService) AnalyticQuote(ctx context.Context, symbol string, spot, strike, rate, sigma, horizon float64) (*QuoteDTO, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: S=%v", domain.ErrInvalidInitialPrice, spot)
	}
	if strike <= 0 {
		return nil, fmt.Errorf("%w: K=%v", domain.ErrInvalidStrike, strike)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: sigma=%v", domain.ErrInvalidVolatility, sigma)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: T=%v", domain.ErrInvalidTimeHorizon, horizon)
	}

	dto := &QuoteDTO{Symbol: symbol, Spot: spot, Strike: strike, RiskFreeRate: rate, Volatility: sigma, TimeHorizon: horizon}

	switch {
	case horizon == 0:
		call, put := domain.IntrinsicValue(spot, strike)
		dto.Call, dto.Put = call, put
		dto.Limit = "intrinsic"
	case sigma == 0:
		call, put := domain.ZeroVolatilityPrice(spot, strike, rate, horizon)
		dto.Call, dto.Put = call, put
		dto.Limit = "deterministic"
	default:
		quote, err := s.model.Quote(spot, strike, rate, sigma, horizon)
		if err != nil {
			return nil, err
		}
		dto.Call, dto.Put = quote.Call, quote.Put
		dto.CallGreeks = &quote.CallGreeks
		dto.PutGreeks = &quote.PutGreeks
	}
	return dto, nil
}

// toReport 将内存结果转换为报告实体
func (s *ValuationApplicationService) toReport(runID string, result *domain.PricingResult) *domain.ValuationReport {
	convergence, _ := json.Marshal(result.Convergence)
	return &domain.ValuationReport{
		RunID:          runID,
		MonteCarloCall: decimal.NewFromFloat(result.MonteCarloCall.Price),
		MonteCarloPut:  decimal.NewFromFloat(result.MonteCarloPut.Price),
		CallStdErr:     decimal.NewFromFloat(result.MonteCarloCall.StandardError),
		PutStdErr:      decimal.NewFromFloat(result.MonteCarloPut.StandardError),
		AnalyticCall:   decimal.NewFromFloat(result.AnalyticCall),
		AnalyticPut:    decimal.NewFromFloat(result.AnalyticPut),
		TerminalMean:   decimal.NewFromFloat(result.Statistics.Mean),
		TerminalStdDev: decimal.NewFromFloat(result.Statistics.StdDev),
		TerminalMin:    decimal.NewFromFloat(result.Statistics.Min),
		TerminalMax:    decimal.NewFromFloat(result.Statistics.Max),
		CallITMProb:    decimal.NewFromFloat(result.Statistics.CallITMProbability),
		PutITMProb:     decimal.NewFromFloat(result.Statistics.PutITMProbability),
		Convergence:    string(convergence),
		Warnings:       result.JoinedWarnings(),
	}
}
