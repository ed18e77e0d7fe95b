package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// ValuationRunDTO 估值任务视图
type ValuationRunDTO struct {
	RunID          string              `json:"run_id"`
	Symbol         string              `json:"symbol"`
	Status         string              `json:"status"`
	FailureReason  string              `json:"failure_reason,omitempty"`
	NumSimulations int                 `json:"num_simulations"`
	NumSteps       int                 `json:"num_steps"`
	InitialPrice   float64             `json:"initial_price"`
	Strike         float64             `json:"strike"`
	RiskFreeRate   float64             `json:"risk_free_rate"`
	Volatility     float64             `json:"volatility"`
	Drift          float64             `json:"drift"`
	TimeHorizon    float64             `json:"time_horizon"`
	Seed           int64               `json:"seed"`
	CreatedAt      time.Time           `json:"created_at"`
	Report         *ValuationReportDTO `json:"report,omitempty"`
}

// ValuationReportDTO 估值报告视图
type ValuationReportDTO struct {
	MonteCarloCall string   `json:"mc_call"`
	MonteCarloPut  string   `json:"mc_put"`
	CallStdErr     string   `json:"call_std_err"`
	PutStdErr      string   `json:"put_std_err"`
	AnalyticCall   string   `json:"bs_call"`
	AnalyticPut    string   `json:"bs_put"`
	TerminalMean   string   `json:"terminal_mean"`
	TerminalStdDev string   `json:"terminal_std_dev"`
	TerminalMin    string   `json:"terminal_min"`
	TerminalMax    string   `json:"terminal_max"`
	CallITMProb    string   `json:"call_itm_prob"`
	PutITMProb     string   `json:"put_itm_prob"`
	Warnings       []string `json:"warnings,omitempty"`
	Summary        string   `json:"summary"`
}

// QuoteDTO 解析报价视图
type QuoteDTO struct {
	Symbol       string         `json:"symbol,omitempty"`
	Spot         float64        `json:"spot"`
	Strike       float64        `json:"strike"`
	RiskFreeRate float64        `json:"risk_free_rate"`
	Volatility   float64        `json:"volatility"`
	TimeHorizon  float64        `json:"time_horizon"`
	Call         float64        `json:"call"`
	Put          float64        `json:"put"`
	CallGreeks   *domain.Greeks `json:"call_greeks,omitempty"`
	PutGreeks    *domain.Greeks `json:"put_greeks,omitempty"`
	// Limit 奇异参数下使用的极限（intrinsic / deterministic）
	Limit string `json:"limit,omitempty"`
}

func toRunDTO(run *domain.ValuationRun) *ValuationRunDTO {
	return &ValuationRunDTO{
		RunID:          run.RunID,
		Symbol:         run.Symbol,
		Status:         string(run.Status),
		FailureReason:  run.FailureReason,
		NumSimulations: run.NumSimulations,
		NumSteps:       run.NumSteps,
		InitialPrice:   run.InitialPrice,
		Strike:         run.Strike,
		RiskFreeRate:   run.RiskFreeRate,
		Volatility:     run.Volatility,
		Drift:          run.Drift,
		TimeHorizon:    run.TimeHorizon,
		Seed:           run.Seed,
		CreatedAt:      run.CreatedAt,
	}
}

func toReportDTO(report *domain.ValuationReport, run *domain.ValuationRun) *ValuationReportDTO {
	dto := &ValuationReportDTO{
		MonteCarloCall: report.MonteCarloCall.String(),
		MonteCarloPut:  report.MonteCarloPut.String(),
		CallStdErr:     report.CallStdErr.String(),
		PutStdErr:      report.PutStdErr.String(),
		AnalyticCall:   report.AnalyticCall.String(),
		AnalyticPut:    report.AnalyticPut.String(),
		TerminalMean:   report.TerminalMean.String(),
		TerminalStdDev: report.TerminalStdDev.String(),
		TerminalMin:    report.TerminalMin.String(),
		TerminalMax:    report.TerminalMax.String(),
		CallITMProb:    report.CallITMProb.String(),
		PutITMProb:     report.PutITMProb.String(),
	}
	if report.Warnings != "" {
		dto.Warnings = strings.Split(report.Warnings, "; ")
	}
	dto.Summary = buildSummary(report, run)
	return dto
}

// buildSummary 生成人类可读的估值摘要
func buildSummary(report *domain.ValuationReport, run *domain.ValuationRun) string {
	mcCall, _ := report.MonteCarloCall.Float64()
	mcPut, _ := report.MonteCarloPut.Float64()
	bsCall, _ := report.AnalyticCall.Float64()
	bsPut, _ := report.AnalyticPut.Float64()

	var b strings.Builder
	fmt.Fprintf(&b, "European option valuation %s (%s)\n", run.RunID, run.Symbol)
	fmt.Fprintf(&b, "S0=%.4f K=%.4f r=%.4f sigma=%.4f mu=%.4f T=%.4f paths=%d steps=%d seed=%d\n",
		run.InitialPrice, run.Strike, run.RiskFreeRate, run.Volatility, run.Drift, run.TimeHorizon,
		run.NumSimulations, run.NumSteps, run.Seed)
	fmt.Fprintf(&b, "call: MC=%.4f (se %s)  BS=%.4f  abs_err=%.4f  rel_err=%.4f%%\n",
		mcCall, report.CallStdErr.String(), bsCall, abs(mcCall-bsCall), relErr(mcCall, bsCall))
	fmt.Fprintf(&b, "put:  MC=%.4f (se %s)  BS=%.4f  abs_err=%.4f  rel_err=%.4f%%\n",
		mcPut, report.PutStdErr.String(), bsPut, abs(mcPut-bsPut), relErr(mcPut, bsPut))
	fmt.Fprintf(&b, "terminal: mean=%s std=%s min=%s max=%s  itm_call=%s itm_put=%s",
		report.TerminalMean.String(), report.TerminalStdDev.String(),
		report.TerminalMin.String(), report.TerminalMax.String(),
		report.CallITMProb.String(), report.PutITMProb.String())
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func relErr(estimate, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return abs(estimate-reference) / reference * 100
}
