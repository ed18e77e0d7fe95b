// Package http 估值服务的 HTTP 接口层
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// ValuationHandler 估值 HTTP 处理器
type ValuationHandler struct {
	app *application.ValuationApplicationService
}

// NewValuationHandler 创建 HTTP 处理器实例
func NewValuationHandler(app *application.ValuationApplicationService) *ValuationHandler {
	return &ValuationHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *ValuationHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/runs", h.CreateRun)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/runs/:id/convergence", h.GetConvergence)
		api.GET("/quote", h.GetQuote)
	}
}

// createRunRequest 创建估值任务请求
// 缺省字段回退到引擎默认参数
type createRunRequest struct {
	Symbol         string   `json:"symbol"`
	NumSimulations *int     `json:"num_simulations"`
	NumSteps       *int     `json:"num_steps"`
	InitialPrice   *float64 `json:"initial_price"`
	Strike         *float64 `json:"strike"`
	RiskFreeRate   *float64 `json:"risk_free_rate"`
	Volatility     *float64 `json:"volatility"`
	Drift          *float64 `json:"drift"`
	TimeHorizon    *float64 `json:"time_horizon"`
	Seed           *int64   `json:"seed"`
}

func (req *createRunRequest) toConfig() domain.SimulationConfig {
	cfg := domain.DefaultSimulationConfig()
	if req.NumSimulations != nil {
		cfg.NumSimulations = *req.NumSimulations
	}
	if req.NumSteps != nil {
		cfg.NumSteps = *req.NumSteps
	}
	if req.InitialPrice != nil {
		cfg.InitialPrice = *req.InitialPrice
	}
	if req.Strike != nil {
		cfg.Strike = *req.Strike
	}
	if req.RiskFreeRate != nil {
		cfg.RiskFreeRate = *req.RiskFreeRate
	}
	if req.Volatility != nil {
		cfg.Volatility = *req.Volatility
	}
	if req.Drift != nil {
		cfg.Drift = *req.Drift
	}
	if req.TimeHorizon != nil {
		cfg.TimeHorizon = *req.TimeHorizon
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	return cfg
}

// CreateRun 创建并启动估值任务
func (h *ValuationHandler) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Symbol == "" {
		req.Symbol = "DEFAULT"
	}

	runID, err := h.app.RunValuation(c.Request.Context(), application.RunValuationCommand{
		Symbol: req.Symbol,
		Config: req.toConfig(),
	})
	if err != nil {
		if isConfigError(err) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to create valuation run", "symbol", req.Symbol, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"run_id": runID})
}

// GetRun 查询估值任务及报告
func (h *ValuationHandler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	run, err := h.app.GetRun(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "run not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to get valuation run", "run_id", runID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, run)
}

// ListRuns 列出最近的估值任务
func (h *ValuationHandler) ListRuns(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}

	runs, err := h.app.ListRuns(c.Request.Context(), limit)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list valuation runs", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, runs)
}

// GetConvergence 查询收敛序列
func (h *ValuationHandler) GetConvergence(c *gin.Context) {
	runID := c.Param("id")
	points, err := h.app.GetConvergence(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "report not found", "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to get convergence series", "run_id", runID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, points)
}

// GetQuote 解析报价
func (h *ValuationHandler) GetQuote(c *gin.Context) {
	spot, err1 := strconv.ParseFloat(c.DefaultQuery("spot", "100"), 64)
	strike, err2 := strconv.ParseFloat(c.DefaultQuery("strike", "105"), 64)
	rate, err3 := strconv.ParseFloat(c.DefaultQuery("rate", "0.05"), 64)
	sigma, err4 := strconv.ParseFloat(c.DefaultQuery("sigma", "0.2"), 64)
	horizon, err5 := strconv.ParseFloat(c.DefaultQuery("horizon", "1"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid numeric query parameter", "")
		return
	}

	quote, err := h.app.AnalyticQuote(c.Request.Context(), c.Query("symbol"), spot, strike, rate, sigma, horizon)
	if err != nil {
		if isConfigError(err) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to compute analytic quote", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, quote)
}

func isConfigError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInitialPrice) ||
		errors.Is(err, domain.ErrInvalidStrike) ||
		errors.Is(err, domain.ErrInvalidVolatility) ||
		errors.Is(err, domain.ErrInvalidTimeHorizon) ||
		errors.Is(err, domain.ErrInvalidSimulations) ||
		errors.Is(err, domain.ErrInvalidSteps)
}
