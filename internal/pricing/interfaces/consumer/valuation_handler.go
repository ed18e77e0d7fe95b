package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/optionpricing/internal/pricing/application"
	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
)

// ValuationRequestHandler 消费估值请求事件并触发定价任务。
type ValuationRequestHandler struct {
	app    *application.ValuationApplicationService
	logger *slog.Logger
}

func NewValuationRequestHandler(app *application.ValuationApplicationService, logger *slog.Logger) *ValuationRequestHandler {
	return &ValuationRequestHandler{app: app, logger: logger}
}

func (h *ValuationRequestHandler) Handle(ctx context.Context, msg kafka.Message) error {
	if msg.Topic != domain.ValuationRequestedEventType {
		return nil
	}

	var payload struct {
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

	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal valuation request event", "error", err)
		return err
	}
	if payload.Symbol == "" {
		return nil
	}

	cfg := domain.DefaultSimulationConfig()
	if payload.NumSimulations != nil {
		cfg.NumSimulations = *payload.NumSimulations
	}
	if payload.NumSteps != nil {
		cfg.NumSteps = *payload.NumSteps
	}
	if payload.InitialPrice != nil {
		cfg.InitialPrice = *payload.InitialPrice
	}
	if payload.Strike != nil {
		cfg.Strike = *payload.Strike
	}
	if payload.RiskFreeRate != nil {
		cfg.RiskFreeRate = *payload.RiskFreeRate
	}
	if payload.Volatility != nil {
		cfg.Volatility = *payload.Volatility
	}
	if payload.Drift != nil {
		cfg.Drift = *payload.Drift
	}
	if payload.TimeHorizon != nil {
		cfg.TimeHorizon = *payload.TimeHorizon
	}
	if payload.Seed != nil {
		cfg.Seed = *payload.Seed
	}

	runID, err := h.app.RunValuation(ctx, application.RunValuationCommand{
		Symbol: payload.Symbol,
		Config: cfg,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start valuation from event", "symbol", payload.Symbol, "error", err)
		return err
	}

	h.logger.InfoContext(ctx, "valuation run started from event", "symbol", payload.Symbol, "run_id", runID)
	return nil
}
