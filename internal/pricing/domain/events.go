package domain

import (
	"context"
	"time"
)

const (
	ValuationRunCreatedEventType   = "pricing.run.created"
	ValuationRunCompletedEventType = "pricing.run.completed"
	ValuationRunFailedEventType    = "pricing.run.failed"
	ValuationRequestedEventType    = "pricing.valuation.requested"
)

// ValuationRunCreatedEvent 估值任务创建事件
type ValuationRunCreatedEvent struct {
	RunID          string    `json:"run_id"`
	Symbol         string    `json:"symbol"`
	NumSimulations int       `json:"num_simulations"`
	NumSteps       int       `json:"num_steps"`
	Seed           int64     `json:"seed"`
	Timestamp      time.Time `json:"timestamp"`
}

// ValuationRunCompletedEvent 估值任务完成事件
type ValuationRunCompletedEvent struct {
	RunID          string    `json:"run_id"`
	Symbol         string    `json:"symbol"`
	MonteCarloCall string    `json:"mc_call"`
	MonteCarloPut  string    `json:"mc_put"`
	AnalyticCall   string    `json:"bs_call"`
	AnalyticPut    string    `json:"bs_put"`
	Timestamp      time.Time `json:"timestamp"`
}

// ValuationRunFailedEvent 估值任务失败事件
type ValuationRunFailedEvent struct {
	RunID     string    `json:"run_id"`
	Symbol    string    `json:"symbol"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
