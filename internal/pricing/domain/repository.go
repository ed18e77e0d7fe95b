package domain

import "context"

// ValuationRepository 估值任务仓储接口
type ValuationRepository interface {
	SaveRun(ctx context.Context, run *ValuationRun) error
	FindRunByID(ctx context.Context, runID string) (*ValuationRun, error)
	ListRuns(ctx context.Context, limit int) ([]*ValuationRun, error)
	SaveReport(ctx context.Context, report *ValuationReport) error
	FindReportByRunID(ctx context.Context, runID string) (*ValuationReport, error)
}
