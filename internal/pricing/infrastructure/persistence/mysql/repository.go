// Package mysql 估值服务的 MySQL 仓储层，基于 GORM。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"gorm.io/gorm"
)

type valuationRepository struct {
	db *gorm.DB
}

// NewValuationRepository 创建估值仓储
func NewValuationRepository(db *gorm.DB) domain.ValuationRepository {
	return &valuationRepository{db: db}
}

func (r *valuationRepository) SaveRun(ctx context.Context, run *domain.ValuationRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *valuationRepository) FindRunByID(ctx context.Context, runID string) (*domain.ValuationRun, error) {
	var run domain.ValuationRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
		}
		return nil, err
	}
	return &run, nil
}

func (r *valuationRepository) ListRuns(ctx context.Context, limit int) ([]*domain.ValuationRun, error) {
	var runs []*domain.ValuationRun
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *valuationRepository) SaveReport(ctx context.Context, report *domain.ValuationReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *valuationRepository) FindReportByRunID(ctx context.Context, runID string) (*domain.ValuationReport, error) {
	var report domain.ValuationReport
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, runID)
		}
		return nil, err
	}
	return &report, nil
}
