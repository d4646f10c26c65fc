package service

import (
	"fmt"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
	"github.com/montanaflynn/stats"
)

// SummarizeUsage calcula estatísticas do percentual utilizado ao longo da série.
func SummarizeUsage(series []entity.MonthlyReport) (entity.UsageSummary, error) {
	if len(series) == 0 {
		return entity.UsageSummary{}, types.ErrNoData
	}

	data := make(stats.Float64Data, 0, len(series))
	for _, report := range series {
		data = append(data, float64(report.Usage.Used))
	}

	summary := entity.UsageSummary{Months: len(series)}
	var err error
	if summary.Mean, err = data.Mean(); err != nil {
		return entity.UsageSummary{}, fmt.Errorf("mean: %w", err)
	}
	if summary.Median, err = data.Median(); err != nil {
		return entity.UsageSummary{}, fmt.Errorf("median: %w", err)
	}
	if summary.Min, err = data.Min(); err != nil {
		return entity.UsageSummary{}, fmt.Errorf("min: %w", err)
	}
	if summary.Max, err = data.Max(); err != nil {
		return entity.UsageSummary{}, fmt.Errorf("max: %w", err)
	}
	if summary.P90, err = data.Percentile(90); err != nil {
		return entity.UsageSummary{}, fmt.Errorf("p90: %w", err)
	}

	return summary, nil
}
