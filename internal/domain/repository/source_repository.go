package repository

import (
	"context"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
)

// SourceRepository carrega uma série já gerada a partir de arquivo, URL ou S3.
type SourceRepository interface {
	// LoadSeries resolve a origem e retorna a série junto com a origem efetivamente usada.
	LoadSeries(ctx context.Context, source string) ([]entity.MonthlyReport, string, error)
}
