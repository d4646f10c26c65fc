package repository

import (
	"context"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
)

// ReportRepository executa o relatório de utilização do cluster para uma janela mensal.
type ReportRepository interface {
	// FetchReport retorna a saída bruta do comando de relatório ou um *types.CommandError.
	FetchReport(ctx context.Context, window entity.MonthWindow) (string, error)
}
