package repository

import (
	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
)

// ExportRepository grava a série de relatórios mensais em um único arquivo.
type ExportRepository interface {
	ExportSeriesToJSON(series []entity.MonthlyReport, filename, outputDir string) (string, error)
	ExportSeriesToCSV(series []entity.MonthlyReport, filename, outputDir string) (string, error)
	ExportSeriesToPDF(series []entity.MonthlyReport, filename, outputDir string) (string, error)
}
