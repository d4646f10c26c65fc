package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// ExportSeriesToJSON grava a série como um array JSON indentado com 2 espaços.
// O arquivo é escrito de uma vez só; execuções com os mesmos dados geram bytes idênticos.
func (r *ExportRepositoryImpl) ExportSeriesToJSON(series []entity.MonthlyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	if series == nil {
		series = []entity.MonthlyReport{}
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(series); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing JSON file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportSeriesToCSV grava a série com uma linha por mês.
func (r *ExportRepositoryImpl) ExportSeriesToCSV(series []entity.MonthlyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"mes", "recurso", "utilizado", "ocioso", "inativo"}); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, report := range series {
		record := []string{
			report.Month,
			report.Resource,
			strconv.Itoa(report.Usage.Used),
			strconv.Itoa(report.Usage.Idle),
			strconv.Itoa(report.Usage.Inactive),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportSeriesToPDF gera uma página com a tabela mensal de utilização.
func (r *ExportRepositoryImpl) ExportSeriesToPDF(series []entity.MonthlyReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	title := "  Atividade do cluster"
	if len(series) > 0 {
		title = fmt.Sprintf("  Atividade do cluster (%s), %s a %s",
			series[0].Resource, series[0].Month, series[len(series)-1].Month)
	}
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	colWidths := []float64{40, 50, 50, 50}
	headers := []string{"Mês", "Utilizado", "Ocioso", "Inativo"}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, report := range series {
		cells := []string{
			report.Month,
			fmt.Sprintf("%d%%", report.Usage.Used),
			fmt.Sprintf("%d%%", report.Usage.Idle),
			fmt.Sprintf("%d%%", report.Usage.Inactive),
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 7, tr(c), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(series) == 0 {
		pdf.Ln(4)
		pdf.MultiCell(190, 5, tr("Nenhum mês coletado."), "", "L", false)
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by Cluster Utilization Report (Go) | %s", r.now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename monta <base>.<ext> no diretório de saída e garante que o diretório exista.
// O nome não leva timestamp: uma nova execução sobrescreve o mesmo arquivo.
func generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("report name must not be empty")
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", base, ext)), nil
}
