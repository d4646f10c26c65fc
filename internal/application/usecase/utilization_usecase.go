package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
	"github.com/diillson/cluster-utilization-go/internal/domain/service"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

// ReportRepositoryFactory cria o ReportRepository a partir das opções da linha de comando.
type ReportRepositoryFactory func(command, resource string, timeout time.Duration) repository.ReportRepository

// UtilizationUseCase coleta e exibe a série mensal de utilização do cluster.
type UtilizationUseCase struct {
	newReportRepo ReportRepositoryFactory
	exportRepo    repository.ExportRepository
	configRepo    repository.ConfigRepository
	sourceRepo    repository.SourceRepository
	console       types.ConsoleInterface
}

// NewUtilizationUseCase creates a new utilization use case.
func NewUtilizationUseCase(
	newReportRepo ReportRepositoryFactory,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	sourceRepo repository.SourceRepository,
	console types.ConsoleInterface,
) *UtilizationUseCase {
	return &UtilizationUseCase{
		newReportRepo: newReportRepo,
		exportRepo:    exportRepo,
		configRepo:    configRepo,
		sourceRepo:    sourceRepo,
		console:       console,
	}
}

// LoadConfig carrega o arquivo de configuração, se houver, e o aplica sobre os argumentos.
func (uc *UtilizationUseCase) LoadConfig(args *types.CLIArgs, changed func(flag string) bool) error {
	if args.ConfigFile == "" {
		return nil
	}

	cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	uc.console.LogInfo("Loaded configuration from %s", args.ConfigFile)

	return uc.configRepo.MergeConfig(cfg, args, changed)
}

// validateArgs verifica as opções da coleta antes de iniciar qualquer processo externo.
func validateArgs(args *types.CLIArgs) error {
	if args.Months < 1 {
		return fmt.Errorf("months must be at least 1, got %d", args.Months)
	}
	if args.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %v", args.Timeout)
	}
	if strings.TrimSpace(args.Resource) == "" {
		return errors.New("resource must not be empty")
	}
	if args.ReferenceDate.IsZero() {
		return errors.New("reference date must be set")
	}
	switch args.ReportType {
	case "json", "csv", "pdf":
	default:
		return fmt.Errorf("%w: %q", types.ErrUnsupportedReportType, args.ReportType)
	}
	return nil
}

// CollectSeries consulta cada janela em sequência e monta a série em ordem cronológica.
//
// Falhas de um mês (comando, parsing, ausência do recurso ou percentuais
// inconsistentes) geram um aviso e o mês é descartado; a coleta continua.
// Só o cancelamento do contexto interrompe a execução, inclusive durante a
// última janela: nesse caso nenhuma série é devolvida.
func (uc *UtilizationUseCase) CollectSeries(
	ctx context.Context,
	reportRepo repository.ReportRepository,
	windows []entity.MonthWindow,
	resource string,
) ([]entity.MonthlyReport, error) {
	series := make([]entity.MonthlyReport, 0, len(windows))

	progress := uc.console.ProgressWithTotal(len(windows))
	defer progress.Stop()

	for _, window := range windows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collection interrupted at %s: %w", window.Label(), err)
		}

		report, err := uc.collectMonth(ctx, reportRepo, window, resource)
		progress.Increment()
		// Um processo morto pelo cancelamento não conta como mês descartado
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("collection interrupted at %s: %w", window.Label(), ctxErr)
		}
		if err != nil {
			uc.console.LogWarning("Skipping %s: %s", window.Label(), err)
			continue
		}
		series = append(series, report)
	}

	// As janelas vêm do mês mais recente para o mais antigo
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}

	return series, nil
}

func (uc *UtilizationUseCase) collectMonth(
	ctx context.Context,
	reportRepo repository.ReportRepository,
	window entity.MonthWindow,
	resource string,
) (entity.MonthlyReport, error) {
	raw, err := reportRepo.FetchReport(ctx, window)
	if err != nil {
		return entity.MonthlyReport{}, err
	}

	line, err := service.ParseReport(raw, resource)
	if err != nil {
		return entity.MonthlyReport{}, err
	}

	rounded, err := service.RoundTo100(line.Shares())
	if err != nil {
		return entity.MonthlyReport{}, err
	}

	return entity.MonthlyReport{
		Month:    window.Label(),
		Resource: resource,
		Usage: entity.ResourceUsage{
			Used:     rounded[0],
			Idle:     rounded[1],
			Inactive: rounded[2],
		},
	}, nil
}

// RunCollect executa a coleta completa e grava a série em um único arquivo.
func (uc *UtilizationUseCase) RunCollect(ctx context.Context, args *types.CLIArgs) (string, error) {
	if err := validateArgs(args); err != nil {
		return "", err
	}

	windows := entity.PreviousMonths(args.ReferenceDate, args.Months)
	uc.console.LogInfo("Collecting %s utilization for the last %d months (%s to %s)...",
		args.Resource, len(windows), windows[len(windows)-1].Label(), windows[0].Label())

	reportRepo := uc.newReportRepo(args.Command, args.Resource, args.Timeout)
	series, err := uc.CollectSeries(ctx, reportRepo, windows, args.Resource)
	if err != nil {
		return "", err
	}

	skipped := len(windows) - len(series)
	if skipped > 0 {
		uc.console.LogWarning("%d of %d months were skipped", skipped, len(windows))
	}

	outputPath, err := uc.exportSeries(series, args)
	if err != nil {
		return "", err
	}
	uc.console.LogSuccess("Report saved to: %s", outputPath)

	uc.displaySeries(fmt.Sprintf("Cluster activity (%s)", args.Resource), series)
	return outputPath, nil
}

func (uc *UtilizationUseCase) exportSeries(series []entity.MonthlyReport, args *types.CLIArgs) (string, error) {
	var (
		path string
		err  error
	)

	switch args.ReportType {
	case "json":
		path, err = uc.exportRepo.ExportSeriesToJSON(series, args.ReportName, args.Dir)
	case "csv":
		path, err = uc.exportRepo.ExportSeriesToCSV(series, args.ReportName, args.Dir)
	case "pdf":
		path, err = uc.exportRepo.ExportSeriesToPDF(series, args.ReportName, args.Dir)
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedReportType, args.ReportType)
	}
	if err != nil {
		return "", fmt.Errorf("failed to export report to %s: %w", strings.ToUpper(args.ReportType), err)
	}
	return path, nil
}

// RunShow carrega uma série existente e a exibe no console.
func (uc *UtilizationUseCase) RunShow(ctx context.Context, args *types.ShowArgs) error {
	status := uc.console.Status("Loading utilization series...")
	series, used, err := uc.sourceRepo.LoadSeries(ctx, args.Source)
	status.Stop()
	if err != nil {
		return err
	}

	if args.Source != "" && used != args.Source {
		uc.console.LogWarning("Could not load %s, using %s instead", args.Source, used)
	}
	uc.console.LogInfo("Loaded %d months from %s", len(series), used)

	valid := make([]entity.MonthlyReport, 0, len(series))
	for _, report := range series {
		if args.Resource != "" && report.Resource != args.Resource {
			continue
		}
		if total := report.Usage.Total(); total != service.PercentTotal {
			uc.console.LogWarning("Month %s adds up to %d%%, ignoring it", report.Month, total)
			continue
		}
		valid = append(valid, report)
	}

	title := "Cluster activity"
	if args.Resource != "" {
		title = fmt.Sprintf("Cluster activity (%s)", args.Resource)
	}
	uc.displaySeries(title, valid)
	return nil
}

// displaySeries mostra as barras mensais e o resumo do percentual utilizado.
func (uc *UtilizationUseCase) displaySeries(title string, series []entity.MonthlyReport) {
	if len(series) == 0 {
		uc.console.LogWarning("No months collected")
		return
	}

	usages := make([]types.MonthlyUsage, 0, len(series))
	for _, report := range series {
		usages = append(usages, types.MonthlyUsage{
			Month:    report.Month,
			Used:     report.Usage.Used,
			Idle:     report.Usage.Idle,
			Inactive: report.Usage.Inactive,
		})
	}
	uc.console.DisplayUsageBars(title, usages)

	summary, err := service.SummarizeUsage(series)
	if err != nil {
		uc.console.LogError("Failed to summarize usage: %s", err)
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Months")
	table.AddColumn("Mean")
	table.AddColumn("Median")
	table.AddColumn("Min")
	table.AddColumn("Max")
	table.AddColumn("P90")
	table.AddRow(
		summary.Months,
		fmt.Sprintf("%.1f%%", summary.Mean),
		fmt.Sprintf("%.1f%%", summary.Median),
		fmt.Sprintf("%.0f%%", summary.Min),
		fmt.Sprintf("%.0f%%", summary.Max),
		fmt.Sprintf("%.1f%%", summary.P90),
	)
	uc.console.Println(table.Render())
}
