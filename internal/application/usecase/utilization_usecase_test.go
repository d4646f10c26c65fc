package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/config"
	"github.com/diillson/cluster-utilization-go/internal/adapter/driven/export"
	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

// --- dublês de teste ---

type recordingConsole struct {
	infos    []string
	warnings []string
	errors   []string
	success  []string
	bars     [][]types.MonthlyUsage
}

func (c *recordingConsole) Print(a ...interface{})                 {}
func (c *recordingConsole) Printf(format string, a ...interface{}) {}
func (c *recordingConsole) Println(a ...interface{})               {}
func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}
func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.success = append(c.success, fmt.Sprintf(format, a...))
}
func (c *recordingConsole) Status(string) types.StatusHandle           { return noopHandle{} }
func (c *recordingConsole) ProgressWithTotal(int) types.ProgressHandle { return noopHandle{} }
func (c *recordingConsole) CreateTable() types.TableInterface          { return &noopTable{} }
func (c *recordingConsole) DisplayUsageBars(_ string, usages []types.MonthlyUsage) {
	c.bars = append(c.bars, usages)
}

type noopHandle struct{}

func (noopHandle) Update(string) {}
func (noopHandle) Increment()    {}
func (noopHandle) Stop()         {}

type noopTable struct{}

func (*noopTable) AddColumn(string, ...interface{}) {}
func (*noopTable) AddRow(...interface{})            {}
func (*noopTable) Render() string                   { return "" }

// scriptedReports responde por mês (MM-YYYY); meses ausentes do mapa falham.
type scriptedReports struct {
	responses map[string]string
	calls     []string
	onFetch   func(window entity.MonthWindow)
}

func (s *scriptedReports) FetchReport(_ context.Context, window entity.MonthWindow) (string, error) {
	s.calls = append(s.calls, window.Label())
	if s.onFetch != nil {
		s.onFetch(window)
	}
	raw, ok := s.responses[window.Label()]
	if !ok {
		return "", &types.CommandError{Window: window.Label(), ExitCode: 1, Stderr: "sreport: error: connection refused"}
	}
	return raw, nil
}

type fakeSource struct {
	series []entity.MonthlyReport
	used   string
	err    error
}

func (f *fakeSource) LoadSeries(_ context.Context, source string) ([]entity.MonthlyReport, string, error) {
	if f.used == "" {
		return f.series, source, f.err
	}
	return f.series, f.used, f.err
}

// --- helpers ---

var referenceDate = time.Date(2025, time.November, 6, 0, 0, 0, 0, time.UTC)

func sreportLine(allocated float64) string {
	idle := 100 - allocated - 1.10 - 0.40 - 0.50
	return fmt.Sprintf("cluster|cpu|%.2f%%|1.10%%|0.40%%|%.2f%%|0.50%%|100.00%%\n", allocated, idle)
}

// twelveMonths devolve respostas válidas para os 12 meses anteriores a referenceDate, exceto os indicados.
func twelveMonths(failing ...string) map[string]string {
	responses := map[string]string{}
	for i, w := range entity.PreviousMonths(referenceDate, 12) {
		responses[w.Label()] = "cluster|mem|10.00%|0.00%|0.00%|90.00%|0.00%|100.00%\n" + sreportLine(40.37+float64(i)*3.3)
	}
	for _, month := range failing {
		delete(responses, month)
	}
	return responses
}

func newUseCase(reports repository.ReportRepository, console types.ConsoleInterface, source repository.SourceRepository) *UtilizationUseCase {
	factory := func(string, string, time.Duration) repository.ReportRepository { return reports }
	return NewUtilizationUseCase(factory, export.NewExportRepository(), config.NewConfigRepository(), source, console)
}

func collectArgs(dir string) *types.CLIArgs {
	return &types.CLIArgs{
		Command:       "sreport",
		Resource:      "cpu",
		Months:        12,
		ReferenceDate: referenceDate,
		Timeout:       time.Minute,
		ReportName:    "utilizacao_cpu_cluster",
		ReportType:    "json",
		Dir:           dir,
	}
}

func readSeries(t *testing.T, path string) []entity.MonthlyReport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var series []entity.MonthlyReport
	require.NoError(t, json.Unmarshal(data, &series))
	return series
}

// --- testes ---

func TestRunCollect_SkipsFailedMonths(t *testing.T) {
	dir := t.TempDir()
	console := &recordingConsole{}
	reports := &scriptedReports{responses: twelveMonths("03-2025", "07-2025")}
	uc := newUseCase(reports, console, nil)

	path, err := uc.RunCollect(context.Background(), collectArgs(dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "utilizacao_cpu_cluster.json"), path)

	// todas as 12 janelas são tentadas, da mais recente para a mais antiga
	require.Len(t, reports.calls, 12)
	assert.Equal(t, "10-2025", reports.calls[0])
	assert.Equal(t, "11-2024", reports.calls[11])

	series := readSeries(t, path)
	require.Len(t, series, 10)

	months := make([]time.Time, 0, len(series))
	for _, report := range series {
		assert.Equal(t, "cpu", report.Resource)
		assert.Equal(t, 100, report.Usage.Used+report.Usage.Idle+report.Usage.Inactive, "month %s", report.Month)
		m, err := time.Parse("01-2006", report.Month)
		require.NoError(t, err)
		months = append(months, m)
	}
	assert.True(t, sort.SliceIsSorted(months, func(i, j int) bool { return months[i].Before(months[j]) }))
	assert.Equal(t, "11-2024", series[0].Month)
	assert.Equal(t, "10-2025", series[9].Month)
	for _, report := range series {
		assert.NotEqual(t, "03-2025", report.Month)
		assert.NotEqual(t, "07-2025", report.Month)
	}

	require.Len(t, console.warnings, 3)
	assert.Contains(t, console.warnings[0], "07-2025")
	assert.Contains(t, console.warnings[0], "connection refused")
	assert.Contains(t, console.warnings[1], "03-2025")
	assert.Equal(t, "2 of 12 months were skipped", console.warnings[2])
	require.Len(t, console.bars, 1)
	assert.Len(t, console.bars[0], 10)
}

func TestRunCollect_NormalizesMonth(t *testing.T) {
	dir := t.TempDir()
	reports := &scriptedReports{responses: map[string]string{
		"10-2025": "cluster|cpu|50.00%|2.00%|1.00%|45.00%|2.00%|extra\n",
	}}
	args := collectArgs(dir)
	args.Months = 1

	path, err := newUseCase(reports, &recordingConsole{}, nil).RunCollect(context.Background(), args)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "mes": "10-2025",
    "cpu": {
      "utilizado": 52,
      "ocioso": 45,
      "inativo": 3
    }
  }
]
`, string(data))
}

func TestRunCollect_Idempotent(t *testing.T) {
	dir := t.TempDir()
	responses := twelveMonths("01-2025")

	first, err := newUseCase(&scriptedReports{responses: responses}, &recordingConsole{}, nil).
		RunCollect(context.Background(), collectArgs(dir))
	require.NoError(t, err)
	firstData, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := newUseCase(&scriptedReports{responses: responses}, &recordingConsole{}, nil).
		RunCollect(context.Background(), collectArgs(dir))
	require.NoError(t, err)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstData, secondData)
}

func TestRunCollect_SkipsMonthsWithoutUsableData(t *testing.T) {
	dir := t.TempDir()
	console := &recordingConsole{}
	responses := twelveMonths()
	responses["10-2025"] = ""                                                    // sem saída
	responses["09-2025"] = "cluster|mem|10.00%|0.00%|0.00%|90.00%|0.00%|100.00%" // sem cpu
	responses["08-2025"] = "cluster|cpu|30.00%|0.00%|0.00%|30.00%|0.00%|60.00%"  // total de 60%
	responses["07-2025"] = "cluster|cpu|abc|0.00%|0.00%|30.00%|0.00%|60.00%"     // percentual inválido

	path, err := newUseCase(&scriptedReports{responses: responses}, console, nil).
		RunCollect(context.Background(), collectArgs(dir))
	require.NoError(t, err)

	series := readSeries(t, path)
	assert.Len(t, series, 8)
	assert.Equal(t, "06-2025", series[len(series)-1].Month)

	joined := strings.Join(console.warnings, "\n")
	assert.Contains(t, joined, "Skipping 10-2025")
	assert.Contains(t, joined, "Skipping 09-2025")
	assert.Contains(t, joined, "Skipping 08-2025")
	assert.Contains(t, joined, "Skipping 07-2025")
}

func TestRunCollect_AllMonthsFail(t *testing.T) {
	dir := t.TempDir()
	console := &recordingConsole{}

	path, err := newUseCase(&scriptedReports{}, console, nil).RunCollect(context.Background(), collectArgs(dir))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	assert.Contains(t, console.warnings, "No months collected")
}

func TestRunCollect_CancelledRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := &scriptedReports{responses: twelveMonths()}
	reports.onFetch = func(window entity.MonthWindow) {
		if window.Label() == "06-2025" {
			cancel()
		}
	}

	_, err := newUseCase(reports, &recordingConsole{}, nil).RunCollect(ctx, collectArgs(dir))
	require.ErrorIs(t, err, context.Canceled)

	assert.Len(t, reports.calls, 5)
	assert.NoFileExists(t, filepath.Join(dir, "utilizacao_cpu_cluster.json"))
}

func TestRunCollect_CancelledDuringLastMonth(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// o processo do último mês morre com o sinal e o comando falha
	reports := &scriptedReports{responses: twelveMonths("11-2024")}
	reports.onFetch = func(window entity.MonthWindow) {
		if window.Label() == "11-2024" {
			cancel()
		}
	}
	console := &recordingConsole{}

	path, err := newUseCase(reports, console, nil).RunCollect(ctx, collectArgs(dir))
	require.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, path)
	assert.Len(t, reports.calls, 12)
	assert.Empty(t, console.warnings)
	assert.Empty(t, console.success)
	assert.NoFileExists(t, filepath.Join(dir, "utilizacao_cpu_cluster.json"))
}

func TestRunCollect_CancelledAfterLastMonthSucceeded(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := &scriptedReports{responses: twelveMonths()}
	reports.onFetch = func(window entity.MonthWindow) {
		if window.Label() == "11-2024" {
			cancel()
		}
	}

	_, err := newUseCase(reports, &recordingConsole{}, nil).RunCollect(ctx, collectArgs(dir))
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "utilizacao_cpu_cluster.json"))
}

func TestRunCollect_CSV(t *testing.T) {
	dir := t.TempDir()
	args := collectArgs(dir)
	args.ReportType = "csv"

	path, err := newUseCase(&scriptedReports{responses: twelveMonths()}, &recordingConsole{}, nil).
		RunCollect(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[1], "11-2024,cpu,"))
}

func TestRunCollect_InvalidArgs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.CLIArgs)
		wantErr string
	}{
		{"zero months", func(a *types.CLIArgs) { a.Months = 0 }, "months must be at least 1"},
		{"negative timeout", func(a *types.CLIArgs) { a.Timeout = -time.Second }, "timeout must be positive"},
		{"empty resource", func(a *types.CLIArgs) { a.Resource = " " }, "resource must not be empty"},
		{"missing reference date", func(a *types.CLIArgs) { a.ReferenceDate = time.Time{} }, "reference date must be set"},
		{"unknown report type", func(a *types.CLIArgs) { a.ReportType = "xlsx" }, "unsupported report type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports := &scriptedReports{}
			args := collectArgs(t.TempDir())
			tt.mutate(args)

			_, err := newUseCase(reports, &recordingConsole{}, nil).RunCollect(context.Background(), args)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, reports.calls)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("months: 3\nreference_date: \"2025-02-10\"\n"), 0o644))

	args := collectArgs(t.TempDir())
	args.ConfigFile = path
	uc := newUseCase(&scriptedReports{}, &recordingConsole{}, nil)

	require.NoError(t, uc.LoadConfig(args, func(string) bool { return false }))
	assert.Equal(t, 3, args.Months)
	assert.Equal(t, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), args.ReferenceDate)
}

func TestRunShow(t *testing.T) {
	console := &recordingConsole{}
	source := &fakeSource{series: []entity.MonthlyReport{
		{Month: "09-2025", Resource: "cpu", Usage: entity.ResourceUsage{Used: 52, Idle: 45, Inactive: 3}},
		{Month: "10-2025", Resource: "cpu", Usage: entity.ResourceUsage{Used: 52, Idle: 45, Inactive: 2}},
		{Month: "10-2025", Resource: "gres/gpu", Usage: entity.ResourceUsage{Used: 10, Idle: 90}},
	}}

	err := newUseCase(nil, console, source).RunShow(context.Background(), &types.ShowArgs{Source: "dados/a.json", Resource: "cpu"})
	require.NoError(t, err)

	require.Len(t, console.bars, 1)
	assert.Equal(t, []types.MonthlyUsage{{Month: "09-2025", Used: 52, Idle: 45, Inactive: 3}}, console.bars[0])
	require.Len(t, console.warnings, 1)
	assert.Contains(t, console.warnings[0], "10-2025 adds up to 99%")
}

func TestRunShow_FallbackAndErrors(t *testing.T) {
	t.Run("fallback source is reported", func(t *testing.T) {
		console := &recordingConsole{}
		source := &fakeSource{used: "dados/atividade_supercomp.json"}

		require.NoError(t, newUseCase(nil, console, source).RunShow(context.Background(), &types.ShowArgs{Source: "https://example.invalid/a.json"}))
		assert.Contains(t, console.warnings[0], "using dados/atividade_supercomp.json instead")
	})

	t.Run("load error propagates", func(t *testing.T) {
		source := &fakeSource{err: errors.New("no such file")}

		err := newUseCase(nil, &recordingConsole{}, source).RunShow(context.Background(), &types.ShowArgs{})
		assert.ErrorContains(t, err, "no such file")
	})
}
