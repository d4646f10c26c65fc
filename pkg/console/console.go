package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/diillson/cluster-utilization-go/internal/shared/types"
	"github.com/pterm/pterm"
)

const barWidth = 40

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// progressHandle é uma implementação do ProgressHandle.
type progressHandle struct {
	bar *pterm.ProgressbarPrinter
}

// ProgressWithTotal cria uma barra de progresso com o total de itens informado.
func (c *Console) ProgressWithTotal(total int) types.ProgressHandle {
	bar, _ := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Collecting monthly reports").
		WithShowElapsedTime(true).
		WithShowCount(true).
		WithRemoveWhenDone(false). // Manter a barra após concluir
		Start()
	return &progressHandle{bar: bar}
}

// Increment incrementa a barra de progresso.
func (h *progressHandle) Increment() {
	if h.bar != nil {
		h.bar.Increment()
	}
}

// Stop pára a barra de progresso.
func (h *progressHandle) Stop() {
	if h.bar != nil {
		h.bar.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	// Convertemos cada célula para string
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	// Use o pterm para criar uma tabela visualmente agradável
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayUsageBars exibe, mês a mês, uma barra empilhada com utilizado, ocioso e inativo.
func (c *Console) DisplayUsageBars(title string, usages []types.MonthlyUsage) {
	if len(usages) == 0 {
		pterm.Warning.Println("No months to display")
		return
	}

	tableData := pterm.TableData{
		{"Mês", "Utilizado", "Ocioso", "Inativo", "", "Variação"},
	}

	var prevUsed *int

	for _, u := range usages {
		bar := pterm.FgGreen.Sprint(strings.Repeat("█", scaleBar(u.Used))) +
			pterm.FgGray.Sprint(strings.Repeat("█", scaleBar(u.Idle))) +
			pterm.FgRed.Sprint(strings.Repeat("█", scaleBar(u.Inactive)))

		change := ""
		if prevUsed != nil {
			diff := u.Used - *prevUsed
			switch {
			case diff > 0:
				change = pterm.FgGreen.Sprintf("+%d p.p.", diff)
			case diff < 0:
				change = pterm.FgRed.Sprintf("%d p.p.", diff)
			default:
				change = pterm.FgYellow.Sprint("0 p.p.")
			}
		}

		tableData = append(tableData, []string{
			u.Month,
			fmt.Sprintf("%d%%", u.Used),
			fmt.Sprintf("%d%%", u.Idle),
			fmt.Sprintf("%d%%", u.Inactive),
			bar,
			change,
		})

		used := u.Used
		prevUsed = &used
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Println("\n" + panel)
}

// scaleBar converte um percentual em largura de barra (40 colunas = 100%).
func scaleBar(percent int) int {
	if percent <= 0 {
		return 0
	}
	return int(math.Round(float64(percent) * barWidth / 100))
}
