package entity

import "time"

const (
	monthLabelLayout  = "01-2006"
	sreportDateLayout = "01/02/06"
)

// MonthWindow representa um mês civil completo, com início e fim inclusivos.
type MonthWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Label retorna o mês no formato MM-YYYY usado no relatório.
func (w MonthWindow) Label() string {
	return w.Start.Format(monthLabelLayout)
}

// SreportStart formata o início da janela como MM/DD/YY.
func (w MonthWindow) SreportStart() string {
	return w.Start.Format(sreportDateLayout)
}

// SreportEnd formata o fim da janela como MM/DD/YY.
func (w MonthWindow) SreportEnd() string {
	return w.End.Format(sreportDateLayout)
}

// PreviousMonths gera n janelas mensais a partir do mês anterior ao de today,
// andando para trás: a primeira janela é a mais recente.
func PreviousMonths(today time.Time, n int) []MonthWindow {
	if n <= 0 {
		return nil
	}

	windows := make([]MonthWindow, 0, n)
	// Primeiro dia do mês corrente; o dia anterior é o fim da primeira janela
	next := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		end := next.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		windows = append(windows, MonthWindow{Start: start, End: end})
		next = start
	}

	return windows
}
