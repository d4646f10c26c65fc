package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UsageLine contém os percentuais de uma linha de recurso do relatório do cluster.
type UsageLine struct {
	Resource    string  `json:"resource"`
	Allocated   float64 `json:"allocated"`
	Down        float64 `json:"down"`
	PlannedDown float64 `json:"planned_down"`
	Idle        float64 `json:"idle"`
	Planned     float64 `json:"planned"`
}

// Shares agrupa os percentuais nas três categorias do relatório:
// utilizado (alocado + planejado), ocioso e inativo (down + planned down).
func (l UsageLine) Shares() []float64 {
	return []float64{
		l.Allocated + l.Planned,
		l.Idle,
		l.Down + l.PlannedDown,
	}
}

// ResourceUsage é a distribuição inteira de um recurso; os campos somam 100.
type ResourceUsage struct {
	Used     int `json:"utilizado"`
	Idle     int `json:"ocioso"`
	Inactive int `json:"inativo"`
}

// Total retorna a soma das três categorias.
func (u ResourceUsage) Total() int {
	return u.Used + u.Idle + u.Inactive
}

// MonthlyReport é o registro de um mês coletado com sucesso.
// No JSON o uso fica sob uma chave com o nome do recurso (ex.: "cpu").
type MonthlyReport struct {
	Month    string
	Resource string
	Usage    ResourceUsage
}

// MarshalJSON escreve "mes" primeiro e depois a chave do recurso, mantendo a ordem estável.
func (r MonthlyReport) MarshalJSON() ([]byte, error) {
	if r.Resource == "" {
		return nil, fmt.Errorf("monthly report %s has no resource name", r.Month)
	}

	month, err := json.Marshal(r.Month)
	if err != nil {
		return nil, err
	}
	resource, err := json.Marshal(r.Resource)
	if err != nil {
		return nil, err
	}
	usage, err := json.Marshal(r.Usage)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"mes":`)
	buf.Write(month)
	buf.WriteByte(',')
	buf.Write(resource)
	buf.WriteByte(':')
	buf.Write(usage)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON lê um registro com "mes" e exatamente uma chave de recurso.
func (r *MonthlyReport) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	monthRaw, ok := raw["mes"]
	if !ok {
		return fmt.Errorf("monthly report without \"mes\" field")
	}
	var month string
	if err := json.Unmarshal(monthRaw, &month); err != nil {
		return fmt.Errorf("invalid \"mes\" field: %w", err)
	}
	delete(raw, "mes")

	if len(raw) != 1 {
		return fmt.Errorf("monthly report %s must have exactly one resource, found %d", month, len(raw))
	}

	for resource, usageRaw := range raw {
		var usage ResourceUsage
		if err := json.Unmarshal(usageRaw, &usage); err != nil {
			return fmt.Errorf("invalid usage for %s in %s: %w", resource, month, err)
		}
		*r = MonthlyReport{Month: month, Resource: resource, Usage: usage}
	}
	return nil
}

// UsageSummary resume o percentual utilizado ao longo de uma série.
type UsageSummary struct {
	Months int     `json:"months"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P90    float64 `json:"p90"`
}
