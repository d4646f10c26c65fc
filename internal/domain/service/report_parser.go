package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

// Posições dos campos na saída parsable (-nP) do "sreport cluster utilization".
const (
	fieldResource = iota + 1
	fieldAllocated
	fieldDown
	fieldPlannedDown
	fieldIdle
	fieldPlanned

	minFields = fieldPlanned + 1
)

// ParseReport extrai a linha do recurso rastreado da saída bruta do sreport.
//
// Linhas vazias, com menos de 7 campos ou de outros recursos são ignoradas.
// Linhas do recurso com percentuais inválidos também são ignoradas; se nenhuma
// linha válida sobrar, o erro retornado inclui os *types.ParseError encontrados.
// Sem nenhuma linha do recurso, retorna types.ErrNoData. Havendo mais de uma
// linha válida, a última prevalece.
func ParseReport(raw, resource string) (entity.UsageLine, error) {
	var (
		found     bool
		usage     entity.UsageLine
		parseErrs []error
	)

	for i, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < minFields {
			continue
		}
		if strings.TrimSpace(parts[fieldResource]) != resource {
			continue
		}

		parsed, err := parseUsageLine(parts, resource)
		if err != nil {
			parseErrs = append(parseErrs, &types.ParseError{Line: i + 1, Text: line, Err: err})
			continue
		}
		usage = parsed
		found = true
	}

	if found {
		return usage, nil
	}
	if len(parseErrs) > 0 {
		return entity.UsageLine{}, fmt.Errorf("%w for %s: %w", types.ErrNoData, resource, errors.Join(parseErrs...))
	}
	return entity.UsageLine{}, fmt.Errorf("%w (%s)", types.ErrNoData, resource)
}

func parseUsageLine(parts []string, resource string) (entity.UsageLine, error) {
	values := make([]float64, 0, fieldPlanned-fieldAllocated+1)
	for idx := fieldAllocated; idx <= fieldPlanned; idx++ {
		v, err := parsePercent(parts[idx])
		if err != nil {
			return entity.UsageLine{}, err
		}
		values = append(values, v)
	}

	return entity.UsageLine{
		Resource:    resource,
		Allocated:   values[0],
		Down:        values[1],
		PlannedDown: values[2],
		Idle:        values[3],
		Planned:     values[4],
	}, nil
}

// parsePercent converte "50.00%" ou "50.00" em float64.
func parsePercent(field string) (float64, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(field), "%"))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", field, err)
	}
	return v, nil
}
