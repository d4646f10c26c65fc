package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

// PercentTotal é o total que a distribuição arredondada deve atingir.
const PercentTotal = 100

// RoundTo100 converte percentuais em inteiros que somam exatamente 100
// usando o método dos maiores restos (Hare-Niemeyer).
//
// Cada valor é truncado; as unidades que faltam vão para os maiores restos
// fracionários, com empate resolvido pelo menor índice. Se a soma dos valores
// estiver longe de 100 (faltam menos de 0 ou mais de len(values) unidades),
// retorna ErrTotalOutOfRange.
func RoundTo100(values []float64) ([]int, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to round", types.ErrTotalOutOfRange)
	}

	ints := make([]int, len(values))
	remainders := make([]float64, len(values))
	sum := 0
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: got %v at position %d", types.ErrNegativeValue, v, i)
		}
		// Acima deste limite a soma já estoura 100 e a conversão para int pode transbordar
		if v > float64(PercentTotal+len(values)) {
			return nil, fmt.Errorf("%w: got %v at position %d", types.ErrTotalOutOfRange, v, i)
		}
		floor := math.Floor(v)
		ints[i] = int(floor)
		remainders[i] = v - floor
		sum += ints[i]
	}

	deficit := PercentTotal - sum
	if deficit < 0 || deficit > len(values) {
		return nil, fmt.Errorf("%w: values %v leave %d units to distribute", types.ErrTotalOutOfRange, values, deficit)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	for _, idx := range order[:deficit] {
		ints[idx]++
	}

	return ints, nil
}
