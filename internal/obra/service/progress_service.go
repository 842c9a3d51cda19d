package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/shopspring/decimal"
)

// AggregatedRubro vista calculada de un rubro: acumulados y porcentaje.
// No se persiste; se deriva de los registros diarios en cada consulta.
type AggregatedRubro struct {
	Rubro              entity.Rubro    `json:"rubro"`
	ContractAmount     decimal.Decimal `json:"contract_amount"`
	ExecutedQuantity   decimal.Decimal `json:"executed_quantity"`
	ExecutedValue      decimal.Decimal `json:"executed_value"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
}

// ProjectAggregate vista calculada del proyecto completo
type ProjectAggregate struct {
	Rubros              []AggregatedRubro `json:"rubros"`
	TotalContractAmount decimal.Decimal   `json:"total_contract_amount"`
	TotalExecutedValue  decimal.Decimal   `json:"total_executed_value"`
	OverallProgress     decimal.Decimal   `json:"overall_progress"`
}

var oneHundred = decimal.NewFromInt(100)

// ParseQuantity parsea una cantidad ingresada como texto libre.
// Valores vacíos o no numéricos se tratan como cero; nunca falla.
func ParseQuantity(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AggregateRubro acumula la cantidad ejecutada de un rubro a través de
// todos los registros diarios. La suma es conmutativa: el orden de los
// registros no afecta el resultado. Porcentaje = valor ejecutado / monto
// contractual × 100; definido como 0 cuando el monto contractual es 0.
func AggregateRubro(rubro entity.Rubro, logs []entity.DailyLog) AggregatedRubro {
	executedQty := decimal.Zero
	for _, log := range logs {
		for _, ru := range log.RubroUpdates {
			if ru.RubroID == rubro.ID {
				executedQty = executedQty.Add(ParseQuantity(ru.QuantityExecutedToday))
			}
		}
	}

	contractAmount := rubro.ContractAmount()
	executedValue := executedQty.Mul(rubro.UnitPrice)

	progress := decimal.Zero
	if contractAmount.IsPositive() {
		progress = executedValue.Div(contractAmount).Mul(oneHundred)
	}

	return AggregatedRubro{
		Rubro:              rubro,
		ContractAmount:     contractAmount,
		ExecutedQuantity:   executedQty,
		ExecutedValue:      executedValue,
		ProgressPercentage: progress,
	}
}

// AggregateProject agrega todos los rubros y calcula el avance general.
// Lista vacía o monto contractual total cero → 0%, nunca un error.
func AggregateProject(rubros []entity.Rubro, logs []entity.DailyLog) ProjectAggregate {
	agg := ProjectAggregate{
		TotalContractAmount: decimal.Zero,
		TotalExecutedValue:  decimal.Zero,
		OverallProgress:     decimal.Zero,
	}

	for _, rubro := range rubros {
		ar := AggregateRubro(rubro, logs)
		agg.Rubros = append(agg.Rubros, ar)
		agg.TotalContractAmount = agg.TotalContractAmount.Add(ar.ContractAmount)
		agg.TotalExecutedValue = agg.TotalExecutedValue.Add(ar.ExecutedValue)
	}

	if agg.TotalContractAmount.IsPositive() {
		agg.OverallProgress = agg.TotalExecutedValue.Div(agg.TotalContractAmount).Mul(oneHundred)
	}

	return agg
}

// CompareRubroNumbers compara números de rubro jerárquicos ("1.2" < "1.10")
// componente a componente en orden numérico, no lexicográfico. Componentes
// no numéricos valen 0.
func CompareRubroNumbers(a, b string) int {
	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")

	n := len(partsA)
	if len(partsB) > n {
		n = len(partsB)
	}
	for i := 0; i < n; i++ {
		var valA, valB float64
		if i < len(partsA) {
			valA, _ = strconv.ParseFloat(partsA[i], 64)
		}
		if i < len(partsB) {
			valB, _ = strconv.ParseFloat(partsB[i], 64)
		}
		if valA < valB {
			return -1
		}
		if valA > valB {
			return 1
		}
	}
	return 0
}

// SortAggregatedRubros ordena por número de rubro jerárquico (estable,
// para que los rubros sin número conserven su orden de inserción).
func SortAggregatedRubros(rubros []AggregatedRubro) {
	sort.SliceStable(rubros, func(i, j int) bool {
		return CompareRubroNumbers(rubros[i].Rubro.RubroNumber, rubros[j].Rubro.RubroNumber) < 0
	})
}

// SortLogsByDateAsc ordena registros diarios por fecha ascendente
// (orden de exportación; el listado en pantalla usa descendente).
func SortLogsByDateAsc(logs []entity.DailyLog) []entity.DailyLog {
	sorted := make([]entity.DailyLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
