package service

import (
	"testing"
	"time"

	"github.com/andamio/obralog/internal/obra/entity"
	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func rubro(id, number string, quantity, unitPrice string) entity.Rubro {
	return entity.Rubro{
		ID:          id,
		RubroNumber: number,
		Name:        "Rubro " + id,
		Unit:        "M3",
		Quantity:    decimal.RequireFromString(quantity),
		UnitPrice:   decimal.RequireFromString(unitPrice),
	}
}

func logWithUpdates(d string, updates ...entity.RubroUpdate) entity.DailyLog {
	return entity.DailyLog{
		ID:           "log-" + d,
		Date:         date(d),
		RubroUpdates: updates,
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.5", "12.5"},
		{"  7 ", "7"},
		{"", "0"},
		{"abc", "0"},
		{"1,5", "0"},
		{"-3.2", "-3.2"},
	}
	for _, tc := range cases {
		got := ParseQuantity(tc.in)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseQuantity(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestAggregateRubroAccumulates(t *testing.T) {
	r := rubro("r1", "1.1", "100", "10")
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "20"}),
		logWithUpdates("2025-03-02", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "30"}),
		logWithUpdates("2025-03-03", entity.RubroUpdate{RubroID: "r2", QuantityExecutedToday: "999"}),
	}

	agg := AggregateRubro(r, logs)

	if got := agg.ExecutedQuantity.StringFixed(2); got != "50.00" {
		t.Errorf("ExecutedQuantity = %s, want 50.00", got)
	}
	if got := agg.ExecutedValue.StringFixed(2); got != "500.00" {
		t.Errorf("ExecutedValue = %s, want 500.00", got)
	}
	if got := agg.ContractAmount.StringFixed(2); got != "1000.00" {
		t.Errorf("ContractAmount = %s, want 1000.00", got)
	}
	if got := agg.ProgressPercentage.StringFixed(2); got != "50.00" {
		t.Errorf("ProgressPercentage = %s, want 50.00", got)
	}
}

func TestAggregateRubroOrderInvariant(t *testing.T) {
	r := rubro("r1", "1", "100", "10")
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "12.5"}),
		logWithUpdates("2025-03-02", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "7.25"}),
		logWithUpdates("2025-03-03", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "0.25"}),
	}
	reversed := []entity.DailyLog{logs[2], logs[1], logs[0]}

	a := AggregateRubro(r, logs)
	b := AggregateRubro(r, reversed)

	if !a.ExecutedQuantity.Equal(b.ExecutedQuantity) {
		t.Errorf("order changed the total: %s vs %s", a.ExecutedQuantity, b.ExecutedQuantity)
	}
	if !a.ProgressPercentage.Equal(b.ProgressPercentage) {
		t.Errorf("order changed the percentage: %s vs %s", a.ProgressPercentage, b.ProgressPercentage)
	}
}

func TestAggregateRubroNonNumericContributesZero(t *testing.T) {
	r := rubro("r1", "1", "100", "10")
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "n/a"}),
		logWithUpdates("2025-03-02", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: ""}),
		logWithUpdates("2025-03-03", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "10"}),
	}

	agg := AggregateRubro(r, logs)
	if got := agg.ExecutedQuantity.StringFixed(2); got != "10.00" {
		t.Errorf("ExecutedQuantity = %s, want 10.00", got)
	}
}

func TestAggregateRubroZeroContractAmount(t *testing.T) {
	// Monto contractual cero: el porcentaje debe ser cero, nunca infinito
	r := rubro("r1", "1", "0", "10")
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "5"}),
	}

	agg := AggregateRubro(r, logs)
	if !agg.ProgressPercentage.IsZero() {
		t.Errorf("ProgressPercentage = %s, want 0", agg.ProgressPercentage)
	}
	if got := agg.ExecutedValue.StringFixed(2); got != "50.00" {
		t.Errorf("ExecutedValue = %s, want 50.00", got)
	}
}

func TestAggregateRubroOverExecution(t *testing.T) {
	// La sobreejecución no se recorta al 100%
	r := rubro("r1", "1", "10", "10")
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01", entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "15"}),
	}

	agg := AggregateRubro(r, logs)
	if got := agg.ProgressPercentage.StringFixed(2); got != "150.00" {
		t.Errorf("ProgressPercentage = %s, want 150.00", got)
	}
}

func TestAggregateProjectOverall(t *testing.T) {
	rubros := []entity.Rubro{
		rubro("r1", "1", "100", "10"),
		rubro("r2", "2", "0", "5"),
	}
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-01",
			entity.RubroUpdate{RubroID: "r1", QuantityExecutedToday: "50"},
			entity.RubroUpdate{RubroID: "r2", QuantityExecutedToday: "4"},
		),
	}

	agg := AggregateProject(rubros, logs)

	if got := agg.TotalContractAmount.StringFixed(2); got != "1000.00" {
		t.Errorf("TotalContractAmount = %s, want 1000.00", got)
	}
	// El valor ejecutado del rubro sin monto contractual cuenta en el total
	if got := agg.TotalExecutedValue.StringFixed(2); got != "520.00" {
		t.Errorf("TotalExecutedValue = %s, want 520.00", got)
	}
	if got := agg.OverallProgress.StringFixed(2); got != "52.00" {
		t.Errorf("OverallProgress = %s, want 52.00", got)
	}
}

func TestAggregateProjectEmpty(t *testing.T) {
	agg := AggregateProject(nil, nil)
	if !agg.OverallProgress.IsZero() {
		t.Errorf("OverallProgress = %s, want 0", agg.OverallProgress)
	}
	if len(agg.Rubros) != 0 {
		t.Errorf("Rubros = %d, want 0", len(agg.Rubros))
	}
}

func TestCompareRubroNumbersHierarchical(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.1", "1.2", -1},
		{"1.2", "1.10", -1},
		{"1.10", "1.2", 1},
		{"2", "10", -1},
		{"1.1", "1.1", 0},
		{"1", "1.1", -1},
		{"", "1", -1},
		{"x", "1", -1},
	}
	for _, tc := range cases {
		got := CompareRubroNumbers(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Errorf("CompareRubroNumbers(%q, %q) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestSortAggregatedRubros(t *testing.T) {
	rubros := []entity.Rubro{
		rubro("a", "1.10", "1", "1"),
		rubro("b", "1.2", "1", "1"),
		rubro("c", "1.1", "1", "1"),
	}
	agg := AggregateProject(rubros, nil)
	SortAggregatedRubros(agg.Rubros)

	var order []string
	for _, ar := range agg.Rubros {
		order = append(order, ar.Rubro.RubroNumber)
	}
	want := []string{"1.1", "1.2", "1.10"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", order, want)
		}
	}
}

func TestSortLogsByDateAscDoesNotMutate(t *testing.T) {
	logs := []entity.DailyLog{
		logWithUpdates("2025-03-03"),
		logWithUpdates("2025-03-01"),
		logWithUpdates("2025-03-02"),
	}

	sorted := SortLogsByDateAsc(logs)

	if !sorted[0].Date.Before(sorted[1].Date) || !sorted[1].Date.Before(sorted[2].Date) {
		t.Errorf("logs not sorted ascending: %v", sorted)
	}
	if !logs[0].Date.Equal(date("2025-03-03")) {
		t.Errorf("input slice was mutated")
	}
}
