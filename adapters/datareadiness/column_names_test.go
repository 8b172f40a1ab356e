package datareadiness

import (
	"strings"
	"testing"

	"goclean/domain/cleaning"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Age", "age"},
		{"  First Name  ", "first_name"},
		{"Weight (kg)", "weight_kg"},
		{"Paddock  -  ID", "paddock_id"},
		{"already_clean", "already_clean"},
		{"Tag#", "tag"},
		{"Café Sales", "café_sales"},
		{"(id)", "id"},
		{"%%%", ""},
		{"a -", "a"},
		{"- b", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeColumnName(tt.input); got != tt.want {
				t.Errorf("NormalizeColumnName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanColumnNamesLogsOnlyChangedNames(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: "Animal ID", Values: text("a1")},
		cleaning.Column{Name: "breed", Values: text("Angus")},
	)

	rep := cleaning.NewReportBuilder()
	out, err := NewColumnNameNormalizer().CleanColumnNames(ds, rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Join(out.Names(), ","); got != "animal_id,breed" {
		t.Errorf("names = %s", got)
	}
	ops := rep.Report().OperationsPerformed
	if len(ops) != 1 || ops[0] != "Standardized column names: Animal ID → animal_id" {
		t.Errorf("operations = %v", ops)
	}
	if values := column(t, out, "animal_id"); values[0].StringVal != "a1" {
		t.Errorf("values not carried over: %v", values)
	}
}

func TestCleanColumnNamesResolvesCollisions(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: "Age", Values: text("1")},
		cleaning.Column{Name: "age ", Values: text("2")},
		cleaning.Column{Name: "AGE!", Values: text("3")},
		cleaning.Column{Name: "???", Values: text("4")},
	)

	out, err := NewColumnNameNormalizer().CleanColumnNames(ds, cleaning.NewReportBuilder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "age,age_2,age_3,column_4"
	if got := strings.Join(out.Names(), ","); got != want {
		t.Errorf("names = %s, want %s", got, want)
	}
	if v := column(t, out, "age_3"); v[0].StringVal != "3" {
		t.Errorf("age_3 holds %v, want the third column", v)
	}
	if out.NumColumns() != ds.NumColumns() {
		t.Error("a column was dropped")
	}
}

func TestCleanColumnNamesIsIdempotent(t *testing.T) {
	ds := mustDataset(t,
		cleaning.Column{Name: " Birth Weight (lbs) ", Values: text("80")},
		cleaning.Column{Name: "birth weight lbs", Values: text("82")},
		cleaning.Column{Name: "@@", Values: text("x")},
	)

	normalizer := NewColumnNameNormalizer()
	once, err := normalizer.CleanColumnNames(ds, cleaning.NewReportBuilder())
	if err != nil {
		t.Fatal(err)
	}

	rep := cleaning.NewReportBuilder()
	twice, err := normalizer.CleanColumnNames(once, rep)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Join(once.Names(), ",") != strings.Join(twice.Names(), ",") {
		t.Errorf("second pass changed names: %v -> %v", once.Names(), twice.Names())
	}
	if n := len(rep.Report().OperationsPerformed); n != 0 {
		t.Errorf("second pass logged %d operations", n)
	}
}
