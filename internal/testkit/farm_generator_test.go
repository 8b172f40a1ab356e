package testkit

import (
	"testing"

	"goclean/domain/cleaning"
)

func TestFarmGenerator_Basic(t *testing.T) {
	config := DefaultFarmConfig()
	config.Rows = 50

	ds, err := NewFarmGenerator(config).Generate()
	if err != nil {
		t.Fatalf("Failed to generate dataset: %v", err)
	}

	if err := ds.Validate(); err != nil {
		t.Fatalf("Generated dataset is malformed: %v", err)
	}
	if got, want := ds.NumRows(), 50+config.DuplicateRows; got != want {
		t.Errorf("Expected %d rows, got %d", want, got)
	}
	if ds.NumColumns() != 7 {
		t.Errorf("Expected 7 columns, got %d", ds.NumColumns())
	}

	weights, ok := ds.Column(FarmColumnWeaningWeight)
	if !ok {
		t.Fatal("Weaning weight column missing")
	}
	for i, v := range weights {
		if !v.IsString() {
			t.Errorf("Row %d: expected text cell, got %v", i, v)
		}
	}
}

func TestFarmGenerator_Deterministic(t *testing.T) {
	a, err := NewFarmGenerator(DefaultFarmConfig()).Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFarmGenerator(DefaultFarmConfig()).Generate()
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range a.Names() {
		av, _ := a.Column(name)
		bv, _ := b.Column(name)
		for i := range av {
			if !av[i].Equal(bv[i]) {
				t.Fatalf("Column %q row %d differs between runs with the same seed", name, i)
			}
		}
	}
}

func TestFarmGenerator_InjectsDirt(t *testing.T) {
	ds, err := NewFarmGenerator(DefaultFarmConfig()).Generate()
	if err != nil {
		t.Fatal(err)
	}
	sentinels := cleaning.DefaultMissingSentinels()

	notes, _ := ds.Column(FarmColumnVetNotes)
	if ratio := float64(sentinels.CountMissing(notes)) / float64(len(notes)); ratio <= 0.5 {
		t.Errorf("Expected the notes column to be sparse, missing ratio %.2f", ratio)
	}

	birth, _ := ds.Column(FarmColumnBirthWeight)
	if sentinels.CountMissing(birth) == 0 {
		t.Error("Expected some missing birth weights")
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{512.4, "512"},
		{5012, "5,012"},
		{1234567.6, "1,234,568"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := formatThousands(tt.in); got != tt.want {
			t.Errorf("formatThousands(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
