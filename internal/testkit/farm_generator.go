package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"goclean/domain/cleaning"
)

// FarmGeneratorConfig configures the livestock dataset generator
type FarmGeneratorConfig struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`

	// Share of cells replaced by a missing sentinel in the dirty columns
	MissingRate float64 `json:"missing_rate"`
	// Share of cells in the sparse notes column that stay empty
	SparseRate float64 `json:"sparse_rate"`
	// Share of rows whose weight is multiplied into an outlier
	OutlierRate float64 `json:"outlier_rate"`
	// Number of rows appended as exact copies of earlier rows
	DuplicateRows int `json:"duplicate_rows"`
}

// DefaultFarmConfig returns a small herd with every kind of dirt present
func DefaultFarmConfig() FarmGeneratorConfig {
	return FarmGeneratorConfig{
		Rows:          200,
		Seed:          42,
		MissingRate:   0.08,
		SparseRate:    0.7,
		OutlierRate:   0.02,
		DuplicateRows: 3,
	}
}

// Farm column headers, deliberately messy
const (
	FarmColumnAnimalID      = "Animal ID"
	FarmColumnBreed         = "Breed"
	FarmColumnBirthWeight   = "Birth Weight (lbs)"
	FarmColumnWeaningWeight = " Weaning Weight (lbs) "
	FarmColumnPaddock       = "Paddock #"
	FarmColumnFeedCost      = "Feed Cost ($)"
	FarmColumnVetNotes      = "Vet Notes"
)

var (
	farmBreeds   = []string{"Angus", "Hereford", "Charolais", "Simmental", "Limousin"}
	farmPaddocks = []string{"North", "South", "Creek", "Ridge"}
	farmNotes    = []string{"dewormed", "limping", "vaccinated", "pinkeye treated"}
	farmMissing  = []string{"", "N/A", "null"}
)

// FarmGenerator produces seeded livestock datasets with injected dirt:
// messy headers, numbers stored as text with thousands separators, missing
// sentinels, a sparse column, outliers and duplicate rows.
type FarmGenerator struct {
	config FarmGeneratorConfig
	rng    *rand.Rand
}

// NewFarmGenerator creates a new farm data generator
func NewFarmGenerator(config FarmGeneratorConfig) *FarmGenerator {
	return &FarmGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the dataset. Every cell is text, as it would be after
// reading a CSV export.
func (g *FarmGenerator) Generate() (*cleaning.Dataset, error) {
	n := g.config.Rows
	if n < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", n)
	}

	ids := make([]string, n)
	breeds := make([]string, n)
	birth := make([]string, n)
	weaning := make([]string, n)
	paddocks := make([]string, n)
	feed := make([]string, n)
	notes := make([]string, n)

	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("A-%04d", i+1)
		breeds[i] = g.maybeMissing(farmBreeds[g.rng.Intn(len(farmBreeds))])

		bw := 70 + g.rng.NormFloat64()*8
		birth[i] = g.maybeMissing(fmt.Sprintf("%.1f", bw))

		ww := 500 + g.rng.NormFloat64()*45
		if g.rng.Float64() < g.config.OutlierRate {
			ww *= 10
		}
		weaning[i] = g.maybeMissing(formatThousands(ww))

		paddocks[i] = farmPaddocks[g.rng.Intn(len(farmPaddocks))]
		feed[i] = g.maybeMissing(fmt.Sprintf("%.2f", 180+g.rng.Float64()*60))

		if g.rng.Float64() >= g.config.SparseRate {
			notes[i] = farmNotes[g.rng.Intn(len(farmNotes))]
		}
	}

	columns := []struct {
		name   string
		values []string
	}{
		{FarmColumnAnimalID, ids},
		{FarmColumnBreed, breeds},
		{FarmColumnBirthWeight, birth},
		{FarmColumnWeaningWeight, weaning},
		{FarmColumnPaddock, paddocks},
		{FarmColumnFeedCost, feed},
		{FarmColumnVetNotes, notes},
	}

	dups := g.config.DuplicateRows
	if n == 0 {
		dups = 0
	}
	sources := make([]int, dups)
	for d := range sources {
		sources[d] = g.rng.Intn(n)
	}

	ds := cleaning.NewDataset()
	for _, col := range columns {
		values := make([]cleaning.Value, 0, n+dups)
		for _, s := range col.values {
			values = append(values, cleaning.NewStringValue(s))
		}
		for _, src := range sources {
			values = append(values, cleaning.NewStringValue(col.values[src]))
		}
		if err := ds.AddColumn(col.name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (g *FarmGenerator) maybeMissing(s string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return farmMissing[g.rng.Intn(len(farmMissing))]
	}
	return s
}

// formatThousands renders a rounded value with comma separators, e.g. 5,012
func formatThousands(v float64) string {
	n := int64(math.Round(v))
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
