package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"pksnap/internal/lookup"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory seeded repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullToString(t *testing.T) {
	tests := []struct {
		name     string
		input    sql.NullString
		expected string
	}{
		{"valid string", sql.NullString{String: "hello", Valid: true}, "hello"},
		{"null string", sql.NullString{Valid: false}, ""},
		{"valid empty string", sql.NullString{String: "", Valid: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nullToString(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNullToFloatPtr(t *testing.T) {
	if got := nullToFloatPtr(sql.NullFloat64{}); got != nil {
		t.Errorf("expected nil, got %v", *got)
	}
	got := nullToFloatPtr(sql.NullFloat64{Float64: 2.5, Valid: true})
	if got == nil || *got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
}

// ============================================================================
// Repository Tests
// ============================================================================

func TestSpecies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("find by name", func(t *testing.T) {
		s, err := repo.Species().FindByName(ctx, "Human")
		assertNoError(t, err)
		if !s.IsAgeDependent {
			t.Error("expected Human to be age dependent")
		}
	})

	t.Run("display name defaults", func(t *testing.T) {
		s, err := repo.Species().FindByName(ctx, "Dog")
		assertNoError(t, err)
		if s.DisplayName != "Beagle" {
			t.Errorf("expected display name Beagle, got %s", s.DisplayName)
		}
	})

	t.Run("unknown species", func(t *testing.T) {
		_, err := repo.Species().FindByName(ctx, "Unicorn")
		if !errors.Is(err, lookup.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("all species", func(t *testing.T) {
		all, err := repo.Species().All(ctx)
		assertNoError(t, err)
		if len(all) != 3 {
			t.Errorf("expected 3 species, got %d", len(all))
		}
	})
}

func TestPopulations(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	pops, err := repo.Populations().AllFor(ctx, "Human")
	assertNoError(t, err)
	if len(pops) != 2 {
		t.Fatalf("expected 2 human populations, got %d", len(pops))
	}

	p, err := repo.Populations().FindByName(ctx, "Wistar")
	assertNoError(t, err)
	if p.Species != "Rat" {
		t.Errorf("expected species Rat, got %s", p.Species)
	}
}

func TestOntogenies(t *testing.T) {
	repo := newTestRepo(t)

	all, err := repo.Ontogenies().AllFor(context.Background(), "Human")
	assertNoError(t, err)

	ont, ok := all.FindByName("CYP3A4")
	if !ok {
		t.Fatal("expected CYP3A4 ontogeny")
	}
	if ont.Description == "" {
		t.Error("expected description to be loaded")
	}
	if _, ok := all.FindByName("CYP2C11"); ok {
		t.Error("rat ontogeny must not be listed for Human")
	}
}

func TestDistributions(t *testing.T) {
	repo := newTestRepo(t)

	all, err := repo.Distributions().AllFor(context.Background(), "European_ICRP_2002")
	assertNoError(t, err)
	if len(all) != 8 {
		t.Fatalf("expected 8 distributions, got %d", len(all))
	}

	var found bool
	for _, d := range all {
		if d.ParameterPath == "Organism|Weight" && d.Gender == "Male" && d.Age == 30 {
			found = true
			if d.Min == nil || *d.Min != 40 || d.Max == nil || *d.Max != 150 {
				t.Errorf("unexpected bounds %v %v", d.Min, d.Max)
			}
		}
	}
	if !found {
		t.Error("expected male weight distribution at age 30")
	}
}

func TestFormulas(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	f, err := repo.Formulas().FormulaFor(ctx, "BSA_Mosteller")
	assertNoError(t, err)
	if f == "" {
		t.Error("expected formula text")
	}

	if _, err := repo.Formulas().FormulaFor(ctx, "nope"); !errors.Is(err, lookup.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTemplates(t *testing.T) {
	repo := newTestRepo(t)

	rows, err := repo.Templates().AllFor(context.Background(), "Human")
	assertNoError(t, err)

	byPath := map[string]lookup.ParameterTemplate{}
	for _, r := range rows {
		byPath[r.Path] = r
	}

	bsa, ok := byPath["Organism|BSA"]
	if !ok {
		t.Fatal("expected BSA template")
	}
	if bsa.FormulaKind != "Explicit" || bsa.RateKey != "BSA_Mosteller" {
		t.Errorf("unexpected BSA template %+v", bsa)
	}
	if !bsa.CanBeVaried || bsa.CanBeVariedInPopulation {
		t.Errorf("unexpected BSA flags %+v", bsa)
	}

	weight := byPath["Organism|Weight"]
	if weight.DistributionID != 1 || weight.Mean != 73 {
		t.Errorf("unexpected weight template %+v", weight)
	}
}

func TestFileDatabaseSeededOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookup.db")

	repo, err := New(path)
	assertNoError(t, err)
	assertNoError(t, repo.Close())

	repo, err = New(path)
	assertNoError(t, err)
	defer repo.Close()

	all, err := repo.Species().All(context.Background())
	assertNoError(t, err)
	if len(all) != 3 {
		t.Errorf("expected 3 species after reopening, got %d", len(all))
	}
}
