package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"pksnap/internal/lookup"

	_ "modernc.org/sqlite"
)

//go:embed seed.sql
var seedSQL string

// Repository implements lookup.Database using SQLite
type Repository struct {
	db *sql.DB
}

// New opens the lookup database at dbPath. An empty path or ":memory:"
// opens an in-memory database. Empty databases are loaded with the seed data.
func New(dbPath string) (*Repository, error) {
	inMemory := dbPath == "" || dbPath == ":memory:"
	dsn := dbPath
	if inMemory {
		dsn = ":memory:"
	} else {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if inMemory {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := repo.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS species (
		name TEXT PRIMARY KEY,
		display_name TEXT,
		is_age_dependent INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS populations (
		name TEXT PRIMARY KEY,
		species TEXT NOT NULL,
		display_name TEXT,
		is_age_dependent INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (species) REFERENCES species(name)
	);

	CREATE TABLE IF NOT EXISTS default_parameters (
		template TEXT NOT NULL,
		path TEXT NOT NULL,
		value REAL NOT NULL DEFAULT 0,
		dimension TEXT,
		display_unit TEXT,
		formula_kind TEXT NOT NULL DEFAULT 'Constant',
		rate_key TEXT,
		mean REAL,
		deviation REAL,
		distribution_id INTEGER,
		editable INTEGER NOT NULL DEFAULT 1,
		visible INTEGER NOT NULL DEFAULT 1,
		can_be_varied INTEGER NOT NULL DEFAULT 1,
		can_be_varied_in_population INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (template, path)
	);

	CREATE TABLE IF NOT EXISTS ontogenies (
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		display_name TEXT,
		description TEXT,
		PRIMARY KEY (name, species)
	);

	CREATE TABLE IF NOT EXISTS rate_formulas (
		rate_key TEXT PRIMARY KEY,
		formula TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS parameter_distributions (
		population TEXT NOT NULL,
		gender TEXT NOT NULL,
		parameter_path TEXT NOT NULL,
		age REAL NOT NULL DEFAULT 0,
		mean REAL NOT NULL,
		deviation REAL NOT NULL,
		distribution_id INTEGER NOT NULL,
		min_value REAL,
		max_value REAL,
		PRIMARY KEY (population, gender, parameter_path, age)
	);

	CREATE INDEX IF NOT EXISTS idx_populations_species ON populations(species);
	CREATE INDEX IF NOT EXISTS idx_ontogenies_species ON ontogenies(species);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *Repository) seedIfEmpty() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM species`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count species: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err := r.db.Exec(seedSQL)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Species returns the species repository
func (r *Repository) Species() lookup.SpeciesRepository { return speciesRepo{r.db} }

// Populations returns the population repository
func (r *Repository) Populations() lookup.PopulationRepository { return populationRepo{r.db} }

// Ontogenies returns the ontogeny repository
func (r *Repository) Ontogenies() lookup.OntogenyRepository { return ontogenyRepo{r.db} }

// Distributions returns the parameter distribution repository
func (r *Repository) Distributions() lookup.DistributionRepository { return distributionRepo{r.db} }

// Formulas returns the rate formula repository
func (r *Repository) Formulas() lookup.FormulaRepository { return formulaRepo{r.db} }

// Templates returns the default parameter repository
func (r *Repository) Templates() lookup.TemplateRepository { return templateRepo{r.db} }

// ============================================================================
// Species
// ============================================================================

type speciesRepo struct{ db *sql.DB }

func (s speciesRepo) FindByName(ctx context.Context, name string) (*lookup.Species, error) {
	var row speciesRow
	err := s.db.QueryRowContext(ctx,
		`SELECT `+speciesColumns+` FROM species WHERE name = ?`, name,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("species %q: %w", name, lookup.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	species := row.toDomain()
	return &species, nil
}

func (s speciesRepo) All(ctx context.Context) ([]lookup.Species, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+speciesColumns+` FROM species ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var out []lookup.Species
	for rows.Next() {
		var row speciesRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating species: %w", err)
	}
	return out, nil
}

// ============================================================================
// Populations
// ============================================================================

type populationRepo struct{ db *sql.DB }

func (p populationRepo) FindByName(ctx context.Context, name string) (*lookup.Population, error) {
	var row populationRow
	err := p.db.QueryRowContext(ctx,
		`SELECT `+populationColumns+` FROM populations WHERE name = ?`, name,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("population %q: %w", name, lookup.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query population: %w", err)
	}
	pop := row.toDomain()
	return &pop, nil
}

func (p populationRepo) AllFor(ctx context.Context, species string) ([]lookup.Population, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+populationColumns+` FROM populations WHERE species = ? ORDER BY name`, species)
	if err != nil {
		return nil, fmt.Errorf("failed to query populations: %w", err)
	}
	defer rows.Close()

	var out []lookup.Population
	for rows.Next() {
		var row populationRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan population: %w", err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating populations: %w", err)
	}
	return out, nil
}

// ============================================================================
// Ontogenies
// ============================================================================

type ontogenyRepo struct{ db *sql.DB }

func (o ontogenyRepo) AllFor(ctx context.Context, species string) (lookup.Ontogenies, error) {
	rows, err := o.db.QueryContext(ctx,
		`SELECT `+ontogenyColumns+` FROM ontogenies WHERE species = ? ORDER BY name`, species)
	if err != nil {
		return nil, fmt.Errorf("failed to query ontogenies: %w", err)
	}
	defer rows.Close()

	var out lookup.Ontogenies
	for rows.Next() {
		var row ontogenyRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan ontogeny: %w", err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ontogenies: %w", err)
	}
	return out, nil
}

// ============================================================================
// Parameter Distributions
// ============================================================================

type distributionRepo struct{ db *sql.DB }

func (d distributionRepo) AllFor(ctx context.Context, population string) ([]lookup.ParameterDistribution, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+distributionColumns+` FROM parameter_distributions
		WHERE population = ? ORDER BY parameter_path, gender, age`, population)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameter distributions: %w", err)
	}
	defer rows.Close()

	var out []lookup.ParameterDistribution
	for rows.Next() {
		var row distributionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan parameter distribution: %w", err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parameter distributions: %w", err)
	}
	return out, nil
}

// ============================================================================
// Rate Formulas
// ============================================================================

type formulaRepo struct{ db *sql.DB }

func (f formulaRepo) FormulaFor(ctx context.Context, rateKey string) (string, error) {
	var formula string
	err := f.db.QueryRowContext(ctx,
		`SELECT formula FROM rate_formulas WHERE rate_key = ?`, rateKey,
	).Scan(&formula)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("rate %q: %w", rateKey, lookup.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query rate formula: %w", err)
	}
	return formula, nil
}

// ============================================================================
// Default Parameters
// ============================================================================

type templateRepo struct{ db *sql.DB }

func (t templateRepo) AllFor(ctx context.Context, template string) ([]lookup.ParameterTemplate, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM default_parameters WHERE template = ? ORDER BY path`, template)
	if err != nil {
		return nil, fmt.Errorf("failed to query default parameters: %w", err)
	}
	defer rows.Close()

	var out []lookup.ParameterTemplate
	for rows.Next() {
		var row templateRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan default parameter: %w", err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating default parameters: %w", err)
	}
	return out, nil
}
