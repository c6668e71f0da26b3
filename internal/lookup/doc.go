// Package lookup defines the read-only query contract of the model database.
//
// The database provides species, populations, predefined ontogenies,
// per-population parameter distributions, rate formulas and the default
// parameter templates used to build new individuals, compounds and events.
// The core only reads from it.
//
// # SQLite Implementation
//
// The sqlite subpackage implements Database on top of modernc.org/sqlite. An
// empty path opens an in-memory database loaded with the embedded seed data.
package lookup
