// Package domain defines the in-memory model of a PBPK project.
//
// # Values and Units
//
// Every Parameter stores its value in the base unit of its Dimension. The
// display unit only affects how values are shown and how snapshot values are
// read back. AreValuesEqual compares values within a relative epsilon.
//
// # Formulas
//
// Formula is a tagged union over ConstantFormula, ExplicitFormula,
// DistributedFormula, TableFormula and DistributedTableFormula. A fixed value
// set on a parameter overrides its formula until the formula is replaced.
//
// # Building Blocks
//
// Individual, Compound, Population, Event and Simulation are the top-level
// entities of a Project. Each owns a Container tree of parameters. A
// Simulation holds a deep clone of its individual and links its model
// parameters back to the building block parameters through Origin.
//
// # Identity
//
// Ids are random UUIDs. Clones always receive fresh ids, so parameters are
// never shared between building blocks.
package domain
