// Package snapshot defines the versioned wire model of a project.
//
// Snapshots reference building blocks by name, flatten container trees into
// localized parameter paths and store values in display units. Only values
// that differ from the defaults a building block is created with are written,
// so a snapshot is applied on top of freshly created building blocks.
//
// # Absent versus empty
//
// A nil Parameter.Value or Parameter.TableFormula leaves the target as it
// is. A nil Ontogeny.Table references a database ontogeny. A nil
// DistributionMetaData list is only valid for a table without points.
package snapshot
