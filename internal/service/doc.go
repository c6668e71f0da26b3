// Package service implements the file-level tasks of pksnap.
//
// # Tasks
//
// SnapshotTask loads JSON and YAML snapshot files through the codecs, maps
// them into domain projects and back, and converts legacy XML project files
// to the current version through the loader and converter chain.
//
// SimulationExporter writes one self-contained snapshot per simulation,
// holding the simulation and every building block it references.
//
// All files go through a storage.Store, so paths may be local or s3:// URIs.
//
// # Event System
//
// Tasks publish events via EventBus. The CLI subscribes to report progress.
// Publishing never blocks; slow subscribers miss events.
package service
