// Package planner decides how each blob of a generation run is built.
//
// The planner turns the diffed entry set into a deterministic build plan:
// entries that need the module backend become named Soong modules, the rest
// become file-copy rules. Module names are derived from filenames, so
// collisions are expected and resolved here.
//
// Key responsibilities:
//   - Order entries so the preferred owner of a name is processed first
//   - Skip the second half of a dual-arch library pair
//   - Eject cross-partition library twins to the copy path
//   - Rename unrelated collisions with a numeric suffix
package planner
