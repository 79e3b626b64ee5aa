// Package resolver turns the requirements declared by a recipe into a
// resolved dependency graph with exactly one version per package name.
//
// Packages come from a Provider, normally a local package cache laid out as
// `<cache>/<name>/<version>/` with an optional `package.hcl` manifest that
// declares transitive requirements, option defaults and library metadata.
//
// Resolution is breadth-first from the recipe's direct requirements:
//   - literal versions must exist in the cache;
//   - ranges pick the highest cached version satisfying the constraint;
//   - a requirement marked as override forces its version everywhere;
//   - two incompatible requests for the same name without an override are
//     a conflict and abort the run.
//
// There is no backtracking and no retry. The first request for a name fixes
// its version and later requests must be compatible with it.
package resolver
