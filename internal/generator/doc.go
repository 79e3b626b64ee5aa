// Package generator writes build-toolchain files describing the resolved
// dependency graph to a conventional output folder, for consumption by the
// downstream native build-configuration tool.
//
// Each generator named by the recipe renders a set of files in memory;
// nothing is written until every generator succeeded, so a failing run
// leaves no partial output behind.
package generator
