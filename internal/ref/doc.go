/*
Package ref provides a structured representation for package references
declared in a recipe, based on the canonical format `name/version`.

A version is either a literal (`2.0.18`, `cci.20210713`) compared by exact
string equality, or a bracketed range (`[>=1.2 <2.0]`) evaluated with
semantic-version constraints against the versions a package cache offers.

This package centralizes all parsing and validation of names and versions so
that an invalid reference is rejected while the recipe is loaded, before any
file is generated or staged.
*/
package ref
