// Package dag provides a small directed acyclic graph of string IDs. The
// resolver uses it to record which package requires which, to reject
// dependency cycles, and to order packages so that every package appears
// after the packages it depends on.
package dag
