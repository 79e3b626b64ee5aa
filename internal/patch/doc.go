// Package patch applies literal text substitutions to files produced by the
// staging stage.
//
// A substitution is naturally idempotent: once applied, the search text is
// gone and the replacement is present, so a second run changes nothing. A
// file that contains neither is reported with ErrSearchNotFound, since that
// usually means the vendor file changed upstream and the patch no longer
// does what it was written for. Rules marked non-strict downgrade this to a
// logged warning.
package patch
