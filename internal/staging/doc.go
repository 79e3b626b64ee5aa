// Package staging copies vendor-provided files out of resolved packages and
// into the consuming project's tree before anything is compiled.
//
// Staging is unconditional and idempotent: every run rewrites the
// destination files with the package content, so running it twice yields
// byte-identical files. The result records every file produced, which the
// patch stage uses to refuse edits to files staging did not create.
package staging
