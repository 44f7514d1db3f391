// Package sanitizer normalizes raw form input before validation and serialization.
//
// All functions are idempotent: applying them twice yields the same result as
// applying them once. Invalid or blank input produces an empty string rather
// than an error, so presence checks can run on the normalized value.
//
// Normalization includes:
//   - Single-line text: trim, collapse internal whitespace runs to one space
//   - Multi-line text: trim each line's trailing space, keep line breaks, drop leading/trailing blank lines
//   - Email: trim only; case is preserved because the local part may be case sensitive
package sanitizer
