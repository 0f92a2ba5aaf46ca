// Package record defines the data model shared by every other package:
// saved records, raw form fields, per-field validation state and the error
// taxonomy for the form and the record store.
//
// This package contains type definitions only and imports nothing internal.
package record
