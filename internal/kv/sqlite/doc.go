// Package sqlite provides a SQLite-backed kv.Store.
//
// Each key is one row of the entries table; the value column holds the
// opaque string written by the caller. A revision counter is bumped on every
// write so that tests and operators can see how often a key was rewritten.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Keys are compared with BINARY collation, so "Usuarios" and "usuarios" are
// different keys.
package sqlite
