// Package testutil provides shared helpers for m8db tests: an in-memory
// filesystem, file helpers on top of it and a deterministic clock.
package testutil
