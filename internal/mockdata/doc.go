// Package mockdata holds the synthetic dataset served when the curation
// service is unreachable.
//
// Snapshot returns a fresh copy of a small, internally consistent dataset:
// one asset, its transcript with segments, six quotes drawn from it, and one
// completed export job over a subset of those quotes. Provider answers every
// gateway operation from a per-session working copy of that snapshot, so
// edits made while in mock mode remain visible for the rest of the session
// without ever touching the frozen original.
package mockdata
