// Package store persists videos, per-language processing records, and
// per-user known words in SQLite. The processing table doubles as the
// pipeline's mutual-exclusion lock: at most one PENDING row exists per
// (video, language) pair and acquisition is a single conditional upsert.
package store
