// Package mock provides deterministic test doubles for the ai interfaces.
//
// MockEmbedder produces stable unit-length vectors derived from the text
// hash, so tests get repeatable similarity structure without a real
// embedding service. MockAnswerer records its inputs and returns a
// canned answer.
package mock
