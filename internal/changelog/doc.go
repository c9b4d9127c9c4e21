// Package changelog implements the canonical changelog document model and
// the import pipeline around it:
//
//   - format detection for the three supported markup dialects
//   - one generic dialect parser driven by per-dialect grammar tables
//   - deterministic pseudo-hash synthesis for entries without git hashes
//   - merging of independently authored changelogs with deduplication,
//     package-prefix rewriting and configurable ordering
//   - structural validation separating errors from advisory warnings
//
// Every parser normalizes into the same Document shape so downstream
// formatters never need to know where a changelog came from.
package changelog
