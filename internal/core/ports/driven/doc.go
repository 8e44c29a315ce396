// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal
// architecture. Core services depend on these interfaces, and
// infrastructure adapters implement them.
//
// # Required Interfaces
//
//   - DocumentStore: authoritative document persistence. Every mutation
//     goes through the engine's apply path; the store itself enforces
//     nothing beyond storage.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchIndex: lexical ranking scoped to a document. Without it,
//     retrieval truncates candidates in document order.
//   - LLMService: edit proposals. Without it, automated editing is
//     disabled and only manually constructed batches apply.
//   - OutlineProvider: story context. Without it, retrieval results
//     simply carry no outline.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
