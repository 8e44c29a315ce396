// Package domain contains the core data model for the block-versioned
// document engine: blocks, documents, edit operations, batches, edit
// intents, and the content-hashing primitives that make document state
// addressable.
//
// Everything in this package is pure data and pure functions. Nothing
// here performs I/O or depends on any adapter; ports and services build
// on these types.
package domain
