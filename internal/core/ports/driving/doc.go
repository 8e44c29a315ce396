// Package driving defines the interfaces through which external actors
// (CLI, TUI, MCP server, automation) drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// Core services implement them; adapters call them.
package driving
