// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load or generate a
// graph, enumerate its cuts, and serve health and metrics while doing so.
// It is decoupled from any specific entrypoint like a CLI.
package app
