// Package app contains the core application logic. It wires plan loading,
// consolidation, writing and reporting into one run, decoupled from any
// specific entrypoint like a CLI.
package app
