// Package main hosts the Uplink CLI entrypoint and command graph.
//
// The Cobra-based command tree wires terminal invocations into the manifest
// watch pass, bucket scans, live cue injection sessions, notification tests,
// and configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
package main
