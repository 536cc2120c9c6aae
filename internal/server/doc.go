// Package server wires and runs the application's HTTP server.
//
// It owns the server lifecycle, including startup, signal handling and
// graceful shutdown, and runs the background workers next to it.
package server
