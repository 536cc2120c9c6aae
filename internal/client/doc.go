// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client runtime.
//
// It parses subcommands, prompts for passwords, keeps the session token
// between invocations and drives the server through an
// [adapter.ServerAdapter].
package client
