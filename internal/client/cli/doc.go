// Package cli provides the interactive Ventas POS command-line client.
//
// It wires configuration, the local session cache, the REST gateway, and an
// interactive REPL over the sales history. Typical flow: log in, list the
// history, open a sale for editing while the edit window is still open, or
// cancel one.
//
// Key features:
//   - Login / Logout with a session that survives restarts
//   - Sales history with server-side filters and pagination
//   - Time-boxed sale editing with a live countdown
//   - Sale cancellation and account administration
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
