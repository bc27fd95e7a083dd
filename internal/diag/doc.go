// Package diag defines the diagnostic model shared by the loader, the
// encoder, the composer and the decoders.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable ID such as DEC4001.
//   - Message – short human text.
//   - Primary – a Site naming the logical op index and the gadget.
//   - Notes – optional secondary sites.
//
// # Emitting diagnostics
//
// Producers emit through a Reporter so storage stays decoupled. Compile
// reports into a BagReporter; decoders report unknown syndromes into the
// reporter carried by their decode context, which the shot runner wraps in
// a DedupReporter so one bad syndrome per site is reported once.
//
// Errors stop compilation. Warnings leave a best-effort result in place.
//
// # Rendering
//
// FormatShort gives one stable line per finding for tests and plain CLI
// output; the CLI adds colour on top.
package diag
