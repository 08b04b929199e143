// Package capture obtains exported sequence data for one gene through
// three competing channels: passive network observation, an active
// clipboard read, and a DOM scan fallback. Channels are tried in that
// priority order; the observer is the preferred path because it needs
// no clipboard permission and no export UI interaction.
package capture

// Source identifies which channel produced a capture.
type Source string

const (
	SourceNetwork   Source = "network"
	SourceClipboard Source = "clipboard"
	SourceDOM       Source = "dom"
)

// Result is one successful extraction: the raw payload and its
// provenance.
type Result struct {
	Text   string
	Source Source
}
