// Package artifact persists per-gene results: one artifact file per
// successful gene, a failure marker per terminally failed gene, and a
// JSON failure log for genes that exhausted their retry budget.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/msaharvest/genelist"
)

// Writer writes gene artifacts under a single output directory.
// It is used from the sequential gene loop and is not safe for
// concurrent use.
type Writer struct {
	dir   string
	names map[string]string
}

// NewWriter creates a Writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: mkdir %s: %w", dir, err)
	}
	return &Writer{dir: dir, names: make(map[string]string)}, nil
}

// baseName resolves the filename base for gene once per Writer and
// reuses it, so the artifact, the failure marker, and the marker
// removal for one gene always name the same files even when the name
// falls back to the generated placeholder.
func (w *Writer) baseName(gene genelist.Gene) string {
	key := gene.Name + "\x00" + gene.ID
	if base, ok := w.names[key]; ok {
		return base
	}
	base := SanitizeName(gene.Name)
	w.names[key] = base
	return base
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteArtifact writes the captured text for gene, byte-identical, to
// <sanitized name>.fasta. A re-run overwrites, it never appends.
func (w *Writer) WriteArtifact(gene genelist.Gene, text string) (string, error) {
	path := filepath.Join(w.dir, w.baseName(gene)+".fasta")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return path, nil
}

// WriteFailureMarker writes a sibling marker recording that gene could
// not be captured in this run.
func (w *Writer) WriteFailureMarker(gene genelist.Gene, reason string) (string, error) {
	path := filepath.Join(w.dir, w.baseName(gene)+".failed.txt")
	body := fmt.Sprintf("gene: %s\nid: %s\ntime: %s\nreason: %s\n",
		gene.Name, gene.ID, time.Now().UTC().Format(time.RFC3339), reason)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("artifact: write marker %s: %w", path, err)
	}
	return path, nil
}

// RemoveFailureMarker deletes a stale marker left by an earlier failed
// attempt. Missing markers are not an error.
func (w *Writer) RemoveFailureMarker(gene genelist.Gene) error {
	path := filepath.Join(w.dir, w.baseName(gene)+".failed.txt")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("artifact: remove marker %s: %w", path, err)
	}
	return nil
}

// SanitizeName makes a gene name safe for use as a filename. Characters
// invalid on common filesystems are replaced with '_'. An empty or "NA"
// name falls back to a timestamp placeholder so the write never fails
// on a degenerate input row.
func SanitizeName(name string) string {
	if name == "" || strings.EqualFold(name, "NA") {
		return "gene_" + time.Now().UTC().Format("20060102T150405Z")
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
}
