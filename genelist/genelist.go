// Package genelist loads the gene input list: a two-column CSV of
// {name, id} rows with quoted fields. Rows with an empty or "NA" name
// or id are excluded at load time so downstream code can assume both
// fields are usable.
package genelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Gene is one entry of the input list. Name is the human-readable label
// and the output key; ID is the site's internal search token.
type Gene struct {
	Name string
	ID   string
}

// Load reads genes from a CSV file.
func Load(path string) ([]Gene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("genelist: open %s: %w", path, err)
	}
	defer f.Close()
	genes, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("genelist: parse %s: %w", path, err)
	}
	return genes, nil
}

// Parse reads genes from CSV data. A leading header row ("name,id" in
// any case) is skipped. Short rows and NA/empty rows are dropped.
func Parse(r io.Reader) ([]Gene, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var genes []Gene
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) < 2 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		id := strings.TrimSpace(rec[1])
		if excluded(name) || excluded(id) {
			continue
		}
		genes = append(genes, Gene{Name: name, ID: id})
	}
	return genes, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(rec[0]))
	b := strings.ToLower(strings.TrimSpace(rec[1]))
	return (a == "name" || a == "gene" || a == "gene_name") && strings.Contains(b, "id")
}

func excluded(s string) bool {
	return s == "" || strings.EqualFold(s, "NA")
}
