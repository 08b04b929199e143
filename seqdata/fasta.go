package seqdata

import (
	"bufio"
	"io"
	"strings"
)

// Record is a single FASTA record: a '>' header line and the
// concatenation of its sequence lines.
type Record struct {
	Header   string
	Sequence string
}

// ParseRecords reads FASTA records from r. Parsing is deliberately
// conservative: lines before the first header are ignored, blank
// sequence lines are skipped.
func ParseRecords(r io.Reader) []Record {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []Record
	var current Record
	open := false

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			if open {
				records = append(records, current)
			}
			current = Record{Header: strings.TrimPrefix(line, ">")}
			open = true
			continue
		}
		if open && line != "" {
			current.Sequence += line
		}
	}
	if open {
		records = append(records, current)
	}
	return records
}
