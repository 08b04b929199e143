// CLAUDE:SUMMARY Pure classifier separating genuine FASTA/tabular sequence payloads from binary noise.
// Package seqdata decides whether a captured text blob is plausibly
// genuine sequence export data (FASTA or tabular MSA) versus binary
// noise, an empty page, or a garbled response.
//
// seqdata classifies, it does not parse for meaning. The same predicate
// is applied to passively observed network bodies and to post-export
// clipboard/DOM captures, so it must stay pure and deterministic.
package seqdata

import "strings"

// MinLength is the minimum blob size considered classifiable. Anything
// shorter is noise regardless of content.
const MinLength = 100

// MinRun is the minimum length of a consecutive nucleotide run required
// for a blob to count as sequence data.
const MinRun = 10

// binaryMagics are file signatures that mark a blob as a binary
// container rather than text: PNG, JPEG, GIF, BMP.
var binaryMagics = [][]byte{
	{0x89, 'P', 'N', 'G'},
	{0xFF, 0xD8, 0xFF},
	{'G', 'I', 'F', '8', '7', 'a'},
	{'G', 'I', 'F', '8', '9', 'a'},
	{'B', 'M'},
}

// Classify reports whether text is plausibly genuine sequence export
// data. All of the following must hold:
//
//   - no binary signature, no NUL byte, no U+FFFD replacement character
//   - length >= MinLength
//   - contains a FASTA record marker '>' or a tab (tabular export)
//   - contains a run of >= MinRun consecutive DNA or RNA symbols
func Classify(text string) bool {
	if len(text) < MinLength {
		return false
	}
	if HasBinarySignature(text) {
		return false
	}
	if strings.ContainsRune(text, 0) || strings.ContainsRune(text, '�') {
		return false
	}
	if !strings.ContainsAny(text, ">\t") {
		return false
	}
	return LongestNucleotideRun(text) >= MinRun
}

// HasBinarySignature reports whether text starts with a known binary
// file magic (PNG, JPEG, GIF, BMP).
func HasBinarySignature(text string) bool {
	for _, magic := range binaryMagics {
		if len(text) < len(magic) {
			continue
		}
		match := true
		for i, b := range magic {
			if text[i] != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// LongestNucleotideRun returns the length of the longest run of
// consecutive symbols drawn from a single nucleotide alphabet,
// case-insensitive. DNA {A,T,C,G,N,-} and RNA {A,C,G,U,N,-} are
// tracked separately so a mixed T/U stretch does not count as one run.
func LongestNucleotideRun(text string) int {
	best, dna, rna := 0, 0, 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if isDNA(c) {
			dna++
		} else {
			dna = 0
		}
		if isRNA(c) {
			rna++
		} else {
			rna = 0
		}
		if dna > best {
			best = dna
		}
		if rna > best {
			best = rna
		}
	}
	return best
}

func isDNA(c byte) bool {
	switch c {
	case 'A', 'T', 'C', 'G', 'N', '-':
		return true
	}
	return false
}

func isRNA(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'U', 'N', '-':
		return true
	}
	return false
}
