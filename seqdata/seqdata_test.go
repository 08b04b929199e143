package seqdata

import (
	"strings"
	"testing"
)

// validFasta builds a blob that satisfies every classifier rule.
func validFasta() string {
	return ">Medtr0021s0370 TauD\n" + strings.Repeat("ATCGATCGAT", 15) + "\n"
}

func TestClassify_AcceptsFasta(t *testing.T) {
	if !Classify(validFasta()) {
		t.Error("expected valid FASTA blob to be accepted")
	}
}

func TestClassify_AcceptsTabularExport(t *testing.T) {
	row := "Medtr0021s0370\t" + strings.Repeat("ACGU", 10) + "\n"
	blob := strings.Repeat(row, 5)
	if !Classify(blob) {
		t.Error("expected tab-separated export to be accepted")
	}
}

func TestClassify_RejectsShort(t *testing.T) {
	if Classify(">g\nATCGATCGATCG") {
		t.Error("expected blob under MinLength to be rejected")
	}
}

func TestClassify_RejectsNullByte(t *testing.T) {
	blob := validFasta() + "\x00"
	if Classify(blob) {
		t.Error("expected NUL byte to force rejection")
	}
}

func TestClassify_RejectsReplacementChar(t *testing.T) {
	blob := validFasta() + "�"
	if Classify(blob) {
		t.Error("expected U+FFFD to force rejection")
	}
}

func TestClassify_RejectsBinarySignatures(t *testing.T) {
	pad := strings.Repeat("x", MinLength)
	for _, prefix := range []string{
		"\x89PNG", "\xFF\xD8\xFF", "GIF87a", "GIF89a", "BM",
	} {
		if Classify(prefix + pad) {
			t.Errorf("expected binary signature %q to be rejected", prefix)
		}
	}
}

func TestClassify_RejectsNoMarker(t *testing.T) {
	// Long nucleotide run but neither '>' nor a tab.
	blob := strings.Repeat("ATCGATCGAT", 15)
	if Classify(blob) {
		t.Error("expected blob without FASTA or tab marker to be rejected")
	}
}

func TestClassify_RejectsNoNucleotideRun(t *testing.T) {
	blob := ">header\n" + strings.Repeat("the quick brown fox ", 10)
	if Classify(blob) {
		t.Error("expected prose with a '>' to be rejected")
	}
}

func TestClassify_Deterministic(t *testing.T) {
	blob := validFasta()
	first := Classify(blob)
	for i := 0; i < 10; i++ {
		if Classify(blob) != first {
			t.Fatal("classifier verdict changed across calls")
		}
	}
}

func TestLongestNucleotideRun_MixedAlphabets(t *testing.T) {
	// T and U belong to different alphabets: the run must break at the
	// alphabet switch, not span it.
	run := LongestNucleotideRun("ATCGTUACGU")
	if run >= 10 {
		t.Errorf("mixed DNA/RNA stretch counted as one run: %d", run)
	}
	if run != 5 {
		t.Errorf("expected longest single-alphabet run 5, got %d", run)
	}
}

func TestLongestNucleotideRun_CaseInsensitive(t *testing.T) {
	if got := LongestNucleotideRun("atcgatcgat"); got != 10 {
		t.Errorf("expected lowercase run of 10, got %d", got)
	}
}

func TestLongestNucleotideRun_Gaps(t *testing.T) {
	if got := LongestNucleotideRun("ATCG-ATCG-"); got != 10 {
		t.Errorf("expected alignment gaps to extend the run, got %d", got)
	}
}

func TestParseRecords(t *testing.T) {
	in := ">a desc\nATCG\nGGTT\n>b\nAAAA\n"
	recs := ParseRecords(strings.NewReader(in))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Header != "a desc" || recs[0].Sequence != "ATCGGGTT" {
		t.Errorf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Header != "b" || recs[1].Sequence != "AAAA" {
		t.Errorf("unexpected second record: %+v", recs[1])
	}
}

func TestParseRecords_LeadingJunkIgnored(t *testing.T) {
	in := "junk line\n>a\nATCG\n"
	recs := ParseRecords(strings.NewReader(in))
	if len(recs) != 1 || recs[0].Sequence != "ATCG" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
