package genelist

import (
	"strings"
	"testing"
)

func TestParse_Basic(t *testing.T) {
	in := "\"TauD\",\"Medtr0021s0370\"\n\"CYP71\",\"Medtr0027s0260\"\n"
	genes, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(genes) != 2 {
		t.Fatalf("expected 2 genes, got %d", len(genes))
	}
	if genes[0].Name != "TauD" || genes[0].ID != "Medtr0021s0370" {
		t.Errorf("unexpected first gene: %+v", genes[0])
	}
}

func TestParse_SkipsHeader(t *testing.T) {
	in := "name,id\nTauD,Medtr0021s0370\n"
	genes, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(genes) != 1 {
		t.Fatalf("expected header to be skipped, got %d genes", len(genes))
	}
}

func TestParse_ExcludesNAAndEmpty(t *testing.T) {
	in := "NA,Medtr0027s0260\nTauD,NA\n\"\",Medtr0001s0010\nTauD,Medtr0021s0370\n"
	genes, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(genes) != 1 {
		t.Fatalf("expected NA/empty rows excluded, got %d genes", len(genes))
	}
	if genes[0].Name != "TauD" {
		t.Errorf("wrong surviving gene: %+v", genes[0])
	}
}

func TestParse_ShortRowsDropped(t *testing.T) {
	in := "loneValue\nTauD,Medtr0021s0370\n"
	genes, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(genes) != 1 {
		t.Fatalf("expected short row dropped, got %d genes", len(genes))
	}
}
