package importer

import (
	"strings"
	"testing"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

func TestParseBasicCatalog(t *testing.T) {
	src := "name,type,Aspirin,Heparin\n" +
		"Aspirin,1,,3:0:0\n" +
		"Heparin,1,3:0:0,\n"

	entries, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	aspirin := entries[0]
	if aspirin.Name != "Aspirin" || aspirin.Type != infusion.Drug {
		t.Fatalf("unexpected first entry: %+v", aspirin)
	}
	data, ok := aspirin.Compat["Heparin"]
	if !ok {
		t.Fatalf("expected compat entry for Heparin")
	}
	if data.CompatibleCount != 3 || data.IncompatibleCount != 0 || data.MixedCount != 0 {
		t.Fatalf("unexpected compat data: %+v", data)
	}
	if _, ok := aspirin.Compat["Aspirin"]; ok {
		t.Fatalf("empty cell should not produce a compat entry")
	}
}

func TestParseRejectsWrongColumnCount(t *testing.T) {
	src := "name,type,Aspirin\nAspirin,1,,extra\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected an error for mismatched column count")
	}
}

func TestParseRejectsMalformedCell(t *testing.T) {
	src := "name,type,Aspirin\nHeparin,1,notanumber\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected an error for malformed compatibility cell")
	}
}

func TestParseReportsAllMalformedRowsTogether(t *testing.T) {
	src := "name,type,Aspirin\n" +
		"Heparin,1,notanumber\n" +
		",1,\n"
	_, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected both malformed rows reported, got %q", err.Error())
	}
}

func TestParseRejectsEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}
