package ui

import (
	"strings"
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("alpha", "/code/alpha", "[go]")
	tbl.AddRow("b", "/x", "")
	tbl.AddRow("only-one")

	got := tbl.String()
	want := "alpha     /code/alpha  [go]\n" +
		"b         /x\n" +
		"only-one\n"
	if got != want {
		t.Fatalf("unexpected table:\n%q\nwant:\n%q", got, want)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
}

func TestTableMaxWidth(t *testing.T) {
	tbl := NewTable(2)
	tbl.SetMaxWidth(10)
	tbl.AddRow("name", strings.Repeat("x", 40))

	for _, line := range strings.Split(strings.TrimSuffix(tbl.String(), "\n"), "\n") {
		if len(line) > 10 {
			t.Fatalf("expected line truncated to 10 cells, got %q", line)
		}
	}
}

func TestTableEmpty(t *testing.T) {
	if NewTable(2).String() != "" {
		t.Fatalf("expected empty output for empty table")
	}
}
