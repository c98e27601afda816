package main

import (
	"testing"

	"github.com/npillmayer/rubin/syntax/parser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pterm/pterm"
)

func TestLeveledTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.cli")
	defer teardown()
	//
	res, err := parser.ParseString("test.rb", "x = 1 + 2\n")
	if err != nil {
		t.Fatal(err)
	}
	ll := leveledNode(res.Root, pterm.LeveledList{}, 0)
	expected := []struct {
		level int
		text  string
	}{
		{0, "lasgn x"},
		{1, "call +"},
		{2, "lit 1"},
		{2, "array"},
		{3, "lit 2"},
	}
	if len(ll) != len(expected) {
		t.Fatalf("expected %d items, got %v", len(expected), ll)
	}
	for i, item := range ll {
		if item.Level != expected[i].level || item.Text != expected[i].text {
			t.Errorf("%d: expected %v, got %v", i, expected[i], item)
		}
	}
}

func TestLocalsPersistInREPL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.cli")
	defer teardown()
	//
	options = &parser.Options{}
	intp := &Intp{lineno: 1}
	if intp.Eval("def m") != true {
		t.Errorf("expected incomplete input")
	}
	if intp.Eval("end") {
		t.Errorf("expected input to be complete")
	}
	intp.Eval("a = 1")
	if len(intp.locals) != 1 || intp.locals[0] != "a" {
		t.Errorf("expected local a to be remembered, got %v", intp.locals)
	}
	if intp.lineno != 4 {
		t.Errorf("expected next input at line 4, got %d", intp.lineno)
	}
}
