package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestDecodeTOMLOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	data := `
file = "irb"
first_line = 10
verbose = true
locals = ["a", "b"]
begin = "reject"

[def]
in_def = 1
`
	opts, err := DecodeOptions([]byte(data), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	if opts.File != "irb" || opts.FirstLine != 10 || !opts.Verbose {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.Locals) != 2 || opts.Begin != BeginReject || opts.Def.InDef != 1 {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.MaxDepth != defaultOptions().MaxDepth {
		t.Errorf("expected default stack limit, got %d", opts.MaxDepth)
	}
}

func TestDecodeYAMLOptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	data := `
first_line: 3
begin: inline
max_depth: 500
def:
  in_single: 2
`
	opts, err := DecodeOptions([]byte(data), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if opts.FirstLine != 3 || opts.Begin != BeginInline || opts.MaxDepth != 500 || opts.Def.InSingle != 2 {
		t.Errorf("unexpected options %+v", opts)
	}
	if _, err = DecodeOptions([]byte("begin = \"sometimes\"\n"), FormatTOML); err == nil {
		t.Errorf("expected unknown BEGIN policy to be rejected")
	}
}

func TestLoadOptionsDetectsFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "rubin.yml")
	if err := os.WriteFile(path, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Verbose {
		t.Errorf("expected verbose option from YAML file")
	}
}

func TestOptionsApplyToParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.parser")
	defer teardown()
	//
	opts, err := DecodeOptions([]byte("file = \"script.rb\"\nfirst_line = 5\n"), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	var echo bytes.Buffer
	_, err = ParseString("", "x = 1\nself = 2\n", WithOptions(opts), Echo(&echo))
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "script.rb:6:") {
		t.Errorf("expected error in script.rb line 6, got %v", err)
	}
	if !strings.Contains(echo.String(), "Can't change the value of self") {
		t.Errorf("expected diagnostic to be echoed, got %q", echo.String())
	}
}
