package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// BeginPolicy tells what to do with BEGIN blocks.
type BeginPolicy int8

// Policies for BEGIN blocks.
const (
	BeginCollect BeginPolicy = iota // collect into Result.PreExec, to run before the unit
	BeginInline                     // leave in place, for hosts feeding fragments
	BeginReject                     // report an error
)

var beginPolicyNames = [...]string{"collect", "inline", "reject"}

func (p BeginPolicy) String() string {
	if p >= 0 && int(p) < len(beginPolicyNames) {
		return beginPolicyNames[p]
	}
	return "?"
}

// MarshalText formats a policy for option files.
func (p BeginPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText reads a policy from option files.
func (p *BeginPolicy) UnmarshalText(text []byte) error {
	for i, name := range beginPolicyNames {
		if strings.EqualFold(string(text), name) {
			*p = BeginPolicy(i)
			return nil
		}
	}
	return fmt.Errorf("unknown BEGIN policy %q", text)
}

// DefContext describes where the source will be evaluated, e.g. inside a
// method body for an eval.
type DefContext struct {
	InDef     int `toml:"in_def" yaml:"in_def"`
	InSingle  int `toml:"in_single" yaml:"in_single"`
	ClassNest int `toml:"class_nest" yaml:"class_nest"`
}

// Options control a parse. Create them with functional Option setters or
// load them from a file with LoadOptions.
type Options struct {
	File         string      `toml:"file" yaml:"file"`
	FirstLine    int         `toml:"first_line" yaml:"first_line"`
	Verbose      bool        `toml:"verbose" yaml:"verbose"`
	Def          DefContext  `toml:"def" yaml:"def"`
	Locals       []string    `toml:"locals" yaml:"locals"`
	Begin        BeginPolicy `toml:"begin" yaml:"begin"`
	MaxDepth     int         `toml:"max_depth" yaml:"max_depth"`
	SnippetWidth int         `toml:"snippet_width" yaml:"snippet_width"`
	Echo         io.Writer   `toml:"-" yaml:"-"`
}

// Option configures a parse.
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		FirstLine:    1,
		MaxDepth:     10000,
		SnippetWidth: 120,
	}
}

func (o *Options) applyDefaults() {
	d := defaultOptions()
	if o.FirstLine <= 0 {
		o.FirstLine = d.FirstLine
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.SnippetWidth <= 0 {
		o.SnippetWidth = d.SnippetWidth
	}
}

// FirstLine sets the line number of the first source line.
func FirstLine(n int) Option {
	return func(o *Options) {
		o.FirstLine = n
	}
}

// Verbose switches on warnings which are only reported in verbose mode.
func Verbose(b bool) Option {
	return func(o *Options) {
		o.Verbose = b
	}
}

// InDefinition parses as if inside a method, singleton method or class body.
func InDefinition(def DefContext) Option {
	return func(o *Options) {
		o.Def = def
	}
}

// Locals pre-declares local variables, e.g. the locals of an enclosing
// binding for an eval.
func Locals(names ...string) Option {
	return func(o *Options) {
		o.Locals = append(o.Locals, names...)
	}
}

// Begin sets the policy for BEGIN blocks.
func Begin(p BeginPolicy) Option {
	return func(o *Options) {
		o.Begin = p
	}
}

// MaxDepth limits the depth of the parser stack.
func MaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

// SnippetWidth sets the longest source line shown in diagnostics.
func SnippetWidth(w int) Option {
	return func(o *Options) {
		o.SnippetWidth = w
	}
}

// Echo prints every diagnostic to w as it is reported.
func Echo(w io.Writer) Option {
	return func(o *Options) {
		o.Echo = w
	}
}

// WithOptions copies a complete set of options, e.g. loaded from a file.
// Options following it override single settings.
func WithOptions(opts *Options) Option {
	return func(o *Options) {
		if opts != nil {
			*o = *opts
		}
	}
}

// --- Option files ----------------------------------------------------------

// Format of option files.
type Format int

// Option file formats.
const (
	FormatAuto Format = iota // detect from the file extension
	FormatTOML
	FormatYAML
)

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// LoadOptions reads options from a TOML or YAML file, chosen by the file
// extension (.toml, .yaml, .yml). TOML is the default.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read options: %w", err)
	}
	return DecodeOptions(data, detectFormat(path))
}

// DecodeOptions reads options from a byte slice.
func DecodeOptions(data []byte, format Format) (*Options, error) {
	opts := defaultOptions()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("invalid YAML options: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), opts); err != nil {
			return nil, fmt.Errorf("invalid TOML options: %w", err)
		}
	}
	opts.applyDefaults()
	tracer().Debugf("options loaded: %+v", *opts)
	return opts, nil
}
