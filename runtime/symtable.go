package runtime

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/rubin"
)

// Symbol tables for local variables. Symbol tables are attached to frames.
// Frames are organized in a tree, which is traversed like a stack while
// parsing.

// --- Tags -------------------------------------------------------

// Tag is the type of symbols stored into symbol tables. It may be a little
// surprising this type is not called 'Symbol', but grammars consist of
// symbols (within rules), too. Thus, symbols are used in the scope of the
// grammar, tags are used for the variables of the parsed program.
type Tag struct {
	Name  rubin.SymbolID
	Slot  int         // dense index within its table, in declaration order
	UData interface{} // user data
}

// NewTag creates a new tag for a slot.
func NewTag(name rubin.SymbolID, slot int) *Tag {
	return &Tag{Name: name, Slot: slot}
}

// String is a debug Stringer for tags.
func (tag *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%d>", tag.Name, tag.Slot)
}

// === Symbol Tables =========================================================

// SymbolTable is an ordered symbol table. Tags get slot numbers in the
// order of their first declaration; slots are never reused.
type SymbolTable struct {
	table  *linkedhashmap.Map // rubin.SymbolID -> *Tag
	sealed bool
}

// NewSymbolTable creates a symbol table. Reserved names, if any, occupy the
// first slots.
func NewSymbolTable(reserved ...rubin.SymbolID) *SymbolTable {
	symtab := &SymbolTable{table: linkedhashmap.New()}
	for _, name := range reserved {
		symtab.DefineTag(name)
	}
	return symtab
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(name rubin.SymbolID) *Tag {
	if tag, found := t.table.Get(name); found {
		return tag.(*Tag)
	}
	return nil
}

// ResolveOrDefineTag finds a tag in the table, inserts a new one if not
// found. Returns the tag and a flag, signalling whether the tag has already
// been present.
func (t *SymbolTable) ResolveOrDefineTag(name rubin.SymbolID) (*Tag, bool) {
	if name == rubin.NoSymbol {
		return nil, false
	}
	if tag := t.ResolveTag(name); tag != nil {
		return tag, true
	}
	return t.DefineTag(name), false
}

// DefineTag creates a new tag in the next free slot. Defining a name twice
// returns the existing tag.
func (t *SymbolTable) DefineTag(name rubin.SymbolID) *Tag {
	if tag := t.ResolveTag(name); tag != nil {
		return tag
	}
	if t.sealed {
		panic(fmt.Sprintf("attempt to define '%s' in a sealed symbol table", name))
	}
	tag := NewTag(name, t.table.Size())
	t.table.Put(name, tag)
	return tag
}

// Size counts the tags in a symbol table, i.e. the number of slots.
func (t *SymbolTable) Size() int {
	return t.table.Size()
}

// Each iterates over the tags in slot order.
func (t *SymbolTable) Each(mapper func(*Tag)) {
	t.table.Each(func(_, v interface{}) {
		mapper(v.(*Tag))
	})
}

// Names returns the names of all slots, in slot order.
func (t *SymbolTable) Names() []rubin.SymbolID {
	names := make([]rubin.SymbolID, 0, t.table.Size())
	t.Each(func(tag *Tag) {
		names = append(names, tag.Name)
	})
	return names
}

// seal finalizes the slot count.
func (t *SymbolTable) seal() {
	t.sealed = true
}

func (t *SymbolTable) String() string {
	var b strings.Builder
	b.WriteByte('[')
	t.Each(func(tag *Tag) {
		if tag.Slot > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tag.Name.String())
	})
	b.WriteByte(']')
	return b.String()
}

// === Local Frames ==========================================================

// ScopeKind tells what kind of construct opened a frame.
type ScopeKind int8

// Kinds of frames. All kinds except BlockScope open a new local frame,
// hiding the local variables of their parent. Blocks see the variables of
// the enclosing frames.
const (
	TopScope ScopeKind = iota
	MethodScope
	ClassScope
	BlockScope
)

func (k ScopeKind) String() string {
	switch k {
	case TopScope:
		return "top"
	case MethodScope:
		return "method"
	case ClassScope:
		return "class"
	}
	return "block"
}

// Reserved local slots of every local frame: storage for the implicit
// last-read-line and last-match variables.
var (
	LastLine  = rubin.Intern("$_")
	LastMatch = rubin.Intern("$~")
)

// LocalFrame is a frame for a top-level unit, a method body or a
// class/module body. Blocks opened within the frame link their frames
// onto the frame's dynamic-variable chain.
type LocalFrame struct {
	Kind   ScopeKind
	Name   string
	Parent *LocalFrame // the frame which was current when this one was entered
	symtab *SymbolTable
	dyn    *DynVarChain
}

// NewLocalFrame creates a new frame with slots 0 and 1 reserved.
func NewLocalFrame(kind ScopeKind, name string, parent *LocalFrame) *LocalFrame {
	return &LocalFrame{
		Kind:   kind,
		Name:   name,
		Parent: parent,
		symtab: NewSymbolTable(LastLine, LastMatch),
		dyn:    &DynVarChain{},
	}
}

// Prettyfied Stringer.
func (f *LocalFrame) String() string {
	return fmt.Sprintf("<frame %s %s>", f.Kind, f.Name)
}

// Tags returns the symbol table of a frame.
func (f *LocalFrame) Tags() *SymbolTable {
	return f.symtab
}

// Dyn returns the dynamic-variable chain of blocks opened inside the frame.
func (f *LocalFrame) Dyn() *DynVarChain {
	return f.dyn
}
