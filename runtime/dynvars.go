package runtime

import (
	"fmt"

	"github.com/npillmayer/rubin"
)

// This module implements the chain of dynamic-variable frames.
// Dynamic frames are used by blocks: variables declared inside a block
// live in the block's frame; variables of enclosing blocks are captured.

// DynFrame is a frame of block-local (dynamic) variables.
type DynFrame struct {
	Name   string
	vars   *SymbolTable
	Parent *DynFrame
}

// NewDynFrame creates a new, empty dynamic frame.
func NewDynFrame(name string) *DynFrame {
	return &DynFrame{
		Name: name,
		vars: NewSymbolTable(),
	}
}

func (df *DynFrame) String() string {
	return fmt.Sprintf("<dyn %s %v>", df.Name, df.vars)
}

// Tags returns the symbol table of a dynamic frame.
func (df *DynFrame) Tags() *SymbolTable {
	return df.vars
}

// IsRoot is a predicate: Is this the outermost block frame?
func (df *DynFrame) IsRoot() bool {
	return df.Parent == nil
}

// ---------------------------------------------------------------------------

// DynVarChain is a singly linked stack of dynamic frames. The top frame is
// the current one, where declarations bind; all others are ancestors and are
// used for lookup only.
type DynVarChain struct {
	tos   *DynFrame
	depth int
}

// Empty is true if no block is open.
func (chain *DynVarChain) Empty() bool {
	return chain.tos == nil
}

// Depth returns the number of frames in the chain.
func (chain *DynVarChain) Depth() int {
	return chain.depth
}

// Current gets the current dynamic frame of a chain (TOS).
func (chain *DynVarChain) Current() *DynFrame {
	if chain.tos == nil {
		panic("attempt to access dynamic frame from empty chain")
	}
	return chain.tos
}

// PushNewFrame pushes a new dynamic frame as TOS, having the recent TOS as
// its parent.
func (chain *DynVarChain) PushNewFrame(name string) *DynFrame {
	df := NewDynFrame(name)
	df.Parent = chain.tos
	chain.tos = df
	chain.depth++
	tracer().P("dyn", name).Debugf("pushing new dynamic frame")
	return df
}

// PopFrame pops the top-most dynamic frame. Returns the popped frame.
func (chain *DynVarChain) PopFrame() *DynFrame {
	if chain.tos == nil {
		panic("attempt to pop dynamic frame from empty chain")
	}
	df := chain.tos
	tracer().Debugf("popping dynamic frame [%s]", df.Name)
	df.vars.seal()
	chain.tos = df.Parent
	chain.depth--
	return df
}

// Lookup searches for a name from the current frame outwards. It returns the
// tag and the number of frames between the current one and the frame the
// name has been found in.
func (chain *DynVarChain) Lookup(name rubin.SymbolID) (*Tag, int) {
	depth := 0
	for df := chain.tos; df != nil; df = df.Parent {
		if tag := df.vars.ResolveTag(name); tag != nil {
			return tag, depth
		}
		depth++
	}
	return nil, -1
}
