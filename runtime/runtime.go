/*
Package runtime implements the scope table consulted while parsing:
local-variable frames, the dynamic-variable chain of blocks and slot
references for variable declarations and reads.

For a thorough discussion of an interpreter's runtime environment, refer to
"Language Implementation Patterns" by Terence Parr.

Local Frames

A local frame is entered for a top-level unit, a method body and a class or
module body. It maps names of local variables to dense slot indices, in the
order of first declaration. Slots 0 and 1 are reserved for $_ and $~. The
slot count is finalized when the frame is left; the evaluator uses it to
size its array of local variables.

Dynamic-Variable Chain

Blocks do not open a new local frame. Instead every block pushes a dynamic
frame onto the chain of its enclosing local frame. Names declared inside a
block bind in the current dynamic frame; names of enclosing blocks and of
the enclosing local frame are visible and are captured.

    st := runtime.NewScopeTree()
    st.EnterScope(runtime.TopScope, "main")
    st.DeclareOrGet(rubin.Intern("x"))         // slot 2 of the top frame
    st.EnterScope(runtime.BlockScope, "each")
    ref := st.DeclareOrGet(rubin.Intern("x"))  // local:2@1, captured by the block
    st.LeaveScope()

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software or the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rubin.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("rubin.runtime")
}

// RefKind tells where a variable lives.
type RefKind int8

// Kinds of variable references.
const (
	NoRef         RefKind = iota
	LocalRef              // slot of the enclosing local frame
	DynCurrentRef         // slot of the current block frame
	DynRef                // slot of an enclosing block frame (captured)
)

func (k RefKind) String() string {
	switch k {
	case LocalRef:
		return "local"
	case DynCurrentRef:
		return "dyn-current"
	case DynRef:
		return "dyn"
	}
	return "none"
}

// SlotRef addresses a variable from the place where it is used.
// Depth counts the block frames between use and declaration. For LocalRef it
// is the number of open blocks in the current local frame.
type SlotRef struct {
	Kind  RefKind
	Slot  int
	Depth int
	New   bool // the variable has been declared by this reference
}

func (ref SlotRef) String() string {
	return fmt.Sprintf("%s:%d@%d", ref.Kind, ref.Slot, ref.Depth)
}

// ---------------------------------------------------------------------------

// ScopeTree can be treated as a stack during parsing, thus building a tree
// from frames which are pushed and popped to/from the stack.
type ScopeTree struct {
	kinds *arraystack.Stack // kind of every open scope
	base  *LocalFrame       // outermost frame
	tos   *LocalFrame       // current local frame
}

// NewScopeTree creates an empty scope tree.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{kinds: arraystack.New()}
}

// Current gets the current local frame.
func (st *ScopeTree) Current() *LocalFrame {
	if st.tos == nil {
		panic("attempt to access frame from empty scope tree")
	}
	return st.tos
}

// Globals gets the outermost frame.
func (st *ScopeTree) Globals() *LocalFrame {
	if st.base == nil {
		panic("attempt to access top-level frame from empty scope tree")
	}
	return st.base
}

// Depth returns the number of open scopes, blocks included.
func (st *ScopeTree) Depth() int {
	return st.kinds.Size()
}

// InBlock is true if the innermost open scope is a block.
func (st *ScopeTree) InBlock() bool {
	return st.tos != nil && !st.tos.dyn.Empty()
}

// EnterScope opens a new scope. Blocks push a dynamic frame onto the current
// local frame's chain, all other kinds push a new local frame.
func (st *ScopeTree) EnterScope(kind ScopeKind, name string) {
	st.kinds.Push(kind)
	if kind == BlockScope {
		st.Current().dyn.PushNewFrame(name)
		return
	}
	frame := NewLocalFrame(kind, name, st.tos)
	if st.tos == nil {
		st.base = frame
	}
	st.tos = frame
	tracer().P("frame", name).Debugf("entering %s scope", kind)
}

// LeaveScope closes the innermost scope and returns the names of its slots
// in slot order.
func (st *ScopeTree) LeaveScope() []rubin.SymbolID {
	k, ok := st.kinds.Pop()
	if !ok {
		panic("attempt to leave scope of empty scope tree")
	}
	if k.(ScopeKind) == BlockScope {
		return st.Current().dyn.PopFrame().vars.Names()
	}
	frame := st.tos
	tracer().Debugf("leaving %s scope [%s], locals = %v", frame.Kind, frame.Name, frame.symtab)
	frame.symtab.seal()
	st.tos = frame.Parent
	return frame.symtab.Names()
}

// Resolve looks up a name without declaring it. Lookup proceeds from the
// current block frame outwards to the enclosing local frame, but never into
// the parent of a local frame.
func (st *ScopeTree) Resolve(name rubin.SymbolID) (SlotRef, bool) {
	frame := st.Current()
	if tag, depth := frame.dyn.Lookup(name); tag != nil {
		kind := DynRef
		if depth == 0 {
			kind = DynCurrentRef
		}
		return SlotRef{Kind: kind, Slot: tag.Slot, Depth: depth}, true
	}
	if tag := frame.symtab.ResolveTag(name); tag != nil {
		return SlotRef{Kind: LocalRef, Slot: tag.Slot, Depth: frame.dyn.Depth()}, true
	}
	return SlotRef{}, false
}

// IsKnown is true if name denotes a variable visible at the current position.
func (st *ScopeTree) IsKnown(name rubin.SymbolID) bool {
	_, ok := st.Resolve(name)
	return ok
}

// DeclareOrGet returns a reference to a visible variable or declares a new
// one. New variables are declared in the current block frame if a block is
// open, in the current local frame otherwise.
func (st *ScopeTree) DeclareOrGet(name rubin.SymbolID) SlotRef {
	if ref, ok := st.Resolve(name); ok {
		return ref
	}
	frame := st.Current()
	if !frame.dyn.Empty() {
		tag := frame.dyn.Current().vars.DefineTag(name)
		tracer().Debugf("declared block variable %s in slot %d", name, tag.Slot)
		return SlotRef{Kind: DynCurrentRef, Slot: tag.Slot, New: true}
	}
	tag := frame.symtab.DefineTag(name)
	tracer().Debugf("declared local variable %s in slot %d", name, tag.Slot)
	return SlotRef{Kind: LocalRef, Slot: tag.Slot, New: true}
}

// Locals returns the names of the current local frame in slot order.
func (st *ScopeTree) Locals() []rubin.SymbolID {
	return st.Current().symtab.Names()
}
