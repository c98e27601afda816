package runtime

import (
	"testing"

	"github.com/npillmayer/rubin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNewSymTab(t *testing.T) {
	symtab := NewSymbolTable()
	if symtab == nil || symtab.Size() != 0 {
		t.Error("no empty symbol table created")
	}
}

func TestTwoTagsDistinctSlots(t *testing.T) {
	symtab := NewSymbolTable()
	tag1 := symtab.DefineTag(rubin.Intern("new-sym1"))
	tag2 := symtab.DefineTag(rubin.Intern("new-sym2"))
	if tag1 == tag2 || tag1.Slot != 0 || tag2.Slot != 1 {
		t.Errorf("expected slots 0 and 1, have %v and %v", tag1, tag2)
	}
}

func TestResolveOrDefineTag(t *testing.T) {
	symtab := NewSymbolTable()
	tag := symtab.DefineTag(rubin.Intern("new-sym"))
	tag.UData = 5
	if found, ok := symtab.ResolveOrDefineTag(tag.Name); !ok || found.UData != 5 {
		t.Error("cannot find stored tag in table")
	}
	if again := symtab.DefineTag(tag.Name); again != tag {
		t.Error("defining a tag twice should return the existing tag")
	}
}

func TestReservedSlots(t *testing.T) {
	frame := NewLocalFrame(MethodScope, "m", nil)
	x := frame.Tags().DefineTag(rubin.Intern("x"))
	if x.Slot != 2 {
		t.Errorf("expected first local to get slot 2, has %d", x.Slot)
	}
	names := frame.Tags().Names()
	if names[0] != LastLine || names[1] != LastMatch {
		t.Errorf("expected slots 0 and 1 to be reserved, are %v", frame.Tags())
	}
}

func TestDeclarationOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.runtime")
	defer teardown()
	//
	st := NewScopeTree()
	st.EnterScope(TopScope, "main")
	a, b := rubin.Intern("a"), rubin.Intern("b")
	if st.IsKnown(b) {
		t.Fatalf("b should be unknown before declaration")
	}
	st.DeclareOrGet(b)
	st.DeclareOrGet(a)
	if ref := st.DeclareOrGet(b); ref.New || ref.Slot != 2 {
		t.Errorf("expected b to keep slot 2, is %v", ref)
	}
	locals := st.LeaveScope()
	if len(locals) != 4 || locals[2] != b || locals[3] != a {
		t.Errorf("expected locals [$_ $~ b a], have %v", locals)
	}
}

func TestMethodHidesOuterLocals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.runtime")
	defer teardown()
	//
	st := NewScopeTree()
	x := rubin.Intern("x")
	st.EnterScope(TopScope, "main")
	st.DeclareOrGet(x)
	st.EnterScope(MethodScope, "m")
	if st.IsKnown(x) {
		t.Errorf("method body must not see locals of the top-level frame")
	}
	st.LeaveScope()
	if !st.IsKnown(x) {
		t.Errorf("x should be visible again after leaving the method")
	}
}

func TestBlocksCapture(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rubin.runtime")
	defer teardown()
	//
	st := NewScopeTree()
	x, y, z := rubin.Intern("x"), rubin.Intern("y"), rubin.Intern("z")
	st.EnterScope(MethodScope, "m")
	st.DeclareOrGet(x)
	st.EnterScope(BlockScope, "outer")
	if ref := st.DeclareOrGet(y); ref.Kind != DynCurrentRef || !ref.New || ref.Slot != 0 {
		t.Errorf("expected y to be declared in the block frame, is %v", ref)
	}
	st.EnterScope(BlockScope, "inner")
	for _, test := range []struct {
		name  rubin.SymbolID
		kind  RefKind
		depth int
	}{
		{x, LocalRef, 2},
		{y, DynRef, 1},
		{z, DynCurrentRef, 0},
	} {
		ref := st.DeclareOrGet(test.name)
		if ref.Kind != test.kind || ref.Depth != test.depth {
			t.Errorf("%s: expected %s at depth %d, have %v", test.name, test.kind, test.depth, ref)
		}
	}
	if vars := st.LeaveScope(); len(vars) != 1 || vars[0] != z {
		t.Errorf("expected inner block to own z only, has %v", vars)
	}
	if st.IsKnown(z) {
		t.Errorf("z must be invisible outside of its block")
	}
	st.LeaveScope()
	if !st.InBlock() && st.IsKnown(y) {
		t.Errorf("y must be invisible outside of its block")
	}
	if locals := st.LeaveScope(); len(locals) != 3 {
		t.Errorf("expected method frame to have 3 slots, has %v", locals)
	}
}

func TestLeaveEmptyScopeTreePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected LeaveScope on empty tree to panic")
		}
	}()
	NewScopeTree().LeaveScope()
}
