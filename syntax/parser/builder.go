package parser

import (
	"math/big"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/rubin"
	"github.com/npillmayer/rubin/runtime"
	"github.com/npillmayer/rubin/syntax/ast"
	"github.com/npillmayer/rubin/syntax/lexer"
)

// Tree building helpers, called from the semantic actions of the grammar.

func (p *Context) pos(line int) rubin.Position {
	if line <= 0 {
		line = p.line
	}
	return rubin.Position{File: p.src.Name(), Line: line}
}

func (p *Context) intern(s string) rubin.SymbolID {
	return rubin.Intern(s)
}

func (p *Context) newNode(k ast.Kind, a, b, c *ast.Node) *ast.Node {
	return ast.NewNode(k, p.pos(0), a, b, c)
}

// newList creates a list node. A line of 0 denotes the current line.
func (p *Context) newList(k ast.Kind, list []*ast.Node, line int) *ast.Node {
	return ast.NewList(k, p.pos(line), list)
}

func (p *Context) newName(k ast.Kind, id rubin.SymbolID) *ast.Node {
	return ast.NewName(k, p.pos(0), id)
}

func (p *Context) lit(v interface{}) *ast.Node {
	return ast.NewLit(p.pos(0), v)
}

func (p *Context) str(s string) *ast.Node {
	return ast.NewStr(p.pos(0), s)
}

func (p *Context) array(elems ...*ast.Node) *ast.Node {
	return p.newList(ast.Array, elems, 0)
}

func (p *Context) hash(v semval) *ast.Node {
	return p.newList(ast.Hash, list(v), 0)
}

// --- Statements ------------------------------------------------------------

// blockOf turns a statement list into a tree: nil for no statements, the
// statement itself for a single one, a Block otherwise.
func (p *Context) blockOf(stmts []*ast.Node) *ast.Node {
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	}
	return p.newList(ast.Block, stmts, stmts[0].Line())
}

func (p *Context) appendStmt(stmts []*ast.Node, n *ast.Node) semval {
	if n == nil {
		return listVal(stmts)
	}
	if k := len(stmts); k > 0 && stmts[k-1].Kind.IsTransfer() {
		p.warningf("statement not reached")
	}
	return listVal(append(stmts, n))
}

var voidNames = map[ast.Kind]string{
	ast.Lit: "a literal", ast.Str: "a literal", ast.DStr: "a literal",
	ast.DRegx: "a literal", ast.DRegxOnce: "a literal", ast.DSym: "a literal",
	ast.LVar: "a variable", ast.DVar: "a variable", ast.GVar: "a variable",
	ast.IVar: "a variable", ast.CVar: "a variable", ast.NthRef: "a variable",
	ast.BackRef: "a variable", ast.Const: "a constant", ast.Colon2: "a constant",
	ast.Colon3: "a constant", ast.Dot2: "..", ast.Dot3: "...", ast.Self: "self",
	ast.Nil: "nil", ast.True: "true", ast.False: "false", ast.Defined: "defined?",
}

var voidOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true, "+@": true,
	"-@": true, "|": true, "^": true, "&": true, "<=>": true, ">": true, ">=": true,
	"<": true, "<=": true, "==": true, "!=": true,
}

// voidStmts warns about statements whose value is discarded although they
// have no effect. Verbose mode only.
func (p *Context) voidStmts(stmts []*ast.Node) {
	if !p.opts.Verbose {
		return
	}
	for i := 0; i < len(stmts)-1; i++ {
		n := stmts[i]
		name, ok := voidNames[n.Kind]
		if n.Is(ast.Call) && voidOperators[n.Name()] {
			name, ok = n.Name(), true
		}
		if ok {
			p.diag.Report(Warning, n.Line(), 0, "useless use of "+name+" in void context")
		}
	}
}

// removeBegin strips begin/end wrappers.
func (p *Context) removeBegin(n *ast.Node) *ast.Node {
	for n.Is(ast.Begin) {
		n = n.A
	}
	return n
}

// --- Values and conditions -------------------------------------------------

// voidValue finds a statement-only construct in a place where its value
// would be used.
func voidValue(n *ast.Node) *ast.Node {
	for n != nil {
		switch n.Kind {
		case ast.Block:
			n = n.List[len(n.List)-1]
		case ast.Begin:
			n = n.A
		case ast.If:
			if v := voidValue(n.B); v != nil {
				return v
			}
			n = n.C
		case ast.And, ast.Or:
			n = n.A
		default:
			if n.Kind.IsStatementOnly() {
				return n
			}
			return nil
		}
	}
	return nil
}

// value checks that n may be used as a value. An empty expression has the
// value nil.
func (p *Context) value(n *ast.Node) *ast.Node {
	if n == nil {
		return p.newNode(ast.Nil, nil, nil, nil)
	}
	if v := voidValue(n); v != nil {
		p.diag.Report(Err, v.Line(), 0, "void value expression")
	}
	return n
}

func isLiteralValue(n *ast.Node) bool {
	switch n.Kind {
	case ast.Lit, ast.Str, ast.Nil, ast.True, ast.False:
		return true
	}
	return false
}

func (p *Context) assignInCond(n *ast.Node) {
	switch n.Kind {
	case ast.LAsgn, ast.DAsgn, ast.DAsgnCurr, ast.GAsgn, ast.IAsgn, ast.CVAsgn, ast.CDecl:
		if n.A != nil && isLiteralValue(n.A) {
			p.warnf("found = in conditional, should be ==")
		}
	}
}

// cond converts an expression used as a condition. Regexp literals match
// against $_, ranges of integer literals become flip-flops comparing with $.
func (p *Context) cond(n *ast.Node) *ast.Node {
	n = p.value(n)
	p.assignInCond(n)
	switch n.Kind {
	case ast.Str, ast.DStr, ast.EvStr:
		p.warnf("string literal in condition")
	case ast.DRegx, ast.DRegxOnce:
		p.warningf("regex literal in condition")
		return p.newNode(ast.Match2, n, p.newName(ast.GVar, p.intern("$_")), nil)
	case ast.And, ast.Or:
		n.A, n.B = p.cond(n.A), p.cond(n.B)
	case ast.Dot2, ast.Dot3:
		kind := ast.Flip2
		if n.Is(ast.Dot3) {
			kind = ast.Flip3
		}
		return p.newNode(kind, p.rangeOp(n.A), p.rangeOp(n.B), nil)
	case ast.Lit:
		if _, ok := n.Lit.(*ast.Regexp); ok {
			p.warningf("regex literal in condition")
			return p.newNode(ast.Match, n, nil, nil)
		}
		p.warningf("literal in condition")
	}
	return n
}

func (p *Context) rangeOp(n *ast.Node) *ast.Node {
	if n.Is(ast.Lit) {
		if _, ok := n.Lit.(int64); ok {
			p.warningf("integer literal in conditional range")
			return p.callOp(n, p.intern("=="), p.newName(ast.GVar, p.intern("$.")))
		}
	}
	return p.cond(n)
}

// logop builds and/or chains, nesting to the right.
func (p *Context) logop(k ast.Kind, left, right *ast.Node) *ast.Node {
	left = p.value(left)
	if left.Is(k) {
		n := left
		for n.B.Is(k) {
			n = n.B
		}
		n.B = p.newNode(k, n.B, right, nil)
		return left
	}
	return p.newNode(k, left, right, nil)
}

func (p *Context) newIf(c, then, els *ast.Node) *ast.Node {
	return p.newNode(ast.If, p.cond(c), then, els)
}

// newCase unchains the when clauses of a case body.
func (p *Context) newCase(subject, chain *ast.Node) *ast.Node {
	var whens []*ast.Node
	n := chain
	for n.Is(ast.When) {
		next := n.C
		n.C = nil
		whens = append(whens, n)
		n = next
	}
	c := p.newList(ast.Case, whens, 0)
	if subject != nil {
		c.A = p.value(subject)
	}
	c.C = n
	return c
}

// loopModifier builds 'body while cond'. A begin/end body runs once before
// the condition is tested.
func (p *Context) loopModifier(k ast.Kind, body, c *ast.Node) *ast.Node {
	if body.Is(ast.Begin) {
		n := p.newNode(k, p.cond(c), body.A, nil)
		n.Flags |= ast.FlagDoWhile
		return n
	}
	return p.newNode(k, p.cond(c), body, nil)
}

// --- Calls -----------------------------------------------------------------

// callOp builds an operator call. A nil argument makes a unary operator.
func (p *Context) callOp(recv *ast.Node, op rubin.SymbolID, arg *ast.Node) *ast.Node {
	n := p.newName(ast.Call, op)
	n.A = p.value(recv)
	if arg != nil {
		n.B = p.array(p.value(arg))
	}
	return n
}

func isRegexp(n *ast.Node) bool {
	if n.Is(ast.Lit) {
		_, ok := n.Lit.(*ast.Regexp)
		return ok
	}
	return n.Is(ast.DRegx) || n.Is(ast.DRegxOnce)
}

// matchGen builds 'a =~ b'. With a regexp literal on either side the match
// is done by the regexp.
func (p *Context) matchGen(a, b *ast.Node) *ast.Node {
	a, b = p.value(a), p.value(b)
	switch {
	case isRegexp(a):
		return p.newNode(ast.Match2, a, b, nil)
	case isRegexp(b):
		return p.newNode(ast.Match3, b, a, nil)
	}
	return p.callOp(a, p.intern("=~"), b)
}

// withBlockPass moves the arguments of a block pass into call and makes the
// call the block pass' call.
func withBlockPass(call, args *ast.Node) *ast.Node {
	if !args.Is(ast.BlockPass) {
		call.B = args
		return call
	}
	call.B, args.C = args.C, nil
	args.B = call
	return args
}

func (p *Context) newCall(recv *ast.Node, method rubin.SymbolID, args *ast.Node) *ast.Node {
	call := p.newName(ast.Call, method)
	call.A = p.value(recv)
	return withBlockPass(call, args)
}

func (p *Context) newFCall(method rubin.SymbolID, args *ast.Node) *ast.Node {
	return withBlockPass(p.newName(ast.FCall, method), args)
}

func (p *Context) newSuper(args *ast.Node) *ast.Node {
	return withBlockPass(p.newNode(ast.Super, nil, nil, nil), args)
}

func (p *Context) noBlockArg(args *ast.Node) *ast.Node {
	if args.Is(ast.BlockPass) {
		p.errorf("block argument should not be given")
		return args.C
	}
	return args
}

func (p *Context) newYield(args *ast.Node) *ast.Node {
	args = p.noBlockArg(args)
	if args.Is(ast.Array) && len(args.List) == 1 {
		args = args.List[0]
	}
	n := p.newNode(ast.Yield, args, nil, nil)
	if args.Is(ast.Splat) {
		n.Flags |= ast.FlagSplat
	}
	return n
}

// retArgs builds the value of return, break and next.
func (p *Context) retArgs(args *ast.Node) *ast.Node {
	args = p.noBlockArg(args)
	if args.Is(ast.Array) && len(args.List) == 1 {
		args = args.List[0]
	}
	if args.Is(ast.Splat) {
		args = p.newNode(ast.SValue, args, nil, nil)
	}
	return args
}

// attachBlock makes call the call of a block.
func (p *Context) attachBlock(call, iter *ast.Node) *ast.Node {
	if iter == nil {
		return call
	}
	if call.Is(ast.BlockPass) {
		p.errorf("both block arg and actual block given")
	}
	iter.A = call
	return iter
}

// argBlockPass attaches a block argument to an argument list. The list is
// kept in the block pass until the call is built.
func (p *Context) argBlockPass(args, blk *ast.Node) *ast.Node {
	if blk == nil {
		return args
	}
	blk.C = args
	return blk
}

func (p *Context) argConcat(head, tail *ast.Node) *ast.Node {
	return p.newNode(ast.ArgsCat, head, tail, nil)
}

// --- Variables and assignments ---------------------------------------------

// gettable builds the read of a variable token. An identifier which is not
// a local variable is a call without receiver and arguments.
func (p *Context) gettable(t *lexer.Token) *ast.Node {
	switch t.Type {
	case lexer.KSelf:
		return p.newNode(ast.Self, nil, nil, nil)
	case lexer.KNil:
		return p.newNode(ast.Nil, nil, nil, nil)
	case lexer.KTrue:
		return p.newNode(ast.True, nil, nil, nil)
	case lexer.KFalse:
		return p.newNode(ast.False, nil, nil, nil)
	case lexer.KFile:
		return p.str(p.src.Name())
	case lexer.KLine:
		return p.lit(int64(t.Line))
	case lexer.TIVar:
		return p.newName(ast.IVar, t.ID())
	case lexer.TGVar:
		return p.newName(ast.GVar, t.ID())
	case lexer.TConstant:
		return p.newName(ast.Const, t.ID())
	case lexer.TCVar:
		return p.newName(ast.CVar, t.ID())
	}
	name := tokenID(t)
	ref, ok := p.scopes.Resolve(name)
	if !ok {
		return p.newName(ast.VCall, name)
	}
	var n *ast.Node
	if ref.Kind == runtime.LocalRef {
		n = p.newName(ast.LVar, name)
	} else {
		n = p.newName(ast.DVar, name)
		n.Depth = ref.Depth
	}
	n.Slot = ref.Slot
	return n
}

var unassignable = map[rubin.TokType]string{
	lexer.KNil: "nil", lexer.KTrue: "true", lexer.KFalse: "false",
	lexer.KFile: "__FILE__", lexer.KLine: "__LINE__",
}

// assignable builds the assignment to a variable token, declaring local
// variables on first assignment.
func (p *Context) assignable(v semval, val *ast.Node) *ast.Node {
	t := tok(v)
	if t == nil {
		return nil
	}
	if t.Type == lexer.KSelf {
		p.errorf("Can't change the value of self")
		return nil
	}
	if name, ok := unassignable[t.Type]; ok {
		p.errorf("Can't assign to %s", name)
		return nil
	}
	name := tokenID(t)
	var n *ast.Node
	switch t.Type {
	case lexer.TGVar:
		n = p.newName(ast.GAsgn, name)
	case lexer.TIVar:
		n = p.newName(ast.IAsgn, name)
	case lexer.TConstant:
		if p.inDef > 0 || p.inSingle > 0 {
			p.errorf("dynamic constant assignment")
		}
		n = p.newName(ast.CDecl, name)
	case lexer.TCVar:
		if p.inDef > 0 || p.inSingle > 0 {
			n = p.newName(ast.CVAsgn, name)
		} else {
			n = p.newName(ast.CVDecl, name)
		}
	default:
		ref := p.scopes.DeclareOrGet(name)
		switch ref.Kind {
		case runtime.LocalRef:
			n = p.newName(ast.LAsgn, name)
		case runtime.DynCurrentRef:
			n = p.newName(ast.DAsgnCurr, name)
		default:
			n = p.newName(ast.DAsgn, name)
			n.Depth = ref.Depth
		}
		n.Slot = ref.Slot
	}
	n.A = val
	return n
}

// readOf builds the read of the variable an assignment node assigns to.
func (p *Context) readOf(asgn *ast.Node) *ast.Node {
	var n *ast.Node
	switch asgn.Kind {
	case ast.LAsgn:
		n = p.newName(ast.LVar, asgn.ID)
	case ast.DAsgn, ast.DAsgnCurr:
		n = p.newName(ast.DVar, asgn.ID)
		n.Depth = asgn.Depth
	case ast.GAsgn:
		n = p.newName(ast.GVar, asgn.ID)
	case ast.IAsgn:
		n = p.newName(ast.IVar, asgn.ID)
	case ast.CVAsgn, ast.CVDecl:
		n = p.newName(ast.CVar, asgn.ID)
	default:
		n = p.newName(ast.Const, asgn.ID)
	}
	n.Slot = asgn.Slot
	return n
}

// nodeAssign sets the value of an assignment target.
func (p *Context) nodeAssign(lhs, rhs *ast.Node) *ast.Node {
	if lhs == nil {
		return nil
	}
	rhs = p.value(rhs)
	switch lhs.Kind {
	case ast.MAsgn:
		lhs.C = rhs
	case ast.AttrAsgn:
		switch {
		case lhs.B == nil:
			lhs.B = p.array(rhs)
		case lhs.B.Is(ast.Array):
			lhs.B.List = append(lhs.B.List, rhs)
		default:
			lhs.B = p.newNode(ast.ArgsPush, lhs.B, rhs, nil)
		}
	default:
		lhs.A = rhs
	}
	return lhs
}

// opAssign builds 'v op= val' for a variable target.
func (p *Context) opAssign(asgn *ast.Node, op rubin.SymbolID, val *ast.Node) *ast.Node {
	if asgn == nil {
		return nil
	}
	val = p.value(val)
	switch op.String() {
	case "||":
		asgn.A = val
		return p.newNode(ast.OpAsgnOr, p.readOf(asgn), asgn, nil)
	case "&&":
		asgn.A = val
		return p.newNode(ast.OpAsgnAnd, p.readOf(asgn), asgn, nil)
	}
	asgn.A = p.callOp(p.readOf(asgn), op, val)
	return asgn
}

func (p *Context) attrset(recv *ast.Node, attr rubin.SymbolID) *ast.Node {
	n := p.newName(ast.AttrAsgn, p.intern(attr.String()+"="))
	if !recv.Is(ast.Self) {
		n.A = p.value(recv)
	}
	return n
}

func (p *Context) aryset(recv, args *ast.Node) *ast.Node {
	n := p.newName(ast.AttrAsgn, p.intern("[]="))
	if !recv.Is(ast.Self) {
		n.A = p.value(recv)
	}
	n.B = args
	return n
}

func (p *Context) constDecl(path *ast.Node) *ast.Node {
	if p.inDef > 0 || p.inSingle > 0 {
		p.errorf("dynamic constant assignment")
	}
	return p.newNode(ast.CDecl, nil, path, nil)
}

func (p *Context) backrefError(n *ast.Node) {
	switch n.Kind {
	case ast.NthRef:
		p.errorf("Can't set variable $%d", n.Slot)
	case ast.BackRef:
		p.errorf("Can't set variable $%c", rune(n.Slot))
	}
}

// masgn builds the targets of a multiple assignment.
func (p *Context) masgn(pre []*ast.Node, rest *ast.Node, post []*ast.Node) *ast.Node {
	n := p.newNode(ast.MAsgn, nil, rest, nil)
	if len(pre) > 0 {
		n.A = p.array(pre...)
	}
	n.List = post
	return n
}

// restTarget wraps the rest target of a multiple assignment. A nil target
// denotes an anonymous rest.
func (p *Context) restTarget(target *ast.Node) *ast.Node {
	return p.newNode(ast.Splat, target, nil, nil)
}

// masgnValue sets the value of a multiple assignment. A single value is
// splatted into the targets if there are leading targets.
func (p *Context) masgnValue(m, val *ast.Node, isList bool) *ast.Node {
	if m == nil {
		return nil
	}
	switch {
	case isList:
		m.C = val
	case m.A != nil:
		m.C = p.newNode(ast.ToAry, val, nil, nil)
	default:
		m.C = p.array(val)
	}
	return m
}

// --- Literals --------------------------------------------------------------

// literalConcat appends a string part to a string literal under
// construction.
func (p *Context) literalConcat(head, tail *ast.Node) *ast.Node {
	if head == nil {
		return tail
	}
	if tail == nil {
		return head
	}
	if head.Is(ast.EvStr) {
		d := p.newList(ast.DStr, []*ast.Node{head}, head.Line())
		d.Lit = ""
		head = d
	}
	hs, _ := head.StrValue()
	switch tail.Kind {
	case ast.Str:
		ts, _ := tail.StrValue()
		if head.Is(ast.Str) {
			head.Lit = hs + ts
		} else {
			head.List = append(head.List, tail)
		}
	case ast.DStr:
		ts, _ := tail.StrValue()
		if head.Is(ast.Str) {
			tail.Lit = hs + ts
			return tail
		}
		if ts != "" {
			head.List = append(head.List, p.str(ts))
		}
		head.List = append(head.List, tail.List...)
	case ast.EvStr:
		if head.Is(ast.Str) {
			head.Kind = ast.DStr
		}
		head.List = append(head.List, tail)
	}
	return head
}

func (p *Context) evstr2dstr(n *ast.Node) *ast.Node {
	if n.Is(ast.EvStr) {
		d := p.newList(ast.DStr, []*ast.Node{n}, n.Line())
		d.Lit = ""
		return d
	}
	return n
}

func (p *Context) newEvstr(n *ast.Node) *ast.Node {
	switch {
	case n.Is(ast.Str), n.Is(ast.DStr), n.Is(ast.EvStr):
		return n
	}
	return p.newNode(ast.EvStr, n, nil, nil)
}

func (p *Context) xstring(n *ast.Node) *ast.Node {
	switch {
	case n == nil:
		x := p.newNode(ast.XStr, nil, nil, nil)
		x.Lit = ""
		return x
	case n.Is(ast.Str):
		n.Kind = ast.XStr
		return n
	case n.Is(ast.DStr):
		n.Kind = ast.DXStr
		return n
	}
	d := p.newList(ast.DXStr, []*ast.Node{n}, n.Line())
	d.Lit = ""
	return d
}

// regexp builds a regexp literal. Regexps without interpolation become
// literal values.
func (p *Context) regexp(n *ast.Node, opts int) *ast.Node {
	if n == nil {
		return p.lit(&ast.Regexp{Options: opts &^ ast.RegexpOnce})
	}
	if n.Is(ast.Str) {
		s, _ := n.StrValue()
		n.Kind, n.Lit = ast.Lit, &ast.Regexp{Source: s, Options: opts &^ ast.RegexpOnce}
		return n
	}
	if !n.Is(ast.DStr) {
		d := p.newList(ast.DStr, []*ast.Node{n}, n.Line())
		d.Lit = ""
		n = d
	}
	n.Kind = ast.DRegx
	if opts&ast.RegexpOnce != 0 {
		n.Kind = ast.DRegxOnce
	}
	n.Flags = opts &^ ast.RegexpOnce
	return n
}

func (p *Context) dsym(n *ast.Node) *ast.Node {
	switch {
	case n == nil:
		p.errorf("empty symbol literal")
		return nil
	case n.Is(ast.DStr):
		n.Kind = ast.DSym
		return n
	case n.Is(ast.Str):
		s, _ := n.StrValue()
		if s == "" {
			p.errorf("empty symbol literal")
		}
		n.Kind, n.Lit = ast.Lit, p.intern(s)
		return n
	}
	d := p.newList(ast.DSym, []*ast.Node{n}, n.Line())
	d.Lit = ""
	return d
}

// symbolOf returns the name of a symbol literal.
func (p *Context) symbolOf(n *ast.Node) rubin.SymbolID {
	if n.Is(ast.Lit) {
		if id, ok := n.Lit.(rubin.SymbolID); ok {
			return id
		}
	}
	if n != nil {
		p.errorf("dynamic symbol not allowed here")
	}
	return rubin.NoSymbol
}

var minInt64 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))

func (p *Context) negateLit(n *ast.Node) *ast.Node {
	switch v := n.Lit.(type) {
	case int64:
		n.Lit = -v
	case float64:
		n.Lit = -v
	case *big.Int:
		if v.Cmp(new(big.Int).Neg(minInt64)) == 0 {
			n.Lit = minInt64.Int64()
		} else {
			n.Lit = new(big.Int).Neg(v)
		}
	}
	return n
}

func (p *Context) restoreStrTerm(v semval) {
	if saved, ok := v.(termVal); ok {
		p.lx.SetStrTerm(saved.term)
	}
}

// --- Scopes and definitions ------------------------------------------------

// leaveScope closes the scope of a definition body.
func (p *Context) leaveScope(body *ast.Node) *ast.Node {
	scope := p.newNode(ast.Scope, body, nil, nil)
	scope.Locals = p.scopes.LeaveScope()
	return scope
}

func (p *Context) newIter(line int, params, body *ast.Node) *ast.Node {
	iter := p.newNode(ast.Iter, nil, params, body)
	iter.Pos.Line = line
	iter.Locals = p.scopes.LeaveScope()
	return iter
}

// preExecution handles a BEGIN block according to the BEGIN policy.
func (p *Context) preExecution(body *ast.Node, line int) *ast.Node {
	scope := p.leaveScope(body)
	scope.Pos.Line = line
	switch p.opts.Begin {
	case BeginInline:
		return scope
	case BeginReject:
		p.diag.Report(Err, line, 0, "BEGIN is permitted only at toplevel")
	default:
		p.preExec = append(p.preExec, scope)
	}
	return nil
}

func (p *Context) singleton(n *ast.Node) *ast.Node {
	if n == nil {
		p.errorf("can't define singleton method for ().")
		return nil
	}
	switch n.Kind {
	case ast.Self:
		return n
	case ast.Str, ast.DStr, ast.XStr, ast.DXStr, ast.DRegx, ast.DRegxOnce, ast.Lit, ast.Array, ast.ZArray:
		p.errorf("can't define singleton method for literals")
		return n
	}
	return p.value(n)
}

func symbolComparator(a, b interface{}) int {
	x, y := a.(rubin.SymbolID), b.(rubin.SymbolID)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// resetParams starts the parameter set of a new method definition.
func (p *Context) resetParams() {
	p.params = treeset.NewWith(symbolComparator)
}

// formalArg declares a formal parameter.
func (p *Context) formalArg(name rubin.SymbolID) *ast.Node {
	if p.params.Contains(name) {
		p.errorf("duplicate argument name")
	} else {
		p.params.Add(name)
	}
	ref := p.scopes.DeclareOrGet(name)
	n := p.newName(ast.LAsgn, name)
	n.Slot = ref.Slot
	return n
}

func (p *Context) newArgs(req, opt []*ast.Node, rest, blk *ast.Node) *ast.Node {
	args := p.newNode(ast.Args, nil, nil, blk)
	for _, r := range req {
		if r != nil {
			args.List = append(args.List, r)
		}
	}
	if len(opt) > 0 {
		args.A = p.newList(ast.Block, opt, 0)
	}
	if rest != nil {
		if rest.ID != rubin.NoSymbol {
			args.ID = rest.ID
		} else {
			args.Flags |= ast.FlagAnonRest
		}
	}
	return args
}
