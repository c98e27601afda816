package ast

// Kind is the tag of a tree node.
type Kind uint8

// Node kinds. The comment of every kind lists the fields it uses; fields not
// listed are zero.
const (
	Invalid Kind = iota

	// --- statements and control flow ---
	Scope     // A body; Locals
	Block     // List statements
	If        // A cond, B then, C else
	Case      // A subject (may be nil), List whens, C else
	When      // A patterns (Array), B body
	While     // A cond, B body; Flags&FlagDoWhile
	Until     // A cond, B body; Flags&FlagDoWhile
	Iter      // A call, B block parameter target, C body; Locals
	For       // A iterated expression, B loop variable target, C body
	Break     // A value
	Next      // A value
	Redo      //
	Retry     //
	Return    // A value
	Begin     // A body
	Rescue    // A body, List rescue clauses, C else
	ResBody   // A exception classes (Array), B body, C exception variable assignment
	Ensure    // A body, B ensure body
	And       // A, B
	Or        // A, B
	Not       // A
	Defined   // A
	PostExe   // A body of an END block
	Undef     // List symbol literals
	Alias     // ID new name, Op old name
	VAlias    // ID new global, Op old global
	Yield     // A args; Flags&FlagSplat
	Super     // B args
	ZSuper    //
	Self      //
	Nil       //
	True      //
	False     //

	// --- assignments ---
	MAsgn     // A pre targets (Array), B rest target, List post targets, C value
	LAsgn     // ID, Slot, A value
	DAsgn     // ID, Slot, Depth, A value
	DAsgnCurr // ID, Slot, A value
	GAsgn     // ID, A value
	IAsgn     // ID, A value
	CVAsgn    // ID, A value
	CVDecl    // ID, A value
	CDecl     // ID or B constant path, A value
	OpAsgn1   // A receiver, Op operator, B index args, C value
	OpAsgn2   // A receiver, ID attribute, Op operator, C value
	OpAsgnAnd // A variable read, B assignment
	OpAsgnOr  // A variable read, B assignment
	AttrAsgn  // A receiver (nil means self), ID setter name, B args

	// --- calls and arguments ---
	Call      // A receiver, ID method, B args
	FCall     // ID method, B args
	VCall     // ID method
	Array     // List elements
	ZArray    //
	Hash      // List keys and values, alternating
	Splat     // A value; a nil A denotes an anonymous rest target
	ToAry     // A value
	SValue    // A value
	ArgsCat   // A head args, B splatted tail
	ArgsPush  // A head args, B pushed value
	BlockPass // A block value, B call
	BlockArg  // ID, Slot
	Args      // List required, A optional (Block of LAsgn), ID rest name, C block arg; Flags&FlagAnonRest

	// --- variables and constants ---
	LVar    // ID, Slot
	DVar    // ID, Slot, Depth
	GVar    // ID
	IVar    // ID
	CVar    // ID
	Const   // ID
	Colon2  // A scope, ID name
	Colon3  // ID
	NthRef  // Slot group number
	BackRef // Slot character of $&, $`, $', $+

	// --- literals ---
	Lit       // Lit: int64, *big.Int, float64, rubin.SymbolID or *Regexp
	Str       // Lit string
	XStr      // Lit string
	DStr      // Lit leading string, List parts
	DXStr     // Lit leading string, List parts
	DRegx     // Lit leading string, List parts; Flags options
	DRegxOnce // Lit leading string, List parts; Flags options
	DSym      // Lit leading string, List parts
	EvStr     // A embedded expression
	Dot2      // A, B
	Dot3      // A, B
	Flip2     // A, B
	Flip3     // A, B
	Match     // A regexp literal, matched against $_
	Match2    // A regexp, B value
	Match3    // A regexp, B value

	// --- definitions ---
	Defn   // ID name, B args, C body (Scope)
	Defs   // A receiver, ID name, B args, C body (Scope)
	Class  // A path, B superclass, C body (Scope)
	Module // A path, C body (Scope)
	SClass // A receiver, C body (Scope)

	kindCount
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Scope:     "scope",
	Block:     "block",
	If:        "if",
	Case:      "case",
	When:      "when",
	While:     "while",
	Until:     "until",
	Iter:      "iter",
	For:       "for",
	Break:     "break",
	Next:      "next",
	Redo:      "redo",
	Retry:     "retry",
	Return:    "return",
	Begin:     "begin",
	Rescue:    "rescue",
	ResBody:   "resbody",
	Ensure:    "ensure",
	And:       "and",
	Or:        "or",
	Not:       "not",
	Defined:   "defined",
	PostExe:   "postexe",
	Undef:     "undef",
	Alias:     "alias",
	VAlias:    "valias",
	Yield:     "yield",
	Super:     "super",
	ZSuper:    "zsuper",
	Self:      "self",
	Nil:       "nil",
	True:      "true",
	False:     "false",
	MAsgn:     "masgn",
	LAsgn:     "lasgn",
	DAsgn:     "dasgn",
	DAsgnCurr: "dasgn_curr",
	GAsgn:     "gasgn",
	IAsgn:     "iasgn",
	CVAsgn:    "cvasgn",
	CVDecl:    "cvdecl",
	CDecl:     "cdecl",
	OpAsgn1:   "op_asgn1",
	OpAsgn2:   "op_asgn2",
	OpAsgnAnd: "op_asgn_and",
	OpAsgnOr:  "op_asgn_or",
	AttrAsgn:  "attrasgn",
	Call:      "call",
	FCall:     "fcall",
	VCall:     "vcall",
	Array:     "array",
	ZArray:    "zarray",
	Hash:      "hash",
	Splat:     "splat",
	ToAry:     "to_ary",
	SValue:    "svalue",
	ArgsCat:   "argscat",
	ArgsPush:  "argspush",
	BlockPass: "block_pass",
	BlockArg:  "block_arg",
	Args:      "args",
	LVar:      "lvar",
	DVar:      "dvar",
	GVar:      "gvar",
	IVar:      "ivar",
	CVar:      "cvar",
	Const:     "const",
	Colon2:    "colon2",
	Colon3:    "colon3",
	NthRef:    "nth_ref",
	BackRef:   "back_ref",
	Lit:       "lit",
	Str:       "str",
	XStr:      "xstr",
	DStr:      "dstr",
	DXStr:     "dxstr",
	DRegx:     "dregx",
	DRegxOnce: "dregx_once",
	DSym:      "dsym",
	EvStr:     "evstr",
	Dot2:      "dot2",
	Dot3:      "dot3",
	Flip2:     "flip2",
	Flip3:     "flip3",
	Match:     "match",
	Match2:    "match2",
	Match3:    "match3",
	Defn:      "defn",
	Defs:      "defs",
	Class:     "class",
	Module:    "module",
	SClass:    "sclass",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "invalid"
}

// Flags of nodes.
const (
	FlagDoWhile  = 1 << iota // body of a while/until loop runs before the first test
	FlagSplat                // yield with a splatted argument list
	FlagAnonRest             // parameter list with an anonymous rest parameter
)

// Regexp options, kept in the Flags of regexp nodes and in Regexp literals.
const (
	RegexpIgnoreCase = 1 << iota // i
	RegexpExtended               // x
	RegexpMultiline              // m
	RegexpOnce                   // o
	RegexpNone                   // n
	RegexpEUC                    // e
	RegexpSJIS                   // s
	RegexpUTF8                   // u
)

// IsTransfer is true for kinds which unconditionally transfer control. Code
// following them in a statement sequence will not be reached.
func (k Kind) IsTransfer() bool {
	switch k {
	case Return, Break, Next, Redo, Retry:
		return true
	}
	return false
}

// IsStatementOnly is true for kinds which do not produce a value and are
// therefore illegal where an expression result is needed.
func (k Kind) IsStatementOnly() bool {
	switch k {
	case Class, Module, SClass, Defn, Defs, While, Until, For, MAsgn:
		return true
	}
	return k.IsTransfer()
}
