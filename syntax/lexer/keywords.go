package lexer

import "github.com/npillmayer/rubin"

// keyword is an entry of the reserved word table. Reserved words carry two
// token types: stmt is used at the beginning of a statement, mod elsewhere
// (e.g. kIF vs. kIF_MOD). mode is the lexer mode after the keyword.
type keyword struct {
	stmt, mod rubin.TokType
	mode      Mode
}

var keywords = map[string]keyword{
	"end":      {KEnd, KEnd, ModeEnd},
	"else":     {KElse, KElse, ModeBeg},
	"case":     {KCase, KCase, ModeBeg},
	"ensure":   {KEnsure, KEnsure, ModeBeg},
	"module":   {KModule, KModule, ModeBeg},
	"elsif":    {KElsif, KElsif, ModeBeg},
	"def":      {KDef, KDef, ModeFName},
	"rescue":   {KRescue, KRescueMod, ModeMid},
	"not":      {KNot, KNot, ModeBeg},
	"then":     {KThen, KThen, ModeBeg},
	"yield":    {KYield, KYield, ModeArg},
	"for":      {KFor, KFor, ModeBeg},
	"self":     {KSelf, KSelf, ModeEnd},
	"false":    {KFalse, KFalse, ModeEnd},
	"retry":    {KRetry, KRetry, ModeEnd},
	"return":   {KReturn, KReturn, ModeMid},
	"true":     {KTrue, KTrue, ModeEnd},
	"if":       {KIf, KIfMod, ModeBeg},
	"defined?": {KDefined, KDefined, ModeArg},
	"super":    {KSuper, KSuper, ModeArg},
	"undef":    {KUndef, KUndef, ModeFName},
	"break":    {KBreak, KBreak, ModeMid},
	"in":       {KIn, KIn, ModeBeg},
	"do":       {KDo, KDo, ModeBeg},
	"nil":      {KNil, KNil, ModeEnd},
	"until":    {KUntil, KUntilMod, ModeBeg},
	"unless":   {KUnless, KUnlessMod, ModeBeg},
	"or":       {KOr, KOr, ModeBeg},
	"next":     {KNext, KNext, ModeMid},
	"when":     {KWhen, KWhen, ModeBeg},
	"redo":     {KRedo, KRedo, ModeEnd},
	"and":      {KAnd, KAnd, ModeBeg},
	"begin":    {KBegin, KBegin, ModeBeg},
	"__LINE__": {KLine, KLine, ModeEnd},
	"class":    {KClass, KClass, ModeClass},
	"__FILE__": {KFile, KFile, ModeEnd},
	"END":      {KLEnd, KLEnd, ModeEnd},
	"BEGIN":    {KLBegin, KLBegin, ModeEnd},
	"while":    {KWhile, KWhileMod, ModeBeg},
	"alias":    {KAlias, KAlias, ModeFName},
}

// IsKeyword is a predicate: is name a reserved word?
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
