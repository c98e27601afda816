package rubin

import "sync"

// The symbol intern table is the only process-wide mutable structure of the
// front end. Scanner, tree builder and evaluator share it, therefore access is
// guarded by a mutex.
var symbols = struct {
	sync.RWMutex
	byName map[string]SymbolID
	names  []string
}{
	byName: map[string]SymbolID{},
	names:  []string{""}, // NoSymbol
}

// Intern returns the SymbolID for text, creating a new one if text has not
// been seen before. IDs are dense, starting at 1.
func Intern(text string) SymbolID {
	symbols.RLock()
	id, ok := symbols.byName[text]
	symbols.RUnlock()
	if ok {
		return id
	}
	symbols.Lock()
	defer symbols.Unlock()
	if id, ok = symbols.byName[text]; ok { // someone else was faster
		return id
	}
	id = SymbolID(len(symbols.names))
	symbols.names = append(symbols.names, text)
	symbols.byName[text] = id
	return id
}

// Lookup returns the SymbolID for text without creating one.
func Lookup(text string) (SymbolID, bool) {
	symbols.RLock()
	defer symbols.RUnlock()
	id, ok := symbols.byName[text]
	return id, ok
}

// String returns the text a symbol has been interned for.
func (id SymbolID) String() string {
	symbols.RLock()
	defer symbols.RUnlock()
	if int(id) >= len(symbols.names) {
		return "?"
	}
	return symbols.names[id]
}
