// SPDX-License-Identifier: Unlicense OR MIT

/*
Package action implements window action resolution. An action is a
named command such as select-all or paste, identified by a numeric ID.
Handlers report per-action status and a Resolver walks a fallback
chain of handlers to find the one responsible for an action. Table
maps key chords and platform selector strings to action IDs.
*/
package action

import (
	"strings"

	"github.com/yvt/Stella2/io/key"
)

// ID identifies an action.
type ID uint32

// Status describes an action at one handler.
type Status uint8

const (
	// Applicable marks an action the handler recognizes in its
	// current context. A zero Status means not applicable.
	Applicable Status = 1 << iota
	// Enabled marks an applicable action that may be performed now.
	Enabled
	// Checked marks an action presented in an on state.
	Checked
)

// Contain reports whether flags is a subset of s.
func (s Status) Contain(flags Status) bool {
	return s&flags == flags
}

func (s Status) String() string {
	if s == 0 {
		return "NotApplicable"
	}
	var strs []string
	if s.Contain(Applicable) {
		strs = append(strs, "Applicable")
	}
	if s.Contain(Enabled) {
		strs = append(strs, "Enabled")
	}
	if s.Contain(Checked) {
		strs = append(strs, "Checked")
	}
	return strings.Join(strs, "|")
}

// Handler reports and performs actions for one resolution target.
type Handler interface {
	// ActionStatus reports the status of id at this handler.
	ActionStatus(id ID) Status
	// PerformAction performs id. It is only called for actions this
	// handler reported applicable and enabled.
	PerformAction(id ID)
}

// Resolver resolves actions over a fallback chain of handlers.
// Resolution stops at the first handler that reports an action
// applicable, so an earlier handler shadows later ones even when it
// reports the action disabled.
type Resolver struct {
	chain []Handler
}

// NewResolver returns a Resolver over chain, consulted in order.
// Nil handlers are skipped.
func NewResolver(chain ...Handler) *Resolver {
	r := &Resolver{}
	for _, h := range chain {
		if h != nil {
			r.chain = append(r.chain, h)
		}
	}
	return r
}

// Status reports the status of id at the first handler that considers
// it applicable, or zero if no handler does.
func (r *Resolver) Status(id ID) Status {
	_, st := r.resolve(id)
	return st
}

// Perform performs id at the first handler that considers it
// applicable, provided that handler also reports it enabled. It
// reports whether the action was performed.
func (r *Resolver) Perform(id ID) bool {
	h, st := r.resolve(id)
	if !st.Contain(Applicable | Enabled) {
		return false
	}
	h.PerformAction(id)
	return true
}

func (r *Resolver) resolve(id ID) (Handler, Status) {
	for _, h := range r.chain {
		if st := h.ActionStatus(id); st.Contain(Applicable) {
			return h, st
		}
	}
	return nil, 0
}

// Chord is a key combination. Matching is exact: a binding for Ctrl+A
// does not match Ctrl+Shift+A.
type Chord struct {
	Modifiers key.Modifiers
	Name      key.Name
}

// Table maps key chords and selector strings to action IDs. Selector
// strings name standard editing commands the platform dispatches by
// name, such as "selectAll:".
type Table struct {
	chords    map[Chord]ID
	selectors map[string]ID
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		chords:    make(map[Chord]ID),
		selectors: make(map[string]ID),
	}
}

// BindKey binds the chord of mods and name to id, replacing any
// previous binding.
func (t *Table) BindKey(mods key.Modifiers, name key.Name, id ID) {
	t.chords[Chord{Modifiers: mods, Name: name}] = id
}

// BindSelector binds the selector string sel to id, replacing any
// previous binding.
func (t *Table) BindSelector(sel string, id ID) {
	t.selectors[sel] = id
}

// Key looks up the binding for the chord of e.
func (t *Table) Key(e key.Event) (ID, bool) {
	id, ok := t.chords[Chord{Modifiers: e.Modifiers, Name: e.Name}]
	return id, ok
}

// Selector looks up the binding for sel.
func (t *Table) Selector(sel string) (ID, bool) {
	id, ok := t.selectors[sel]
	return id, ok
}
