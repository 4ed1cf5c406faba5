// SPDX-License-Identifier: Unlicense OR MIT

package action

import (
	"testing"

	"github.com/yvt/Stella2/io/key"
)

const (
	actCopy ID = iota + 1
	actPaste
	actSelectAll
)

type tableHandler struct {
	status    map[ID]Status
	performed []ID
}

func (h *tableHandler) ActionStatus(id ID) Status {
	return h.status[id]
}

func (h *tableHandler) PerformAction(id ID) {
	h.performed = append(h.performed, id)
}

func TestResolverFallback(t *testing.T) {
	front := &tableHandler{status: map[ID]Status{
		actCopy: Applicable,
	}}
	back := &tableHandler{status: map[ID]Status{
		actCopy:  Applicable | Enabled,
		actPaste: Applicable | Enabled | Checked,
	}}
	r := NewResolver(front, back)

	// front recognizes copy but has it disabled; it must shadow the
	// enabled binding further down the chain.
	if got := r.Status(actCopy); got != Applicable {
		t.Errorf("got status %v, expected %v", got, Applicable)
	}
	if r.Perform(actCopy) {
		t.Error("performed an action its handler reported disabled")
	}
	if len(back.performed) != 0 {
		t.Errorf("shadowed handler performed %v", back.performed)
	}

	// paste falls through front to back.
	if got := r.Status(actPaste); got != Applicable|Enabled|Checked {
		t.Errorf("got status %v, expected %v", got, Applicable|Enabled|Checked)
	}
	if !r.Perform(actPaste) {
		t.Error("enabled action was not performed")
	}
	if len(back.performed) != 1 || back.performed[0] != actPaste {
		t.Errorf("got performed %v, expected [%d]", back.performed, actPaste)
	}
	if len(front.performed) != 0 {
		t.Errorf("non-applicable handler performed %v", front.performed)
	}
}

func TestPerformRequiresEnabled(t *testing.T) {
	h := &tableHandler{status: map[ID]Status{
		actCopy: Applicable | Checked,
	}}
	r := NewResolver(h)
	// Checked does not stand in for Enabled.
	if r.Perform(actCopy) {
		t.Error("performed a checked but disabled action")
	}
	if len(h.performed) != 0 {
		t.Errorf("got performed %v, expected none", h.performed)
	}
}

func TestResolverNone(t *testing.T) {
	r := NewResolver(nil, &tableHandler{})
	if got := r.Status(actSelectAll); got != 0 {
		t.Errorf("got status %v, expected NotApplicable", got)
	}
	if r.Perform(actSelectAll) {
		t.Error("performed an action no handler recognizes")
	}
}

func TestTableKey(t *testing.T) {
	tab := NewTable()
	tab.BindKey(key.ModCommand, "A", actSelectAll)
	tab.BindKey(key.ModCommand, "C", actCopy)

	if id, ok := tab.Key(key.Event{Name: "A", Modifiers: key.ModCommand}); !ok || id != actSelectAll {
		t.Errorf("got (%d, %t), expected (%d, true)", id, ok, actSelectAll)
	}
	// Extra modifiers must not match.
	if _, ok := tab.Key(key.Event{Name: "A", Modifiers: key.ModCommand | key.ModShift}); ok {
		t.Error("chord matched with an extra modifier held")
	}
	if _, ok := tab.Key(key.Event{Name: "A"}); ok {
		t.Error("chord matched without its modifier")
	}
}

func TestTableSelector(t *testing.T) {
	tab := NewTable()
	tab.BindSelector("selectAll:", actSelectAll)
	if id, ok := tab.Selector("selectAll:"); !ok || id != actSelectAll {
		t.Errorf("got (%d, %t), expected (%d, true)", id, ok, actSelectAll)
	}
	if _, ok := tab.Selector("paste:"); ok {
		t.Error("unbound selector resolved")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{0, "NotApplicable"},
		{Applicable, "Applicable"},
		{Applicable | Enabled, "Applicable|Enabled"},
		{Applicable | Enabled | Checked, "Applicable|Enabled|Checked"},
	}
	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("got %q, expected %q", got, tc.want)
		}
	}
}
