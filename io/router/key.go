// SPDX-License-Identifier: Unlicense OR MIT

package router

import (
	"github.com/yvt/Stella2/io/action"
	"github.com/yvt/Stella2/io/key"
)

// Key routes a key event and reports whether it was consumed. A press
// matching a bound chord is consumed by action resolution: the action
// is performed when its resolved status is enabled, and swallowed
// without effect when it is applicable but disabled. Everything else,
// including all releases, goes to the client.
func (r *Router) Key(e key.Event) bool {
	if e.State == key.Press && r.Bindings != nil && r.Actions != nil {
		if id, ok := r.Bindings.Key(e); ok {
			if st := r.Actions.Status(id); st.Contain(action.Applicable) {
				if st.Contain(action.Enabled) {
					r.Actions.Perform(id)
				}
				return true
			}
		}
	}
	return r.client.Key(e)
}
