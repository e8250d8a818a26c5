package announce

import (
	"fmt"
	"io"
	"sync"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/schema"
)

// Announcer writes a description of every change published by a store.
type Announcer struct {
	mu    sync.Mutex
	w     io.Writer
	prev  *schema.DerivedView
	unsub core.Unsubscribe
}

// Attach subscribes a new announcer to store. The current view is the baseline for the first change.
func Attach(store *core.Store, w io.Writer) *Announcer {
	a := &Announcer{w: w, prev: store.View()}
	a.unsub = store.Subscribe(a.observe)
	return a
}

func (a *Announcer) observe(v *schema.DerivedView) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, _ = fmt.Fprintln(a.w, DescribeChange(a.prev, v))
	a.prev = v
}

// Detach stops announcing.
func (a *Announcer) Detach() {
	a.unsub()
}
