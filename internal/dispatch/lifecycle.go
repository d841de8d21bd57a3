package dispatch

import "github.com/dshills/pickbind/internal/binding"

// ensureTeardown registers the session's close hook exactly once, before
// its first binding is committed.
func (d *Dispatcher) ensureTeardown(s binding.Session) error {
	d.mu.Lock()
	already := d.hooked[s]
	if !already {
		d.hooked[s] = true
	}
	d.mu.Unlock()

	if already {
		return nil
	}
	if err := d.host.OnClose(s, func() { d.teardown(s) }); err != nil {
		d.mu.Lock()
		delete(d.hooked, s)
		d.mu.Unlock()
		return err
	}
	return nil
}

// teardown runs when the session's surface closes. Evicting the registry
// partition invalidates every outstanding handler id atomically; dropping
// the applied set and hook record lets a future session reuse the same
// surface id from a clean slate.
func (d *Dispatcher) teardown(s binding.Session) {
	d.registry.Evict(s)
	_ = d.host.UnbindAll(s)

	d.mu.Lock()
	delete(d.applied, s)
	delete(d.hooked, s)
	d.mu.Unlock()
}
