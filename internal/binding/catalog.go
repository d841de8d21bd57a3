package binding

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is the external named-action store consulted when a Named action
// is applied. Registration is open: a feature may replace a builtin by
// re-registering its name.
type Catalog struct {
	mu      sync.RWMutex
	actions map[string]Handler
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{actions: make(map[string]Handler)}
}

// Register stores a handler under a name, replacing any previous one.
func (c *Catalog) Register(name string, fn Handler) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAction)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrInvalidAction, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[name] = fn
	return nil
}

// Resolve returns the handler registered under a name.
func (c *Catalog) Resolve(name string) (Handler, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fn, ok := c.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return fn, nil
}

// Names returns all registered names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.actions))
	for name := range c.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
