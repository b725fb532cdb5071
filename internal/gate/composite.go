package gate

import "context"

// Composite chains several Gates and acquires/releases them in a fixed
// order (global, then per-backend, then per-handler, per spec.md §4.3),
// which prevents deadlock under contention. A nil entry is treated as an
// unbounded gate and skipped.
type Composite struct {
	gates []*Gate
}

// NewComposite builds a Composite over gates, in acquisition order.
func NewComposite(gates ...*Gate) *Composite {
	return &Composite{gates: gates}
}

// Acquire acquires a permit from every gate in order. If any acquisition
// fails (ctx done while waiting), permits already held from earlier gates
// are released in reverse order before returning the error.
func (c *Composite) Acquire(ctx context.Context, priority int) error {
	acquired := make([]*Gate, 0, len(c.gates))
	for _, g := range c.gates {
		if err := g.Acquire(ctx, priority); err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].Release()
			}
			return err
		}
		acquired = append(acquired, g)
	}
	return nil
}

// Release releases a permit from every gate, in reverse acquisition order.
func (c *Composite) Release() {
	for i := len(c.gates) - 1; i >= 0; i-- {
		c.gates[i].Release()
	}
}
