package animation

import "sync"

// A Property is a typed value an animation can drive.
type Property[T any] interface {
	Get() T
	Set(v T)
}

// Accessor builds a Property from a getter and a setter.
type Accessor[T any] struct {
	GetFunc func() T
	SetFunc func(v T)
}

// Get calls GetFunc.
func (p Accessor[T]) Get() T {
	return p.GetFunc()
}

// Set calls SetFunc.
func (p Accessor[T]) Set(v T) {
	p.SetFunc(v)
}

// Value is a Property holding its own value, safe for concurrent use.
type Value[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewValue creates a Value holding v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (p *Value[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.v
}

// Set replaces the current value.
func (p *Value[T]) Set(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v = v
}

// Bind writes a's current value into prop on every increment and when it
// ends. The returned function removes the binding.
func Bind[T any](a *Animation[T], prop Property[T]) (cancel func()) {
	apply := func(Event) {
		prop.Set(a.CurrentValue())
	}
	cancelIncrement := a.On(Incremented, apply)
	cancelEnd := a.On(Ended, apply)

	return func() {
		cancelIncrement()
		cancelEnd()
	}
}

// Animate animates prop from its current value to end using c's defaults,
// overridden by opts. The animation is bound to prop, tracked by c and
// started.
func Animate[T any](c *Coordinator, prop Property[T], end T, lerp Lerp[T], opts ...Option) (*Animation[T], error) {
	a := New(prop.Get(), end, lerp, append(c.Options(), opts...)...)
	Bind(a, prop)
	c.Track(a)

	if err := a.Start(); err != nil {
		c.release(a)
		return nil, err
	}
	return a, nil
}
