// Package evaluator implements the minjs tree-walking evaluator.
package evaluator

// Value is the interface for all minjs runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	minjsValue() // sealed marker
}

// Undefined is the undefined sentinel. It is distinct from every primitive
// and doubles as the "no binding" result of a failed lookup.
type Undefined struct{}

func (Undefined) minjsValue() {}

// Int represents an integer value.
type Int struct {
	Value int64
}

func (Int) minjsValue() {}

// Str represents a string value.
type Str struct {
	Value string
}

func (Str) minjsValue() {}

// Invoker is the behavior attached to an invocable object. self is the
// function object being invoked, receiver the value bound to `this`.
type Invoker func(self *Object, receiver Value, args []Value) (Value, error)

// Object is the unified runtime entity: plain objects, environments and
// functions are all property stores with an optional parent used as a read
// fallback and an optional invocation capability.
type Object struct {
	name    string
	props   map[string]Value
	parent  *Object
	invoker Invoker
}

func (*Object) minjsValue() {}

// NewObject creates an object with an optional parent (prototype).
func NewObject(parent *Object) *Object {
	return &Object{
		props:  make(map[string]Value),
		parent: parent,
	}
}

// NewFunction creates an invocable object with a display name.
func NewFunction(name string, invoker Invoker) *Object {
	obj := NewObject(nil)
	obj.name = name
	obj.invoker = invoker
	return obj
}

// Register defines or overwrites a property on this object. It never
// touches the parent chain.
func (o *Object) Register(name string, v Value) {
	o.props[name] = v
}

// Lookup reads a property, walking the parent chain. A total miss yields
// Undefined rather than an error.
func (o *Object) Lookup(name string) Value {
	if v, ok := o.props[name]; ok {
		return v
	}
	if o.parent != nil {
		return o.parent.Lookup(name)
	}
	return Undefined{}
}

// HasLocal reports whether the property exists on this object itself,
// ignoring the parent chain.
func (o *Object) HasLocal(name string) bool {
	_, ok := o.props[name]
	return ok
}

// Parent returns the fallback object, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// Name returns the display name (empty for non-functions).
func (o *Object) Name() string {
	return o.name
}

// Invocable reports whether the object carries an invocation capability.
func (o *Object) Invocable() bool {
	return o.invoker != nil
}

// Invoke calls the object's invocation behavior.
func (o *Object) Invoke(receiver Value, args []Value) (Value, error) {
	return o.invoker(o, receiver, args)
}

// IsUndefined reports whether v is the undefined sentinel.
func IsUndefined(v Value) bool {
	_, ok := v.(Undefined)
	return ok
}

// Equals compares two values: primitives by value, objects by identity.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value == bv.Value
	case Str:
		bv, ok := b.(Str)
		return ok && av.Value == bv.Value
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	}
	return false
}
