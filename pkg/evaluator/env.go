package evaluator

// Environments are plain Objects used for lexical scoping: Register defines
// a binding in the innermost frame, Lookup walks the parent chain. A frame
// stays alive as long as any closure captures it, which the garbage
// collector handles through the shared *Object reference.

// NewEnv creates a scoping frame with an optional enclosing scope.
func NewEnv(parent *Object) *Object {
	return NewObject(parent)
}
