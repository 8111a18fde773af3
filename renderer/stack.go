package renderer

import "github.com/dellyoung/lessgo/dst"

// VariableValue is what a scope binds a name to: either plain text or a
// detached ruleset capturing the scope it was defined in.
type VariableValue struct {
	IsDetached     bool
	Text           string
	DetachedBody   []dst.RuleBody
	CapturedScopes *VarStack
}

// VarStack is a stack of variable scopes, innermost last. Lookups search
// innermost to outermost; push/pop always happen in matched pairs, even on
// an error path (callers pop with defer or on every return path).
type VarStack struct {
	frames []map[string]VariableValue
}

// NewVarStack creates an empty stack with one base frame.
func NewVarStack() *VarStack {
	return &VarStack{frames: []map[string]VariableValue{{}}}
}

// Push opens a new innermost scope.
func (s *VarStack) Push() {
	s.frames = append(s.frames, map[string]VariableValue{})
}

// Pop closes the innermost scope.
func (s *VarStack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Set binds name in the current innermost scope.
func (s *VarStack) Set(name string, v VariableValue) {
	s.frames[len(s.frames)-1][name] = v
}

// Lookup searches innermost to outermost, reporting ok=false if unbound.
func (s *VarStack) Lookup(name string) (VariableValue, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return VariableValue{}, false
}

// Snapshot captures an independent copy of the stack's current bindings,
// flattened into a single base frame, for a detached ruleset to carry.
func (s *VarStack) Snapshot() *VarStack {
	merged := map[string]VariableValue{}
	for _, frame := range s.frames {
		for k, v := range frame {
			merged[k] = v
		}
	}
	return &VarStack{frames: []map[string]VariableValue{merged}}
}

// MixinStack is a stack of mixin-definition scopes, supporting overloading
// by name (multiple definitions with the same name, disambiguated by arity
// and guards at call time).
type MixinStack struct {
	frames []map[string][]*dst.MixinDefinition
}

// NewMixinStack creates an empty stack with one base frame.
func NewMixinStack() *MixinStack {
	return &MixinStack{frames: []map[string][]*dst.MixinDefinition{{}}}
}

// Push opens a new innermost scope.
func (s *MixinStack) Push() {
	s.frames = append(s.frames, map[string][]*dst.MixinDefinition{})
}

// Pop closes the innermost scope.
func (s *MixinStack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Register adds a mixin definition to the current innermost scope,
// preserving registration order for deterministic overload resolution.
func (s *MixinStack) Register(def *dst.MixinDefinition) {
	frame := s.frames[len(s.frames)-1]
	frame[def.Name] = append(frame[def.Name], def)
}

// Candidates returns every definition named name, innermost scope first,
// in registration order within each scope — the "first registered that
// matches, searched innermost-out" rule from the design notes.
func (s *MixinStack) Candidates(name string) []*dst.MixinDefinition {
	var out []*dst.MixinDefinition
	for i := len(s.frames) - 1; i >= 0; i-- {
		out = append(out, s.frames[i][name]...)
	}
	return out
}
