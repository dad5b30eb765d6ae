package shell

import (
	"sort"

	"src.tsrepl.dev/pkg/eval"
)

// MethodFunc implements a custom method. It is called with the session and
// the arguments from JavaScript, converted to Go values. A non-nil error is
// thrown into JavaScript.
type MethodFunc func(s *Session, args ...any) (any, error)

// MethodOpts keeps options for a custom method.
type MethodOpts struct {
	// Shown by .methods.
	Description string
}

// AddMethod adds a custom method, available as a global function in the
// session. Methods added before Run are bound when Run starts; later ones are
// bound immediately. Adding a method with the name of an existing one
// replaces it.
//
// A Session is not safe for concurrent use: once Run has started, AddMethod
// may only be called from the methods and commands of the session.
func (s *Session) AddMethod(name string, fn MethodFunc, opts MethodOpts) error {
	return s.methods.register(name, method{fn, opts}, s)
}

type method struct {
	fn   MethodFunc
	opts MethodOpts
}

// Custom methods by name. Entries are queued until materializeInto is called;
// after that, entries are bound as they are registered.
type methodRegistry struct {
	entries map[string]method
	env     *eval.Env
}

func (r *methodRegistry) register(name string, m method, s *Session) error {
	if r.entries == nil {
		r.entries = make(map[string]method)
	}
	r.entries[name] = m
	if r.env != nil {
		return bind(r.env, name, m, s)
	}
	return nil
}

func (r *methodRegistry) materializeInto(env *eval.Env, s *Session) error {
	r.env = env
	for _, name := range r.names() {
		if err := bind(env, name, r.entries[name], s); err != nil {
			return err
		}
	}
	return nil
}

func (r *methodRegistry) names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bind(env *eval.Env, name string, m method, s *Session) error {
	logger.Printf("binding method %s", name)
	return env.SetFunc(name, func(args []any) (any, error) {
		return m.fn(s, args...)
	})
}
