// Package resource tracks acquired graphics objects so they can be released
// in exact reverse acquisition order. Setup code pushes a release function as
// each object comes into existence; a single deferred Close then unwinds
// whatever subset was actually acquired, on success and failure paths alike.
package resource

type entry struct {
	name    string
	release func()
}

// Stack is a LIFO of named release functions. The zero value is ready to use.
// It is not safe for concurrent use; setup and teardown are single-threaded.
type Stack struct {
	entries []entry
}

// Push records release to be run when the stack closes. Releases run in the
// reverse of push order.
func (s *Stack) Push(name string, release func()) {
	s.entries = append(s.entries, entry{name: name, release: release})
}

// Close releases every pushed resource, newest first. Calling Close again is
// a no-op.
func (s *Stack) Close() {
	for i := len(s.entries) - 1; i >= 0; i-- {
		s.entries[i].release()
	}
	s.entries = nil
}
