// Package cleanup implements the explicit per-thread stack of cleanup actions
// used by cooperative cancellation.
//
// Callers push an action before entering a cancellable blocking call and pop
// it afterwards. If the thread is canceled while the action is on the stack,
// the cancellation path runs every pending action in reverse order of
// registration. On the normal path the action runs only if the pop asks for it.
//
// A Stack belongs to exactly one thread: only that thread pushes, pops and
// unwinds it, so no locking is done here.
package cleanup

// Action is a single registered cleanup routine and its argument.
type Action struct {
	Fn  func(arg any)
	Arg any
}

// Stack is a LIFO list of cleanup actions.
//
// The zero value is an empty stack ready to use.
type Stack struct {
	actions []Action
}

// Push registers fn(arg) on top of the stack.
//
// A nil fn is recorded as a placeholder so push/pop pairs stay balanced.
func (s *Stack) Push(fn func(arg any), arg any) {
	s.actions = append(s.actions, Action{Fn: fn, Arg: arg})
}

// Pop removes the top action and runs it when execute is true.
//
// Returns false if the stack was empty (an unbalanced pop).
func (s *Stack) Pop(execute bool) bool {
	n := len(s.actions)
	if n == 0 {
		return false
	}
	a := s.actions[n-1]
	s.actions[n-1] = Action{}
	s.actions = s.actions[:n-1]
	if execute && a.Fn != nil {
		a.Fn(a.Arg)
	}
	return true
}

// Len returns the number of pending actions.
func (s *Stack) Len() int {
	return len(s.actions)
}

// Unwind runs every pending action, most recently pushed first, and leaves
// the stack empty. Each action is removed before it runs, so an action that
// itself unwinds the goroutine is never run twice.
//
// Returns the number of actions that were run.
func (s *Stack) Unwind() int {
	ran := 0
	for len(s.actions) > 0 {
		if s.Pop(true) {
			ran++
		}
	}
	return ran
}
