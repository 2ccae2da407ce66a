// Package hb tracks happens-before edges created by the thread package.
//
// Every thread that touches a tracked primitive gets a clock context: a dense
// slot number and a vector clock. Synchronization objects (mutexes, condition
// variables, once gates, thread handles) carry a release clock in shadow
// state keyed by the object.
//
// Algorithm:
//
//	Acquire(m):  Ct := Ct ⊔ Lm   (thread clock joins the object's clock)
//	             Ct[t]++
//
//	Release(m):  Lm := Lm ⊔ Ct   (object clock absorbs the thread clock)
//	             Ct[t]++
//
// The edges recorded by the thread package are:
//
//	Unlock(m)        → a later Lock(m)
//	Signal(c)        → the Wait(c) it wakes
//	Create(t)        → the first instruction of t
//	exit of t        → Join(t) returning
//	Once.Do(f) done  → every later Once.Do returning
//
// A Stamp captures the calling thread's position in this order; comparing two
// stamps answers whether one event is guaranteed to be visible to the other.
// Tracking is off by default and costs one atomic load per hook while off.
package hb
