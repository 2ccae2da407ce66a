// Copyright 2025 The threadglue Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package goroutine

import "github.com/petermattis/goid"

// ID returns the current goroutine ID.
//
// The ID is read from the runtime g struct by github.com/petermattis/goid,
// which carries per-release offsets for the gc toolchain and falls back to
// parsing runtime.Stack elsewhere. Cost is a few nanoseconds, so it is safe
// on the hb tracker hooks run by every Lock and Unlock.
func ID() int64 {
	return goid.Get()
}
