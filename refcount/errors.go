// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package refcount

import "errors"

// ErrNotRefcounted indicates a Ref or Unref on memory that is not a
// live refcounted box: either it was never built through [New], or
// its final reference was already dropped.
var ErrNotRefcounted = errors.New("refcount: not a live refcounted box")
