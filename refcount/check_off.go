// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build norefcountcheck

package refcount

// CheckEnabled is false when cookie validation is compiled out via
// the norefcountcheck build tag.
const CheckEnabled = false

func (b *Box[T]) check() error {
	return nil
}
