// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !norefcountcheck

package refcount

// CheckEnabled is true when cookie validation is compiled in.
const CheckEnabled = true

func (b *Box[T]) check() error {
	if b.magic != magicCookie {
		return ErrNotRefcounted
	}
	return nil
}
