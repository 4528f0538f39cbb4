// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build curve25519_u32 && curve25519_fiat

package field

import (
	fiat "github.com/mit-plv/fiat-crypto/fiat-go/32/curve25519"
)

// The 32-bit formally derived backend, on the same ten-limb radix 2^25.5
// representation as the hand-written one.
type elementLimbs = fiat.TightFieldElement

func feAdd(v, a, b *Element) {
	fiat.CarryAdd(&v.limbs, &a.limbs, &b.limbs)
}

func feSub(v, a, b *Element) {
	fiat.CarrySub(&v.limbs, &a.limbs, &b.limbs)
}

func feNeg(v, a *Element) {
	fiat.CarryOpp(&v.limbs, &a.limbs)
}

func feMul(v, a, b *Element) {
	fiat.CarryMul(&v.limbs, (*fiat.LooseFieldElement)(&a.limbs), (*fiat.LooseFieldElement)(&b.limbs))
}

func feSquare(v, a *Element) {
	fiat.CarrySquare(&v.limbs, (*fiat.LooseFieldElement)(&a.limbs))
}

func feMult32(v, x *Element, y uint32) {
	// The scalar has to be split across the first two limbs, since a
	// single 32-bit limb can exceed the loose bound for this radix.
	yLimbs := fiat.LooseFieldElement{y & 0x3ffffff, y >> 26, 0, 0, 0, 0, 0, 0, 0, 0}
	fiat.CarryMul(&v.limbs, (*fiat.LooseFieldElement)(&x.limbs), &yLimbs)
}

func feSetBytes(v *Element, x *[32]byte) {
	fiat.FromBytes(&v.limbs, x)
}

func feBytes(v *Element, out *[32]byte) {
	fiat.ToBytes(out, &v.limbs)
}

// mask32Bits returns 0xffffffff if cond is 1, and 0 otherwise.
func mask32Bits(cond int) uint32 { return ^(uint32(cond) - 1) }

func feSelect(v, a, b *Element, cond int) {
	m := mask32Bits(cond)
	for i := range v.limbs {
		v.limbs[i] = (m & a.limbs[i]) | (^m & b.limbs[i])
	}
}

func feSwap(v, u *Element, cond int) {
	m := mask32Bits(cond)
	for i := range v.limbs {
		t := m & (v.limbs[i] ^ u.limbs[i])
		v.limbs[i] ^= t
		u.limbs[i] ^= t
	}
}
