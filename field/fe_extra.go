// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import "errors"

// SetWideBytes sets v to x, where x is a 64-byte little-endian encoding,
// which is reduced modulo the field order. If x is not of the right
// length, SetWideBytes returns nil and an error, and the receiver is
// unchanged.
//
// SetWideBytes is not necessary to select a uniformly distributed value:
// SetBytes can be used instead as the chance of bias is less than 2⁻²⁵⁰.
func (v *Element) SetWideBytes(x []byte) (*Element, error) {
	if len(x) != 64 {
		return nil, errors.New("curve25519: invalid SetWideBytes input size")
	}

	// Split the 64 bytes into two elements, and extract the most
	// significant bit of each, which is ignored by SetBytes.
	lo, _ := new(Element).SetBytes(x[:32])
	loMSB := uint64(x[31] >> 7)
	hi, _ := new(Element).SetBytes(x[32:])
	hiMSB := uint64(x[63] >> 7)

	// The output we want is
	//
	//   v = lo + loMSB * 2²⁵⁵ + hi * 2²⁵⁶ + hiMSB * 2⁵¹¹
	//
	// which applying the reduction identity comes out to
	//
	//   v = lo + loMSB * 19 + hi * 2 * 19 + hiMSB * 2 * 19²
	c := loMSB*19 + hiMSB*2*19*19
	var carryBytes [32]byte
	carryBytes[0] = byte(c)
	carryBytes[1] = byte(c >> 8)
	carry, _ := new(Element).SetBytes(carryBytes[:])

	lo.Add(lo, carry)
	hi.Mult32(hi, 2*19)
	v.Add(lo, hi)

	return v, nil
}

// BatchInvert replaces each element of v with its inverse, computing all
// the inverses with a single field inversion and 3*(n-1) multiplications
// using Montgomery's trick. Zero elements stay zero.
//
// The work is constant time with respect to the values, including which
// of them are zero.
func BatchInvert(v []*Element) {
	one := new(Element).One()

	// partials[i] is the product of the first i nonzero elements.
	partials := make([]Element, len(v))
	acc := new(Element).One()
	t := new(Element)
	for i, e := range v {
		partials[i].Set(acc)
		t.Select(one, e, e.IsZero())
		acc.Multiply(acc, t)
	}

	accInv := new(Element).Invert(acc)

	inv := new(Element)
	for i := len(v) - 1; i >= 0; i-- {
		e := v[i]
		isZero := e.IsZero()
		t.Select(one, e, isZero)
		inv.Multiply(accInv, &partials[i])
		accInv.Multiply(accInv, t)
		e.Select(e, inv, isZero)
	}
}
