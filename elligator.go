// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"errors"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// elligator2 sets u to the Montgomery u-coordinate obtained by applying the
// Elligator 2 map to r, and returns u. The map uses 2 as the fixed
// non-square, so with
//
//	d = -A / (1 + 2r²)
//
// u is d if d³ + Ad² + d is a square, and -d - A otherwise. Every field
// element lands on the curve (never the twist), so the map is total, and it
// runs in constant time.
func elligator2(u, r *field.Element) *field.Element {
	var den, dd, ddSq, e field.Element
	den.Square(r)
	den.Add(&den, &den)
	den.Add(&den, feOne)                          // 1 + 2r²
	dd.Multiply(montgomeryANeg, den.Invert(&den)) // d = -A/(1 + 2r²)
	ddSq.Square(&dd)

	// e = d³ + Ad² + d = d(d² + Ad + 1)
	e.Multiply(montgomeryA, &dd)
	e.Add(&e, &ddSq)
	e.Add(&e, feOne)
	e.Multiply(&e, &dd)
	_, wasSquare := new(field.Element).SqrtRatio(&e, feOne)

	var flip field.Element
	flip.Negate(&dd)
	flip.Subtract(&flip, montgomeryA) // -d - A
	return u.Select(&dd, &flip, wasSquare)
}

// SetUniformBytes sets v to a point derived from the 32 uniformly random
// bytes x, suitable for hashing to the group: the low 255 bits feed the
// Elligator 2 map, the top bit selects the sign of the x-coordinate, and the
// result is multiplied by the cofactor, so v is always in the prime-order
// subgroup.
//
// This map is not uniform: each subgroup element has a small, roughly equal
// number of preimages. Protocols needing indistinguishability from uniform
// should hash to ristretto255 instead.
func (v *Point) SetUniformBytes(x []byte) (*Point, error) {
	var r field.Element
	if _, err := r.SetBytes(x); err != nil {
		return nil, errors.New("curve25519: invalid SetUniformBytes input length")
	}
	sign := int(x[31] >> 7)

	var u field.Element
	elligator2(&u, &r)

	// Birational map to Edwards form, y = (u - 1)/(u + 1). If u = -1 the
	// inversion of zero gives y = 0, an order-four point that the cofactor
	// multiplication below sends to the identity.
	var up1, um1, y field.Element
	up1.Add(&u, feOne)
	um1.Subtract(&u, feOne)
	y.Multiply(&um1, up1.Invert(&up1))

	var buf [32]byte
	copy(buf[:], y.Bytes())
	if _, err := v.SetBytes(buf[:]); err != nil {
		// The Elligator output is always on the curve and y is encoded
		// canonically with a zero sign bit, so decoding cannot fail.
		return nil, err
	}
	v.x.CondNeg(&v.x, sign)
	v.t.CondNeg(&v.t, sign)

	return v.MultByCofactor(v), nil
}
