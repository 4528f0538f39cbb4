// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"errors"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// A MontgomeryPoint is the u-coordinate of a point on the Montgomery form of
// Curve25519 (or of its quadratic twist), as used by the X25519 function of
// RFC 7748.
//
// Because only the u-coordinate is kept, a MontgomeryPoint and its negation
// are the same value, and no on-curve validation is possible: every
// u-coordinate lies on either the curve or its twist, and the Montgomery
// ladder is well defined on both.
//
// The zero value is the u = 0 point, the image of the order-two point and of
// the Edwards identity under BytesMontgomery.
type MontgomeryPoint struct {
	u field.Element
}

// montgomeryBasepointU is u = 9, the X25519 basepoint. It maps to the
// canonical Edwards generator.
var montgomeryBasepointU = mustFieldElement("0900000000000000000000000000000000000000000000000000000000000000")

// NewMontgomeryPoint returns a new MontgomeryPoint set to u = 0.
func NewMontgomeryPoint() *MontgomeryPoint {
	return &MontgomeryPoint{}
}

// SetBytes sets v to the u-coordinate encoded in x, a 32-byte little-endian
// value, and returns v. Following RFC 7748, the top bit is ignored and the
// value is reduced modulo 2^255 - 19, so no input is rejected.
func (v *MontgomeryPoint) SetBytes(x []byte) (*MontgomeryPoint, error) {
	if _, err := v.u.SetBytes(x); err != nil {
		return nil, errors.New("curve25519: invalid Montgomery point encoding length")
	}
	return v, nil
}

// Bytes returns the canonical 32-byte little-endian encoding of v.
func (v *MontgomeryPoint) Bytes() []byte {
	var buf [32]byte
	copy(buf[:], v.u.Bytes())
	return buf[:]
}

// Equal returns 1 if v is equivalent to u, and 0 otherwise.
func (v *MontgomeryPoint) Equal(u *MontgomeryPoint) int {
	return v.u.Equal(&u.u)
}

// SetEdwards sets v to the image of p under the birational map to the
// Montgomery curve,
//
//	u = (1 + y) / (1 - y) = (Z + Y) / (Z - Y)
//
// and returns v. The Edwards identity maps to u = 0.
func (v *MontgomeryPoint) SetEdwards(p *Point) *MontgomeryPoint {
	checkInitialized(p)
	var num, den field.Element
	num.Add(&p.z, &p.y)
	den.Subtract(&p.z, &p.y)
	// Invert maps zero to zero, which sends the identity to u = 0.
	v.u.Multiply(&num, den.Invert(&den))
	return v
}

// SetMontgomery sets v to an Edwards point with the same u-coordinate as p
// and with the x-coordinate sign given by sign, which must be 0 or 1, and
// returns v.
//
// The map is
//
//	y = (u - 1) / (u + 1)
//
// followed by a curve point decompression. SetMontgomery returns nil and an
// error if u = -1, which has no image, or if the u-coordinate belongs to the
// twist rather than the curve, or if the requested sign would produce a
// non-canonical point.
func (v *Point) SetMontgomery(p *MontgomeryPoint, sign int) (*Point, error) {
	var up1, um1, y field.Element
	up1.Add(&p.u, feOne)
	if up1.IsZero() == 1 {
		return nil, errors.New("curve25519: u = -1 has no Edwards image")
	}
	um1.Subtract(&p.u, feOne)
	y.Multiply(&um1, up1.Invert(&up1))

	var buf [32]byte
	copy(buf[:], y.Bytes())
	buf[31] |= byte(sign&1) << 7
	if _, err := v.SetBytes(buf[:]); err != nil {
		return nil, errors.New("curve25519: Montgomery point is not on the curve")
	}
	return v, nil
}

// ScalarMult sets v = x * q, and returns v.
//
// The scalar multiplication is done in constant time using the Montgomery
// ladder.
func (v *MontgomeryPoint) ScalarMult(x *Scalar, q *MontgomeryPoint) *MontgomeryPoint {
	montgomeryLadder(&v.u, &x.s, &q.u)
	return v
}

// ScalarBaseMult sets v = x * B, where B is the u = 9 basepoint, and
// returns v.
func (v *MontgomeryPoint) ScalarBaseMult(x *Scalar) *MontgomeryPoint {
	montgomeryLadder(&v.u, &x.s, montgomeryBasepointU)
	return v
}

// MulClamped sets v = clamp(x) * q, where x is a 32-byte secret that is
// clamped as in RFC 7748 before the ladder, without ever being reduced modulo
// the group order, and returns v. Combined with SetBytes and Bytes this is
// the X25519 function.
func (v *MontgomeryPoint) MulClamped(x []byte, q *MontgomeryPoint) (*MontgomeryPoint, error) {
	if len(x) != 32 {
		return nil, errors.New("curve25519: invalid scalar length")
	}
	var k [32]byte
	copy(k[:], x)
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
	montgomeryLadder(&v.u, &k, &q.u)
	return v, nil
}

// montgomeryLadder sets out to the u-coordinate of k * (u, v) for either
// point with u-coordinate u, reading the 255 low bits of k. It runs in
// constant time with respect to both k and u.
func montgomeryLadder(out *field.Element, k *[32]byte, u *field.Element) {
	// RFC 7748, Section 5. The conditional swaps are merged between
	// iterations: instead of swapping after each step and again before the
	// next, a single swap keyed on the XOR of consecutive bits is done at
	// the top of the loop. A timing leak in an early version of this ladder
	// came from branching on the swap bit, so the swap must stay a
	// constant-time Swap on the field elements.
	var x1, x2, z2, x3, z3 field.Element
	var a, aa, b, bb, e, c, d, da, cb, tmp field.Element

	x1.Set(u)
	x2.One()
	z2.Zero()
	x3.Set(u)
	z3.One()

	swap := 0
	for pos := 254; pos >= 0; pos-- {
		bit := int(k[pos/8]>>(pos&7)) & 1
		swap ^= bit
		x2.Swap(&x3, swap)
		z2.Swap(&z3, swap)
		swap = bit

		a.Add(&x2, &z2)
		aa.Square(&a)
		b.Subtract(&x2, &z2)
		bb.Square(&b)
		e.Subtract(&aa, &bb)
		c.Add(&x3, &z3)
		d.Subtract(&x3, &z3)
		da.Multiply(&d, &a)
		cb.Multiply(&c, &b)

		x3.Add(&da, &cb)
		x3.Square(&x3)
		z3.Subtract(&da, &cb)
		z3.Square(&z3)
		z3.Multiply(&x1, &z3)

		x2.Multiply(&aa, &bb)
		tmp.Mult32(&e, 121665)
		tmp.Add(&aa, &tmp)
		z2.Multiply(&e, &tmp)
	}

	x2.Swap(&x3, swap)
	z2.Swap(&z3, swap)

	// The points at infinity and u = 0 end with z2 = 0, and Invert maps
	// zero to zero, so they encode to zero as X25519 does.
	out.Multiply(&x2, z2.Invert(&z2))
}
