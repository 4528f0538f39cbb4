// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"errors"
	"io"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// A RistrettoPoint is an element of the ristretto255 prime-order group, as
// specified in draft-irtf-cfrg-ristretto255-decaf448.
//
// ristretto255 is built as a quotient of the edwards25519 group: each element
// is an equivalence class of four Edwards points differing by small-order
// components, with a single canonical 32-byte encoding per class. That makes
// the group free of cofactor pitfalls: every element has order dividing the
// prime l, and equal elements always encode identically.
//
// The zero value is NOT valid, and may only be used as a receiver.
type RistrettoPoint struct {
	// p is any representative of the equivalence class. All operations are
	// well defined on the class, so the choice never leaks into encodings
	// or Equal.
	p Point
}

// NewIdentityRistrettoPoint returns a new RistrettoPoint set to the identity.
func NewIdentityRistrettoPoint() *RistrettoPoint {
	return new(RistrettoPoint).Identity()
}

// Identity sets v to the identity element, and returns v.
func (v *RistrettoPoint) Identity() *RistrettoPoint {
	v.p.Identity()
	return v
}

// NewGeneratorRistrettoPoint returns a new RistrettoPoint set to the
// canonical generator, the class of the edwards25519 basepoint.
func NewGeneratorRistrettoPoint() *RistrettoPoint {
	return new(RistrettoPoint).Generator()
}

// Generator sets v to the canonical generator, and returns v.
func (v *RistrettoPoint) Generator() *RistrettoPoint {
	v.p.Generator()
	return v
}

// Set sets v = u, and returns v.
func (v *RistrettoPoint) Set(u *RistrettoPoint) *RistrettoPoint {
	v.p.Set(&u.p)
	return v
}

// Bytes returns the canonical 32-byte encoding of v.
//
// All representatives of the same group element encode to the same bytes, so
// Bytes output can be compared directly.
func (v *RistrettoPoint) Bytes() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var buf [32]byte
	return v.bytes(&buf)
}

func (v *RistrettoPoint) bytes(buf *[32]byte) []byte {
	checkInitialized(&v.p)

	var u1, u2, tmp, invSqrt field.Element
	u1.Add(&v.p.z, &v.p.y)
	tmp.Subtract(&v.p.z, &v.p.y)
	u1.Multiply(&u1, &tmp)      // u1 = (Z + Y)(Z - Y)
	u2.Multiply(&v.p.x, &v.p.y) // u2 = XY

	// For a valid representative u1 * u2² is a nonzero square, so the
	// wasSquare return is always 1 here.
	tmp.Square(&u2)
	tmp.Multiply(&tmp, &u1)
	invSqrt.InvSqrt(&tmp) // 1/sqrt(u1 * u2²)

	var den1, den2, zInv field.Element
	den1.Multiply(&invSqrt, &u1)
	den2.Multiply(&invSqrt, &u2)
	zInv.Multiply(&den1, &den2)
	zInv.Multiply(&zInv, &v.p.t) // 1/Z

	// If T/Z is negative, apply the torque (X, Y) -> (iY, iX), which maps
	// to the same group element, to reach the representative with the
	// canonical encoding.
	var ix, iy, torqued field.Element
	ix.Multiply(&v.p.x, sqrtM1)
	iy.Multiply(&v.p.y, sqrtM1)
	torqued.Multiply(&den1, invSqrtAMinusD)

	tmp.Multiply(&v.p.t, &zInv)
	rotate := tmp.IsNegative()

	var x, y, denInv field.Element
	x.Select(&iy, &v.p.x, rotate)
	y.Select(&ix, &v.p.y, rotate)
	denInv.Select(&torqued, &den2, rotate)

	tmp.Multiply(&x, &zInv)
	y.CondNeg(&y, tmp.IsNegative())

	var s field.Element
	s.Subtract(&v.p.z, &y)
	s.Multiply(&s, &denInv)
	s.Absolute(&s)

	copy(buf[:], s.Bytes())
	return buf[:]
}

// SetBytes sets v = x, where x is a 32-byte encoding of v. If x does not
// represent a valid element, SetBytes returns nil and an error, and the
// receiver is unchanged.
//
// Only canonical encodings decode successfully: for every group element
// exactly one 32-byte string is accepted.
func (v *RistrettoPoint) SetBytes(x []byte) (*RistrettoPoint, error) {
	if len(x) != 32 {
		return nil, errors.New("curve25519: invalid ristretto255 encoding length")
	}
	errInvalid := errors.New("curve25519: invalid ristretto255 encoding")

	// The field element s must be canonically encoded and non-negative.
	var s field.Element
	if _, err := s.SetCanonicalBytes(x); err != nil {
		return nil, errInvalid
	}
	if s.IsNegative() == 1 {
		return nil, errInvalid
	}

	var ss, u1, u2, u2Sqr, vv field.Element
	ss.Square(&s)
	u1.Subtract(feOne, &ss) // 1 - s²
	u2.Add(feOne, &ss)      // 1 + s²
	u2Sqr.Square(&u2)

	// vv = -(d * u1²) - u2²
	vv.Square(&u1)
	vv.Multiply(&vv, d)
	vv.Negate(&vv)
	vv.Subtract(&vv, &u2Sqr)

	var invSqrt, tmp field.Element
	tmp.Multiply(&vv, &u2Sqr)
	_, wasSquare := invSqrt.InvSqrt(&tmp)
	if wasSquare == 0 {
		return nil, errInvalid
	}

	var denX, denY, xx, yy, tt field.Element
	denX.Multiply(&invSqrt, &u2)
	denY.Multiply(&invSqrt, &denX)
	denY.Multiply(&denY, &vv)

	xx.Add(&s, &s)
	xx.Multiply(&xx, &denX)
	xx.Absolute(&xx) // x = |2s / sqrt(v * u2²)|
	yy.Multiply(&u1, &denY)
	tt.Multiply(&xx, &yy)

	if tt.IsNegative() == 1 || yy.IsZero() == 1 {
		return nil, errInvalid
	}

	v.p.x.Set(&xx)
	v.p.y.Set(&yy)
	v.p.z.Set(feOne)
	v.p.t.Set(&tt)
	return v, nil
}

// Equal returns 1 if v is equivalent to u, and 0 otherwise.
//
// The comparison works on any representatives, so it is safe to mix outputs
// of different operations.
func (v *RistrettoPoint) Equal(u *RistrettoPoint) int {
	checkInitialized(&v.p, &u.p)

	// Two representatives are in the same class iff
	// X1Y2 == Y1X2 or Y1Y2 == X1X2.
	var x1y2, y1x2, y1y2, x1x2 field.Element
	x1y2.Multiply(&v.p.x, &u.p.y)
	y1x2.Multiply(&v.p.y, &u.p.x)
	y1y2.Multiply(&v.p.y, &u.p.y)
	x1x2.Multiply(&v.p.x, &u.p.x)
	return x1y2.Equal(&y1x2) | y1y2.Equal(&x1x2)
}

// Add sets v = p + q, and returns v.
func (v *RistrettoPoint) Add(p, q *RistrettoPoint) *RistrettoPoint {
	v.p.Add(&p.p, &q.p)
	return v
}

// Subtract sets v = p - q, and returns v.
func (v *RistrettoPoint) Subtract(p, q *RistrettoPoint) *RistrettoPoint {
	v.p.Subtract(&p.p, &q.p)
	return v
}

// Negate sets v = -p, and returns v.
func (v *RistrettoPoint) Negate(p *RistrettoPoint) *RistrettoPoint {
	v.p.Negate(&p.p)
	return v
}

// Double sets v = p + p, and returns v.
func (v *RistrettoPoint) Double(p *RistrettoPoint) *RistrettoPoint {
	v.p.Double(&p.p)
	return v
}

// ScalarMult sets v = x * q, and returns v.
//
// The scalar multiplication is done in constant time.
func (v *RistrettoPoint) ScalarMult(x *Scalar, q *RistrettoPoint) *RistrettoPoint {
	v.p.ScalarMult(x, &q.p)
	return v
}

// ScalarBaseMult sets v = x * B, where B is the canonical generator, and
// returns v.
//
// The scalar multiplication is done in constant time.
func (v *RistrettoPoint) ScalarBaseMult(x *Scalar) *RistrettoPoint {
	v.p.ScalarBaseMult(x)
	return v
}

// MultiScalarMult sets v = sum(scalars[i] * points[i]), and returns v.
//
// Execution time depends only on the lengths of the two slices, which must
// match.
func (v *RistrettoPoint) MultiScalarMult(scalars []*Scalar, points []*RistrettoPoint) *RistrettoPoint {
	ps := make([]*Point, len(points))
	for i := range ps {
		ps[i] = &points[i].p
	}
	v.p.MultiScalarMult(scalars, ps)
	return v
}

// VarTimeMultiScalarMult sets v = sum(scalars[i] * points[i]), and returns v.
//
// Execution time depends on the inputs.
func (v *RistrettoPoint) VarTimeMultiScalarMult(scalars []*Scalar, points []*RistrettoPoint) *RistrettoPoint {
	ps := make([]*Point, len(points))
	for i := range ps {
		ps[i] = &points[i].p
	}
	v.p.VarTimeMultiScalarMult(scalars, ps)
	return v
}

// SetUniformBytes sets v to a uniformly distributed element derived from the
// 64 uniformly random bytes in x, and returns v. It implements the one-way
// map of draft-irtf-cfrg-ristretto255-decaf448: each 32-byte half goes
// through the Elligator map and the two outputs are added.
//
// This can be used for hash-to-group constructions by passing the 64-byte
// output of a hash such as SHA-512.
func (v *RistrettoPoint) SetUniformBytes(x []byte) (*RistrettoPoint, error) {
	if len(x) != 64 {
		return nil, errors.New("curve25519: invalid SetUniformBytes input length")
	}
	var r0, r1 field.Element
	r0.SetBytes(x[:32])
	r1.SetBytes(x[32:])

	var p0, p1 RistrettoPoint
	p0.mapToPoint(&r0)
	p1.mapToPoint(&r1)
	v.p.Add(&p0.p, &p1.p)
	return v, nil
}

// SetRandom sets v to a group element sampled uniformly at random from rand,
// which would usually be crypto/rand.Reader, and returns v. If reading from
// rand fails, SetRandom returns nil and the error, and the receiver is
// unchanged.
func (v *RistrettoPoint) SetRandom(rand io.Reader) (*RistrettoPoint, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, err
	}
	return v.SetUniformBytes(buf[:])
}

// mapToPoint implements the Elligator map of
// draft-irtf-cfrg-ristretto255-decaf448, Section 4.3.4, in constant time.
func (v *RistrettoPoint) mapToPoint(t *field.Element) *RistrettoPoint {
	var r, u, vv, rPlusD field.Element
	r.Square(t)
	r.Multiply(&r, sqrtM1)      // r = sqrt(-1) * t²
	u.Add(&r, feOne)
	u.Multiply(&u, oneMinusDSQ) // u = (r + 1)(1 - d²)

	// vv = (-1 - r*d)(r + d)
	vv.Multiply(&r, d)
	vv.Negate(&vv)
	vv.Subtract(&vv, feOne)
	rPlusD.Add(&r, d)
	vv.Multiply(&vv, &rPlusD)

	var s, sPrime, c field.Element
	_, wasSquare := s.SqrtRatio(&u, &vv)
	sPrime.Multiply(&s, t)
	sPrime.Absolute(&sPrime)
	sPrime.Negate(&sPrime) // s' = -|s * t|
	s.Select(&s, &sPrime, wasSquare)
	c.Negate(feOne)
	c.Select(&c, &r, wasSquare)

	var n, ss, w0, w1, w2, w3 field.Element
	n.Subtract(&r, feOne)
	n.Multiply(&n, &c)
	n.Multiply(&n, dMinusOneSQ)
	n.Subtract(&n, &vv) // N = c(r - 1)(d - 1)² - v

	w0.Add(&s, &s)
	w0.Multiply(&w0, &vv)           // w0 = 2sv
	w1.Multiply(&n, sqrtADMinusOne) // w1 = N * sqrt(ad - 1)
	ss.Square(&s)
	w2.Subtract(feOne, &ss) // w2 = 1 - s²
	w3.Add(feOne, &ss)      // w3 = 1 + s²

	v.p.x.Multiply(&w0, &w3)
	v.p.y.Multiply(&w2, &w1)
	v.p.z.Multiply(&w1, &w3)
	v.p.t.Multiply(&w0, &w2)
	return v
}
