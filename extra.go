// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

// This file contains functionality beyond the core group operations: raw
// extended coordinates, Montgomery conversion, cofactor and torsion helpers,
// and batch encoding.

import (
	"errors"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// ExtendedCoordinates returns v in extended coordinates (X:Y:Z:T) where
// x = X/Z, y = Y/Z, and xy = T/Z as in https://eprint.iacr.org/2008/522.
func (v *Point) ExtendedCoordinates() (X, Y, Z, T *field.Element) {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap. Don't change the style without making
	// sure it doesn't increase the inliner cost.
	var e [4]field.Element
	X, Y, Z, T = v.extendedCoordinates(&e)
	return
}

func (v *Point) extendedCoordinates(e *[4]field.Element) (X, Y, Z, T *field.Element) {
	checkInitialized(v)
	X = e[0].Set(&v.x)
	Y = e[1].Set(&v.y)
	Z = e[2].Set(&v.z)
	T = e[3].Set(&v.t)
	return
}

// SetExtendedCoordinates sets v = (X:Y:Z:T) in extended coordinates where
// x = X/Z, y = Y/Z, and xy = T/Z as in https://eprint.iacr.org/2008/522.
//
// If the coordinates are invalid or don't represent a valid point on the
// curve, SetExtendedCoordinates returns nil and an error and the receiver is
// unchanged. Otherwise, SetExtendedCoordinates returns v.
func (v *Point) SetExtendedCoordinates(X, Y, Z, T *field.Element) (*Point, error) {
	if !isOnCurve(X, Y, Z, T) {
		return nil, errors.New("curve25519: invalid point coordinates")
	}
	v.x.Set(X)
	v.y.Set(Y)
	v.z.Set(Z)
	v.t.Set(T)
	return v, nil
}

func isOnCurve(X, Y, Z, T *field.Element) bool {
	var lhs, rhs field.Element
	XX := new(field.Element).Square(X)
	YY := new(field.Element).Square(Y)
	ZZ := new(field.Element).Square(Z)
	TT := new(field.Element).Square(T)
	// -x² + y² = 1 + dx²y²
	// -(X/Z)² + (Y/Z)² = 1 + d(T/Z)²
	// -X² + Y² = Z² + dT²
	lhs.Subtract(YY, XX)
	rhs.Multiply(d, TT).Add(&rhs, ZZ)
	if lhs.Equal(&rhs) != 1 {
		return false
	}
	// xy = T/Z
	// XY/Z² = T/Z
	// XY = TZ
	lhs.Multiply(X, Y)
	rhs.Multiply(T, Z)
	return lhs.Equal(&rhs) == 1
}

// BytesMontgomery converts v to a point on the birationally-equivalent
// Curve25519 Montgomery curve, and returns its canonical 32 bytes encoding
// according to RFC 7748.
//
// Note that BytesMontgomery only encodes the u-coordinate, so v and -v encode
// to the same value. If v is the identity point, BytesMontgomery returns 32
// zero bytes, analogously to the X25519 function.
//
// The functions starting with SetMontgomery perform the opposite conversion.
func (v *Point) BytesMontgomery() []byte {
	// This function is outlined to make the allocations inline in the caller
	// rather than happen on the heap.
	var buf [32]byte
	return v.bytesMontgomery(&buf)
}

func (v *Point) bytesMontgomery(buf *[32]byte) []byte {
	checkInitialized(v)

	// RFC 7748, Section 4.1 provides the bilinear map to calculate the
	// Montgomery u-coordinate
	//
	//              u = (1 + y) / (1 - y)
	//
	// where y = Y / Z.

	var y, recip, u field.Element

	y.Multiply(&v.y, y.Invert(&v.z))        // y = Y / Z
	recip.Invert(recip.Subtract(feOne, &y)) // r = 1/(1 - y)
	u.Multiply(u.Add(feOne, &y), &recip)    // u = (1 + y)*r

	// The identity point has y = 1, so the inversion of zero above maps it
	// to u = 0, the same value the X25519 function returns for the
	// low-order inputs.
	copy(buf[:], u.Bytes())
	return buf[:]
}

// MultByCofactor sets v = 8 * p, and returns v.
func (v *Point) MultByCofactor(p *Point) *Point {
	checkInitialized(p)
	result := projP1xP1{}
	pp := (&projP2{}).FromP3(p)
	result.Double(pp)
	pp.FromP1xP1(&result)
	result.Double(pp)
	pp.FromP1xP1(&result)
	result.Double(pp)
	return v.fromP1xP1(&result)
}

// IsTorsionFree reports whether v is an element of the prime-order subgroup,
// that is, whether multiplying v by the group order l gives the identity.
//
// Points decoded from arbitrary 32-byte strings can carry a component of
// small order, which makes some protocols malleable. IsTorsionFree lets
// callers reject those.
func (v *Point) IsTorsionFree() bool {
	checkInitialized(v)
	digits := signedRadix16(&scalarOrder)
	p := new(Point).scalarMultRadix16(&digits, v)
	return p.Equal(identity) == 1
}

// SetBytesBatch decodes a batch of canonical 32-byte encodings, like calling
// SetBytes for each of them. If any encoding is invalid, SetBytesBatch
// returns nil and an error, and no points are returned.
func SetBytesBatch(encodings [][]byte) ([]*Point, error) {
	points := make([]*Point, len(encodings))
	for i, enc := range encodings {
		p, err := new(Point).SetBytes(enc)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

// DoubleBytesBatch returns the canonical encodings of 2 * p for each point p,
// sharing a single field inversion across the whole batch.
func DoubleBytesBatch(points []*Point) [][]byte {
	doubled := make([]*Point, len(points))
	for i, p := range points {
		checkInitialized(p)
		doubled[i] = new(Point).Double(p)
	}
	return BytesBatch(doubled)
}

// BytesBatch returns the canonical encodings of points, like calling Bytes on
// each of them, but sharing a single field inversion across the whole batch.
func BytesBatch(points []*Point) [][]byte {
	zInvs := make([]*field.Element, len(points))
	for i, p := range points {
		checkInitialized(p)
		zInvs[i] = new(field.Element).Set(&p.z)
	}
	field.BatchInvert(zInvs)

	out := make([][]byte, len(points))
	var x, y field.Element
	for i, p := range points {
		x.Multiply(&p.x, zInvs[i])
		y.Multiply(&p.y, zInvs[i])

		buf := make([]byte, 32)
		copy(buf, y.Bytes())
		buf[31] |= byte(x.IsNegative() << 7)
		out[i] = buf
	}
	return out
}
