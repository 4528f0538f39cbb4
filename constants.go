// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"encoding/hex"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("curve25519: bad hex constant " + s)
	}
	return b
}

func mustFieldElement(s string) *field.Element {
	e, err := new(field.Element).SetCanonicalBytes(mustDecodeHex(s))
	if err != nil {
		panic("curve25519: bad field element constant " + s)
	}
	return e
}

// All field constants are stored as canonical encodings, so they decode
// identically on every backend.
var (
	feOne = new(field.Element).One()

	// d is the curve constant -121665/121666.
	d = mustFieldElement("a3785913ca4deb75abd841414d0a700098e879777940c78c73fe6f2bee6c0352")

	// d2 is 2*d.
	d2 = mustFieldElement("59f1b226949bd6eb56b183829a14e00030d1f3eef2808e19e7fcdf56dcd90624")

	// sqrtM1 is the positive square root of -1.
	sqrtM1 = mustFieldElement("b0a00e4a271beec478e42fad0618432fa7d7fb3d99004d2b0bdfc14f8024832b")

	// sqrtADMinusOne is the negative square root of a*d - 1, with a = -1.
	// The ristretto255 Elligator map is specified in terms of this root.
	sqrtADMinusOne = mustFieldElement("1b2e7b49a0f6977ebd54781b0c8e9daffdd1f531c9fc3c0fac48832bbf316937")

	// invSqrtAMinusD is 1/sqrt(a - d), with a = -1.
	invSqrtAMinusD = mustFieldElement("ea405d80aafdc899be72415a17162f9d40d801fe917bc216a2fcafcf05896c78")

	// oneMinusDSQ is (1 - d^2).
	oneMinusDSQ = mustFieldElement("76c15f94c1097ce20f355ecd38a1812ce4df70beddab9499d7e0b3b2a8729002")

	// dMinusOneSQ is (d - 1)^2.
	dMinusOneSQ = mustFieldElement("204ded44aa5aad3199191eb02c4a9ed2eb4e9b522fd3dc4c41226cf67ab36859")

	// montgomeryA is the Montgomery curve coefficient A = 486662, and
	// montgomeryANeg its negation.
	montgomeryA    = mustFieldElement("066d070000000000000000000000000000000000000000000000000000000000")
	montgomeryANeg = new(field.Element).Negate(montgomeryA)
)

// identity is the Edwards identity point (0, 1).
var identity = NewIdentityPoint()

// generator is the canonical generator, with y = 4/5 and x positive.
var generator = func() *Point {
	p, err := new(Point).SetBytes(mustDecodeHex(
		"5866666666666666666666666666666666666666666666666666666666666666"))
	if err != nil {
		panic("curve25519: bad generator encoding")
	}
	return p
}()

// scalarOrder is the little-endian encoding of the order of the prime
// subgroup, l = 2^252 + 27742317777372353535851937790883648493.
var scalarOrder = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10,
}
