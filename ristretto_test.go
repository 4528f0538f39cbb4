// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"testing/quick"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// Test vectors from draft-irtf-cfrg-ristretto255-decaf448, Appendix A.1.
var ristrettoMultiples = []string{
	"0000000000000000000000000000000000000000000000000000000000000000",
	"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76",
	"6a493210f7499cd17fecb510ae0cea23a110e8d5b901f8acadd3095c73a3b919",
	"94741f5d5d52755ece4f23f044ee27d5d1ea1e2bd196b462166b16152a9d0259",
	"da80862773358b466ffadfe0b3293ab3d9fd53c5ea6c955358f568322daf6a57",
	"e882b131016b52c1d3337080187cf768423efccbb517bb495ab812c4160ff44e",
	"f64746d3c92b13050ed8d80236a7f0007c3b3f962f5ba793d19a601ebb1df403",
	"44f53520926ec81fbd5a387845beb7df85a96a24ece18738bdcfa6a7822a176d",
	"903293d8f2287ebe10e2374dc1a53e0bc887e592699f02d077d5263cdd55601c",
	"02622ace8f7303a31cafc63f8fc48fdc16e1c8c8d234b2f0d6685282a9076031",
	"20706fd788b2720a1ed2a5dad4952b01f413bcf0e7564de8cdc816689e2db95f",
	"bce83f8ba5dd2fa572864c24ba1810f9522bc6004afe95877ac73241cafdab42",
	"e4549ee16b9aa03099ca208c67adafcafa4c3f3e4e5303de6026e3ca8ff84460",
	"aa52e000df2e16f55fb1032fc33bc42742dad6bd5a8fc0be0167436c5948501f",
	"46376b80f409b29dc2b5f6f0c52591990896e5716f41477cd30085ab7f10301e",
	"e0c418f7c8d9c4cdd7395b93ea124f3ad99021bb681dfc3302a9d99a2e53e64e",
}

func TestRistrettoSmallMultiples(t *testing.T) {
	p := NewIdentityRistrettoPoint()
	g := NewGeneratorRistrettoPoint()
	for i, want := range ristrettoMultiples {
		if got := hex.EncodeToString(p.Bytes()); got != want {
			t.Errorf("%d*B: got %q, want %q", i, got, want)
		}
		p.Add(p, g)
	}
}

func TestRistrettoSetBytesRoundTrip(t *testing.T) {
	for i, v := range ristrettoMultiples {
		p, err := new(RistrettoPoint).SetBytes(decodeHex(v))
		if err != nil {
			t.Fatalf("%d*B did not decode: %v", i, err)
		}
		if got := hex.EncodeToString(p.Bytes()); got != v {
			t.Errorf("%d*B did not round-trip: got %q", i, got)
		}
	}

	f := func(x Scalar) bool {
		var p, q RistrettoPoint
		p.ScalarBaseMult(&x)
		if _, err := q.SetBytes(p.Bytes()); err != nil {
			return false
		}
		return p.Equal(&q) == 1 && hex.EncodeToString(p.Bytes()) == hex.EncodeToString(q.Bytes())
	}
	if err := quick.Check(f, quickCheckConfig32); err != nil {
		t.Error(err)
	}
}

func TestRistrettoSetBytesRejectsInvalidEncodings(t *testing.T) {
	badEncodings := []string{
		// Wrong length.
		"",
		"00",
		"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d7600",
		// Non-canonical field encodings.
		"edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
		// Negative s: the negation of the generator encoding.
		"0b0d51f59543b18e577b569e3affaea0a71cf4955a7d22724959a6ba1f72d209",
		// Values that fail the square check.
		"0100000000000000000000000000000000000000000000000000000000000000",
		"0200000000000000000000000000000000000000000000000000000000000000",
		"ecffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f",
	}
	for _, bad := range badEncodings {
		if _, err := new(RistrettoPoint).SetBytes(decodeHex(bad)); err == nil {
			t.Errorf("SetBytes accepted %q", bad)
		}
	}
}

func TestRistrettoSetUniformBytes(t *testing.T) {
	// draft-irtf-cfrg-ristretto255-decaf448, Appendix A.3.
	label := "Ristretto is traditionally a short shot of espresso coffee"
	in := sha512.Sum512([]byte(label))
	p, err := new(RistrettoPoint).SetUniformBytes(in[:])
	if err != nil {
		t.Fatal(err)
	}
	want := "3066f82a1a747d45120d1740f14358531a8f04bbffe6a819f86dfe50f44a0a46"
	if got := hex.EncodeToString(p.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := new(RistrettoPoint).SetUniformBytes(in[:32]); err == nil {
		t.Error("SetUniformBytes accepted a 32-byte input")
	}
}

func TestRistrettoEqualAcrossTorsion(t *testing.T) {
	// Representatives differing by a small-order point are the same group
	// element, compare equal, and encode identically.
	torsion, err := new(Point).SetExtendedCoordinates(
		new(field.Element).Set(sqrtM1), new(field.Element),
		new(field.Element).One(), new(field.Element))
	if err != nil {
		t.Fatal(err)
	}

	var g, gt RistrettoPoint
	g.p.Set(B)
	gt.p.Add(B, torsion)
	if g.Equal(&gt) != 1 {
		t.Errorf("generator and its torsion-shifted representative compare unequal")
	}
	if hex.EncodeToString(g.Bytes()) != hex.EncodeToString(gt.Bytes()) {
		t.Errorf("representatives of the same element encode differently")
	}

	f := func(x Scalar) bool {
		var p, q RistrettoPoint
		p.ScalarBaseMult(&x)
		q.p.Add(&p.p, torsion)
		return p.Equal(&q) == 1 &&
			hex.EncodeToString(p.Bytes()) == hex.EncodeToString(q.Bytes())
	}
	if err := quick.Check(f, quickCheckConfig32); err != nil {
		t.Error(err)
	}
}

func TestRistrettoGroupOps(t *testing.T) {
	f := func(x, y Scalar) bool {
		var px, py, sum, diff, neg, check RistrettoPoint
		px.ScalarBaseMult(&x)
		py.ScalarBaseMult(&y)

		// (x*B + y*B) - y*B == x*B
		sum.Add(&px, &py)
		diff.Subtract(&sum, &py)
		if diff.Equal(&px) != 1 {
			return false
		}

		// x*B + (-(x*B)) == 0
		neg.Negate(&px)
		check.Add(&px, &neg)
		if check.Equal(NewIdentityRistrettoPoint()) != 1 {
			return false
		}

		// Double matches Add.
		sum.Add(&px, &px)
		check.Double(&px)
		return sum.Equal(&check) == 1
	}
	if err := quick.Check(f, quickCheckConfig32); err != nil {
		t.Error(err)
	}
}

func TestRistrettoScalarMult(t *testing.T) {
	f := func(x, y Scalar) bool {
		var z Scalar
		z.Add(&x, &y)
		var p, q, r, check RistrettoPoint
		p.ScalarBaseMult(&x)
		q.ScalarBaseMult(&y)
		r.ScalarBaseMult(&z)
		check.Add(&p, &q)
		if check.Equal(&r) != 1 {
			return false
		}
		// Variable-base matches fixed-base.
		g := NewGeneratorRistrettoPoint()
		check.ScalarMult(&x, g)
		return check.Equal(&p) == 1
	}
	if err := quick.Check(f, quickCheckConfig32); err != nil {
		t.Error(err)
	}
}

func TestRistrettoMultiScalarMult(t *testing.T) {
	f := func(x, y, z Scalar) bool {
		g := NewGeneratorRistrettoPoint()
		var p, q, q1, q2, q3, check RistrettoPoint

		scalars := []*Scalar{&x, &y, &z}
		points := []*RistrettoPoint{g, g, g}
		p.MultiScalarMult(scalars, points)
		q.VarTimeMultiScalarMult(scalars, points)

		q1.ScalarBaseMult(&x)
		q2.ScalarBaseMult(&y)
		q3.ScalarBaseMult(&z)
		check.Add(&q1, &q2).Add(&check, &q3)

		return p.Equal(&check) == 1 && q.Equal(&check) == 1
	}
	if err := quick.Check(f, quickCheckConfig32); err != nil {
		t.Error(err)
	}
}

func TestRistrettoSetRandom(t *testing.T) {
	p, err := new(RistrettoPoint).SetRandom(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	q, err := new(RistrettoPoint).SetBytes(p.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if p.Equal(q) != 1 {
		t.Error("random element did not round-trip")
	}
}
