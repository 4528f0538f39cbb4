// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"bytes"
	"encoding/hex"
	"math/big"
	mathrand "math/rand"
	"reflect"
	"testing"
	"testing/quick"
)

func (v Element) String() string {
	return hex.EncodeToString(v.Bytes())
}

// quickCheckConfig1024 will make each quickcheck test run (1024 * -quickchecks)
// times. The default value of -quickchecks is 100.
var quickCheckConfig1024 = &quick.Config{MaxCountScale: 1 << 10}

var bigP = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

// weirdValues are encodings of edge-case elements: around zero, one, the
// top of the field, and values with every limb boundary saturated in each
// backend representation.
var weirdValues = []*big.Int{
	big.NewInt(0), big.NewInt(0),
	big.NewInt(1),
	big.NewInt(18),
	big.NewInt(19),
	new(big.Int).Sub(bigP, big.NewInt(1)), new(big.Int).Sub(bigP, big.NewInt(1)),
	new(big.Int).Sub(bigP, big.NewInt(2)),
	new(big.Int).Rsh(bigP, 1),
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 51), big.NewInt(1)),
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 204), big.NewInt(1)),
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 254), big.NewInt(1)),
}

func swapEndianness(buf []byte) []byte {
	for i := 0; i < len(buf)/2; i++ {
		buf[i], buf[len(buf)-i-1] = buf[len(buf)-i-1], buf[i]
	}
	return buf
}

// fromBig sets v = n mod p, and returns v. n must be nonnegative and have
// a bit length of at most 256.
func (v *Element) fromBig(n *big.Int) *Element {
	n = new(big.Int).Mod(n, bigP)
	buf := make([]byte, 32)
	copy(buf, swapEndianness(n.Bytes()))
	if _, err := v.SetBytes(buf); err != nil {
		panic(err)
	}
	return v
}

func (v *Element) toBig() *big.Int {
	return new(big.Int).SetBytes(swapEndianness(v.Bytes()))
}

func generateFieldElement(rand *mathrand.Rand) Element {
	var buf [32]byte
	rand.Read(buf[:])
	buf[31] &= 127
	fe, _ := new(Element).SetBytes(buf[:])
	return *fe
}

func generateWeirdFieldElement(rand *mathrand.Rand) Element {
	return *new(Element).fromBig(weirdValues[rand.Intn(len(weirdValues))])
}

func (Element) Generate(rand *mathrand.Rand, size int) reflect.Value {
	if rand.Intn(2) == 0 {
		return reflect.ValueOf(generateWeirdFieldElement(rand))
	}
	return reflect.ValueOf(generateFieldElement(rand))
}

func TestSetBytesRoundTrip(t *testing.T) {
	f1 := func(in [32]byte) bool {
		fe := new(Element)
		fe.SetBytes(in[:])

		// Mask the most significant bit as it's ignored by SetBytes. (Now
		// instead of earlier so we check the masking in SetBytes is working.)
		in[len(in)-1] &= (1 << 7) - 1

		b := new(big.Int).SetBytes(swapEndianness(append([]byte(nil), in[:]...)))
		if b.Cmp(bigP) >= 0 {
			// Non-canonical encodings reduce in the round-trip.
			return fe.toBig().Cmp(b.Mod(b, bigP)) == 0
		}
		return bytes.Equal(in[:], fe.Bytes())
	}
	if err := quick.Check(f1, quickCheckConfig1024); err != nil {
		t.Errorf("failed bytes->FE->bytes round-trip: %v", err)
	}

	f2 := func(fe Element, r Element) bool {
		r.SetBytes(fe.Bytes())
		return fe.Equal(&r) == 1
	}
	if err := quick.Check(f2, quickCheckConfig1024); err != nil {
		t.Errorf("failed FE->bytes->FE round-trip: %v", err)
	}

	// Check some fixed vectors from dalek
	type feRTTest struct {
		fe string
		b  []byte
	}
	var tests = []feRTTest{
		{
			fe: "4ad145c54646a1de38e2e513703c195cbb4ade38329933e9284a3906a0b9d51f",
			b:  []byte{74, 209, 69, 197, 70, 70, 161, 222, 56, 226, 229, 19, 112, 60, 25, 92, 187, 74, 222, 56, 50, 153, 51, 233, 40, 74, 57, 6, 160, 185, 213, 31},
		},
		{
			fe: "c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a",
			b:  []byte{199, 23, 106, 112, 61, 77, 216, 79, 186, 60, 11, 118, 13, 16, 103, 15, 42, 32, 83, 250, 44, 57, 204, 198, 78, 199, 253, 119, 146, 172, 3, 122},
		},
	}

	for _, tt := range tests {
		fe := new(Element)
		if _, err := fe.SetCanonicalBytes(tt.b); err != nil {
			t.Fatalf("SetCanonicalBytes(%x): %v", tt.b, err)
		}
		if fe.String() != tt.fe || !bytes.Equal(fe.Bytes(), tt.b) {
			t.Errorf("failed fixed roundtrip: %v", tt)
		}
	}
}

func TestBytesBigEquivalence(t *testing.T) {
	f1 := func(in [32]byte, fe, fe1 Element) bool {
		fe.SetBytes(in[:])

		in[len(in)-1] &= (1 << 7) - 1 // mask the most significant bit
		b := new(big.Int).SetBytes(swapEndianness(in[:]))
		fe1.fromBig(b)

		if fe.Equal(&fe1) != 1 {
			return false
		}

		buf := make([]byte, 32) // pad with zeroes
		copy(buf, swapEndianness(fe1.toBig().Bytes()))

		return bytes.Equal(fe.Bytes(), buf)
	}
	if err := quick.Check(f1, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSetCanonicalBytes(t *testing.T) {
	good := make([]byte, 32)
	good[0] = 2
	if _, err := new(Element).SetCanonicalBytes(good); err != nil {
		t.Errorf("SetCanonicalBytes(2) = %v", err)
	}

	bad := [][]byte{
		// p
		{0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
		// 2^255 - 1
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
		// 2 with the high bit set
		{0x02, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x80},
	}
	for _, b := range bad {
		v := new(Element).One()
		if _, err := v.SetCanonicalBytes(b); err == nil {
			t.Errorf("SetCanonicalBytes(%x) unexpectedly succeeded", b)
		}
		if v.Equal(feOne) != 1 {
			t.Errorf("receiver modified on rejected input %x", b)
		}
	}
}

func TestAddSubNegAgainstBig(t *testing.T) {
	f := func(x, y Element) bool {
		add := new(Element).Add(&x, &y)
		sub := new(Element).Subtract(&x, &y)
		neg := new(Element).Negate(&x)

		bigAdd := new(big.Int).Add(x.toBig(), y.toBig())
		bigSub := new(big.Int).Sub(x.toBig(), y.toBig())
		bigNeg := new(big.Int).Neg(x.toBig())

		return add.toBig().Cmp(bigAdd.Mod(bigAdd, bigP)) == 0 &&
			sub.toBig().Cmp(bigSub.Mod(bigSub, bigP)) == 0 &&
			neg.toBig().Cmp(bigNeg.Mod(bigNeg, bigP)) == 0
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMultiplyAgainstBig(t *testing.T) {
	f := func(x, y Element) bool {
		mul := new(Element).Multiply(&x, &y)
		sq := new(Element).Square(&x)

		bigMul := new(big.Int).Mul(x.toBig(), y.toBig())
		bigSq := new(big.Int).Mul(x.toBig(), x.toBig())

		return mul.toBig().Cmp(bigMul.Mod(bigMul, bigP)) == 0 &&
			sq.toBig().Cmp(bigSq.Mod(bigSq, bigP)) == 0
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMulDistributesOverAdd(t *testing.T) {
	mulDistributesOverAdd := func(x, y, z Element) bool {
		// Compute t1 = (x+y)*z
		t1 := new(Element)
		t1.Add(&x, &y)
		t1.Multiply(t1, &z)

		// Compute t2 = x*z + y*z
		t2 := new(Element)
		t3 := new(Element)
		t2.Multiply(&x, &z)
		t3.Multiply(&y, &z)
		t2.Add(t2, t3)

		return t1.Equal(t2) == 1
	}

	if err := quick.Check(mulDistributesOverAdd, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestMult32(t *testing.T) {
	mult32EquivalentToMul := func(x Element, y uint32) bool {
		t1 := new(Element)
		for i := 0; i < 100; i++ {
			t1.Mult32(&x, y)
		}

		ty := new(Element).fromBig(new(big.Int).SetUint64(uint64(y)))
		t2 := new(Element)
		for i := 0; i < 100; i++ {
			t2.Multiply(&x, ty)
		}

		return t1.Equal(t2) == 1
	}

	if err := quick.Check(mult32EquivalentToMul, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestInvert(t *testing.T) {
	x := new(Element).fromBig(big.NewInt(99))
	one := new(Element).One()
	var xInv, r Element

	xInv.Invert(x)
	r.Multiply(x, &xInv)

	if one.Equal(&r) != 1 {
		t.Errorf("1/x * x != 1; got %v", r)
	}

	f := func(x Element) bool {
		if x.IsZero() == 1 {
			return xInv.Invert(&x).IsZero() == 1
		}
		xInv.Invert(&x)
		r.Multiply(&x, &xInv)
		return one.Equal(&r) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}

	zero := new(Element)
	xInv.Invert(zero)
	if xInv.Equal(zero) != 1 {
		t.Errorf("1/0 != 0; got %v", xInv)
	}
}

func TestSelectSwap(t *testing.T) {
	a := new(Element).fromBig(new(big.Int).Lsh(big.NewInt(0xabcd), 200))
	b := new(Element).fromBig(big.NewInt(0x1234))

	var c, d Element

	c.Select(a, b, 1)
	d.Select(a, b, 0)

	if c.Equal(a) != 1 || d.Equal(b) != 1 {
		t.Errorf("Select failed")
	}

	c.Swap(&d, 0)

	if c.Equal(a) != 1 || d.Equal(b) != 1 {
		t.Errorf("Swap failed")
	}

	c.Swap(&d, 1)

	if c.Equal(b) != 1 || d.Equal(a) != 1 {
		t.Errorf("Swap failed")
	}
}

func TestNegateConditionally(t *testing.T) {
	f := func(x Element, sel int) bool {
		cond := sel & 1
		want := new(Element).Set(&x)
		if cond == 1 {
			want.Negate(&x)
		}
		got := new(Element).CondNeg(&x, cond)
		return got.Equal(want) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestAbsolute(t *testing.T) {
	f := func(x Element) bool {
		abs := new(Element).Absolute(&x)
		if abs.IsNegative() == 1 {
			return false
		}
		sq1 := new(Element).Square(abs)
		sq2 := new(Element).Square(&x)
		return sq1.Equal(sq2) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestSqrtM1(t *testing.T) {
	r := new(Element).Square(sqrtM1)
	minusOne := new(Element).Negate(feOne)
	if r.Equal(minusOne) != 1 {
		t.Errorf("sqrtM1^2 != -1; got %v", r)
	}
	if sqrtM1.IsNegative() == 1 {
		t.Errorf("sqrtM1 is negative")
	}
}

func TestSqrtRatio(t *testing.T) {
	f := func(x, v Element) bool {
		if v.IsZero() == 1 {
			return true
		}

		// u = x^2 * v is square by construction, so SqrtRatio must find
		// the nonnegative root |x|.
		u := new(Element).Multiply(new(Element).Square(&x), &v)
		r, wasSquare := new(Element).SqrtRatio(u, &v)
		if wasSquare != 1 || r.IsNegative() == 1 {
			return false
		}
		check := new(Element).Multiply(&v, new(Element).Square(r))
		return check.Equal(u) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}

	// A non-residue ratio: r is sqrt(SQRT_M1 * u/v) and wasSquare is 0.
	nonSquare := func(x, v Element) bool {
		if x.IsZero() == 1 || v.IsZero() == 1 {
			return true
		}
		u := new(Element).Multiply(new(Element).Square(&x), &v)
		u.Multiply(u, sqrtM1) // u/v is now a non-residue
		r, wasSquare := new(Element).SqrtRatio(u, &v)
		if wasSquare != 0 || r.IsNegative() == 1 {
			return false
		}
		check := new(Element).Multiply(&v, new(Element).Square(r))
		want := new(Element).Multiply(u, sqrtM1)
		return check.Equal(want) == 1
	}
	if err := quick.Check(nonSquare, quickCheckConfig1024); err != nil {
		t.Error(err)
	}
}

func TestInvSqrt(t *testing.T) {
	f := func(x Element) bool {
		if x.IsZero() == 1 {
			return true
		}

		// v = x^2 has a square inverse, and r^2 * v must be one.
		v := new(Element).Square(&x)
		r, wasSquare := new(Element).InvSqrt(v)
		if wasSquare != 1 || r.IsNegative() == 1 {
			return false
		}
		check := new(Element).Multiply(v, new(Element).Square(r))
		return check.Equal(feOne) == 1
	}
	if err := quick.Check(f, quickCheckConfig1024); err != nil {
		t.Error(err)
	}

	if _, wasSquare := new(Element).InvSqrt(new(Element)); wasSquare != 0 {
		t.Errorf("InvSqrt(0) reported a square")
	}
}
