// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

import (
	mathrand "math/rand"
	"testing"

	"filippo.io/edwards25519"
	reffield "filippo.io/edwards25519/field"
	"github.com/stretchr/testify/require"

	"github.com/Beneficial-AI-Foundation/curve25519-dalek/field"
)

// Differential tests against filippo.io/edwards25519, which shares the wire
// formats but none of the code of this module.

func TestCrossCheckFieldArithmetic(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(100))
	for i := 0; i < 256; i++ {
		var ab, bb [32]byte
		rand.Read(ab[:])
		rand.Read(bb[:])

		a, err := new(field.Element).SetBytes(ab[:])
		require.NoError(t, err)
		b, err := new(field.Element).SetBytes(bb[:])
		require.NoError(t, err)
		refA, err := new(reffield.Element).SetBytes(ab[:])
		require.NoError(t, err)
		refB, err := new(reffield.Element).SetBytes(bb[:])
		require.NoError(t, err)

		prod := new(field.Element).Multiply(a, b)
		refProd := new(reffield.Element).Multiply(refA, refB)
		require.Equal(t, refProd.Bytes(), prod.Bytes(), "multiplication mismatch")

		sum := new(field.Element).Add(a, b)
		refSum := new(reffield.Element).Add(refA, refB)
		require.Equal(t, refSum.Bytes(), sum.Bytes(), "addition mismatch")

		inv := new(field.Element).Invert(a)
		refInv := new(reffield.Element).Invert(refA)
		require.Equal(t, refInv.Bytes(), inv.Bytes(), "inversion mismatch")

		sqrt, wasSquare := new(field.Element).SqrtRatio(a, b)
		refSqrt, refWasSquare := new(reffield.Element).SqrtRatio(refA, refB)
		require.Equal(t, refWasSquare, wasSquare, "SqrtRatio squareness mismatch")
		require.Equal(t, refSqrt.Bytes(), sqrt.Bytes(), "SqrtRatio root mismatch")
	}
}

func TestCrossCheckScalarArithmetic(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(101))
	for i := 0; i < 256; i++ {
		var ab, bb [64]byte
		rand.Read(ab[:])
		rand.Read(bb[:])

		a, err := new(Scalar).SetUniformBytes(ab[:])
		require.NoError(t, err)
		b, err := new(Scalar).SetUniformBytes(bb[:])
		require.NoError(t, err)
		refA, err := edwards25519.NewScalar().SetUniformBytes(ab[:])
		require.NoError(t, err)
		refB, err := edwards25519.NewScalar().SetUniformBytes(bb[:])
		require.NoError(t, err)

		require.Equal(t, refA.Bytes(), a.Bytes(), "wide reduction mismatch")

		sum := new(Scalar).Add(a, b)
		refSum := edwards25519.NewScalar().Add(refA, refB)
		require.Equal(t, refSum.Bytes(), sum.Bytes(), "addition mismatch")

		diff := new(Scalar).Subtract(a, b)
		refDiff := edwards25519.NewScalar().Subtract(refA, refB)
		require.Equal(t, refDiff.Bytes(), diff.Bytes(), "subtraction mismatch")

		prod := new(Scalar).Multiply(a, b)
		refProd := edwards25519.NewScalar().Multiply(refA, refB)
		require.Equal(t, refProd.Bytes(), prod.Bytes(), "multiplication mismatch")

		inv := new(Scalar).Invert(a)
		refInv := edwards25519.NewScalar().Invert(refA)
		require.Equal(t, refInv.Bytes(), inv.Bytes(), "inversion mismatch")
	}
}

func TestCrossCheckPointOperations(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(102))
	for i := 0; i < 64; i++ {
		var ab, bb [64]byte
		rand.Read(ab[:])
		rand.Read(bb[:])

		a, err := new(Scalar).SetUniformBytes(ab[:])
		require.NoError(t, err)
		b, err := new(Scalar).SetUniformBytes(bb[:])
		require.NoError(t, err)
		refA, err := edwards25519.NewScalar().SetUniformBytes(ab[:])
		require.NoError(t, err)
		refB, err := edwards25519.NewScalar().SetUniformBytes(bb[:])
		require.NoError(t, err)

		p := new(Point).ScalarBaseMult(a)
		refP := new(edwards25519.Point).ScalarBaseMult(refA)
		require.Equal(t, refP.Bytes(), p.Bytes(), "fixed-base mismatch")

		q := new(Point).ScalarMult(b, p)
		refQ := new(edwards25519.Point).ScalarMult(refB, refP)
		require.Equal(t, refQ.Bytes(), q.Bytes(), "variable-base mismatch")

		v := new(Point).VarTimeDoubleScalarBaseMult(a, q, b)
		refV := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(refA, refQ, refB)
		require.Equal(t, refV.Bytes(), v.Bytes(), "double-base mismatch")

		require.Equal(t, refP.BytesMontgomery(), p.BytesMontgomery(), "Montgomery encoding mismatch")

		c := new(Point).MultByCofactor(p)
		refC := new(edwards25519.Point).MultByCofactor(refP)
		require.Equal(t, refC.Bytes(), c.Bytes(), "cofactor multiple mismatch")
	}
}

func TestCrossCheckPointDecoding(t *testing.T) {
	rand := mathrand.New(mathrand.NewSource(103))
	for i := 0; i < 64; i++ {
		var sb [64]byte
		rand.Read(sb[:])
		s, err := new(Scalar).SetUniformBytes(sb[:])
		require.NoError(t, err)
		enc := new(Point).ScalarBaseMult(s).Bytes()

		p, err := new(Point).SetBytes(enc)
		require.NoError(t, err)
		refP, err := new(edwards25519.Point).SetBytes(enc)
		require.NoError(t, err)
		require.Equal(t, refP.Bytes(), p.Bytes(), "decoding mismatch")
	}

	// Unlike the reference, which accepts some non-canonical encodings for
	// backwards compatibility with historic signature verifiers, only
	// canonical encodings decode here. The point with y = 0 encoded with a
	// 2^255 excess is accepted there and rejected here.
	nonCanonical := decodeHex("edffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f")
	_, refErr := new(edwards25519.Point).SetBytes(nonCanonical)
	require.NoError(t, refErr)
	_, err := new(Point).SetBytes(nonCanonical)
	require.Error(t, err)
}
