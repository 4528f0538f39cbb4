// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build curve25519_u32 && !curve25519_fiat

package field

import (
	"encoding/binary"
)

// The hand-written 32-bit backend. An element t represents the integer
//
//	t[0] + t[1]*2^26 + t[2]*2^51 + t[3]*2^77 + t[4]*2^102 + t[5]*2^128 +
//	t[6]*2^153 + t[7]*2^179 + t[8]*2^204 + t[9]*2^230
//
// so limbs alternate between 26 and 25 bits of weight (radix 2^25.5).
// Intermediate results are accumulated in uint64 working limbs, and the
// high carry folds back into the low limb multiplied by 19, since
// 2^255 = 19 (mod p).
type elementLimbs = [10]uint32

const (
	maskLow26Bits uint64 = (1 << 26) - 1
	maskLow25Bits uint64 = (1 << 25) - 1
)

var limbWidth = [10]uint{26, 25, 26, 25, 26, 25, 26, 25, 26, 25}

var limbMask = [10]uint64{
	maskLow26Bits, maskLow25Bits, maskLow26Bits, maskLow25Bits,
	maskLow26Bits, maskLow25Bits, maskLow26Bits, maskLow25Bits,
	maskLow26Bits, maskLow25Bits,
}

// limbOffset[i] is the bit weight of limb i.
var limbOffset = [10]int{0, 26, 51, 77, 102, 128, 153, 179, 204, 230}

// twoP is 2 * (2^255 - 19) in the limb representation, added before
// subtractions so they cannot underflow.
var twoP = [10]uint64{
	0x7ffffda, 0x3fffffe, 0x7fffffe, 0x3fffffe, 0x7fffffe,
	0x3fffffe, 0x7fffffe, 0x3fffffe, 0x7fffffe, 0x3fffffe,
}

// carry64 brings the working limbs back within their widths, folding the
// top carry into h[0] by the reduction identity and then propagating the
// h[0] excess once more.
func carry64(h *[10]uint64) {
	for i := 0; i < 9; i++ {
		h[i+1] += h[i] >> limbWidth[i]
		h[i] &= limbMask[i]
	}
	h[0] += 19 * (h[9] >> 25)
	h[9] &= maskLow25Bits
	h[1] += h[0] >> 26
	h[0] &= maskLow26Bits
}

// setCarried reduces the 64-bit working limbs and narrows them into v.
func (v *Element) setCarried(h *[10]uint64) {
	carry64(h)
	for i, l := range h {
		v.limbs[i] = uint32(l)
	}
}

// reduce reduces v modulo 2^255 - 19 and returns it.
func (v *Element) reduce() *Element {
	var h [10]uint64
	for i, l := range v.limbs {
		h[i] = uint64(l)
	}
	carry64(&h)

	// If v >= p, then v + 19 >= 2^255 and the chained carry out of the top
	// limb would be set. Let c be that carry bit.
	c := (h[0] + 19) >> 26
	c = (h[1] + c) >> 25
	c = (h[2] + c) >> 26
	c = (h[3] + c) >> 25
	c = (h[4] + c) >> 26
	c = (h[5] + c) >> 25
	c = (h[6] + c) >> 26
	c = (h[7] + c) >> 25
	c = (h[8] + c) >> 26
	c = (h[9] + c) >> 25

	// If v < p and c is zero, this will be a no-op. Otherwise, it's
	// effectively applying the reduction identity to the carry.
	h[0] += 19 * c

	for i := 0; i < 9; i++ {
		h[i+1] += h[i] >> limbWidth[i]
		h[i] &= limbMask[i]
	}
	// The bit above the top limb is discarded; it was the 2^255 that the
	// correction subtracted back out.
	h[9] &= maskLow25Bits

	for i, l := range h {
		v.limbs[i] = uint32(l)
	}
	return v
}

func feAdd(v, a, b *Element) {
	var h [10]uint64
	for i := range h {
		h[i] = uint64(a.limbs[i]) + uint64(b.limbs[i])
	}
	v.setCarried(&h)
}

func feSub(v, a, b *Element) {
	var h [10]uint64
	for i := range h {
		h[i] = uint64(a.limbs[i]) + twoP[i] - uint64(b.limbs[i])
	}
	v.setCarried(&h)
}

func feNeg(v, a *Element) {
	feSub(v, feZero, a)
}

func feMul(v, a, b *Element) {
	// Schoolbook multiplication with the radix 2^25.5 weight corrections:
	// a product of two odd-indexed limbs carries an extra factor of two
	// (2^25.5 * 2^25.5 rounds down twice), and products that land at
	// weight 2^255 or above fold back in multiplied by 19.
	var h [10]uint64
	for i := 0; i < 10; i++ {
		f := uint64(a.limbs[i])
		for j := 0; j < 10; j++ {
			c := f * uint64(b.limbs[j])
			if i&1 == 1 && j&1 == 1 {
				c *= 2
			}
			k := i + j
			if k >= 10 {
				k -= 10
				c *= 19
			}
			h[k] += c
		}
	}
	// Two carry passes: the first leaves the wrapped-around excess in the
	// low limbs, the second brings every limb back within its width.
	carry64(&h)
	v.setCarried(&h)
}

func feSquare(v, a *Element) {
	feMul(v, a, a)
}

func feMult32(v, x *Element, y uint32) {
	var h [10]uint64
	for i := range h {
		h[i] = uint64(x.limbs[i]) * uint64(y)
	}
	carry64(&h)
	v.setCarried(&h)
}

func feSetBytes(v *Element, x *[32]byte) {
	// Bits 0:26 (bytes 0:8, shift 0, mask 26).
	v.limbs[0] = uint32(binary.LittleEndian.Uint64(x[0:8]) & maskLow26Bits)
	// Bits 26:51 (bytes 3:11, shift 2, mask 25).
	v.limbs[1] = uint32((binary.LittleEndian.Uint64(x[3:11]) >> 2) & maskLow25Bits)
	// Bits 51:77 (bytes 6:14, shift 3, mask 26).
	v.limbs[2] = uint32((binary.LittleEndian.Uint64(x[6:14]) >> 3) & maskLow26Bits)
	// Bits 77:102 (bytes 9:17, shift 5, mask 25).
	v.limbs[3] = uint32((binary.LittleEndian.Uint64(x[9:17]) >> 5) & maskLow25Bits)
	// Bits 102:128 (bytes 12:20, shift 6, mask 26).
	v.limbs[4] = uint32((binary.LittleEndian.Uint64(x[12:20]) >> 6) & maskLow26Bits)
	// Bits 128:153 (bytes 16:24, shift 0, mask 25).
	v.limbs[5] = uint32(binary.LittleEndian.Uint64(x[16:24]) & maskLow25Bits)
	// Bits 153:179 (bytes 19:27, shift 1, mask 26).
	v.limbs[6] = uint32((binary.LittleEndian.Uint64(x[19:27]) >> 1) & maskLow26Bits)
	// Bits 179:204 (bytes 22:30, shift 3, mask 25).
	v.limbs[7] = uint32((binary.LittleEndian.Uint64(x[22:30]) >> 3) & maskLow25Bits)
	// Bits 204:230 and 230:255 both come out of the last eight bytes.
	v.limbs[8] = uint32((binary.LittleEndian.Uint64(x[24:32]) >> 12) & maskLow26Bits)
	v.limbs[9] = uint32((binary.LittleEndian.Uint64(x[24:32]) >> 38) & maskLow25Bits)
}

func feBytes(v *Element, out *[32]byte) {
	t := *v
	t.reduce()

	var buf [8]byte
	for i, l := range t.limbs {
		bitsOffset := limbOffset[i]
		binary.LittleEndian.PutUint64(buf[:], uint64(l)<<uint(bitsOffset%8))
		for i, bb := range buf {
			off := bitsOffset/8 + i
			if off >= len(out) {
				break
			}
			out[off] |= bb
		}
	}
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
