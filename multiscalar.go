// Copyright (c) 2021 The curve25519-dalek Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package curve25519

// pippengerThreshold is the number of input points at which
// VarTimeMultiScalarMult switches from Straus' method to Pippenger's bucket
// method. Straus has cheaper per-point setup, Pippenger amortizes better; the
// crossover sits around a couple hundred points on current hardware. It is a
// variable so benchmarks and tests can exercise both paths.
var pippengerThreshold = 190

// MultiScalarMult sets v = sum(scalars[i] * points[i]), and returns v.
//
// Execution time depends only on the lengths of the two slices, which must match.
func (v *Point) MultiScalarMult(scalars []*Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("curve25519: called MultiScalarMult with different size inputs")
	}
	checkInitialized(points...)

	// Proceed as in the single-base case, but share doublings
	// between each point in the multiscalar equation.

	// Build lookup tables for each point
	tables := make([]projLookupTable, len(points))
	for i := range tables {
		tables[i].FromP3(points[i])
	}
	// Compute signed radix-16 digits for each scalar
	digits := make([][64]int8, len(scalars))
	for i := range digits {
		digits[i] = scalars[i].signedRadix16()
	}

	// Unwrap first loop iteration to save computing 16*identity
	multiple := &projCached{}
	tmp1 := &projP1xP1{}
	tmp2 := &projP2{}
	v.Set(NewIdentityPoint())
	// Lookup-and-add the appropriate multiple of each input point
	for j := range tables {
		tables[j].SelectInto(multiple, digits[j][63])
		tmp1.Add(v, multiple) // tmp1 = v + x_(j,63)*Q in P1xP1 coords
		v.fromP1xP1(tmp1)     // update v
	}
	tmp2.FromP3(v) // set up tmp2 = v in P2 coords for next iteration
	for i := 62; i >= 0; i-- {
		tmp1.Double(tmp2)    // tmp1 =  2*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  2*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 =  4*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  4*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 =  8*(prev) in P1xP1 coords
		tmp2.FromP1xP1(tmp1) // tmp2 =  8*(prev) in P2 coords
		tmp1.Double(tmp2)    // tmp1 = 16*(prev) in P1xP1 coords
		v.fromP1xP1(tmp1)    //    v = 16*(prev) in P3 coords
		// Lookup-and-add the appropriate multiple of each input point
		for j := range tables {
			tables[j].SelectInto(multiple, digits[j][i])
			tmp1.Add(v, multiple) // tmp1 = v + x_(j,i)*Q in P1xP1 coords
			v.fromP1xP1(tmp1)     // update v
		}
		tmp2.FromP3(v) // set up tmp2 = v in P2 coords for next iteration
	}
	return v
}

// VarTimeMultiScalarMult sets v = sum(scalars[i] * points[i]), and returns v.
//
// Execution time depends on the inputs. Small batches use Straus' method,
// large ones Pippenger's bucket method; the results are identical.
func (v *Point) VarTimeMultiScalarMult(scalars []*Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("curve25519: called VarTimeMultiScalarMult with different size inputs")
	}
	checkInitialized(points...)

	if len(points) < pippengerThreshold {
		return v.varTimeMultiScalarMultStraus(scalars, points)
	}
	return v.varTimeMultiScalarMultPippenger(scalars, points)
}

func (v *Point) varTimeMultiScalarMultStraus(scalars []*Scalar, points []*Point) *Point {
	// Generalize double-base NAF computation to arbitrary sizes.
	// Here all the points are dynamic, so we only use the smaller
	// tables.

	// Build lookup tables for each point
	tables := make([]nafLookupTable5, len(points))
	for i := range tables {
		tables[i].FromP3(points[i])
	}
	// Compute a NAF for each scalar
	nafs := make([][256]int8, len(scalars))
	for i := range nafs {
		nafs[i] = scalars[i].nonAdjacentForm(5)
	}

	multiple := &projCached{}
	tmp1 := &projP1xP1{}
	tmp2 := &projP2{}
	tmp2.Zero()

	// Move from high to low bits, doubling the accumulator
	// at each iteration and checking whether there is a nonzero
	// coefficient to look up a multiple of.
	//
	// Skip trying to find the first nonzero coefficent, because
	// searching might be more work than a few extra doublings.
	for i := 255; i >= 0; i-- {
		tmp1.Double(tmp2)

		for j := range nafs {
			if nafs[j][i] > 0 {
				v.fromP1xP1(tmp1)
				tables[j].SelectInto(multiple, nafs[j][i])
				tmp1.Add(v, multiple)
			} else if nafs[j][i] < 0 {
				v.fromP1xP1(tmp1)
				tables[j].SelectInto(multiple, -nafs[j][i])
				tmp1.Sub(v, multiple)
			}
		}

		tmp2.FromP1xP1(tmp1)
	}

	v.fromP2(tmp2)
	return v
}

func (v *Point) varTimeMultiScalarMultPippenger(scalars []*Scalar, points []*Point) *Point {
	// Pippenger's bucket method with unsigned windows of w bits. Per window,
	// every point goes into the bucket named by its scalar's digit, and the
	// bucket sums are combined with a running-sum trick:
	//
	//	sum(k * buckets[k]) = sum over k of (buckets[k] + ... + buckets[max])
	//
	// The per-window cost is one bucket addition per point plus ~2^w
	// additions to fold the buckets, so wider windows pay off as the number
	// of points grows.
	w := 6
	if len(points) >= 500 {
		w = 7
	}
	if len(points) >= 800 {
		w = 8
	}
	digitCount := (256 + w - 1) / w

	buckets := make([]Point, (1<<w)-1)

	total := NewIdentityPoint()
	running := NewIdentityPoint()
	for j := digitCount - 1; j >= 0; j-- {
		if j != digitCount-1 {
			for k := 0; k < w; k++ {
				total.Double(total)
			}
		}

		for k := range buckets {
			buckets[k].Set(identity)
		}
		for i := range scalars {
			if d := pippengerDigit(&scalars[i].s, w, j); d != 0 {
				buckets[d-1].Add(&buckets[d-1], points[i])
			}
		}

		running.Set(identity)
		for k := len(buckets) - 1; k >= 0; k-- {
			running.Add(running, &buckets[k])
			total.Add(total, running)
		}
	}
	return v.Set(total)
}

// pippengerDigit returns bits [w*j, w*j+w) of the little-endian value b.
func pippengerDigit(b *[32]byte, w, j int) uint {
	var out uint
	for t := 0; t < w; t++ {
		bit := w*j + t
		if bit >= 256 {
			break
		}
		out |= uint((b[bit>>3]>>(bit&7))&1) << t
	}
	return out
}
