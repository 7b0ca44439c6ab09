// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
// Copyright (C) 2026  emturner
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package fixedpoint implements the scaled-integer arithmetic the
// auction engine uses in place of floats, per the determinism
// requirement: every monetary quantity is an exact integer (mutez or
// scaled kit), and every division names its rounding direction.
//
// There is no ecosystem library in the retrieval pack grounded for
// directed-rounding fixed-point exponentiation (shopspring/decimal
// appears in one example's go.mod with no call sites to learn from),
// so this one package is built on math/big rather than adopted.
package fixedpoint

import "math/big"

// Round picks which way a division that doesn't evenly divide gets
// rounded.
type Round int

const (
	Floor Round = iota
	Ceil
)

// Ratio is an exact rational number, represented as a reduced-or-not
// pair of big integers. Callers construct one from config numerators
// and denominators (e.g. AUCTION_DECAY_RATE, BID_IMPROVEMENT_FACTOR)
// and combine it with integer quantities (Mutez, Kit) via the Div*
// helpers below.
type Ratio struct {
	Num, Den *big.Int
}

// NewRatio builds a Ratio from plain integers. Den must be positive.
func NewRatio(num, den int64) Ratio {
	if den <= 0 {
		panic("fixedpoint: NewRatio: non-positive denominator")
	}
	return Ratio{Num: big.NewInt(num), Den: big.NewInt(den)}
}

// Mul returns r*s.
func (r Ratio) Mul(s Ratio) Ratio {
	return Ratio{
		Num: new(big.Int).Mul(r.Num, s.Num),
		Den: new(big.Int).Mul(r.Den, s.Den),
	}
}

// Complement returns 1-r, used for (1 - DECAY_RATE).
func (r Ratio) Complement() Ratio {
	return Ratio{
		Num: new(big.Int).Sub(r.Den, r.Num),
		Den: new(big.Int).Set(r.Den),
	}
}

// Pow raises r to a non-negative integer exponent by exponentiation by
// squaring on the numerator and denominator independently, so the
// result stays an exact rational with no intermediate rounding: only
// the final Ceil/Floor call (outside of Pow) introduces any rounding.
func (r Ratio) Pow(exp uint64) Ratio {
	numAcc, denAcc := big.NewInt(1), big.NewInt(1)
	num, den := new(big.Int).Set(r.Num), new(big.Int).Set(r.Den)
	for exp > 0 {
		if exp&1 == 1 {
			numAcc.Mul(numAcc, num)
			denAcc.Mul(denAcc, den)
		}
		num.Mul(num, num)
		den.Mul(den, den)
		exp >>= 1
	}
	return Ratio{Num: numAcc, Den: denAcc}
}

// MulInt64 returns r*x as an exact Ratio (x/1 * r).
func (r Ratio) MulInt64(x int64) Ratio {
	return r.Mul(Ratio{Num: big.NewInt(x), Den: big.NewInt(1)})
}

// Round divides Num by Den in the given direction, returning a plain
// int64. Panics if the quotient would overflow int64 or Den is zero —
// both would indicate a caller-config error, not a data error.
func (r Ratio) Round(dir Round) int64 {
	if r.Den.Sign() == 0 {
		panic("fixedpoint: division by zero")
	}
	q := DivBigInt(r.Num, r.Den, dir)
	if !q.IsInt64() {
		panic("fixedpoint: result overflows int64")
	}
	return q.Int64()
}

// DivBigInt divides a/b (b must be positive) rounding in the given
// direction, working entirely in big.Int so callers that need the
// intermediate (e.g. chained ratio math) aren't forced through int64.
func DivBigInt(a, b *big.Int, dir Round) *big.Int {
	if b.Sign() <= 0 {
		panic("fixedpoint: DivBigInt: non-positive divisor")
	}
	q, rem := new(big.Int), new(big.Int)
	q.QuoRem(a, b, rem)
	if rem.Sign() == 0 {
		return q
	}
	// QuoRem truncates toward zero; our inputs are always
	// non-negative (mutez/kit amounts and positive ratios), so
	// truncation and floor coincide.
	if a.Sign() < 0 {
		panic("fixedpoint: DivBigInt: negative numerator unsupported")
	}
	switch dir {
	case Floor:
		return q
	case Ceil:
		return q.Add(q, big.NewInt(1))
	default:
		panic("fixedpoint: unknown rounding direction")
	}
}

// CeilDivInt64 computes ceil(num/den) for non-negative num and
// positive den, e.g. ceil(min_kit*ltez/slice.tez) when splitting a
// slice.
func CeilDivInt64(num, den int64) int64 {
	return DivBigInt(big.NewInt(num), big.NewInt(den), Ceil).Int64()
}

// FloorDivInt64 computes floor(num/den) for non-negative num and
// positive den, e.g. floor(winning_bid.kit*slice.tez/sold_tez) when
// settling a slice.
func FloorDivInt64(num, den int64) int64 {
	return DivBigInt(big.NewInt(num), big.NewInt(den), Floor).Int64()
}

// MulDivInt64 computes round(a*b/c) without intermediate overflow,
// the shape nearly every settlement/split formula in the engine takes.
func MulDivInt64(a, b, c int64, dir Round) int64 {
	num := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	return DivBigInt(num, big.NewInt(c), dir).Int64()
}
