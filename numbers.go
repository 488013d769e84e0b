package jsonrw

import (
	"math"
	"math/big"
	"strconv"

	"golang.org/x/exp/constraints"
)

// --- integer parsing (spec.md §4.2 "Number parsing semantics") ---

// ReadInt64 parses a JSON integer literal as an int64, per spec.md §4.2.
func (r *Reader) ReadInt64() (int64, error) {
	start := r.pos()
	neg := false
	b, ok, err := r.peekByte(true)
	if err != nil {
		return 0, err
	}
	_ = ok
	if b == '-' {
		neg = true
		r.ring.head++
	}
	mag, digits, err := r.readBigUint(start)
	if err != nil {
		return 0, err
	}
	// end is the offset of the last digit consumed (readBigUint's trailing
	// '.'/'e' lookahead only peeks, it does not advance head further), so
	// overflow errors point at the literal's last digit rather than its
	// first, per spec.md §8 concrete scenario 5.
	end := r.pos() - 1
	if digits > 20 {
		return 0, r.errAt(KindOverflow, end, "Int64Overflow")
	}
	if neg {
		if mag.Cmp(maxInt64Neg) > 0 {
			return 0, r.errAt(KindOverflow, end, "Int64Overflow")
		}
		neg64 := new(big.Int).Neg(mag)
		return neg64.Int64(), nil
	}
	if mag.Cmp(maxInt64Pos) > 0 {
		return 0, r.errAt(KindOverflow, end, "Int64Overflow")
	}
	return mag.Int64(), nil
}

// ReadUint64 parses a JSON integer literal as a uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	start := r.pos()
	mag, digits, err := r.readBigUint(start)
	if err != nil {
		return 0, err
	}
	end := r.pos()
	if digits > 20 || mag.Cmp(maxUint64Pos) > 0 {
		return 0, r.errAt(KindOverflow, end, "Uint64Overflow")
	}
	return mag.Uint64(), nil
}

// ReadInt32/ReadInt16/ReadInt8 and their unsigned counterparts narrow
// ReadInt64/ReadUint64 with an explicit range check, matching spec.md's
// "<Type>Overflow" per-width error kind.
// narrowSigned re-checks a parsed int64 against a narrower signed type's
// range, sharing one bounds-check body across ReadInt32/16/8 the way
// golang.org/x/exp/constraints lets a helper stay generic over the target
// type instead of copy-pasting a bounds check per width.
func narrowSigned[T constraints.Signed](r *Reader, start int64, v int64, kindName string) (T, error) {
	lo, hi := signedRange[T]()
	if v < lo || v > hi {
		return 0, r.errAt(KindOverflow, start, kindName+"Overflow")
	}
	return T(v), nil
}

func narrowUnsigned[T constraints.Unsigned](r *Reader, start int64, v uint64, kindName string) (T, error) {
	hi := unsignedMax[T]()
	if v > hi {
		return 0, r.errAt(KindOverflow, start, kindName+"Overflow")
	}
	return T(v), nil
}

func signedRange[T constraints.Signed]() (int64, int64) {
	var v T
	switch any(v).(type) {
	case int8:
		return math.MinInt8, math.MaxInt8
	case int16:
		return math.MinInt16, math.MaxInt16
	case int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax[T constraints.Unsigned]() uint64 {
	var v T
	switch any(v).(type) {
	case uint8:
		return math.MaxUint8
	case uint16:
		return math.MaxUint16
	case uint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func (r *Reader) ReadInt32() (int32, error) {
	start := r.pos()
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return narrowSigned[int32](r, start, v, "Int32")
}

func (r *Reader) ReadInt16() (int16, error) {
	start := r.pos()
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return narrowSigned[int16](r, start, v, "Int16")
}

func (r *Reader) ReadInt8() (int8, error) {
	start := r.pos()
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return narrowSigned[int8](r, start, v, "Int8")
}

func (r *Reader) ReadUint32() (uint32, error) {
	start := r.pos()
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return narrowUnsigned[uint32](r, start, v, "Uint32")
}

func (r *Reader) ReadUint16() (uint16, error) {
	start := r.pos()
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return narrowUnsigned[uint16](r, start, v, "Uint16")
}

func (r *Reader) ReadUint8() (uint8, error) {
	start := r.pos()
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return narrowUnsigned[uint8](r, start, v, "Uint8")
}

var (
	maxInt64Neg = new(big.Int).Neg(big.NewInt(math.MinInt64))
	maxInt64Pos = big.NewInt(math.MaxInt64)
	maxUint64Pos = new(big.Int).SetUint64(math.MaxUint64)
)

// readBigUint accumulates an unbounded run of digits (no overflow check,
// no upper digit limit) into a *big.Int, enforcing the leading-zero rule.
// This is the shared primitive behind fixed-width integers and BigInt.
func (r *Reader) readBigUint(startPos int64) (*big.Int, int, error) {
	digits := 0
	var sb []byte
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			return nil, 0, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		if digits == 1 && sb[0] == '0' {
			return nil, 0, r.errAt(KindLeadingZero, startPos, "leading zero in number")
		}
		r.ring.head++
		sb = append(sb, b)
		digits++
	}
	if digits == 0 {
		return nil, 0, r.errAt(KindIllegalNumber, r.pos(), "expected digit")
	}
	if b, ok, err := r.peekByte(false); err != nil {
		return nil, 0, err
	} else if ok && (b == '.' || b == 'e' || b == 'E') {
		return nil, 0, r.errAt(KindIllegalNumber, r.pos(), "integer reader does not accept fractional or exponential form")
	}
	n := new(big.Int)
	n.SetString(string(sb), 10)
	return n, digits, nil
}

// --- float parsing ---

// ReadFloat64 parses a JSON number literal as a float64, following
// spec.md's grammar (sign, integer digits, optional fraction, optional
// exponent) and handing the exact byte span to strconv.ParseFloat, which
// already implements a correctly-rounded (Eisel-Lemire-class) parser; see
// DESIGN.md for why this does not reimplement that algorithm by hand.
func (r *Reader) ReadFloat64() (float64, error) {
	span, err := r.scanNumberSpan()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(span), 64)
	if err != nil {
		return 0, r.errAtf(KindIllegalNumber, r.pos(), "illegal float literal %q", span)
	}
	return f, nil
}

// ReadFloat32 parses a JSON number literal as a float32.
func (r *Reader) ReadFloat32() (float32, error) {
	span, err := r.scanNumberSpan()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(string(span), 32)
	if err != nil {
		return 0, r.errAtf(KindIllegalNumber, r.pos(), "illegal float literal %q", span)
	}
	return float32(f), nil
}

// scanNumberSpan validates and returns the raw byte span of a JSON number
// literal (sign, int part with no unjustified leading zero, optional
// fractional part requiring >=1 digit after '.', optional exponent
// requiring >=1 digit), without interpreting it.
func (r *Reader) scanNumberSpan() ([]byte, error) {
	start := r.pos()
	r.setMark()

	b, ok, err := r.peekByte(true)
	if err != nil {
		r.resetMark()
		return nil, err
	}
	_ = ok
	if b == '-' {
		r.ring.head++
	}

	intDigits := 0
	firstDigit := byte(0)
	for {
		b, ok, err := r.peekByte(false)
		if err != nil {
			r.resetMark()
			return nil, err
		}
		if !ok || b < '0' || b > '9' {
			break
		}
		if intDigits == 0 {
			firstDigit = b
		}
		r.ring.head++
		intDigits++
	}
	if intDigits == 0 {
		r.resetMark()
		return nil, r.errAt(KindIllegalNumber, start, "expected digit")
	}
	if intDigits > 1 && firstDigit == '0' {
		r.resetMark()
		return nil, r.errAt(KindLeadingZero, start, "leading zero in number")
	}

	if b, ok, err := r.peekByte(false); err == nil && ok && b == '.' {
		r.ring.head++
		fracDigits := 0
		for {
			b, ok, err := r.peekByte(false)
			if err != nil {
				r.resetMark()
				return nil, err
			}
			if !ok || b < '0' || b > '9' {
				break
			}
			r.ring.head++
			fracDigits++
		}
		if fracDigits == 0 {
			r.resetMark()
			return nil, r.errAt(KindIllegalNumber, r.pos(), "expected digit after '.'")
		}
	} else if err != nil {
		r.resetMark()
		return nil, err
	}

	if b, ok, err := r.peekByte(false); err == nil && ok && (b == 'e' || b == 'E') {
		r.ring.head++
		if b, ok, err := r.peekByte(false); err == nil && ok && (b == '+' || b == '-') {
			r.ring.head++
		} else if err != nil {
			r.resetMark()
			return nil, err
		}
		expDigits := 0
		for {
			b, ok, err := r.peekByte(false)
			if err != nil {
				r.resetMark()
				return nil, err
			}
			if !ok || b < '0' || b > '9' {
				break
			}
			r.ring.head++
			expDigits++
		}
		if expDigits == 0 {
			r.resetMark()
			return nil, r.errAt(KindIllegalNumber, r.pos(), "expected digit in exponent")
		}
	} else if err != nil {
		r.resetMark()
		return nil, err
	}

	span := append([]byte(nil), r.markedSlice()...)
	r.resetMark()
	return span, nil
}

// --- arbitrary precision (spec.md §4.2 "Arbitrary-precision integer/decimal") ---

const (
	// DefaultBigIntDigitsLimit bounds the number of decimal digits accepted
	// for a *big.Int literal, independent of DefaultBigDecimalScaleLimit
	// (spec.md §9's resolved Open Question: these are independent caps).
	DefaultBigIntDigitsLimit = 308
	// DefaultBigDecimalScaleLimit bounds the magnitude of a BigDecimal's
	// exponent, independent of the digit-count limit above.
	DefaultBigDecimalScaleLimit = 6178
)

// ReadBigInt parses an arbitrary-precision integer literal. Every digit
// run, short or long, goes through readBigUint's string-based
// big.Int.SetString, which stands in for the source's two-limb/
// divide-and-conquer accumulator; there is no separate uint64 fast path
// for short literals.
func (r *Reader) ReadBigInt(digitsLimit int) (*big.Int, error) {
	if digitsLimit <= 0 {
		digitsLimit = DefaultBigIntDigitsLimit
	}
	start := r.pos()
	neg := false
	if b, ok, err := r.peekByte(true); err != nil {
		return nil, err
	} else if ok && b == '-' {
		neg = true
		r.ring.head++
	}
	mag, digits, err := r.readBigUint(start)
	if err != nil {
		return nil, err
	}
	if digits > digitsLimit {
		return nil, r.errAt(KindDigitsLimit, start, "BigInt digits limit exceeded")
	}
	if neg {
		mag.Neg(mag)
	}
	return mag, nil
}

// BigDecimal is an arbitrary-precision decimal: value == Unscaled *
// 10^(-Scale), following java.math.BigDecimal's convention that the
// source's BigDecimal type mirrors.
type BigDecimal struct {
	Unscaled *big.Int
	Scale    int
}

// ReadBigDecimal parses an arbitrary-precision decimal literal.
func (r *Reader) ReadBigDecimal(digitsLimit, scaleLimit int) (BigDecimal, error) {
	if digitsLimit <= 0 {
		digitsLimit = DefaultBigIntDigitsLimit
	}
	if scaleLimit <= 0 {
		scaleLimit = DefaultBigDecimalScaleLimit
	}
	start := r.pos()
	span, err := r.scanNumberSpan()
	if err != nil {
		return BigDecimal{}, err
	}
	unscaled, scale, digits, err := parseBigDecimalSpan(span)
	if err != nil {
		return BigDecimal{}, r.errAt(KindIllegalNumber, start, err.Error())
	}
	if digits > digitsLimit {
		return BigDecimal{}, r.errAt(KindDigitsLimit, start, "BigDecimal digits limit exceeded")
	}
	if scale < -scaleLimit || scale > scaleLimit {
		return BigDecimal{}, r.errAt(KindScaleLimit, start, "BigDecimal scale limit exceeded")
	}
	return BigDecimal{Unscaled: unscaled, Scale: scale}, nil
}

func parseBigDecimalSpan(span []byte) (*big.Int, int, int, error) {
	i := 0
	neg := false
	if i < len(span) && span[i] == '-' {
		neg = true
		i++
	}
	var digitsBuf []byte
	intDigits := 0
	for i < len(span) && span[i] >= '0' && span[i] <= '9' {
		digitsBuf = append(digitsBuf, span[i])
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(span) && span[i] == '.' {
		i++
		for i < len(span) && span[i] >= '0' && span[i] <= '9' {
			digitsBuf = append(digitsBuf, span[i])
			i++
			fracDigits++
		}
	}
	exp := 0
	if i < len(span) && (span[i] == 'e' || span[i] == 'E') {
		i++
		expNeg := false
		if i < len(span) && (span[i] == '+' || span[i] == '-') {
			expNeg = span[i] == '-'
			i++
		}
		for i < len(span) && span[i] >= '0' && span[i] <= '9' {
			exp = exp*10 + int(span[i]-'0')
			i++
		}
		if expNeg {
			exp = -exp
		}
	}

	unscaled := new(big.Int)
	unscaled.SetString(string(digitsBuf), 10)
	if neg {
		unscaled.Neg(unscaled)
	}
	scale := fracDigits - exp
	return unscaled, scale, intDigits + fracDigits, nil
}
