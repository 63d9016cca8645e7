package lang

import (
	"math"
	"strconv"
	"strings"
)

// Numeric coerces v to an Integer or Float. Strings are accepted when their
// trimmed text parses completely as a finite number.
func Numeric(v Value) (Value, bool) {
	switch v.kind {
	case KindInteger, KindFloat:
		return v, true

	case KindString:
		s := strings.TrimSpace(v.s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), true
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return Null(), false
		}

		return Float(f), true

	default:
		return Null(), false
	}
}

// Integral coerces v to an int64 when it holds a whole number.
func Integral(v Value) (int64, bool) {
	n, ok := Numeric(v)
	if !ok {
		return 0, false
	}

	if n.kind == KindInteger {
		return n.i, true
	}

	if n.f != math.Trunc(n.f) || n.f >= math.MaxInt64 || n.f < math.MinInt64 {
		return 0, false
	}

	return int64(n.f), true
}

// Apply evaluates the binary operator op on operands a and b.
func Apply(op Operator, a, b Value) (Value, error) {
	switch op {
	case OpConcat:
		return String(a.Text() + b.Text()), nil

	case OpEqual:
		return Bool(equivalent(a, b)), nil

	case OpNotEqual, OpDiffer:
		return Bool(!equivalent(a, b)), nil

	case OpLess, OpLessEq, OpGreater, OpGreatEq:
		c, ok := compare(a, b)
		if !ok {
			return Null(), NewTypeError("operator "+string(op), a, b)
		}

		switch op {
		case OpLess:
			return Bool(c < 0), nil

		case OpLessEq:
			return Bool(c <= 0), nil

		case OpGreater:
			return Bool(c > 0), nil

		default:
			return Bool(c >= 0), nil
		}

	case OpPower, OpMultiply, OpDivide, OpAdd, OpSubtract:
		return arithmetic(op, a, b)

	default:
		return Null(), NewTypeError("operator "+string(op), a, b)
	}
}

func arithmetic(op Operator, a, b Value) (Value, error) {
	x, okx := Numeric(a)
	y, oky := Numeric(b)

	if !okx || !oky {
		return Null(), NewTypeError("operator "+string(op), a, b)
	}

	if x.kind == KindInteger && y.kind == KindInteger {
		if v, ok := integerArithmetic(op, x.i, y.i); ok {
			return v, nil
		}
	}

	xf, _ := x.AsFloat()
	yf, _ := y.AsFloat()

	switch op {
	case OpPower:
		return Float(math.Pow(xf, yf)), nil

	case OpMultiply:
		return Float(xf * yf), nil

	case OpDivide:
		if yf == 0 {
			return Null(), ErrDivisionByZero
		}

		return Float(xf / yf), nil

	case OpAdd:
		return Float(xf + yf), nil

	default:
		return Float(xf - yf), nil
	}
}

// integerArithmetic computes + - * exactly, reporting false on overflow or
// for operators whose result is always a Float.
func integerArithmetic(op Operator, x, y int64) (Value, bool) {
	switch op {
	case OpAdd:
		z := x + y
		if (z > x) != (y > 0) {
			return Null(), false
		}

		return Int(z), true

	case OpSubtract:
		z := x - y
		if (z < x) != (y > 0) {
			return Null(), false
		}

		return Int(z), true

	case OpMultiply:
		if x == 0 || y == 0 {
			return Int(0), true
		}

		z := x * y
		if z/y != x || (x == -1 && y == math.MinInt64) ||
			(y == -1 && x == math.MinInt64) {
			return Null(), false
		}

		return Int(z), true

	default:
		return Null(), false
	}
}

// equivalent compares for the equality operators: numerically when both
// operands coerce to numbers, otherwise by Equal.
func equivalent(a, b Value) bool {
	if x, ok := Numeric(a); ok {
		if y, ok := Numeric(b); ok {
			return Equal(x, y)
		}
	}

	return Equal(a, b)
}

// compare orders a and b: numbers (including numeric strings) by magnitude,
// strings lexically and temporal values of the same kind chronologically.
func compare(a, b Value) (int, bool) {
	if x, ok := Numeric(a); ok {
		if y, ok := Numeric(b); ok {
			if x.kind == KindInteger && y.kind == KindInteger {
				return cmpOrdered(x.i, y.i), true
			}

			xf, _ := x.AsFloat()
			yf, _ := y.AsFloat()

			return cmpOrdered(xf, yf), true
		}
	}

	switch {
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.s, b.s), true

	case a.kind == b.kind && (a.kind == KindDate || a.kind == KindTime ||
		a.kind == KindDateTime):
		return a.t.Compare(b.t), true

	default:
		return 0, false
	}
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1

	case x > y:
		return 1

	default:
		return 0
	}
}

// field selects a named component of a temporal value.
func field(v Value, name string) (Value, bool) {
	t := v.t

	date := v.kind == KindDate || v.kind == KindDateTime
	clock := v.kind == KindTime || v.kind == KindDateTime

	switch {
	case date && name == "year":
		return Int(int64(t.Year())), true

	case date && name == "month":
		return Int(int64(t.Month())), true

	case date && name == "day":
		return Int(int64(t.Day())), true

	case date && name == "weekday":
		return Int(int64(t.Weekday())), true

	case date && name == "date":
		return Date(t.Year(), t.Month(), t.Day()), true

	case clock && name == "hour":
		return Int(int64(t.Hour())), true

	case clock && name == "minute":
		return Int(int64(t.Minute())), true

	case clock && name == "second":
		return Int(int64(t.Second())), true

	case clock && name == "time":
		return TimeOfDay(t.Hour(), t.Minute(), t.Second(), t.Nanosecond()), true

	case v.kind == KindDateTime && name == "unix":
		return Int(t.Unix()), true

	case v.kind == KindDateTime && name == "zone":
		zone, _ := t.Zone()

		return String(zone), true

	default:
		return Null(), false
	}
}

// property resolves base.name.
func property(base Value, name string) (Value, error) {
	switch base.kind {
	case KindMapping:
		v, _ := base.Get(name)

		return v, nil

	case KindDate, KindTime, KindDateTime:
		if v, ok := field(base, name); ok {
			return v, nil
		}
	}

	return Null(), NewTypeError("property ."+name, base)
}

// index resolves base[idx]. Out-of-range positions and missing keys yield
// null.
func index(base, idx Value) (Value, error) {
	switch base.kind {
	case KindSequence:
		i, ok := Integral(idx)
		if !ok {
			return Null(), NewTypeError("sequence index", idx)
		}

		v, _ := base.Index(int(i))

		return v, nil

	case KindMapping:
		v, _ := base.Get(idx.Text())

		return v, nil

	default:
		return Null(), NewTypeError("index", base)
	}
}
