package lang

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the runtime type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindDate
	KindTime
	KindDateTime
	KindSequence
	KindMapping
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"

	case KindBoolean:
		return "boolean"

	case KindInteger:
		return "integer"

	case KindFloat:
		return "float"

	case KindString:
		return "string"

	case KindDate:
		return "date"

	case KindTime:
		return "time"

	case KindDateTime:
		return "datetime"

	case KindSequence:
		return "sequence"

	case KindMapping:
		return "mapping"

	default:
		return "unknown"
	}
}

// Layouts used to render and parse temporal values.
const (
	DateLayout     = time.DateOnly
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = time.RFC3339Nano
)

// Value is an immutable runtime value produced and consumed by the evaluator.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
	seq  []Value
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date returns a calendar date value. Only the year, month and day of the
// arguments are retained.
func Date(year int, month time.Month, day int) Value {
	return Value{
		kind: KindDate,
		t:    time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

// TimeOfDay returns a wall-clock time value without a date.
func TimeOfDay(hour, minute, second, nsec int) Value {
	return Value{
		kind: KindTime,
		t:    time.Date(0, time.January, 1, hour, minute, second, nsec, time.UTC),
	}
}

// DateTime returns a date-time value.
func DateTime(t time.Time) Value { return Value{kind: KindDateTime, t: t} }

// Sequence returns an ordered sequence of values. The slice is copied.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: slices.Clone(items)}
}

// Mapping returns a mapping value. Keys are lower-cased so that lookups are
// exact matches on the canonical form produced by the parser.
func Mapping(m map[string]Value) Value {
	canon := make(map[string]Value, len(m))
	for k, v := range m {
		canon[strings.ToLower(k)] = v
	}

	return Value{kind: KindMapping, m: canon}
}

// Kind returns the runtime kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBoolean }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsFloat returns the float held by v, widening integers.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true

	case KindInteger:
		return float64(v.i), true

	default:
		return 0, false
	}
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsTime returns the instant held by a Date, Time or DateTime value.
func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindTime, KindDateTime:
		return v.t, true

	default:
		return time.Time{}, false
	}
}

// Items returns a copy of the elements of a sequence.
func (v Value) Items() ([]Value, bool) {
	return slices.Clone(v.seq), v.kind == KindSequence
}

// Len returns the number of elements of a sequence or mapping, or the number
// of runes of a string.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)

	case KindMapping:
		return len(v.m)

	case KindString:
		return len([]rune(v.s))

	default:
		return 0
	}
}

// Index returns the element at position i of a sequence. Negative positions
// count from the end.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence {
		return Null(), false
	}

	if i < 0 {
		i += len(v.seq)
	}

	if i < 0 || i >= len(v.seq) {
		return Null(), false
	}

	return v.seq[i], true
}

// Get returns the mapping entry for key, matched case-insensitively.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Null(), false
	}

	e, ok := v.m[strings.ToLower(key)]

	return e, ok
}

// Keys returns the sorted keys of a mapping.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}

	return slices.Sorted(maps.Keys(v.m))
}

// Truthy reports the boolean interpretation of v. Null, false, zero, the
// empty string and empty collections are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false

	case KindBoolean:
		return v.b

	case KindInteger:
		return v.i != 0

	case KindFloat:
		return v.f != 0

	case KindString:
		return v.s != ""

	case KindSequence:
		return len(v.seq) > 0

	case KindMapping:
		return len(v.m) > 0

	default:
		return !v.t.IsZero()
	}
}

// Text returns the rendered form of v as it appears in template output.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""

	case KindBoolean:
		return strconv.FormatBool(v.b)

	case KindInteger:
		return strconv.FormatInt(v.i, 10)

	case KindFloat:
		return formatFloat(v.f)

	case KindString:
		return v.s

	case KindDate:
		return v.t.Format(DateLayout)

	case KindTime:
		return v.t.Format(TimeLayout)

	case KindDateTime:
		return v.t.Format(DateTimeLayout)

	case KindSequence:
		parts := make([]string, 0, len(v.seq))
		for _, e := range v.seq {
			parts = append(parts, e.Text())
		}

		return strings.Join(parts, ", ")

	case KindMapping:
		b, err := json.Marshal(v.Native())
		if err != nil {
			return ""
		}

		return string(b)

	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}

	if v.kind == KindNull {
		return "null"
	}

	return v.Text()
}

// Equal reports whether a and b hold the same value. Numbers compare by
// magnitude regardless of integer/float representation.
func Equal(a, b Value) bool {
	if af, ok := a.AsFloat(); ok {
		if bf, ok := b.AsFloat(); ok {
			if a.kind == KindInteger && b.kind == KindInteger {
				return a.i == b.i
			}

			return af == bf
		}
	}

	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true

	case KindBoolean:
		return a.b == b.b

	case KindString:
		return a.s == b.s

	case KindDate, KindTime, KindDateTime:
		return a.t.Equal(b.t)

	case KindSequence:
		return slices.EqualFunc(a.seq, b.seq, Equal)

	case KindMapping:
		return maps.EqualFunc(a.m, b.m, Equal)

	default:
		return false
	}
}

// Native converts v to plain Go values suitable for encoding.
func (v Value) Native() any {
	switch v.kind {
	case KindNull:
		return nil

	case KindBoolean:
		return v.b

	case KindInteger:
		return v.i

	case KindFloat:
		return v.f

	case KindString:
		return v.s

	case KindDate, KindTime, KindDateTime:
		return v.Text()

	case KindSequence:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Native()
		}

		return out

	case KindMapping:
		out := make(map[string]any, len(v.m))
		for k, e := range v.m {
			out[k] = e.Native()
		}

		return out

	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.Native()) }

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) { return v.Native(), nil }

// FromNative converts plain Go values (including values decoded from JSON or
// YAML) into a Value. Unrecognized types are rendered with their default
// string form.
func FromNative(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()

	case Value:
		return t

	case bool:
		return Bool(t)

	case int:
		return Int(int64(t))

	case int8:
		return Int(int64(t))

	case int16:
		return Int(int64(t))

	case int32:
		return Int(int64(t))

	case int64:
		return Int(t)

	case uint:
		return fromUnsigned(uint64(t))

	case uint8:
		return Int(int64(t))

	case uint16:
		return Int(int64(t))

	case uint32:
		return Int(int64(t))

	case uint64:
		return fromUnsigned(t)

	case float32:
		return Float(float64(t))

	case float64:
		return Float(t)

	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}

		f, _ := t.Float64()

		return Float(f)

	case string:
		return String(t)

	case time.Time:
		return DateTime(t)

	case []Value:
		return Sequence(t...)

	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = FromNative(e)
		}

		return Value{kind: KindSequence, seq: items}

	case []string:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = String(e)
		}

		return Value{kind: KindSequence, seq: items}

	case map[string]Value:
		return Mapping(t)

	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[k] = FromNative(e)
		}

		return Mapping(m)

	case map[any]any:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			m[FromNative(k).Text()] = FromNative(e)
		}

		return Mapping(m)

	case interface{ String() string }:
		return String(t.String())

	default:
		b, err := json.Marshal(t)
		if err != nil {
			return Null()
		}

		var decoded any
		if err := json.Unmarshal(b, &decoded); err != nil {
			return Null()
		}

		return FromNative(decoded)
	}
}

func fromUnsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}

	return Int(int64(u))
}

// formatFloat renders f without an exponent and with no superfluous zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// describe names the kind of v for error messages.
func describe(v Value) string {
	switch v.kind {
	case KindString:
		return "string " + strconv.Quote(v.s)

	case KindNull:
		return "null"

	case KindSequence, KindMapping:
		return v.kind.String()

	default:
		return v.kind.String() + " " + v.Text()
	}
}
