package lang

import (
	"encoding/json"
	"testing"
	"time"
)

func TestValue_Text(t *testing.T) {
	// Variables keep the sum from being folded exactly at compile time.
	tenth, fifth := 0.1, 0.2

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"bool", Bool(true), "true"},
		{"int", Int(-42), "-42"},
		{"float", Float(tenth + fifth), "0.30000000000000004"},
		{"whole float", Float(3), "3"},
		{"large float", Float(1e21), "1000000000000000000000"},
		{"string", String("hi"), "hi"},
		{"date", Date(2024, time.February, 29), "2024-02-29"},
		{"time", TimeOfDay(8, 5, 0, 0), "08:05:00"},
		{"sequence", Sequence(Int(1), String("a")), "1, a"},
		{"mapping", Mapping(map[string]Value{"K": Int(1)}), `{"k":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Int(0), false},
		{Float(0), false},
		{String(""), false},
		{Sequence(), false},
		{Mapping(nil), false},
		{Int(2), true},
		{String("0"), true},
		{Sequence(Null()), true},
		{Date(2024, time.January, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Float(1), true},
		{Int(1), Int(2), false},
		{String("1"), Int(1), false},
		{Null(), Null(), true},
		{Sequence(Int(1)), Sequence(Float(1)), true},
		{Mapping(map[string]Value{"a": Int(1)}), Mapping(map[string]Value{"A": Int(1)}), true},
		{Date(2024, 1, 1), Date(2024, 1, 1), true},
		{Date(2024, 1, 1), DateTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%s, %s): expected %v, got %v", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestFromNative(t *testing.T) {
	var decoded any
	if err := json.Unmarshal([]byte(`{"A": [1, 2.5, "x", true, null], "b": {"c": 1}}`), &decoded); err != nil {
		t.Fatal(err)
	}

	v := FromNative(decoded)
	if v.Kind() != KindMapping {
		t.Fatalf("expected mapping, got %v", v.Kind())
	}

	seq, _ := v.Get("a")
	if seq.Len() != 5 {
		t.Fatalf("expected 5 items, got %d", seq.Len())
	}

	kinds := []Kind{KindFloat, KindFloat, KindString, KindBoolean, KindNull}
	for i, want := range kinds {
		if e, _ := seq.Index(i); e.Kind() != want {
			t.Errorf("item %d: expected %v, got %v", i, want, e.Kind())
		}
	}

	tests := []struct {
		in   any
		want Kind
	}{
		{int32(3), KindInteger},
		{uint64(1 << 63), KindFloat},
		{uint8(7), KindInteger},
		{json.Number("12"), KindInteger},
		{json.Number("1.5"), KindFloat},
		{time.Now(), KindDateTime},
		{[]string{"a"}, KindSequence},
		{map[any]any{1: "x"}, KindMapping},
		{time.Second, KindString},
		{struct{ X int }{1}, KindMapping},
	}

	for _, tt := range tests {
		if got := FromNative(tt.in).Kind(); got != tt.want {
			t.Errorf("FromNative(%#v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestValue_Native(t *testing.T) {
	v := Sequence(Int(1), Mapping(map[string]Value{"x": String("y")}))

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	if want := `[1,{"x":"y"}]`; string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		in   Value
		kind Kind
		ok   bool
	}{
		{String(" 12 "), KindInteger, true},
		{String("1.5"), KindFloat, true},
		{String("1e400"), KindNull, false},
		{String("NaN"), KindNull, false},
		{String("x"), KindNull, false},
		{Bool(true), KindNull, false},
	}

	for _, tt := range tests {
		got, ok := Numeric(tt.in)
		if ok != tt.ok || got.Kind() != tt.kind {
			t.Errorf("Numeric(%s): expected %v %v, got %v %v", tt.in, tt.kind, tt.ok, got.Kind(), ok)
		}
	}

	if _, ok := Integral(Float(2.5)); ok {
		t.Error("expected 2.5 not to be integral")
	}

	if i, ok := Integral(String("4.0")); !ok || i != 4 {
		t.Errorf("expected 4, got %d %v", i, ok)
	}
}
