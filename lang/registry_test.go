package lang

import (
	"errors"
	"reflect"
	"testing"
)

func one(Env, Value) (Value, error) { return Int(1), nil }

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fns  []Function
		want error
	}{
		{"empty name", []Function{Direct("", Arity1(one))}, ErrInvalidFunction},
		{"no variants", []Function{Direct("f")}, ErrInvalidFunction},
		{"nil vargs", []Function{Vargs("f", nil)}, ErrInvalidFunction},
		{"duplicate arity", []Function{Direct("f", Arity1(one), Arity1(one))}, ErrInvalidFunction},
		{"negative arity", []Function{Direct("f", ArityN(-1, func(Env, []Value) (Value, error) {
			return Null(), nil
		}))}, ErrInvalidFunction},
		{"duplicate name", []Function{Direct("f", Arity1(one)), Direct("F", Arity1(one))}, ErrDuplicateFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.fns...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistry_Extend(t *testing.T) {
	base, err := NewRegistry(Direct("a", Arity1(one)))
	if err != nil {
		t.Fatal(err)
	}

	ext, err := base.Extend(Direct("b", Arity1(one)))
	if err != nil {
		t.Fatal(err)
	}

	if base.Len() != 1 {
		t.Errorf("expected base to keep 1 function, got %d", base.Len())
	}

	if !reflect.DeepEqual(ext.Names(), []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", ext.Names())
	}

	if _, err := ext.Extend(Direct("A", Arity1(one))); !errors.Is(err, ErrDuplicateFunction) {
		t.Errorf("expected ErrDuplicateFunction, got %v", err)
	}
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry

	if r.Len() != 0 || r.Names() != nil || len(r.Functions()) != 0 {
		t.Error("expected nil registry to be empty")
	}

	if _, ok := r.Lookup("x"); ok {
		t.Error("expected lookup on nil registry to fail")
	}
}

func TestRegistry_LookupIgnoresCase(t *testing.T) {
	r, err := NewRegistry(Direct("Upper", Arity1(one)))
	if err != nil {
		t.Fatal(err)
	}

	f, ok := r.Lookup("UPPER")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}

	if f.Name() != "upper" {
		t.Errorf("expected %q, got %q", "upper", f.Name())
	}
}

func TestFunction_Metadata(t *testing.T) {
	two := func(Env, Value, Value) (Value, error) { return Null(), nil }

	f := Direct("round", Arity2(two), Arity1(one)).
		WithDoc("Rounds a number.", Example{Expression: "round(1.5)", Result: "2"})

	if f.Dispatch() != DispatchDirect || f.Dispatch().String() != "direct" {
		t.Errorf("expected direct dispatch, got %v", f.Dispatch())
	}

	if !reflect.DeepEqual(f.Arities(), []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", f.Arities())
	}

	if want := "round(a) | round(a, b)"; f.Signature() != want {
		t.Errorf("expected %q, got %q", want, f.Signature())
	}

	if f.Doc() != "Rounds a number." || len(f.Examples()) != 1 {
		t.Errorf("expected doc and one example, got %q %v", f.Doc(), f.Examples())
	}

	v := Vargs("sum", func(Env, []Value) (Value, error) { return Null(), nil })
	if v.Signature() != "sum(...)" || v.Arities() != nil {
		t.Errorf("expected variadic signature, got %q %v", v.Signature(), v.Arities())
	}
}

func TestFunction_Call(t *testing.T) {
	f := Direct("f", Arity1(one))

	if v, err := f.Call(Env{}, []Value{Null()}); err != nil || !Equal(v, Int(1)) {
		t.Errorf("expected 1, got %v (%v)", v, err)
	}

	if _, err := f.Call(Env{}, nil); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("expected ErrArityMismatch, got %v", err)
	}
}
