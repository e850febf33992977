package value

import (
	"math"
	"testing"
)

func TestConstructorsAndAccessors(t *testing.T) {
	if v := Bool(true); v.Kind() != KindBool || !v.AsBool() {
		t.Errorf("Bool(true) = %s", v)
	}
	if v := U32(42); v.Uint() != 42 {
		t.Errorf("U32(42).Uint() = %d", v.Uint())
	}
	if v := S16(-3); v.Int() != -3 {
		t.Errorf("S16(-3).Int() = %d", v.Int())
	}
	if v := Char('é'); v.Rune() != 'é' {
		t.Errorf("Char.Rune() = %q", v.Rune())
	}
	if v := String("hi"); v.Str() != "hi" {
		t.Errorf("String.Str() = %q", v.Str())
	}

	rec := Record(
		Field{Name: "x", Value: U8(1)},
		Field{Name: "y", Value: U8(2)},
	)
	if rec.Len() != 2 || rec.FieldName(1) != "y" {
		t.Errorf("record shape: %s", rec)
	}
	if fv, ok := rec.FieldByName("y"); !ok || fv.Uint() != 2 {
		t.Errorf("FieldByName(y) = %s, %v", fv, ok)
	}
	if _, ok := rec.FieldByName("z"); ok {
		t.Error("FieldByName(z) should miss")
	}

	if v := Some(U8(1)); !v.IsSome() || v.Payload().Uint() != 1 {
		t.Errorf("Some = %s", v)
	}
	if v := None(); v.IsSome() || v.Payload() != nil {
		t.Errorf("None = %s", v)
	}

	ok := U8(1)
	if v := Ok(&ok); v.IsErr() || v.Payload() == nil {
		t.Errorf("Ok = %s", v)
	}
	if v := Err(nil); !v.IsErr() || v.Payload() != nil {
		t.Errorf("Err = %s", v)
	}
}

func TestEqual(t *testing.T) {
	payload := U32(1)
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same scalar", U32(1), U32(1), true},
		{"different value", U32(1), U32(2), false},
		{"different kind", U32(1), S32(1), false},
		{"nan equals nan", F64(math.NaN()), F64(math.NaN()), true},
		{"strings", String("a"), String("a"), true},
		{"lists", List(U8(1), U8(2)), List(U8(1), U8(2)), true},
		{"list length", List(U8(1)), List(U8(1), U8(2)), false},
		{"none vs some", None(), Some(U8(0)), false},
		{"variant same", Variant("a", &payload), Variant("a", &payload), true},
		{"variant case", Variant("a", nil), Variant("b", nil), false},
		{"flags same", Flags("a", "b"), Flags("a", "b"), true},
		{"flags reordered", Flags("b", "a"), Flags("a", "b"), true},
		{"flags differ", Flags("a"), Flags("b"), false},
		{"flags subset", Flags("a"), Flags("a", "b"), false},
		{"flags duplicate", Flags("a", "a"), Flags("a", "b"), false},
		{
			"records",
			Record(Field{Name: "x", Value: U8(1)}),
			Record(Field{Name: "x", Value: U8(1)}),
			true,
		},
		{
			"record field name",
			Record(Field{Name: "x", Value: U8(1)}),
			Record(Field{Name: "y", Value: U8(1)}),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	payload := U32(9)
	tests := []struct {
		v    Value
		want string
	}{
		{Bool(false), "false"},
		{U32(7), "7"},
		{S8(-1), "-1"},
		{String("hi"), `"hi"`},
		{None(), "none"},
		{Some(U8(3)), "some(3)"},
		{Ok(nil), "ok"},
		{Err(&payload), "err(9)"},
		{Variant("circle", &payload), "circle(9)"},
		{Enum("red"), "red"},
		{List(U8(1), U8(2)), "[1, 2]"},
		{Record(Field{Name: "x", Value: U8(1)}), "{x: 1}"},
		{Flags("read", "exec"), "{read, exec}"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
