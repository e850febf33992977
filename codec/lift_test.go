package codec

import (
	"reflect"
	"testing"

	"github.com/wippyai/wit-codec/errors"
)

func TestLift_Scalars(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		buf  []byte
		want any
	}{
		{"u32", U32, []byte{0x2A, 0, 0, 0}, uint32(42)},
		{"u8", U8, []byte{0xFF}, uint8(255)},
		{"s8", S8, []byte{0xFF}, int8(-1)},
		{"s32", S32, []byte{0xFE, 0xFF, 0xFF, 0xFF}, int32(-2)},
		{"u64", U64, []byte{1, 0, 0, 0, 0, 0, 0, 0}, uint64(1)},
		{"bool", Bool, []byte{1}, true},
		{"char", Char, []byte{0x41, 0, 0, 0}, 'A'},
		{"f32", F32, []byte{0, 0, 0x80, 0x3F}, float32(1.0)},
		{"f64", F64, []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}, float64(1.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, consumed, err := Lift(tt.buf, tt.typ, Dyn{})
			if err != nil {
				t.Fatalf("Lift() error: %v", err)
			}
			if consumed != tt.typ.Size() {
				t.Errorf("consumed = %d, want %d", consumed, tt.typ.Size())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lift() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLift_Validation(t *testing.T) {
	variant3 := NewVariant("v", []Case{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	tests := []struct {
		name string
		typ  *Type
		buf  []byte
		kind errors.Kind
	}{
		{"bool 2", Bool, []byte{2}, errors.KindInvalidBool},
		{"bool 255", Bool, []byte{0xFF}, errors.KindInvalidBool},
		{"surrogate char", Char, []byte{0x00, 0xD8, 0, 0}, errors.KindInvalidChar},
		{"char past max", Char, []byte{0, 0, 0x11, 0}, errors.KindInvalidChar},
		{"variant discriminant 5 of 3", variant3, []byte{5}, errors.KindInvalidDiscriminant},
		{"option discriminant 2", NewOption(U8), []byte{2, 0}, errors.KindInvalidDiscriminant},
		{"result discriminant 9", NewResult(nil, nil), []byte{9}, errors.KindInvalidDiscriminant},
		{"enum out of range", NewEnum("e", "x"), []byte{1}, errors.KindInvalidDiscriminant},
		{"short buffer", U32, []byte{1, 2}, errors.KindBufferTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Lift(tt.buf, tt.typ, Dyn{})
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("Lift() error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestLift_StringFromMemory(t *testing.T) {
	mem := LinearMemoryOf([]byte("hello"))
	buf := []byte{0, 0, 0, 0, 5, 0, 0, 0}
	got, consumed, err := LiftWith(buf, String, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LiftWith() error: %v", err)
	}
	if consumed != 8 || got != "hello" {
		t.Errorf("LiftWith() = %v, %d", got, consumed)
	}
}

func TestLift_StringPointerOutOfBounds(t *testing.T) {
	mem := LinearMemoryOf(make([]byte, 64))
	buf := []byte{100, 0, 0, 0, 8, 0, 0, 0} // ptr=100, len=8, mem is 64
	_, _, err := LiftWith(buf, String, Dyn{}, mem)
	if !errors.IsKind(err, errors.KindInvalidMemoryPointer) {
		t.Errorf("LiftWith() error = %v, want invalid pointer", err)
	}
}

func TestLift_InvalidUTF8(t *testing.T) {
	mem := LinearMemoryOf([]byte{0xFF, 0xFE})
	buf := []byte{0, 0, 0, 0, 2, 0, 0, 0}
	_, _, err := LiftWith(buf, String, Dyn{}, mem)
	if !errors.IsKind(err, errors.KindInvalidUTF8) {
		t.Errorf("LiftWith() error = %v, want invalid UTF-8", err)
	}
}

func TestLift_EmptyStringIgnoresMemory(t *testing.T) {
	// len=0 never dereferences the pointer, even a garbage one.
	buf := []byte{0xEF, 0xBE, 0xAD, 0xDE, 0, 0, 0, 0}
	got, _, err := LiftWith(buf, String, Dyn{}, NewLinearMemory())
	if err != nil {
		t.Fatalf("LiftWith() error: %v", err)
	}
	if got != "" {
		t.Errorf("LiftWith() = %q, want empty", got)
	}
}

func TestLift_ListOfU8AsBytes(t *testing.T) {
	mem := LinearMemoryOf([]byte{9, 8, 7})
	buf := []byte{0, 0, 0, 0, 3, 0, 0, 0}
	got, _, err := LiftWith(buf, NewList(U8), Dyn{}, mem)
	if err != nil {
		t.Fatalf("LiftWith() error: %v", err)
	}
	b, ok := got.([]byte)
	if !ok || !reflect.DeepEqual(b, []byte{9, 8, 7}) {
		t.Errorf("LiftWith() = %v (%T)", got, got)
	}
}

func TestLift_ListCountOverflow(t *testing.T) {
	mem := LinearMemoryOf(make([]byte, 8))
	buf := []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF} // count ~4B elements
	_, _, err := LiftWith(buf, NewList(U32), Dyn{}, mem)
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("LiftWith() error = %v, want overflow", err)
	}
}

func TestLift_Record(t *testing.T) {
	rec := NewRecord("r", []Field{
		{Name: "a", Type: U8},
		{Name: "b", Type: U32},
	})
	got, consumed, err := Lift([]byte{1, 0, 0, 0, 2, 0, 0, 0}, rec, Dyn{})
	if err != nil {
		t.Fatalf("Lift() error: %v", err)
	}
	if consumed != 8 {
		t.Errorf("consumed = %d, want 8", consumed)
	}
	want := map[string]any{"a": uint8(1), "b": uint32(2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lift() = %v, want %v", got, want)
	}
}

func TestLift_OptionNone(t *testing.T) {
	got, _, err := Lift(make([]byte, 8), NewOption(U32), Dyn{})
	if err != nil {
		t.Fatalf("Lift() error: %v", err)
	}
	if got != nil {
		t.Errorf("Lift() = %v, want nil", got)
	}
}

func TestLift_Flags(t *testing.T) {
	fl := NewFlags("perm", "read", "write", "exec")
	got, _, err := Lift([]byte{0b101}, fl, Dyn{})
	if err != nil {
		t.Fatalf("Lift() error: %v", err)
	}
	want := map[string]bool{"read": true, "write": false, "exec": true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lift() = %v, want %v", got, want)
	}
}

func TestLift_NeedsMemoryGuard(t *testing.T) {
	_, _, err := Lift(make([]byte, 8), String, Dyn{})
	if !errors.IsKind(err, errors.KindLinearMemoryRequired) {
		t.Errorf("Lift() error = %v, want linear memory required", err)
	}
}
