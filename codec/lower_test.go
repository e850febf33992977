package codec

import (
	"bytes"
	"testing"

	"github.com/wippyai/wit-codec/errors"
)

func TestLower_ScalarGolden(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		val  any
		want []byte
	}{
		{"u32 42", U32, uint32(42), []byte{0x2A, 0x00, 0x00, 0x00}},
		{"u32 deadbeef", U32, uint32(0xDEADBEEF), []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{"u8", U8, uint8(0xFF), []byte{0xFF}},
		{"u16", U16, uint16(0x1234), []byte{0x34, 0x12}},
		{"u64", U64, uint64(1), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"s8 negative", S8, int8(-1), []byte{0xFF}},
		{"s32 negative", S32, int32(-2), []byte{0xFE, 0xFF, 0xFF, 0xFF}},
		{"bool true", Bool, true, []byte{1}},
		{"bool false", Bool, false, []byte{0}},
		{"char A", Char, 'A', []byte{0x41, 0, 0, 0}},
		{"f32 1.0", F32, float32(1.0), []byte{0, 0, 0x80, 0x3F}},
		{"f64 1.0", F64, float64(1.0), []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}},
		{"json number for u32", U32, float64(42), []byte{0x2A, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lower(tt.val, tt.typ, Dyn{})
			if err != nil {
				t.Fatalf("Lower() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lower() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestLower_RecordGolden(t *testing.T) {
	rec := NewRecord("r", []Field{
		{Name: "a", Type: U8},
		{Name: "b", Type: U32},
	})
	got, err := Lower(map[string]any{"a": uint8(1), "b": uint32(2)}, rec, Dyn{})
	if err != nil {
		t.Fatalf("Lower() error: %v", err)
	}
	// a at 0, three bytes padding, b at 4.
	want := []byte{1, 0, 0, 0, 2, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Lower() = % X, want % X", got, want)
	}
}

func TestLower_OptionGolden(t *testing.T) {
	opt := NewOption(U32)
	tests := []struct {
		name string
		val  any
		want []byte
	}{
		{"none", nil, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"some 42", uint32(42), []byte{1, 0, 0, 0, 42, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lower(tt.val, opt, Dyn{})
			if err != nil {
				t.Fatalf("Lower() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lower() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestLower_StringIndirection(t *testing.T) {
	mem := NewLinearMemory()
	buf, err := LowerWith("hello", String, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	want := []byte{0, 0, 0, 0, 5, 0, 0, 0} // ptr=0, len=5
	if !bytes.Equal(buf, want) {
		t.Errorf("buffer = % X, want % X", buf, want)
	}
	if string(mem.Bytes()) != "hello" {
		t.Errorf("memory = %q, want %q", mem.Bytes(), "hello")
	}
}

func TestLower_EmptyString(t *testing.T) {
	mem := NewLinearMemory()
	buf, err := LowerWith("", String, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if !bytes.Equal(buf, make([]byte, 8)) {
		t.Errorf("buffer = % X, want zeros", buf)
	}
	if mem.Size() != 0 {
		t.Errorf("memory grew to %d for an empty string", mem.Size())
	}
}

func TestLower_ListGolden(t *testing.T) {
	lst := NewList(U16)
	mem := NewLinearMemory()
	buf, err := LowerWith([]any{uint16(1), uint16(2), uint16(3)}, lst, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0, 3, 0, 0, 0}) {
		t.Errorf("buffer = % X", buf)
	}
	if !bytes.Equal(mem.Bytes(), []byte{1, 0, 2, 0, 3, 0}) {
		t.Errorf("memory = % X", mem.Bytes())
	}
}

func TestLower_EmptyList(t *testing.T) {
	mem := NewLinearMemory()
	buf, err := LowerWith([]any{}, NewList(U32), Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if !bytes.Equal(buf, make([]byte, 8)) {
		t.Errorf("buffer = % X, want zeros", buf)
	}
	if mem.Size() != 0 {
		t.Errorf("memory grew to %d for an empty list", mem.Size())
	}
}

func TestLower_ListOfStrings(t *testing.T) {
	mem := NewLinearMemory()
	buf, err := LowerWith([]any{"ab", "cde"}, NewList(String), Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	// Element region first (2 * 8 bytes of ptr+len), string bytes appended
	// after it.
	if !bytes.Equal(buf, []byte{0, 0, 0, 0, 2, 0, 0, 0}) {
		t.Errorf("buffer = % X", buf)
	}
	data := mem.Bytes()
	if string(data[16:18]) != "ab" || string(data[18:21]) != "cde" {
		t.Errorf("memory = % X", data)
	}
}

func TestLower_VariantGolden(t *testing.T) {
	v := NewVariant("shape", []Case{
		{Name: "point"},
		{Name: "circle", Type: U32},
	})
	tests := []struct {
		name string
		val  any
		want []byte
	}{
		{"payload-less by map", map[string]any{"point": nil}, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"payload-less by name", "point", []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"with payload", map[string]any{"circle": uint32(9)}, []byte{1, 0, 0, 0, 9, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lower(tt.val, v, Dyn{})
			if err != nil {
				t.Fatalf("Lower() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lower() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestLower_EnumGolden(t *testing.T) {
	e := NewEnum("color", "red", "green", "blue")
	got, err := Lower("blue", e, Dyn{})
	if err != nil {
		t.Fatalf("Lower() error: %v", err)
	}
	if !bytes.Equal(got, []byte{2}) {
		t.Errorf("Lower() = % X, want 02", got)
	}
}

func TestLower_ResultGolden(t *testing.T) {
	r := NewResult(U32, String)
	mem := NewLinearMemory()
	buf, err := LowerWith(map[string]any{"ok": uint32(7)}, r, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0, 7, 0, 0, 0}) {
		t.Errorf("ok = % X", buf)
	}

	buf, err = LowerWith(map[string]any{"err": "boom"}, r, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if buf[0] != 1 {
		t.Errorf("err discriminant = %d, want 1", buf[0])
	}
}

func TestLower_Flags(t *testing.T) {
	tests := []struct {
		name   string
		typ    *Type
		val    any
		want   []byte
	}{
		{
			name: "single byte",
			typ:  NewFlags("perm", "read", "write", "exec"),
			val:  map[string]bool{"read": true, "exec": true},
			want: []byte{0b101},
		},
		{
			name: "unknown flag ignored",
			typ:  NewFlags("perm", "read", "write"),
			val:  map[string]bool{"read": true, "sticky": true},
			want: []byte{0b01},
		},
		{
			name: "two bytes",
			typ:  NewFlags("f", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
			val:  map[string]bool{"a": true, "j": true},
			want: []byte{0x01, 0x02},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lower(tt.val, tt.typ, Dyn{})
			if err != nil {
				t.Fatalf("Lower() error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lower() = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestLower_MultiWordFlags(t *testing.T) {
	names := make([]string, 40)
	for i := range names {
		names[i] = "f" + string(rune('0'+i/10)) + string(rune('0'+i%10))
	}
	fl := NewFlags("many", names...)
	if fl.Size() != 8 {
		t.Fatalf("Size() = %d, want 8", fl.Size())
	}
	got, err := Lower(map[string]bool{"f00": true, "f33": true, "f39": true}, fl, Dyn{})
	if err != nil {
		t.Fatalf("Lower() error: %v", err)
	}
	// Bit 0 in word 0; bits 1 and 7 in word 1.
	want := []byte{0x01, 0, 0, 0, 0x82, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Lower() = % X, want % X", got, want)
	}
}

func TestLower_Errors(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		val  any
		kind errors.Kind
	}{
		{"u8 overflow", U8, 300, errors.KindOverflow},
		{"s8 overflow", S8, -200, errors.KindOverflow},
		{"type mismatch", U32, "nope", errors.KindTypeMismatch},
		{"bool mismatch", Bool, 1, errors.KindTypeMismatch},
		{"surrogate char", Char, rune(0xD800), errors.KindInvalidChar},
		{"unknown enum case", NewEnum("c", "a", "b"), "z", errors.KindInvalidDiscriminant},
		{"missing field", NewRecord("r", []Field{{Name: "x", Type: U8}}), map[string]any{}, errors.KindFieldMissing},
		{"string needs memory", String, "hi", errors.KindLinearMemoryRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lower(tt.val, tt.typ, Dyn{})
			if !errors.IsKind(err, tt.kind) {
				t.Errorf("Lower() error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestLower_InvalidUTF8(t *testing.T) {
	mem := NewLinearMemory()
	_, err := LowerWith(string([]byte{0xFF, 0xFE}), String, Dyn{}, mem)
	if !errors.IsKind(err, errors.KindInvalidUTF8) {
		t.Errorf("LowerWith() error = %v, want invalid UTF-8", err)
	}
}

func TestLower_FixedList(t *testing.T) {
	fl := NewFixedList(U8, 3)
	mem := NewLinearMemory()
	buf, err := LowerWith([]byte{9, 8, 7}, fl, Dyn{}, mem)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Errorf("buffer = % X, want bare pointer", buf)
	}
	if !bytes.Equal(mem.Bytes(), []byte{9, 8, 7}) {
		t.Errorf("memory = % X", mem.Bytes())
	}

	if _, err := LowerWith([]byte{1}, fl, Dyn{}, mem); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("length mismatch error = %v", err)
	}
}

func TestLowerEncoded(t *testing.T) {
	enc, err := LowerEncoded("hi", String, Dyn{})
	if err != nil {
		t.Fatalf("LowerEncoded() error: %v", err)
	}
	if len(enc.Buffer) != 8 || string(enc.Memory) != "hi" {
		t.Errorf("enc = %+v", enc)
	}

	enc, err = LowerEncoded(uint32(1), U32, Dyn{})
	if err != nil {
		t.Fatalf("LowerEncoded() error: %v", err)
	}
	if enc.HasMemory() {
		t.Error("scalar encode should not carry memory")
	}
}
