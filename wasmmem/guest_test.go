package wasmmem

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wit-codec/codec"
	"github.com/wippyai/wit-codec/errors"
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as
// "memory" and a bump allocator exported as "cabi_realloc". The allocator
// ignores the old pointer and hands out offsets from a global cursor
// starting at 16, aligned up with (cur + align - 1) & ^(align - 1).
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	// type section: (i32, i32, i32, i32) -> i32
	0x01, 0x09, 0x01, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,
	// function section: 1 function of type 0
	0x03, 0x02, 0x01, 0x00,
	// memory section: 1 page, no max
	0x05, 0x03, 0x01, 0x00, 0x01,
	// global section: mut i32 = 16
	0x06, 0x06, 0x01, 0x7f, 0x01, 0x41, 0x10, 0x0b,
	// export section: "memory" mem 0, "cabi_realloc" func 0
	0x07, 0x19, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x0c, 0x63, 0x61, 0x62, 0x69, 0x5f, 0x72, 0x65, 0x61, 0x6c, 0x6c, 0x6f, 0x63, 0x00, 0x00,
	// code section
	0x0a, 0x22, 0x01, 0x20, 0x01, 0x01, 0x7f, // 1 body, 32 bytes, 1 local i32
	0x23, 0x00, // global.get 0
	0x20, 0x03, // local.get 3 (align)
	0x6a,       // i32.add
	0x41, 0x01, // i32.const 1
	0x6b,       // i32.sub
	0x20, 0x03, // local.get 3
	0x41, 0x01, // i32.const 1
	0x6b,       // i32.sub
	0x41, 0x7f, // i32.const -1
	0x73,       // i32.xor
	0x71,       // i32.and
	0x21, 0x04, // local.set 4 (aligned cursor)
	0x20, 0x04, // local.get 4
	0x20, 0x02, // local.get 2 (size)
	0x6a,       // i32.add
	0x24, 0x00, // global.set 0
	0x20, 0x04, // local.get 4
	0x0b, // end
}

func newTestGuest(t *testing.T) (*Guest, func()) {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, memoryWASM)
	if err != nil {
		rt.Close(ctx)
		t.Fatalf("failed to compile: %v", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		rt.Close(ctx)
		t.Fatalf("failed to instantiate: %v", err)
	}
	g, err := FromModule(ctx, mod)
	if err != nil {
		rt.Close(ctx)
		t.Fatalf("FromModule() error: %v", err)
	}
	return g, func() { rt.Close(ctx) }
}

func TestGuest_ReadWrite(t *testing.T) {
	g, done := newTestGuest(t)
	defer done()

	data := []byte{1, 2, 3, 4}
	if err := g.Write(0, data); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	read, err := g.Read(0, 4)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !bytes.Equal(read, data) {
		t.Errorf("Read() = % X, want % X", read, data)
	}
}

func TestGuest_ReadOutOfBounds(t *testing.T) {
	g, done := newTestGuest(t)
	defer done()

	if _, err := g.Read(65536, 1); !errors.IsKind(err, errors.KindInvalidMemoryPointer) {
		t.Errorf("Read() error = %v, want invalid pointer", err)
	}
}

func TestGuest_WriteOutOfBounds(t *testing.T) {
	g, done := newTestGuest(t)
	defer done()

	if err := g.Write(65536, []byte{1}); !errors.IsKind(err, errors.KindInvalidMemoryPointer) {
		t.Errorf("Write() error = %v, want invalid pointer", err)
	}
}

func TestGuest_Alloc(t *testing.T) {
	g, done := newTestGuest(t)
	defer done()

	p1, err := g.Alloc(3, 1)
	if err != nil {
		t.Fatalf("Alloc() error: %v", err)
	}
	if p1 != 16 {
		t.Errorf("first Alloc = %d, want 16", p1)
	}
	p2, err := g.Alloc(4, 4)
	if err != nil {
		t.Fatalf("Alloc() error: %v", err)
	}
	if p2 != 20 {
		t.Errorf("second Alloc = %d, want 20", p2)
	}
	if err := g.Write(p2, []byte{9, 9, 9, 9}); err != nil {
		t.Errorf("Write() to allocation error: %v", err)
	}
}

func TestGuest_CodecRoundTrip(t *testing.T) {
	g, done := newTestGuest(t)
	defer done()

	buf, err := codec.LowerWith("hello guest", codec.String, codec.Dyn{}, g)
	if err != nil {
		t.Fatalf("LowerWith() error: %v", err)
	}
	got, _, err := codec.LiftWith(buf, codec.String, codec.Dyn{}, g)
	if err != nil {
		t.Fatalf("LiftWith() error: %v", err)
	}
	if got != "hello guest" {
		t.Errorf("round trip = %q", got)
	}
}

func TestNewGuest_NilArgs(t *testing.T) {
	if _, err := NewGuest(context.Background(), nil, nil); err == nil {
		t.Error("NewGuest(nil, nil) should fail")
	}
}

func TestFromModule_Nil(t *testing.T) {
	if _, err := FromModule(context.Background(), nil); err == nil {
		t.Error("FromModule(nil) should fail")
	}
}
