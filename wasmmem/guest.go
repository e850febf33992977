// Package wasmmem bridges a running component instance's memory to the
// codec. A Guest wraps a wazero api.Memory plus the guest's cabi_realloc
// export, so LowerWith and LiftWith can target real guest memory during
// host calls instead of a private arena.
package wasmmem

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	witcodec "github.com/wippyai/wit-codec"
	"github.com/wippyai/wit-codec/errors"
)

// ReallocExport is the canonical name of the guest allocator export.
const ReallocExport = "cabi_realloc"

// Guest adapts guest memory and allocator to the codec's Memory interface.
// Allocations are made by the guest itself through cabi_realloc, so the
// guest's own allocator tracks them.
type Guest struct {
	ctx     context.Context
	mem     api.Memory
	realloc api.Function
}

var _ witcodec.Memory = (*Guest)(nil)

// NewGuest wraps an api.Memory and realloc function. Both are required.
func NewGuest(ctx context.Context, mem api.Memory, realloc api.Function) (*Guest, error) {
	if mem == nil {
		return nil, fmt.Errorf("wasmmem: nil memory")
	}
	if realloc == nil {
		return nil, fmt.Errorf("wasmmem: nil realloc function")
	}
	return &Guest{ctx: ctx, mem: mem, realloc: realloc}, nil
}

// FromModule wraps a module's exported memory and cabi_realloc.
func FromModule(ctx context.Context, mod api.Module) (*Guest, error) {
	if mod == nil {
		return nil, fmt.Errorf("wasmmem: nil module")
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, fmt.Errorf("wasmmem: module %q exports no memory", mod.Name())
	}
	realloc := mod.ExportedFunction(ReallocExport)
	if realloc == nil {
		return nil, fmt.Errorf("wasmmem: module %q exports no %s", mod.Name(), ReallocExport)
	}
	return NewGuest(ctx, mem, realloc)
}

// Alloc calls cabi_realloc(0, 0, align, size) and returns the new pointer.
func (g *Guest) Alloc(size, align uint32) (uint32, error) {
	results, err := g.realloc.Call(g.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("wasmmem: %s failed: %w", ReallocExport, err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("wasmmem: %s returned no result", ReallocExport)
	}
	ptr := uint32(results[0])
	Logger().Debug("guest alloc",
		zap.Uint32("size", size),
		zap.Uint32("align", align),
		zap.Uint32("ptr", ptr))
	return ptr, nil
}

// Read reads bytes from guest memory.
func (g *Guest) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := g.mem.Read(offset, length)
	if !ok {
		return nil, errors.InvalidMemoryPointer(errors.PhaseLift, nil, offset, length, g.mem.Size())
	}
	return data, nil
}

// Write writes bytes to guest memory.
func (g *Guest) Write(offset uint32, data []byte) error {
	if !g.mem.Write(offset, data) {
		return errors.InvalidMemoryPointer(errors.PhaseLower, nil, offset, uint32(len(data)), g.mem.Size())
	}
	return nil
}
