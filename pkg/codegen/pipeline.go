package codegen

import (
	"fmt"

	"github.com/blendsdk/blend65-sub005/pkg/asmwriter"
	"github.com/blendsdk/blend65-sub005/pkg/il"
	"github.com/blendsdk/blend65-sub005/pkg/target"
)

// Stats summarizes one Generate invocation's output (§6.2).
type Stats struct {
	CodeSize      int
	DataSize      int
	ZeroPageUsed  int
	FunctionCount int
	GlobalCount   int
	TotalSize     int
}

// Result is everything Generate produces for one module (§6.2).
type Result struct {
	Assembly   string
	Binary     []byte
	SymbolFile string
	SourceMap  []SourceMapEntry
	Stats      Stats
	Warnings   []string
}

// Generate lowers m into assembly (and optionally a PRG binary) per the
// ten-step pipeline of §4.11. It allocates a fresh Context, so two calls on
// the same module never share state.
func Generate(m *il.Module, opts Options, invoker AssemblerInvoker) (*Result, error) {
	desc, err := target.Lookup(opts.Target)
	if err != nil {
		return nil, &ConfigError{Message: err.Error()}
	}
	opts = opts.Normalize(desc)
	if err := opts.Validate(desc); err != nil {
		return nil, err
	}

	c := newContext(m, opts, desc)
	c.Globals = NewGlobalAllocator(desc.ZeroPageLo, desc.ZeroPageHi, opts.LoadAddress)

	if !desc.Implemented {
		c.warn("target %q is accepted but not yet implemented by code generation", desc.ID)
	}

	c.Writer.Comment(fmt.Sprintf("%s -- target %s", m.SourceName, desc.Name))
	c.Writer.Org(opts.LoadAddress)
	c.Writer.Divider("Configuration")
	c.Writer.Comment(fmt.Sprintf("target: %s", desc.ID))
	c.Writer.Blank()

	if opts.BasicStub && opts.LoadAddress == desc.BasicStart {
		stub, err := BuildBasicStub(opts.LoadAddress, opts.SysLine, int(desc.CodeStart))
		if err != nil {
			return nil, err
		}
		c.Writer.Divider("BASIC stub")
		c.Writer.Byte(stub...)
		c.Writer.Org(desc.CodeStart)
		c.Blank()
		c.pc = desc.CodeStart
	} else {
		c.pc = opts.LoadAddress
	}
	c.Globals = NewGlobalAllocator(desc.ZeroPageLo, desc.ZeroPageHi, c.pc)

	c.emitGlobals()
	c.emitEntryPoint(m)

	for _, fn := range m.Functions {
		c.emitFunction(fn)
	}

	c.emitFooter(m)

	stats := Stats{
		CodeSize:      c.CodeSize,
		DataSize:      c.Globals.DataSize(),
		ZeroPageUsed:  c.Globals.ZeroPageBytesUsed(),
		FunctionCount: len(m.Functions),
		GlobalCount:   len(m.Globals),
	}
	stats.TotalSize = stats.CodeSize + stats.DataSize

	c.Warnings = append(c.Warnings, c.Globals.Warnings()...)

	result := &Result{
		Assembly: (&asmwriter.ACMEEmitter{}).Emit(c.Writer),
		Stats:    stats,
		Warnings: c.Warnings,
	}

	switch opts.Format {
	case FormatAsm:
	case FormatPRG, FormatBoth:
		if invoker == nil {
			c.warn("no assembler invoker configured, .prg omitted")
		} else {
			bin, err := invoker.Assemble(result.Assembly)
			if err != nil {
				c.warn("external assembler unavailable: %v", err)
			} else {
				result.Binary = bin
			}
		}
	case FormatCRT:
		c.warn("crt output format is not implemented")
	}
	result.Warnings = c.Warnings

	if opts.Debug == DebugVICE || opts.Debug == DebugBoth {
		result.SymbolFile = c.Labels.ExportVICE()
	}
	if opts.SourceMap {
		result.SourceMap = c.SrcMap.Entries()
	}

	return result, nil
}

// Blank is a tiny convenience wrapper so pipeline code doesn't reach past
// Context into Writer directly for layout-only lines.
func (c *Context) Blank() { c.Writer.Blank() }

// emitGlobals runs the allocator over every module global in declaration
// order, emitting the Zero Page, Data, and RAM sections (§4.7, §4.11 step 4).
func (c *Context) emitGlobals() {
	var zp, data, ram, mapped []*il.Global
	for _, g := range c.Module.Globals {
		switch g.Storage {
		case il.StorageZeroPage:
			zp = append(zp, g)
		case il.StorageData:
			data = append(data, g)
		case il.StorageRAM:
			ram = append(ram, g)
		case il.StorageMap:
			mapped = append(mapped, g)
		}
	}

	c.Writer.Divider("Zero Page")
	for _, g := range zp {
		label := c.Labels.Global(g.Name)
		size := g.Type.SizeInBytes()
		addr, ok := c.Globals.AllocateZeroPage(g.Name, size)
		if !ok {
			c.warn("zero page exhausted: %q not placed", g.Name)
			continue
		}
		c.Labels.UpdateAddress(label, addr)
		c.Writer.Assign(label, addr)
	}
	c.Blank()

	c.Writer.Divider("Data")
	for _, g := range data {
		label := c.Labels.Global(g.Name)
		size := g.Type.SizeInBytes()
		addr := c.Globals.AllocateData(g.Name, size)
		c.Labels.UpdateAddress(label, addr)
		c.Writer.Label(label)
		emitInitialValue(c, g)
	}
	c.Blank()

	c.Writer.Divider("RAM")
	for _, g := range ram {
		label := c.Labels.Global(g.Name)
		size := g.Type.SizeInBytes()
		addr := c.Globals.AllocateRAM(g.Name, size)
		c.Labels.UpdateAddress(label, addr)
		c.Writer.Label(label)
		c.Writer.Reserve(size)
	}
	c.Blank()

	for _, g := range mapped {
		label := c.Labels.Global(g.Name)
		c.Globals.AllocateMap(g.Name, g.Address)
		c.Labels.UpdateAddress(label, g.Address)
	}

	c.pc = c.Globals.NextAddress()
}

// emitInitialValue writes a Data-section global's initializer bytes,
// little-endian for word-sized elements, element-wise for arrays.
func emitInitialValue(c *Context, g *il.Global) {
	elemSize := g.Type.SizeInBytes()
	if n, known := g.Type.ArrayLength(); known && n > 0 {
		elemSize = g.Type.Elem().SizeInBytes()
	}
	if len(g.InitialValue) == 0 {
		c.Writer.Fill(g.Type.SizeInBytes(), 0)
		return
	}
	switch elemSize {
	case 1:
		bytes := make([]uint8, len(g.InitialValue))
		for i, v := range g.InitialValue {
			bytes[i] = uint8(v)
		}
		c.Writer.Byte(bytes...)
	default:
		words := make([]uint16, len(g.InitialValue))
		for i, v := range g.InitialValue {
			words[i] = uint16(v)
		}
		c.Writer.Word(words...)
	}
}

// emitEntryPoint emits the Program Entry Point section (§4.11 step 5).
func (c *Context) emitEntryPoint(m *il.Module) {
	c.Writer.Divider("Program Entry Point")
	startLabel := c.Labels.Local("start")
	c.Writer.Label(startLabel)
	if main := m.FindFunction("main"); main != nil {
		mainLabel, ok := c.Labels.LookupByOriginal("main", CategoryFunction)
		asm := "_main"
		if ok {
			asm = mainLabel.Assembly
		}
		c.emit("JSR", asm, 3, "", il.SourceSpan{})
	} else {
		c.Writer.Comment("No main function")
	}
	endLabel := c.Labels.Local("end")
	c.Writer.Label(endLabel)
	c.emit("JMP", endLabel, 3, "", il.SourceSpan{})
	c.Blank()
}

// emitFunction lowers one function's blocks in ascending block-id order
// (§4.11 step 6), resetting per-function codegen state first.
func (c *Context) emitFunction(fn *il.Function) {
	c.resetFunctionState()
	c.Labels.SetCurrentFunction(fn.Name)

	label := c.Labels.Function(fn.Name)
	c.Writer.Label(label)
	c.Labels.UpdateAddress(label, c.pc)
	c.Writer.Comment(fmt.Sprintf("function %s", fn.Name))

	for i, p := range fn.Params {
		switch {
		case i == 0:
			c.Tracker.Track(p.Register.ID, TrackedValue{Kind: LocAccumulator})
		case i == 1:
			c.Tracker.Track(p.Register.ID, TrackedValue{Kind: LocXRegister})
		case i == 2:
			c.Tracker.Track(p.Register.ID, TrackedValue{Kind: LocYRegister})
		default:
			c.Tracker.Track(p.Register.ID, TrackedValue{Kind: LocZeroPage, Address: c.callArgSlot(i - 3)})
		}
	}

	for _, id := range fn.BlockIDs() {
		b := fn.Blocks[id]
		c.Writer.Label(c.blockLabel(fn, id))
		for _, in := range b.Instructions {
			c.SelectInstruction(fn, id, in)
		}
	}
	c.Blank()
}

// emitFooter emits the End of Program stats comment (§4.11 step 7).
func (c *Context) emitFooter(m *il.Module) {
	c.Writer.Divider("End of Program")
	c.Writer.Comment(fmt.Sprintf("Code size: %d", c.CodeSize))
	c.Writer.Comment(fmt.Sprintf("Data size: %d", c.Globals.DataSize()))
	c.Writer.Comment(fmt.Sprintf("ZP used: %d", c.Globals.ZeroPageBytesUsed()))
	c.Writer.Comment(fmt.Sprintf("Functions: %d", len(m.Functions)))
	c.Writer.Comment(fmt.Sprintf("Globals: %d", len(m.Globals)))
}
