package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies a generated label the way §4.6 describes: the
// category determines both the prefix and the collision-resolution bucket.
type Category string

const (
	CategoryFunction Category = "function"
	CategoryGlobal   Category = "global"
	CategoryLocal    Category = "local"
	CategoryTemp     Category = "temp"
	CategoryBlock    Category = "block"
	CategoryData     Category = "data"
)

// LabelInfo is everything the generator knows about one allocated label.
type LabelInfo struct {
	Assembly   string
	Original   string
	Category   Category
	Function   string // source-context function name, for local labels
	Address    *uint16
	SourceFile string
	SourceLine int
}

// LabelGenerator allocates and tracks textual assembly labels (§4.6).
type LabelGenerator struct {
	order      []*LabelInfo
	byAssembly map[string]*LabelInfo
	byOriginal map[string][]*LabelInfo
	collisions map[string]int // "category:sanitizedBase" -> next suffix
	tempCount  map[string]int // prefix -> next counter value
	blockCount int
	curFunc    string
}

// NewLabelGenerator creates an empty generator.
func NewLabelGenerator() *LabelGenerator {
	return &LabelGenerator{
		byAssembly: make(map[string]*LabelInfo),
		byOriginal: make(map[string][]*LabelInfo),
		collisions: make(map[string]int),
		tempCount:  make(map[string]int),
	}
}

// Sanitize replaces every character outside [A-Za-z0-9_] with '_', prefixes
// a leading digit with '_', and maps an empty name to "_empty" (§4.6).
func Sanitize(name string) string {
	if name == "" {
		return "_empty"
	}
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// resolve applies collision resolution for (category, base): the first use
// of a category/base pair keeps base unchanged; repeats append "_1", "_2", ….
func (g *LabelGenerator) resolve(category Category, base string) string {
	key := string(category) + ":" + base
	n := g.collisions[key]
	g.collisions[key] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, n)
}

func (g *LabelGenerator) record(info *LabelInfo) {
	g.order = append(g.order, info)
	g.byAssembly[info.Assembly] = info
	g.byOriginal[info.Original] = append(g.byOriginal[info.Original], info)
}

// Function allocates a function label: "_" + sanitized name.
func (g *LabelGenerator) Function(name string) string {
	asm := "_" + g.resolve(CategoryFunction, Sanitize(name))
	g.record(&LabelInfo{Assembly: asm, Original: name, Category: CategoryFunction})
	return asm
}

// Global allocates a module-level global label: "_" + sanitized name.
func (g *LabelGenerator) Global(name string) string {
	asm := "_" + g.resolve(CategoryGlobal, Sanitize(name))
	g.record(&LabelInfo{Assembly: asm, Original: name, Category: CategoryGlobal})
	return asm
}

// Data allocates a compiler-generated data-blob label: "_" + sanitized name.
func (g *LabelGenerator) Data(name string) string {
	asm := "_" + g.resolve(CategoryData, Sanitize(name))
	g.record(&LabelInfo{Assembly: asm, Original: name, Category: CategoryData})
	return asm
}

// SetCurrentFunction records the function whose body is currently being
// lowered, used as source context for local labels allocated afterward.
func (g *LabelGenerator) SetCurrentFunction(name string) { g.curFunc = name }

// Local allocates a local label: "." + sanitized name, carrying the current
// function as source context.
func (g *LabelGenerator) Local(name string) string {
	asm := "." + g.resolve(CategoryLocal, Sanitize(name))
	g.record(&LabelInfo{Assembly: asm, Original: name, Category: CategoryLocal, Function: g.curFunc})
	return asm
}

// Temp allocates a compiler-generated temporary label. The empty prefix
// yields ".L_NNNN"; a user-supplied prefix yields ".{prefix}_NNNN". NNNN is
// a zero-padded 4-digit counter scoped to the prefix.
func (g *LabelGenerator) Temp(prefix string) string {
	tag := prefix
	if tag == "" {
		tag = "L"
	}
	n := g.tempCount[tag]
	g.tempCount[tag] = n + 1
	asm := fmt.Sprintf(".%s_%04d", tag, n)
	g.record(&LabelInfo{Assembly: asm, Original: asm, Category: CategoryTemp, Function: g.curFunc})
	return asm
}

// Block allocates a basic-block label: ".block_<sanitized-name>", or an
// anonymous ".block_NNNN" form when name is empty.
func (g *LabelGenerator) Block(name string) string {
	if name == "" {
		n := g.blockCount
		g.blockCount++
		asm := fmt.Sprintf(".block_%04d", n)
		g.record(&LabelInfo{Assembly: asm, Original: asm, Category: CategoryBlock, Function: g.curFunc})
		return asm
	}
	asm := "." + g.resolve(CategoryBlock, "block_"+Sanitize(name))
	g.record(&LabelInfo{Assembly: asm, Original: name, Category: CategoryBlock, Function: g.curFunc})
	return asm
}

// Lookup finds a label by its assembly text.
func (g *LabelGenerator) Lookup(assembly string) (*LabelInfo, bool) {
	info, ok := g.byAssembly[assembly]
	return info, ok
}

// LookupByOriginal finds a label by its source name, optionally filtered by
// category (pass "" to match any category). Returns the first match.
func (g *LabelGenerator) LookupByOriginal(name string, category Category) (*LabelInfo, bool) {
	for _, info := range g.byOriginal[name] {
		if category == "" || info.Category == category {
			return info, true
		}
	}
	return nil, false
}

// All returns every allocated label in allocation order.
func (g *LabelGenerator) All() []*LabelInfo { return append([]*LabelInfo(nil), g.order...) }

// Count returns the number of labels allocated so far.
func (g *LabelGenerator) Count() int { return len(g.order) }

// ByCategory returns every label of the given category, in allocation order.
func (g *LabelGenerator) ByCategory(category Category) []*LabelInfo {
	var out []*LabelInfo
	for _, info := range g.order {
		if info.Category == category {
			out = append(out, info)
		}
	}
	return out
}

// UpdateAddress records the resolved address of an already-allocated label.
func (g *LabelGenerator) UpdateAddress(assembly string, address uint16) {
	if info, ok := g.byAssembly[assembly]; ok {
		a := address
		info.Address = &a
	}
}

// UpdateSource records the source file/line an already-allocated label
// corresponds to.
func (g *LabelGenerator) UpdateSource(assembly, file string, line int) {
	if info, ok := g.byAssembly[assembly]; ok {
		info.SourceFile = file
		info.SourceLine = line
	}
}

// ExportVICE renders the VICE `.lbl` debug-symbol convention (§4.6):
// one `al C:<4-hex-addr> .<label>` line per label with a known address,
// sorted ascending by address. Labels without an address are omitted.
func (g *LabelGenerator) ExportVICE() string {
	withAddr := make([]*LabelInfo, 0, len(g.order))
	for _, info := range g.order {
		if info.Address != nil {
			withAddr = append(withAddr, info)
		}
	}
	sort.SliceStable(withAddr, func(i, j int) bool { return *withAddr[i].Address < *withAddr[j].Address })

	var b strings.Builder
	for _, info := range withAddr {
		fmt.Fprintf(&b, "al C:%04X .%s\n", *info.Address, info.Assembly)
	}
	return b.String()
}
