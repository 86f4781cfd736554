package il

// StorageClass selects where a global (or local) variable is placed (§3.4).
type StorageClass uint8

const (
	// StorageZeroPage places a variable in zero-page, the fast
	// single-byte-address region.
	StorageZeroPage StorageClass = iota
	// StorageRAM is the default uninitialized general-RAM allocation.
	StorageRAM
	// StorageData places an initialized variable in the read-only/RW data section.
	StorageData
	// StorageMap is a memory-mapped hardware register at a fixed, caller-supplied address.
	StorageMap
)

func (c StorageClass) String() string {
	switch c {
	case StorageZeroPage:
		return "zeropage"
	case StorageRAM:
		return "ram"
	case StorageData:
		return "data"
	case StorageMap:
		return "map"
	default:
		return "unknown"
	}
}
