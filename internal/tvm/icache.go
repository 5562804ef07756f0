package tvm

// iCacheLine is one direct-mapped instruction-cache slot (§3).
type iCacheLine struct {
	address uint32
	inst    Instruction
	valid   bool
}

// ICache is a direct-mapped, power-of-two-sized decoded-instruction
// cache indexed by address & (capacity-1).
type ICache struct {
	lines []iCacheLine
	mask  uint32
	hits  uint64
	miss  uint64
}

// NewICache creates a cache of the given capacity, which must be a
// power of two.
func NewICache(capacity int) *ICache {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		panic("tvm: icache capacity must be a positive power of two")
	}
	return &ICache{
		lines: make([]iCacheLine, capacity),
		mask:  uint32(capacity - 1),
	}
}

func (c *ICache) index(address uint32) uint32 {
	return address & c.mask
}

// Lookup returns the cached instruction at address if present and
// valid, decoding and installing it (evicting whatever was there)
// otherwise. decode is called only on a miss.
func (c *ICache) Lookup(address uint32, decode func(uint32) Instruction) Instruction {
	idx := c.index(address)
	line := &c.lines[idx]
	if line.valid && line.address == address {
		c.hits++
		return line.inst
	}
	c.miss++
	inst := decode(address)
	*line = iCacheLine{address: address, inst: inst, valid: true}
	return inst
}

// Invalidate drops the cache line for address if it currently holds it,
// required whenever a write to code memory touches that address (§3).
func (c *ICache) Invalidate(address uint32) {
	idx := c.index(address)
	line := &c.lines[idx]
	if line.valid && line.address == address {
		line.valid = false
	}
}

// Stats returns (hits, misses) accumulated so far.
func (c *ICache) Stats() (hits, misses uint64) {
	return c.hits, c.miss
}
