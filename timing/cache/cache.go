// Package cache models a small memory cache in front of CHIP-8 RAM using
// Akita cache components.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// AddressMask keeps cache addresses inside the 4KB CHIP-8 address space.
const AddressMask = 0x0FFF

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int
	// Associativity (number of ways)
	Associativity int
	// BlockSize in bytes (cache line size)
	BlockSize int
	// HitLatency in cycles
	HitLatency uint64
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64
}

// DefaultConfig returns a 512-byte, 2-way cache with 16-byte lines: small
// enough that a typical game loop plus its sprites just about fits.
func DefaultConfig() Config {
	return Config{
		Size:          512,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    0,
		MissLatency:   2,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit is true when every line touched by the access was present.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Data holds the bytes read (for Read).
	Data []byte
	// Evictions is the number of valid lines replaced by the access.
	Evictions int
}

// Statistics holds cache performance statistics. Counts are per line
// touched, so an access that straddles two lines counts twice.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// HitRate returns the fraction of line accesses that hit.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore interface for the memory behind the cache.
type BackingStore interface {
	// Read fetches data from the backing store.
	Read(addr uint16, size int) []byte
	// Write stores data to the backing store.
	Write(addr uint16, data []byte)
}

// Cache is a write-back, write-allocate cache. Akita's directory tracks
// tags and LRU state; line contents live in dataStore.
type Cache struct {
	config Config

	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]byte

	stats Statistics

	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint16) uint64 {
	bs := uint64(c.config.BlockSize)
	return (uint64(addr&AddressMask) / bs) * bs
}

// Read reads size bytes starting at addr, wrapping at the end of the
// address space. The latency is the sum over every line touched.
func (c *Cache) Read(addr uint16, size int) AccessResult {
	result := AccessResult{Hit: true, Data: make([]byte, size)}

	c.forEachLine(addr, size, func(block *akitacache.Block, hit bool, offset, start, n int) {
		c.stats.Reads++
		c.account(&result, hit)
		copy(result.Data[start:start+n], c.dataStore[c.blockIndex(block)][offset:offset+n])
	})

	return result
}

// Write stores data starting at addr, wrapping at the end of the address
// space. Lines are fetched on a miss and marked dirty.
func (c *Cache) Write(addr uint16, data []byte) AccessResult {
	result := AccessResult{Hit: true}

	c.forEachLine(addr, len(data), func(block *akitacache.Block, hit bool, offset, start, n int) {
		c.stats.Writes++
		c.account(&result, hit)
		copy(c.dataStore[c.blockIndex(block)][offset:offset+n], data[start:start+n])
		block.IsDirty = true
	})

	return result
}

func (c *Cache) account(result *AccessResult, hit bool) {
	if hit {
		c.stats.Hits++
		result.Latency += c.config.HitLatency
		return
	}

	c.stats.Misses++
	result.Hit = false
	result.Latency += c.config.MissLatency
}

// forEachLine splits [addr, addr+size) into per-line chunks, bringing each
// line into the cache, and calls fn with the line, whether it was already
// present, the offset inside the line, the offset inside the access, and
// the chunk length.
func (c *Cache) forEachLine(
	addr uint16,
	size int,
	fn func(block *akitacache.Block, hit bool, offset, start, n int),
) {
	start := 0
	for start < size {
		cur := (addr + uint16(start)) & AddressMask
		offset := int(uint64(cur) - c.blockAddr(cur))

		n := c.config.BlockSize - offset
		if n > size-start {
			n = size - start
		}
		if int(cur)+n > AddressMask+1 {
			n = AddressMask + 1 - int(cur)
		}

		block, hit := c.lookup(cur)
		fn(block, hit, offset, start, n)
		start += n
	}
}

// lookup returns the line holding addr, filling it on a miss.
func (c *Cache) lookup(addr uint16) (*akitacache.Block, bool) {
	blockAddr := c.blockAddr(addr)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.directory.Visit(block)
		return block, true
	}

	return c.fill(blockAddr), false
}

func (c *Cache) fill(blockAddr uint64) *akitacache.Block {
	victim := c.directory.FindVictim(blockAddr)
	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.Write(uint16(victim.Tag), victimData)
		}
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(uint16(blockAddr), c.config.BlockSize))
	} else {
		clear(victimData)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	c.directory.Visit(victim)

	return victim
}

// Invalidate drops the line holding addr without writing it back.
func (c *Cache) Invalidate(addr uint16) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back all dirty lines and invalidates every line.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.backing.Write(uint16(block.Tag), c.dataStore[c.blockIndex(block)])
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
