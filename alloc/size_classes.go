package alloc

import "math"

// PoolConfig defines the size-class layout of a Pool. Different layouts
// trade internal fragmentation against the number of buckets.
type PoolConfig struct {
	// Name for this configuration (for benchmarking and diagnostics)
	Name string

	// Small classes grow linearly
	SmallMin       int // Smallest class (typically 8)
	SmallMax       int // Last linear class (typically 256-512)
	SmallIncrement int // Step between small classes (8, 16 or 32)

	// Medium classes grow geometrically up to MediumMax; larger requests
	// bypass the pool.
	MediumMax    int
	GrowthFactor float64
}

// Predefined configurations.
var (
	// PoolFineGrained: many small classes, low waste for varied workloads.
	PoolFineGrained = PoolConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      64 << 10,
		GrowthFactor:   1.5,
	}

	// PoolBalanced: good balance between bucket count and granularity.
	PoolBalanced = PoolConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      256 << 10,
		GrowthFactor:   1.5,
	}

	// PoolCoarse: power-of-two classes, fewest buckets.
	PoolCoarse = PoolConfig{
		Name:           "Coarse",
		SmallMin:       64,
		SmallMax:       64,
		SmallIncrement: 64,
		MediumMax:      4 << 20,
		GrowthFactor:   2.0,
	}

	// DefaultPoolConfig is used when NewPool is given a zero PoolConfig.
	DefaultPoolConfig = PoolBalanced
)

// sizeClassTable holds the computed class capacities in ascending order.
type sizeClassTable struct {
	config     PoolConfig
	boundaries []int // capacity of each class; every entry is Alignment-aligned
	numClasses int
}

// newSizeClassTable computes class capacities from config. An invalid
// config is a programming error and panics.
func newSizeClassTable(config PoolConfig) *sizeClassTable {
	if config.SmallMin <= 0 || config.SmallIncrement <= 0 || config.SmallMax < config.SmallMin {
		panic("alloc: invalid PoolConfig small-class range")
	}
	if config.MediumMax > config.SmallMax && config.GrowthFactor <= 1 {
		panic("alloc: invalid PoolConfig growth factor")
	}

	table := &sizeClassTable{
		config:     config,
		boundaries: make([]int, 0, 64),
	}

	// Phase 1: small classes (linear increments)
	for size := config.SmallMin; size <= config.SmallMax; size += config.SmallIncrement {
		table.boundaries = append(table.boundaries, alignClass(size))
	}

	// Phase 2: medium classes (geometric growth)
	size := table.boundaries[len(table.boundaries)-1]
	for size < config.MediumMax {
		next := alignClass(int(math.Ceil(float64(size) * config.GrowthFactor)))
		if next <= size {
			next = size + Alignment // Ensure progress
		}
		size = min(next, alignClass(config.MediumMax))
		table.boundaries = append(table.boundaries, size)
	}

	table.numClasses = len(table.boundaries)
	return table
}

func alignClass(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// classFor returns the smallest class whose capacity holds size, or
// numClasses when size exceeds every class.
func (t *sizeClassTable) classFor(size int) int {
	lo, hi := 0, t.numClasses-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return t.numClasses
}

// exactClass returns the class whose capacity is exactly c, or -1.
func (t *sizeClassTable) exactClass(c int) int {
	cls := t.classFor(c)
	if cls < t.numClasses && t.boundaries[cls] == c {
		return cls
	}
	return -1
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}

// NumClasses returns the number of pooled classes.
func (t *sizeClassTable) NumClasses() int {
	return t.numClasses
}

// MaxPooled returns the largest pooled capacity.
func (t *sizeClassTable) MaxPooled() int {
	return t.boundaries[t.numClasses-1]
}
