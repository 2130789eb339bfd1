package spritepack

import (
	"fmt"

	"github.com/gogpu/spritepack/internal/pow2"
)

// MipmapGenerator selects how a loaded atlas fills its texture.
type MipmapGenerator uint8

const (
	// MipmapCustomThenDefault uploads every sprite into level 0 at its own
	// offset, then lets the texture derive the remaining levels. This is the
	// default.
	MipmapCustomThenDefault MipmapGenerator = iota

	// MipmapDefault composites all sprites into one level 0 canvas in system
	// memory and uploads it in a single call before the texture derives the
	// remaining levels.
	MipmapDefault
)

// String returns the generator name.
func (g MipmapGenerator) String() string {
	switch g {
	case MipmapCustomThenDefault:
		return "CustomThenDefault"
	case MipmapDefault:
		return "Default"
	default:
		return fmt.Sprintf("MipmapGenerator(%d)", g)
	}
}

// mipmapLevel returns the highest mip level for an atlas whose smallest
// sprite is minW x minH. maxLevel 0 disables mipmaps and a negative maxLevel
// leaves the level unclamped.
func mipmapLevel(maxLevel, minW, minH int, nonPowerOfTwo bool) int {
	if maxLevel == 0 || nonPowerOfTwo {
		return 0
	}
	level := pow2.FloorLog2(min(minW, minH))
	if maxLevel > 0 && level > maxLevel {
		level = maxLevel
	}
	return level
}
