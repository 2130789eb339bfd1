package spritepack

import (
	"errors"
	"strconv"
)

// Sentinel errors for the spritepack package.
var (
	// ErrNotLoaded is returned by queries before a successful Load.
	ErrNotLoaded = errors.New("spritepack: atlas not loaded")

	// ErrUnknownSprite is returned by queries for a name that was never loaded.
	// Match it with errors.Is; the concrete error is a *LookupError.
	ErrUnknownSprite = errors.New("spritepack: unknown sprite")

	// ErrDecode is wrapped by every *DecodeError.
	ErrDecode = errors.New("spritepack: sprite decode failed")

	// ErrDuplicateSprite is returned when two sprites share a name.
	ErrDuplicateSprite = errors.New("spritepack: duplicate sprite name")

	// ErrEmptyName is returned for a sprite with an empty name.
	ErrEmptyName = errors.New("spritepack: empty sprite name")

	// ErrNilSource is returned for a sprite with neither a source nor
	// default dimensions.
	ErrNilSource = errors.New("spritepack: sprite has no source")

	// ErrAtlasClosed is returned when loading into a closed atlas.
	ErrAtlasClosed = errors.New("spritepack: atlas is closed")
)

// LookupError reports a query for a sprite name the atlas does not know.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return "spritepack: unknown sprite " + strconv.Quote(e.Name)
}

// Unwrap returns ErrUnknownSprite.
func (e *LookupError) Unwrap() error { return ErrUnknownSprite }

// DecodeError reports a sprite whose image could not be decoded.
// It matches both ErrDecode and the underlying decoder error.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return "spritepack: decode sprite " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

// Unwrap returns ErrDecode and the decoder error.
func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
