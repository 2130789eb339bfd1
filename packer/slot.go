package packer

// PackedSlot is one rectangle submitted to the packer.
// Placement stays nil until the slot is packed, and remains nil if the
// packer could not fit it.
type PackedSlot struct {
	Width, Height int
	Placement     *Node
}

// NewSlot creates an unplaced slot of the given size.
func NewSlot(width, height int) *PackedSlot {
	return &PackedSlot{Width: width, Height: height}
}

// Placed reports whether the slot was assigned a region.
func (s *PackedSlot) Placed() bool {
	return s.Placement != nil
}

// Rect returns the slot's placement rectangle. ok is false for unplaced
// slots, in which case all values are zero.
func (s *PackedSlot) Rect() (x, y, w, h int, ok bool) {
	if s.Placement == nil {
		return 0, 0, 0, 0, false
	}
	return s.Placement.X, s.Placement.Y, s.Width, s.Height, true
}

// SortKey maps a slot to a sort weight. FitSorted places slots with larger
// keys first.
type SortKey func(*PackedSlot) int

// MaxSide orders slots by their larger dimension. This is the default
// ordering and the one that lets the growth heuristic place every slot.
func MaxSide(s *PackedSlot) int {
	return max(s.Width, s.Height)
}

// Area orders slots by width*height.
func Area(s *PackedSlot) int {
	return s.Width * s.Height
}

// Width orders slots by width.
func Width(s *PackedSlot) int {
	return s.Width
}

// Height orders slots by height.
func Height(s *PackedSlot) int {
	return s.Height
}

// SortKeyByName returns the stock sort key registered under name
// ("maxside", "area", "width", "height") and whether it exists.
func SortKeyByName(name string) (SortKey, bool) {
	switch name {
	case "maxside", "":
		return MaxSide, true
	case "area":
		return Area, true
	case "width":
		return Width, true
	case "height":
		return Height, true
	default:
		return nil, false
	}
}
