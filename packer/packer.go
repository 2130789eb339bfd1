package packer

import (
	"cmp"
	"log/slog"
	"slices"
)

// GrowingPacker packs rectangles into a canvas that grows on demand.
//
// The tree is rebuilt from scratch on every call to Fit. GrowingPacker is
// not safe for concurrent use.
type GrowingPacker struct {
	// Logger receives diagnostics. Nil disables logging.
	Logger *slog.Logger

	root  *Node
	stats Stats
}

// Stats summarizes the last packing pass.
type Stats struct {
	Placed   int // slots that received a placement
	Unplaced int // slots left without a placement
	UsedArea int // sum of placed slot areas
}

// Root returns the root of the last packing pass, or nil before the first.
func (p *GrowingPacker) Root() *Node {
	return p.root
}

// Stats returns statistics for the last packing pass.
func (p *GrowingPacker) Stats() Stats {
	return p.stats
}

// Utilization returns the fraction of the root area covered by placed
// slots (0.0 to 1.0).
func (p *GrowingPacker) Utilization() float64 {
	if p.root == nil || p.root.Area() == 0 {
		return 0
	}
	return float64(p.stats.UsedArea) / float64(p.root.Area())
}

// FitSorted packs slots after ordering a copy of them by key, largest first.
// The sort is stable and the caller's slice is left in its original order.
func (p *GrowingPacker) FitSorted(slots []*PackedSlot, key SortKey) *Node {
	return p.Fit(sortedByKey(slots, key))
}

// sortedByKey returns a copy of slots stably sorted by key, largest first.
func sortedByKey(slots []*PackedSlot, key SortKey) []*PackedSlot {
	if key == nil {
		key = MaxSide
	}
	ordered := slices.Clone(slots)
	slices.SortStableFunc(ordered, func(a, b *PackedSlot) int {
		return cmp.Compare(key(b), key(a))
	})
	return ordered
}

// Fit packs slots in the given order and returns the root node.
//
// Callers should order slots largest first (see FitSorted). A slot that
// cannot be grown into the canvas keeps a nil Placement and packing
// continues with the remaining slots. Slots with a non-positive size are
// never placed.
//
// After Fit, root.W and root.H are the raw packed extent; they are not
// rounded to powers of two.
func (p *GrowingPacker) Fit(slots []*PackedSlot) *Node {
	p.stats = Stats{}
	p.root = &Node{}

	for _, s := range slots {
		s.Placement = nil
	}

	first := slices.IndexFunc(slots, validSlot)
	if first < 0 {
		p.stats.Unplaced = len(slots)
		return p.root
	}
	p.root = &Node{W: slots[first].Width, H: slots[first].Height}

	for _, s := range slots {
		if !validSlot(s) {
			p.warn("packer: skipping slot with non-positive size",
				slog.Int("width", s.Width), slog.Int("height", s.Height))
			p.stats.Unplaced++
			continue
		}

		var placement *Node
		if n := findNode(p.root, s.Width, s.Height); n != nil {
			placement = splitNode(n, s.Width, s.Height)
		} else {
			placement = p.growNode(s.Width, s.Height)
		}

		if placement == nil {
			p.warn("packer: rectangle cannot be grown into canvas",
				slog.Int("width", s.Width), slog.Int("height", s.Height),
				slog.Int("rootW", p.root.W), slog.Int("rootH", p.root.H))
			p.stats.Unplaced++
			continue
		}

		s.Placement = placement
		p.stats.Placed++
		p.stats.UsedArea += s.Width * s.Height
	}

	if p.Logger != nil {
		p.Logger.Debug("packer: fit complete",
			slog.Int("width", p.root.W), slog.Int("height", p.root.H),
			slog.Int("placed", p.stats.Placed), slog.Int("unplaced", p.stats.Unplaced))
	}
	return p.root
}

// growNode extends the canvas to make room for a w x h rectangle and places
// it. Returns nil when the rectangle would need growth in both axes.
//
// Growth prefers whichever direction pulls the canvas back toward square,
// then falls back to right, then down.
func (p *GrowingPacker) growNode(w, h int) *Node {
	canGrowDown := w <= p.root.W
	canGrowRight := h <= p.root.H

	shouldGrowRight := canGrowRight && p.root.H >= p.root.W+w
	shouldGrowDown := canGrowDown && p.root.W >= p.root.H+h

	switch {
	case shouldGrowRight:
		return p.growRight(w, h)
	case shouldGrowDown:
		return p.growDown(w, h)
	case canGrowRight:
		return p.growRight(w, h)
	case canGrowDown:
		return p.growDown(w, h)
	default:
		return nil
	}
}

// growRight widens the canvas by w. The old root becomes the Down child of
// the new root and the added strip becomes its Right child.
func (p *GrowingPacker) growRight(w, h int) *Node {
	old := p.root
	p.root = &Node{
		W:     old.W + w,
		H:     old.H,
		Used:  true,
		Down:  old,
		Right: &Node{X: old.W, Y: 0, W: w, H: old.H},
	}
	return p.placeAfterGrow(w, h)
}

// growDown heightens the canvas by h. The added strip becomes the Down child
// of the new root and the old root becomes its Right child.
func (p *GrowingPacker) growDown(w, h int) *Node {
	old := p.root
	p.root = &Node{
		W:     old.W,
		H:     old.H + h,
		Used:  true,
		Down:  &Node{X: 0, Y: old.H, W: old.W, H: h},
		Right: old,
	}
	return p.placeAfterGrow(w, h)
}

func (p *GrowingPacker) placeAfterGrow(w, h int) *Node {
	n := findNode(p.root, w, h)
	if n == nil {
		if p.Logger != nil {
			p.Logger.Error("packer: grown canvas cannot fit rectangle",
				slog.Int("width", w), slog.Int("height", h),
				slog.Int("rootW", p.root.W), slog.Int("rootH", p.root.H))
		}
		return nil
	}
	return splitNode(n, w, h)
}

// Walk visits every node of the current tree depth-first, right subtree
// before down subtree. Returning false from fn stops the walk.
func (p *GrowingPacker) Walk(fn func(*Node) bool) {
	walk(p.root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	return walk(n.Right, fn) && walk(n.Down, fn)
}

func (p *GrowingPacker) warn(msg string, args ...any) {
	if p.Logger != nil {
		p.Logger.Warn(msg, args...)
	}
}

func validSlot(s *PackedSlot) bool {
	return s.Width > 0 && s.Height > 0
}
