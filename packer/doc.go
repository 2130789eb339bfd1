// Package packer places rectangles into a single canvas that grows on
// demand.
//
// GrowingPacker keeps a binary tree of rectangular regions. Each free leaf
// is a candidate for the next rectangle; placing a rectangle splits its leaf
// into a strip to the right and a strip below. When no leaf fits, the canvas
// grows by one strip to the right or below, choosing the direction that
// keeps the canvas closest to square.
//
// The algorithm is a greedy single pass. It never rotates rectangles, never
// opens a second canvas, and gives no minimum-area guarantee. Packing
// quality depends on input order: feed the largest rectangles first, which
// is what FitSorted with MaxSide does.
//
//	slots := []*packer.PackedSlot{
//	    packer.NewSlot(64, 64),
//	    packer.NewSlot(32, 32),
//	}
//	p := &packer.GrowingPacker{}
//	root := p.FitSorted(slots, packer.MaxSide)
//	// root.W x root.H is the packed canvas; slots[i].Placement holds (X, Y).
package packer
