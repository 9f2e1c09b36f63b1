package packer

// Skyline implements bottom-left skyline rectangle packing.
//
// The packed area is described by its top profile: a list of horizontal
// segments, each with the height already filled beneath it. A new rectangle
// goes where its top edge would be lowest, ties broken by the leftmost x.
// Rectangles are never rotated and no padding is added.
type Skyline struct {
	width  int
	height int
	nodes  []skylineNode

	usedWidth  int
	usedHeight int
}

type skylineNode struct {
	x, y, width int
}

// NewSkyline creates an allocator for a width × height area.
func NewSkyline(width, height int) *Skyline {
	return &Skyline{
		width:  width,
		height: height,
		nodes:  []skylineNode{{x: 0, y: 0, width: width}},
	}
}

// Allocate places a w × h rectangle and returns its top-left corner.
// It returns -1, -1, false when no position fits.
func (s *Skyline) Allocate(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 || w > s.width || h > s.height {
		return -1, -1, false
	}

	best := -1
	bestX, bestY := -1, -1
	for i := range s.nodes {
		fy, fits := s.fit(i, w, h)
		if !fits {
			continue
		}
		if best < 0 || fy < bestY || (fy == bestY && s.nodes[i].x < bestX) {
			best, bestX, bestY = i, s.nodes[i].x, fy
		}
	}
	if best < 0 {
		return -1, -1, false
	}

	s.place(best, bestX, bestY, w, h)
	if bestX+w > s.usedWidth {
		s.usedWidth = bestX + w
	}
	if bestY+h > s.usedHeight {
		s.usedHeight = bestY + h
	}
	return bestX, bestY, true
}

// fit returns the y at which a w-wide rectangle starting at node i rests.
func (s *Skyline) fit(i, w, h int) (int, bool) {
	x := s.nodes[i].x
	if x+w > s.width {
		return 0, false
	}
	y := 0
	remaining := w
	for j := i; remaining > 0; j++ {
		if j >= len(s.nodes) {
			return 0, false
		}
		if s.nodes[j].y > y {
			y = s.nodes[j].y
		}
		if y+h > s.height {
			return 0, false
		}
		remaining -= s.nodes[j].width
	}
	return y, true
}

func (s *Skyline) place(i, x, y, w, h int) {
	node := skylineNode{x: x, y: y + h, width: w}
	s.nodes = append(s.nodes, skylineNode{})
	copy(s.nodes[i+1:], s.nodes[i:])
	s.nodes[i] = node

	// Trim the segments now covered by the new one.
	for j := i + 1; j < len(s.nodes); {
		prevEnd := s.nodes[j-1].x + s.nodes[j-1].width
		if s.nodes[j].x >= prevEnd {
			break
		}
		shrink := prevEnd - s.nodes[j].x
		s.nodes[j].x += shrink
		s.nodes[j].width -= shrink
		if s.nodes[j].width > 0 {
			break
		}
		s.nodes = append(s.nodes[:j], s.nodes[j+1:]...)
	}

	// Merge neighbours of equal height.
	for j := 0; j < len(s.nodes)-1; {
		if s.nodes[j].y == s.nodes[j+1].y {
			s.nodes[j].width += s.nodes[j+1].width
			s.nodes = append(s.nodes[:j+1], s.nodes[j+2:]...)
			continue
		}
		j++
	}
}

// Used returns the extent covered by allocations so far.
func (s *Skyline) Used() (width, height int) {
	return s.usedWidth, s.usedHeight
}

// Reset clears all allocations and resizes the area to width × height.
func (s *Skyline) Reset(width, height int) {
	s.width, s.height = width, height
	s.nodes = append(s.nodes[:0], skylineNode{x: 0, y: 0, width: s.width})
	s.usedWidth, s.usedHeight = 0, 0
}
