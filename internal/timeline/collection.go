package timeline

// Collection is the ordered set of overlays owned by one editor session.
// Order carries no semantics; ids are unique. All committed mutations go
// through the methods below so the placement invariants hold afterwards.
type Collection []Overlay

// Clone returns a deep copy suitable for history snapshots.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, o := range c {
		out[i] = o.Clone()
	}
	return out
}

// Get returns the overlay with the given id.
func (c Collection) Get(id int64) (Overlay, bool) {
	for _, o := range c {
		if o.ID == id {
			return o, true
		}
	}
	return Overlay{}, false
}

func (c Collection) indexOf(id int64) int {
	for i, o := range c {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// InRow returns the overlays occupying the given row.
func (c Collection) InRow(row int) []Overlay {
	var out []Overlay
	for _, o := range c {
		if o.Row == row {
			out = append(out, o)
		}
	}
	return out
}

// Add appends an overlay. Callers must already have resolved a
// non-overlapping slot; no collision check happens here.
func (c *Collection) Add(o Overlay) {
	if o.DurationInFrames < 1 {
		o.DurationInFrames = 1
	}
	if o.From < 0 {
		o.From = 0
	}
	*c = append(*c, o)
}

// Change applies fn to the overlay matched by id. Returns false without
// touching the collection when the id is unknown.
func (c *Collection) Change(id int64, fn func(*Overlay)) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	o := &(*c)[i]
	fn(o)
	if o.DurationInFrames < 1 {
		o.DurationInFrames = 1
	}
	if o.From < 0 {
		o.From = 0
	}
	return true
}

// Delete removes the overlay matched by id.
func (c *Collection) Delete(id int64) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i], (*c)[i+1:]...)
	return true
}

// DeleteByRow removes every overlay on the given row and returns how many
// were dropped. Used when the visible row count shrinks.
func (c *Collection) DeleteByRow(row int) int {
	kept := (*c)[:0]
	dropped := 0
	for _, o := range *c {
		if o.Row == row {
			dropped++
			continue
		}
		kept = append(kept, o)
	}
	*c = kept
	return dropped
}

// Duplicate clones the overlay matched by id under a fresh id, placing the
// copy at the next available slot so it never overlaps the original.
func (c *Collection) Duplicate(id int64, maxRows, totalDuration int) (Overlay, bool) {
	src, ok := c.Get(id)
	if !ok {
		return Overlay{}, false
	}
	dup := src.Clone()
	dup.ID = NewID()
	dup.IsDragging = false
	pos := FindNextAvailablePosition(*c, maxRows, totalDuration)
	dup.From = pos.From
	dup.Row = pos.Row
	c.Add(dup)
	return dup, true
}

// Split divides the overlay matched by id at an absolute timeline frame.
// The first part keeps the original id and ends at splitFrame; the second
// part starts there with the remaining duration and a fresh id. Media-backed
// variants advance their source offset by the consumed frames so playback
// stays continuous; caption blocks are re-partitioned by time. A split point
// outside the open interval (from, from+duration) is a no-op.
func (c *Collection) Split(id int64, splitFrame, fps int) (Overlay, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Overlay{}, false
	}
	o := (*c)[i]
	if splitFrame <= o.From || splitFrame >= o.End() {
		return Overlay{}, false
	}

	consumed := splitFrame - o.From
	second := o.Clone()
	second.ID = NewID()
	second.From = splitFrame
	second.DurationInFrames = o.End() - splitFrame

	switch o.Type {
	case TypeVideo:
		second.VideoStartTime = o.VideoStartTime + consumed
	case TypeSound:
		second.StartFromSound = o.StartFromSound + consumed
	case TypeCaption:
		splitMs := FramesToMs(consumed, fps)
		first, rest := splitCaptions(o.Captions, splitMs)
		(*c)[i].Captions = first
		second.Captions = rest
	case TypeImage, TypeText:
		// Nothing beyond the duration division.
	}

	(*c)[i].DurationInFrames = consumed
	*c = append(*c, second)
	return second, true
}

// Reset clears the collection.
func (c *Collection) Reset() {
	*c = Collection{}
}

// UpdateStyles shallow-merges the patch into the overlay's styles.
func (c *Collection) UpdateStyles(id int64, patch StylePatch) bool {
	return c.Change(id, func(o *Overlay) {
		o.Styles.apply(patch)
	})
}

// TotalDuration derives the composition length: the furthest overlay end,
// never below the configured floor.
func (c Collection) TotalDuration(floor int) int {
	total := floor
	for _, o := range c {
		if end := o.End(); end > total {
			total = end
		}
	}
	return total
}
