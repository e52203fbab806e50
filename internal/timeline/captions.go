package timeline

import "fmt"

// Caption is one timed caption block. Timestamps are milliseconds relative to
// the start of the owning overlay.
type Caption struct {
	Text    string       `json:"text"`
	StartMs int          `json:"startMs"`
	EndMs   int          `json:"endMs"`
	Words   []WordTiming `json:"words,omitempty"`
}

// WordTiming is one word-level timing record nested inside a caption block.
type WordTiming struct {
	Word       string  `json:"word"`
	StartMs    int     `json:"startMs"`
	EndMs      int     `json:"endMs"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ValidateCaptions checks that caption and word time ranges are non-negative,
// monotonic, and that word timings nest within their parent block.
func ValidateCaptions(captions []Caption) error {
	prevEnd := 0
	for i, c := range captions {
		if c.StartMs < 0 || c.EndMs < c.StartMs {
			return fmt.Errorf("caption %d: invalid range [%d, %d)", i, c.StartMs, c.EndMs)
		}
		if c.StartMs < prevEnd {
			return fmt.Errorf("caption %d: starts at %dms before previous block ends at %dms", i, c.StartMs, prevEnd)
		}
		prevEnd = c.EndMs

		prevWordEnd := c.StartMs
		for j, w := range c.Words {
			if w.StartMs < c.StartMs || w.EndMs > c.EndMs {
				return fmt.Errorf("caption %d word %d: timing [%d, %d) outside block [%d, %d)",
					i, j, w.StartMs, w.EndMs, c.StartMs, c.EndMs)
			}
			if w.StartMs < prevWordEnd || w.EndMs < w.StartMs {
				return fmt.Errorf("caption %d word %d: non-monotonic timing [%d, %d)", i, j, w.StartMs, w.EndMs)
			}
			prevWordEnd = w.EndMs
		}
	}
	return nil
}

// splitCaptions partitions caption blocks at splitMs. Blocks entirely before
// the cut stay in the first half; blocks entirely after move to the second
// half with timestamps rebased to the cut. A block straddling the cut is
// truncated into both halves, its words assigned to the side holding each
// word's midpoint and clamped into the new block bounds.
func splitCaptions(captions []Caption, splitMs int) (first, second []Caption) {
	for _, c := range captions {
		switch {
		case c.EndMs <= splitMs:
			first = append(first, cloneCaption(c))

		case c.StartMs >= splitMs:
			moved := cloneCaption(c)
			moved.StartMs -= splitMs
			moved.EndMs -= splitMs
			for i := range moved.Words {
				moved.Words[i].StartMs -= splitMs
				moved.Words[i].EndMs -= splitMs
			}
			second = append(second, moved)

		default:
			head := Caption{Text: c.Text, StartMs: c.StartMs, EndMs: splitMs}
			tail := Caption{Text: c.Text, StartMs: 0, EndMs: c.EndMs - splitMs}
			for _, w := range c.Words {
				mid := (w.StartMs + w.EndMs) / 2
				if mid < splitMs {
					head.Words = append(head.Words, WordTiming{
						Word:       w.Word,
						StartMs:    w.StartMs,
						EndMs:      minInt(w.EndMs, splitMs),
						Confidence: w.Confidence,
					})
				} else {
					tail.Words = append(tail.Words, WordTiming{
						Word:       w.Word,
						StartMs:    maxInt(0, w.StartMs-splitMs),
						EndMs:      w.EndMs - splitMs,
						Confidence: w.Confidence,
					})
				}
			}
			first = append(first, head)
			second = append(second, tail)
		}
	}
	return first, second
}

// shiftCaptions moves every caption and word timestamp by deltaMs, clamping
// at zero so a front trim cannot produce negative times.
func shiftCaptions(captions []Caption, deltaMs int) []Caption {
	if deltaMs == 0 || len(captions) == 0 {
		return captions
	}
	shifted := make([]Caption, 0, len(captions))
	for _, c := range captions {
		moved := cloneCaption(c)
		moved.StartMs = maxInt(0, c.StartMs+deltaMs)
		moved.EndMs = maxInt(0, c.EndMs+deltaMs)
		if moved.EndMs == 0 {
			// The whole block fell off the trimmed front.
			continue
		}
		for i := range moved.Words {
			moved.Words[i].StartMs = maxInt(0, moved.Words[i].StartMs+deltaMs)
			moved.Words[i].EndMs = maxInt(0, moved.Words[i].EndMs+deltaMs)
		}
		shifted = append(shifted, moved)
	}
	return shifted
}

func cloneCaption(c Caption) Caption {
	out := c
	if len(c.Words) > 0 {
		out.Words = make([]WordTiming, len(c.Words))
		copy(out.Words, c.Words)
	}
	return out
}

func cloneCaptions(captions []Caption) []Caption {
	out := make([]Caption, len(captions))
	for i, c := range captions {
		out[i] = cloneCaption(c)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
