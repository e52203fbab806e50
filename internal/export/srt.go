package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/framewright/framewright-editor/internal/timeline"
)

// GenerateSRT renders every caption overlay as a SubRip subtitle file.
// Caption timestamps are relative to their overlay, so each cue is offset
// by the overlay's timeline position.
func GenerateSRT(overlays timeline.Collection, fps int) string {
	if fps <= 0 {
		fps = timeline.DefaultFPS
	}

	type cue struct {
		startMs int
		endMs   int
		text    string
	}
	var cues []cue
	for _, o := range overlays {
		if o.Type != timeline.TypeCaption {
			continue
		}
		offsetMs := timeline.FramesToMs(o.From, fps)
		for _, c := range o.Captions {
			cues = append(cues, cue{
				startMs: offsetMs + c.StartMs,
				endMs:   offsetMs + c.EndMs,
				text:    c.Text,
			})
		}
	}
	sort.Slice(cues, func(i, j int) bool { return cues[i].startMs < cues[j].startMs })

	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(c.startMs), srtTimestamp(c.endMs), c.text)
	}
	return b.String()
}

func srtTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	millis := ms % 1000
	totalSeconds := ms / 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
