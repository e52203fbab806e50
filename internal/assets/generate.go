package assets

import (
	"strings"

	"github.com/framewright/framewright-editor/internal/timeline"
)

// Track rows used by generated collections. Visuals, narration audio and
// captions each get their own row so generated overlays never collide.
const (
	rowVisual  = 0
	rowSound   = 1
	rowCaption = 2
)

// GenerateOverlays converts a shot list into an overlay collection. Shots
// are laid out back to back: each shot contributes a visual overlay (video
// when available, image otherwise), a sound overlay for its narration and a
// caption overlay derived from the voice-over text.
func GenerateOverlays(shots []Shot, fps int) timeline.Collection {
	var overlays timeline.Collection
	cursor := 0

	for _, shot := range shots {
		duration := timeline.SecondsToFrames(shot.DurationS, fps)
		if duration < 1 {
			continue
		}

		if visual, ok := visualOverlay(shot, cursor, duration); ok {
			overlays.Add(visual)
		}
		if shot.AudioURL != "" {
			overlays.Add(timeline.Overlay{
				ID:               timeline.NewID(),
				Type:             timeline.TypeSound,
				From:             cursor,
				DurationInFrames: duration,
				Row:              rowSound,
				Src:              shot.AudioURL,
			})
		}
		if strings.TrimSpace(shot.VoiceOver) != "" {
			overlays.Add(timeline.Overlay{
				ID:               timeline.NewID(),
				Type:             timeline.TypeCaption,
				From:             cursor,
				DurationInFrames: duration,
				Row:              rowCaption,
				Captions:         captionsFromVoiceOver(shot.VoiceOver, timeline.FramesToMs(duration, fps)),
			})
		}

		cursor += duration
	}
	return overlays
}

func visualOverlay(shot Shot, from, duration int) (timeline.Overlay, bool) {
	o := timeline.Overlay{
		ID:               timeline.NewID(),
		From:             from,
		DurationInFrames: duration,
		Row:              rowVisual,
	}
	switch {
	case shot.VideoURL != "":
		o.Type = timeline.TypeVideo
		o.Src = shot.VideoURL
	case shot.ImageURL != "":
		o.Type = timeline.TypeImage
		o.Src = shot.ImageURL
	default:
		return timeline.Overlay{}, false
	}
	return o, true
}

// captionsFromVoiceOver distributes the voice-over words evenly across the
// overlay duration, grouped into blocks of a few words each. Real word
// timings come from the narration service eventually; even spacing keeps
// captions readable until then.
func captionsFromVoiceOver(text string, durationMs int) []timeline.Caption {
	words := strings.Fields(text)
	if len(words) == 0 || durationMs <= 0 {
		return nil
	}

	const wordsPerBlock = 5
	msPerWord := durationMs / len(words)
	if msPerWord < 1 {
		msPerWord = 1
	}

	var captions []timeline.Caption
	for start := 0; start < len(words); start += wordsPerBlock {
		end := start + wordsPerBlock
		if end > len(words) {
			end = len(words)
		}

		block := timeline.Caption{
			Text:    strings.Join(words[start:end], " "),
			StartMs: start * msPerWord,
			EndMs:   end * msPerWord,
		}
		for i := start; i < end; i++ {
			block.Words = append(block.Words, timeline.WordTiming{
				Word:    words[i],
				StartMs: i * msPerWord,
				EndMs:   (i + 1) * msPerWord,
			})
		}
		captions = append(captions, block)
	}

	// The final block absorbs the rounding remainder.
	last := &captions[len(captions)-1]
	if durationMs > last.StartMs {
		last.EndMs = durationMs
		if n := len(last.Words); n > 0 && last.Words[n-1].EndMs > durationMs {
			last.Words[n-1].EndMs = durationMs
		}
	}
	return captions
}
