package assets

import (
	"testing"

	"github.com/framewright/framewright-editor/internal/timeline"
)

func TestGenerateOverlays_LaysShotsBackToBack(t *testing.T) {
	shots := []Shot{
		{ID: "s1", VideoURL: "https://cdn/v1.mp4", AudioURL: "https://cdn/a1.mp3", DurationS: 2, VoiceOver: "hello there"},
		{ID: "s2", VideoURL: "https://cdn/v2.mp4", AudioURL: "https://cdn/a2.mp3", DurationS: 3, VoiceOver: "general kenobi"},
	}

	overlays := GenerateOverlays(shots, 30)

	// Two shots, three overlays each.
	if len(overlays) != 6 {
		t.Fatalf("overlay count = %d, want 6", len(overlays))
	}

	videos := overlays.InRow(rowVisual)
	if len(videos) != 2 {
		t.Fatalf("visual overlay count = %d, want 2", len(videos))
	}
	if videos[0].From != 0 || videos[0].DurationInFrames != 60 {
		t.Errorf("first visual = from %d dur %d, want 0/60", videos[0].From, videos[0].DurationInFrames)
	}
	if videos[1].From != 60 || videos[1].DurationInFrames != 90 {
		t.Errorf("second visual = from %d dur %d, want 60/90", videos[1].From, videos[1].DurationInFrames)
	}

	sounds := overlays.InRow(rowSound)
	if len(sounds) != 2 || sounds[0].Src != "https://cdn/a1.mp3" || sounds[1].From != 60 {
		t.Errorf("sound overlays = %+v, want two aligned with visuals", sounds)
	}

	for _, row := range []int{rowVisual, rowSound, rowCaption} {
		inRow := overlays.InRow(row)
		for i := 1; i < len(inRow); i++ {
			if inRow[i].From < inRow[i-1].From+inRow[i-1].DurationInFrames {
				t.Errorf("row %d: overlay %d overlaps its predecessor", row, i)
			}
		}
	}
}

func TestGenerateOverlays_ImageFallback(t *testing.T) {
	shots := []Shot{{ID: "s1", ImageURL: "https://cdn/still.png", DurationS: 2}}
	overlays := GenerateOverlays(shots, 30)

	if len(overlays) != 1 {
		t.Fatalf("overlay count = %d, want 1", len(overlays))
	}
	if overlays[0].Type != timeline.TypeImage || overlays[0].Src != "https://cdn/still.png" {
		t.Errorf("overlay = %+v, want image overlay", overlays[0])
	}
}

func TestGenerateOverlays_SkipsDegenerateShots(t *testing.T) {
	shots := []Shot{
		{ID: "s1", VideoURL: "https://cdn/v1.mp4", DurationS: 0},
		{ID: "s2", DurationS: 2, VoiceOver: "no media at all"},
	}
	overlays := GenerateOverlays(shots, 30)

	// Zero-duration shot is dropped entirely; the media-less shot still
	// contributes its caption.
	if len(overlays) != 1 {
		t.Fatalf("overlay count = %d, want 1", len(overlays))
	}
	if overlays[0].Type != timeline.TypeCaption {
		t.Errorf("overlay type = %q, want caption", overlays[0].Type)
	}
}

func TestCaptionsFromVoiceOver(t *testing.T) {
	captions := captionsFromVoiceOver("one two three four five six seven", 7000)

	if len(captions) != 2 {
		t.Fatalf("caption block count = %d, want 2", len(captions))
	}
	if captions[0].Text != "one two three four five" || captions[1].Text != "six seven" {
		t.Errorf("blocks = %q / %q, want five-word grouping", captions[0].Text, captions[1].Text)
	}
	if captions[1].EndMs != 7000 {
		t.Errorf("final block EndMs = %d, want 7000", captions[1].EndMs)
	}

	if err := timeline.ValidateCaptions(captions); err != nil {
		t.Errorf("generated captions invalid: %v", err)
	}

	total := 0
	for _, c := range captions {
		total += len(c.Words)
	}
	if total != 7 {
		t.Errorf("word timing count = %d, want 7", total)
	}
}

func TestCaptionsFromVoiceOver_Empty(t *testing.T) {
	if got := captionsFromVoiceOver("   ", 5000); got != nil {
		t.Errorf("captionsFromVoiceOver(blank) = %v, want nil", got)
	}
	if got := captionsFromVoiceOver("words", 0); got != nil {
		t.Errorf("captionsFromVoiceOver with zero duration = %v, want nil", got)
	}
}
