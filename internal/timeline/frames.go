package timeline

import (
	"fmt"
	"math"
)

// DefaultFPS is the frame rate applied when a composition does not set one.
const DefaultFPS = 30

// SecondsToFrames converts a continuous duration in seconds to a whole frame
// count. Rounding happens here, at the boundary where media metadata enters
// the timeline; committed state is always integer frames.
func SecondsToFrames(seconds float64, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(math.Round(seconds * float64(fps)))
}

// FramesToSeconds converts a frame count back to seconds.
func FramesToSeconds(frames, fps int) float64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return float64(frames) / float64(fps)
}

// FramesToMs converts a frame count to whole milliseconds.
func FramesToMs(frames, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(math.Round(float64(frames) * 1000.0 / float64(fps)))
}

// MsToFrames converts milliseconds to a whole frame count.
func MsToFrames(ms, fps int) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return int(math.Round(float64(ms) * float64(fps) / 1000.0))
}

// FormatFrames renders a frame position as MM:SS.FF for display.
func FormatFrames(frames, fps int) string {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if frames < 0 {
		frames = 0
	}
	ff := frames % fps
	totalSeconds := frames / fps
	ss := totalSeconds % 60
	mm := totalSeconds / 60
	return fmt.Sprintf("%02d:%02d.%02d", mm, ss, ff)
}
