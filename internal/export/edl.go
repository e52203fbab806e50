// Package export turns a timeline into interchange formats for external
// editors. Only CMX3600-style EDL is supported; it covers the video track,
// which is what conform workflows consume.
package export

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/framewright/framewright-editor/internal/timeline"
)

// GenerateEDL renders the video-track overlays of a collection as an EDL.
// Source in/out comes from each overlay's media start offset, record in/out
// from its timeline placement. Overlays appear in record order.
func GenerateEDL(overlays timeline.Collection, title string, fps int) string {
	if fps <= 0 {
		fps = timeline.DefaultFPS
	}

	var clips []timeline.Overlay
	for _, o := range overlays {
		if o.Type == timeline.TypeVideo {
			clips = append(clips, o)
		}
	}
	sort.Slice(clips, func(i, j int) bool {
		if clips[i].From != clips[j].From {
			return clips[i].From < clips[j].From
		}
		return clips[i].Row < clips[j].Row
	})

	lines := []string{
		fmt.Sprintf("TITLE: %s", SanitizeName(title, 70)),
		"FCM: NON-DROP FRAME",
		"",
	}

	for i, clip := range clips {
		srcIn := framesToTimecode(clip.VideoStartTime, fps)
		srcOut := framesToTimecode(clip.VideoStartTime+clip.DurationInFrames, fps)
		recIn := framesToTimecode(clip.From, fps)
		recOut := framesToTimecode(clip.From+clip.DurationInFrames, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", clipName(clip)),
			fmt.Sprintf("* MEDIA PATH:  %s", clip.Src),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func clipName(o timeline.Overlay) string {
	name := o.Src
	if u, err := url.Parse(o.Src); err == nil && u.Path != "" {
		name = path.Base(u.Path)
	}
	name = SanitizeName(name, 60)
	if name == "" {
		name = fmt.Sprintf("overlay_%d", o.ID)
	}
	return name
}

func framesToTimecode(frames, fps int) string {
	if frames < 0 {
		frames = 0
	}
	ff := frames % fps
	totalSeconds := frames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, ff)
}
