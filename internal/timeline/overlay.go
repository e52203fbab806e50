// Package timeline implements the in-memory model of a video composition:
// time-positioned, multi-row overlay elements on a discrete frame grid,
// together with the mutation operations and placement algorithms that keep
// the composition free of same-row collisions.
package timeline

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// OverlayType discriminates the overlay variants. The set is closed; every
// consumer switches over all five values.
type OverlayType string

const (
	TypeVideo   OverlayType = "video"
	TypeImage   OverlayType = "image"
	TypeText    OverlayType = "text"
	TypeCaption OverlayType = "caption"
	TypeSound   OverlayType = "sound"
)

// Valid reports whether t is one of the known overlay types.
func (t OverlayType) Valid() bool {
	switch t {
	case TypeVideo, TypeImage, TypeText, TypeCaption, TypeSound:
		return true
	default:
		return false
	}
}

// Styles holds the presentational properties of an overlay. Which fields are
// meaningful depends on the overlay type; unset fields are omitted on the wire.
type Styles struct {
	Volume     *float64 `json:"volume,omitempty"`
	ObjectFit  string   `json:"objectFit,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	Animation  string   `json:"animation,omitempty"`
	FontFamily string   `json:"fontFamily,omitempty"`
	FontSize   string   `json:"fontSize,omitempty"`
	FontWeight string   `json:"fontWeight,omitempty"`
	Color      string   `json:"color,omitempty"`
	Background string   `json:"background,omitempty"`
	TextAlign  string   `json:"textAlign,omitempty"`
}

// StylePatch is a partial Styles value. Nil fields are left untouched when
// the patch is applied, giving shallow-merge semantics.
type StylePatch struct {
	Volume     *float64 `json:"volume,omitempty"`
	ObjectFit  *string  `json:"objectFit,omitempty"`
	Filter     *string  `json:"filter,omitempty"`
	Animation  *string  `json:"animation,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
	FontSize   *string  `json:"fontSize,omitempty"`
	FontWeight *string  `json:"fontWeight,omitempty"`
	Color      *string  `json:"color,omitempty"`
	Background *string  `json:"background,omitempty"`
	TextAlign  *string  `json:"textAlign,omitempty"`
}

func (s *Styles) apply(p StylePatch) {
	if p.Volume != nil {
		s.Volume = p.Volume
	}
	if p.ObjectFit != nil {
		s.ObjectFit = *p.ObjectFit
	}
	if p.Filter != nil {
		s.Filter = *p.Filter
	}
	if p.Animation != nil {
		s.Animation = *p.Animation
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		s.FontWeight = *p.FontWeight
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Background != nil {
		s.Background = *p.Background
	}
	if p.TextAlign != nil {
		s.TextAlign = *p.TextAlign
	}
}

// Overlay is one positioned, timed element on the timeline. Field names match
// the composition input props consumed by the render backend and the browser
// player, hence the camelCase JSON tags.
type Overlay struct {
	ID               int64       `json:"id"`
	Type             OverlayType `json:"type"`
	From             int         `json:"from"`
	DurationInFrames int         `json:"durationInFrames"`
	Row              int         `json:"row"`

	// Pixel-space layout within the composition frame, not timeline position.
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`

	// IsDragging is transient UI state, true only during an active gesture.
	IsDragging bool `json:"isDragging,omitempty"`

	// Media-backed variants (video, image, sound).
	Src string `json:"src,omitempty"`
	// VideoStartTime is the frame offset into the source media where playback
	// starts. Trimming the front of a clip advances it.
	VideoStartTime int `json:"videoStartTime,omitempty"`
	// StartFromSound is the sound-variant counterpart of VideoStartTime.
	StartFromSound int `json:"startFromSound,omitempty"`

	// Text variant.
	Content string `json:"content,omitempty"`

	// Caption variant.
	Captions []Caption `json:"captions,omitempty"`

	Styles Styles `json:"styles"`
}

// End returns the exclusive end frame of the overlay.
func (o Overlay) End() int {
	return o.From + o.DurationInFrames
}

// Clone returns a deep copy of the overlay, including caption blocks.
func (o Overlay) Clone() Overlay {
	c := o
	if o.Styles.Volume != nil {
		v := *o.Styles.Volume
		c.Styles.Volume = &v
	}
	if len(o.Captions) > 0 {
		c.Captions = cloneCaptions(o.Captions)
	}
	return c
}

// ShiftMediaStart advances the overlay's internal media start to account for
// frames trimmed off the front. Video and sound move their source offsets;
// captions shift their timestamps; image and text carry no internal clock.
func (o *Overlay) ShiftMediaStart(trimmedFrames, fps int) {
	if trimmedFrames == 0 {
		return
	}
	switch o.Type {
	case TypeVideo:
		o.VideoStartTime = maxInt(0, o.VideoStartTime+trimmedFrames)
	case TypeSound:
		o.StartFromSound = maxInt(0, o.StartFromSound+trimmedFrames)
	case TypeCaption:
		o.Captions = shiftCaptions(o.Captions, -FramesToMs(trimmedFrames, fps))
	case TypeImage, TypeText:
		// No internal start offset.
	}
}

var lastID atomic.Int64

// NewID allocates an overlay identifier. IDs are time-based with random
// jitter, forced strictly increasing so overlays created in rapid
// succession stay unique.
func NewID() int64 {
	for {
		candidate := time.Now().UnixMilli()*1000 + rand.Int63n(1000)
		prev := lastID.Load()
		if candidate <= prev {
			candidate = prev + 1
		}
		if lastID.CompareAndSwap(prev, candidate) {
			return candidate
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
