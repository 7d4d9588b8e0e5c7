package domain

import "fmt"

type TextSize string

const (
	TextStandard   TextSize = "standard"
	TextLarge      TextSize = "large"
	TextExtraLarge TextSize = "extra_large"
)

func (t TextSize) Valid() bool {
	switch t {
	case TextStandard, TextLarge, TextExtraLarge:
		return true
	default:
		return false
	}
}

// Preferences is the accessibility settings bag. Defaults favor young
// patients: large text, high contrast, haptics on.
type Preferences struct {
	TextSize      TextSize `json:"text_size"`
	HighContrast  bool     `json:"high_contrast"`
	ReducedMotion bool     `json:"reduced_motion"`
	AudioVolume   int      `json:"audio_volume"`
	Haptics       bool     `json:"haptics"`
}

func Defaults() Preferences {
	return Preferences{
		TextSize:      TextLarge,
		HighContrast:  true,
		ReducedMotion: false,
		AudioVolume:   80,
		Haptics:       true,
	}
}

// Normalize clamps the volume and falls back to defaults for unknown sizes.
// Stored blobs from older versions stay loadable this way.
func (p Preferences) Normalize() Preferences {
	if !p.TextSize.Valid() {
		p.TextSize = TextLarge
	}
	if p.AudioVolume < 0 {
		p.AudioVolume = 0
	}
	if p.AudioVolume > 100 {
		p.AudioVolume = 100
	}
	return p
}

func (p Preferences) Validate() error {
	if !p.TextSize.Valid() {
		return fmt.Errorf("unsupported text size %q", string(p.TextSize))
	}
	if p.AudioVolume < 0 || p.AudioVolume > 100 {
		return fmt.Errorf("audio volume must be between 0 and 100")
	}
	return nil
}
