package dto

type SetInput struct {
	Key   string
	Value string
}

type PreferencesOutput struct {
	TextSize      string
	HighContrast  bool
	ReducedMotion bool
	AudioVolume   int
	Haptics       bool
}
