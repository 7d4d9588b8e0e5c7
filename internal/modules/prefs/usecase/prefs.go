package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stc/internal/modules/prefs/domain"
	"stc/internal/modules/prefs/dto"
	prefsin "stc/internal/modules/prefs/port/in"
	prefsout "stc/internal/modules/prefs/port/out"
)

type Interactor struct {
	store prefsout.Store
}

func NewInteractor(store prefsout.Store) prefsin.Usecase {
	return &Interactor{store: store}
}

func (i *Interactor) Get(ctx context.Context) (dto.PreferencesOutput, error) {
	prefs, err := i.store.Load(ctx)
	if err != nil {
		return dto.PreferencesOutput{}, err
	}
	return toOutput(prefs.Normalize()), nil
}

func (i *Interactor) Set(ctx context.Context, input dto.SetInput) (dto.PreferencesOutput, error) {
	prefs, err := i.store.Load(ctx)
	if err != nil {
		return dto.PreferencesOutput{}, err
	}
	prefs = prefs.Normalize()

	key := strings.ToLower(strings.TrimSpace(input.Key))
	value := strings.TrimSpace(input.Value)
	switch key {
	case "text_size":
		prefs.TextSize = domain.TextSize(value)
	case "high_contrast":
		prefs.HighContrast, err = strconv.ParseBool(value)
	case "reduced_motion":
		prefs.ReducedMotion, err = strconv.ParseBool(value)
	case "audio_volume":
		prefs.AudioVolume, err = strconv.Atoi(value)
	case "haptics":
		prefs.Haptics, err = strconv.ParseBool(value)
	default:
		return dto.PreferencesOutput{}, fmt.Errorf("unknown preference %q", input.Key)
	}
	if err != nil {
		return dto.PreferencesOutput{}, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := prefs.Validate(); err != nil {
		return dto.PreferencesOutput{}, err
	}
	if err := i.store.Save(ctx, prefs); err != nil {
		return dto.PreferencesOutput{}, err
	}
	return toOutput(prefs), nil
}

func toOutput(prefs domain.Preferences) dto.PreferencesOutput {
	return dto.PreferencesOutput{
		TextSize:      string(prefs.TextSize),
		HighContrast:  prefs.HighContrast,
		ReducedMotion: prefs.ReducedMotion,
		AudioVolume:   prefs.AudioVolume,
		Haptics:       prefs.Haptics,
	}
}
