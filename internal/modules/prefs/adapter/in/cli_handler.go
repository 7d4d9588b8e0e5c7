package in

import (
	"context"

	"stc/internal/modules/prefs/dto"
	prefsin "stc/internal/modules/prefs/port/in"
)

type CLIHandler struct {
	usecase prefsin.Usecase
}

func NewCLIHandler(usecase prefsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Get(ctx context.Context) (dto.PreferencesOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Set(ctx context.Context, key, value string) (dto.PreferencesOutput, error) {
	return h.usecase.Set(ctx, dto.SetInput{Key: key, Value: value})
}
