package service

import (
	"context"
	"math/rand"

	"stc/internal/modules/assessor/domain"
	assessorout "stc/internal/modules/assessor/port/out"
)

const SimulatedName = "simulated"

// SimulatedAssessor is the built-in provider. Success chance rises with
// easier difficulty and with repeated attempts at the same word.
type SimulatedAssessor struct {
	rng *rand.Rand
}

func NewSimulatedAssessor(seed int64) *SimulatedAssessor {
	return &SimulatedAssessor{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedAssessor) Metadata() domain.Metadata {
	return domain.Metadata{Name: SimulatedName, Version: "1.0.0"}
}

func (s *SimulatedAssessor) Assess(_ context.Context, req domain.AssessRequest) (domain.Result, error) {
	if err := req.Validate(); err != nil {
		return domain.Result{}, err
	}
	threshold := 0.7 - 0.1*float64(3-req.Difficulty) + 0.1*float64(req.Attempt)
	success := s.rng.Float64() < threshold
	if success {
		tokens := 3 - req.Attempt
		if tokens < 1 {
			tokens = 1
		}
		return domain.Result{
			Recognized:      true,
			Clarity:         3,
			Accuracy:        90,
			Notes:           "Good pronunciation",
			SuggestedTokens: tokens,
		}, nil
	}
	return domain.Result{
		Recognized: false,
		Clarity:    1,
		Accuracy:   40,
		Notes:      "Needs practice",
	}, nil
}

var _ assessorout.Provider = (*SimulatedAssessor)(nil)
