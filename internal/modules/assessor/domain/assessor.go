package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Difficulty levels accepted by assessors. Easier levels raise the simulated
// success chance.
const (
	DifficultyEasy        = 1
	DifficultyModerate    = 2
	DifficultyChallenging = 3
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one out-of-process assessor. Built-in assessors have no
// manifest; they are registered directly with the service.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("assessor name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("assessor version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("assessor binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("assessor sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name    string
	Version string
}

// AssessRequest is one pronunciation attempt. Attempt counts prior tries of
// the same word within the activity, starting at zero.
type AssessRequest struct {
	TargetSound   string
	TargetWord    string
	Transcription string
	Difficulty    int
	Attempt       int
}

func (r AssessRequest) Validate() error {
	if strings.TrimSpace(r.TargetWord) == "" {
		return fmt.Errorf("target word is required")
	}
	if r.Difficulty < DifficultyEasy || r.Difficulty > DifficultyChallenging {
		return fmt.Errorf("difficulty must be between %d and %d", DifficultyEasy, DifficultyChallenging)
	}
	if r.Attempt < 0 {
		return fmt.Errorf("attempt cannot be negative")
	}
	return nil
}

// Result is the machine judgment of one attempt. SuggestedTokens is advisory;
// tokens are only ever banked when the activity closes.
type Result struct {
	Recognized      bool
	Clarity         int
	Accuracy        int
	Notes           string
	SuggestedTokens int
}
