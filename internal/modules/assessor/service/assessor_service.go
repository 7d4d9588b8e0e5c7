package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"stc/internal/modules/assessor/domain"
	"stc/internal/modules/assessor/dto"
	assessorout "stc/internal/modules/assessor/port/out"
	apperrors "stc/internal/platform/errors"
)

type AssessorService struct {
	store   assessorout.ManifestStore
	host    assessorout.Host
	builtin map[string]assessorout.Provider
}

func NewAssessorService(store assessorout.ManifestStore, host assessorout.Host, builtin ...assessorout.Provider) *AssessorService {
	byName := make(map[string]assessorout.Provider, len(builtin))
	for _, provider := range builtin {
		byName[provider.Metadata().Name] = provider
	}
	return &AssessorService{store: store, host: host, builtin: byName}
}

func (s *AssessorService) List(ctx context.Context) ([]dto.AssessorInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssessorInfo, 0, len(s.builtin)+len(manifests))
	for _, provider := range s.builtin {
		meta := provider.Metadata()
		out = append(out, dto.AssessorInfo{Name: meta.Name, Version: meta.Version, Enabled: true, Builtin: true})
	}
	for _, m := range manifests {
		out = append(out, dto.AssessorInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

func (s *AssessorService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Assess routes to the named assessor, defaulting to the built-in simulator.
func (s *AssessorService) Assess(ctx context.Context, input dto.AssessInput) (dto.AssessOutput, error) {
	name := input.Assessor
	if name == "" {
		name = SimulatedName
	}
	req := domain.AssessRequest{
		TargetSound:   input.TargetSound,
		TargetWord:    input.TargetWord,
		Transcription: input.Transcription,
		Difficulty:    input.Difficulty,
		Attempt:       input.Attempt,
	}
	if err := req.Validate(); err != nil {
		return dto.AssessOutput{}, err
	}

	if provider, ok := s.builtin[name]; ok {
		result, err := provider.Assess(ctx, req)
		if err != nil {
			return dto.AssessOutput{}, err
		}
		return toOutput(name, result), nil
	}

	manifest, err := s.getRunnableManifest(ctx, name)
	if err != nil {
		return dto.AssessOutput{}, err
	}
	result, err := s.host.Assess(ctx, manifest, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return dto.AssessOutput{}, fmt.Errorf("%w: %s", apperrors.ErrAssessorTimeout, name)
		}
		return dto.AssessOutput{}, err
	}
	return toOutput(name, result), nil
}

func (s *AssessorService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate assessor name: %s", manifest.Name)
		}
		if _, ok := s.builtin[manifest.Name]; ok {
			return nil, fmt.Errorf("assessor name %q shadows a built-in", manifest.Name)
		}
		seen[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *AssessorService) getRunnableManifest(ctx context.Context, name string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	manifest := domain.Manifest{}
	found := false
	for _, item := range manifests {
		if item.Name == name {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrAssessorNotFound, name)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrAssessorDisabled, name)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host != nil {
		if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrAssessorTimeout, name)
			}
			return domain.Manifest{}, err
		}
	}
	return manifest, nil
}

func toOutput(name string, result domain.Result) dto.AssessOutput {
	return dto.AssessOutput{
		Assessor:        name,
		Recognized:      result.Recognized,
		Clarity:         result.Clarity,
		Accuracy:        result.Accuracy,
		Notes:           result.Notes,
		SuggestedTokens: result.SuggestedTokens,
	}
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read assessor binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", apperrors.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
