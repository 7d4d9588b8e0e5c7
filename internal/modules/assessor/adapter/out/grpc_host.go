package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	assessorrpc "stc/internal/modules/assessor/adapter/out/rpc"
	"stc/internal/modules/assessor/domain"
	assessorout "stc/internal/modules/assessor/port/out"
	apperrors "stc/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() assessorout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version}, nil
}

func (h *GRPCHost) Assess(ctx context.Context, manifest domain.Manifest, req domain.AssessRequest) (domain.Result, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Result{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Assess(callCtx, &assessorrpc.AssessRequest{
		TargetSound:   req.TargetSound,
		TargetWord:    req.TargetWord,
		Transcription: req.Transcription,
		Difficulty:    int32(req.Difficulty),
		Attempt:       int32(req.Attempt),
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Result{}, fmt.Errorf("%w: %s", apperrors.ErrAssessorTimeout, manifest.Name)
		}
		return domain.Result{}, fmt.Errorf("assess: %w", err)
	}
	return domain.Result{
		Recognized:      response.Recognized,
		Clarity:         int(response.Clarity),
		Accuracy:        int(response.Accuracy),
		Notes:           response.Notes,
		SuggestedTokens: int(response.SuggestedTokens),
	}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (assessorrpc.AssessorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  assessorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          assessorrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start assessor client: %w", err)
	}
	raw, err := rpcClient.Dispense(assessorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense assessor: %w", err)
	}
	typed, ok := raw.(assessorrpc.AssessorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("assessor rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
