// Out-of-process variant of the built-in simulated assessor. Useful as a
// template for real assessor plugins and for exercising the host end to end.
package main

import (
	"context"
	"math/rand"

	assessorrpc "stc/internal/modules/assessor/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *assessorrpc.Empty) (*assessorrpc.Metadata, error) {
	return &assessorrpc.Metadata{
		Name:    "simulated-external",
		Version: "1.0.0",
	}, nil
}

func (s *server) Assess(_ context.Context, in *assessorrpc.AssessRequest) (*assessorrpc.AssessResponse, error) {
	threshold := 0.7 - 0.1*float64(3-in.Difficulty) + 0.1*float64(in.Attempt)
	if rand.Float64() < threshold {
		tokens := 3 - in.Attempt
		if tokens < 1 {
			tokens = 1
		}
		return &assessorrpc.AssessResponse{
			Recognized:      true,
			Clarity:         3,
			Accuracy:        90,
			Notes:           "Good pronunciation",
			SuggestedTokens: tokens,
		}, nil
	}
	return &assessorrpc.AssessResponse{
		Recognized: false,
		Clarity:    1,
		Accuracy:   40,
		Notes:      "Needs practice",
	}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: assessorrpc.HandshakeConfig,
		Plugins:         assessorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
