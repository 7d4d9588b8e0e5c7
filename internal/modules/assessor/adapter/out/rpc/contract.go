package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "stc"
	serviceName       = "stc.assessor.v1.Assessor"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodAssess      = "/" + serviceName + "/Assess"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "STC_ASSESSOR",
	MagicCookieValue: "stc",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type AssessRequest struct {
	TargetSound   string `json:"target_sound"`
	TargetWord    string `json:"target_word"`
	Transcription string `json:"transcription"`
	Difficulty    int32  `json:"difficulty"`
	Attempt       int32  `json:"attempt"`
}

type AssessResponse struct {
	Recognized      bool   `json:"recognized"`
	Clarity         int32  `json:"clarity"`
	Accuracy        int32  `json:"accuracy"`
	Notes           string `json:"notes"`
	SuggestedTokens int32  `json:"suggested_tokens"`
}

type AssessorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Assess(ctx context.Context, in *AssessRequest) (*AssessResponse, error)
}

type AssessorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Assess(ctx context.Context, in *AssessRequest) (*AssessResponse, error)
}

type assessorClient struct {
	conn *grpc.ClientConn
}

func NewAssessorClient(conn *grpc.ClientConn) AssessorClient {
	return &assessorClient{conn: conn}
}

func (c *assessorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *assessorClient) Assess(ctx context.Context, in *AssessRequest) (*AssessResponse, error) {
	out := &AssessResponse{}
	if err := c.conn.Invoke(ctx, methodAssess, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterAssessorServer(server grpc.ServiceRegistrar, impl AssessorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*AssessorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Assess",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &AssessRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Assess(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodAssess}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*AssessRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Assess(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/assessor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl AssessorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterAssessorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewAssessorClient(conn), nil
}

func PluginMap(impl AssessorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
