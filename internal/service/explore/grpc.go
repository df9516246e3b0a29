package explore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oggyb/muzz-web/internal/db"
	svcErr "github.com/oggyb/muzz-web/internal/errors"
)

// MatchServiceName is the fully-qualified gRPC service name.
const MatchServiceName = "muzz.explore.v1.MatchService"

const (
	listMatchesMethod = "/" + MatchServiceName + "/ListMatches"
	hasLikedMethod    = "/" + MatchServiceName + "/HasLiked"
)

// MatchServer is the internal gRPC API over matches. Messages are protobuf
// well-known types so no generated code is needed.
type MatchServer interface {
	ListMatches(context.Context, *wrapperspb.UInt64Value) (*structpb.ListValue, error)
	HasLiked(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
}

// MatchGRPC adapts Service to MatchServer.
type MatchGRPC struct {
	svc *Service
}

func NewMatchGRPC(svc *Service) *MatchGRPC {
	return &MatchGRPC{svc: svc}
}

// ListMatches returns the matches of the given user id as a list of structs
// {id, username, gender, bio, profile_picture}.
func (m *MatchGRPC) ListMatches(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.ListValue, error) {
	if req.GetValue() == 0 {
		return nil, svcErr.InvalidArgument("user_id must be a positive integer")
	}

	matches, err := m.svc.Matches(ctx, req.GetValue())
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := &structpb.ListValue{}
	for _, u := range matches {
		out.Values = append(out.Values, structpb.NewStructValue(userStruct(u)))
	}
	return out, nil
}

// HasLiked expects {actor_id, target_id} as numbers.
func (m *MatchGRPC) HasLiked(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	fields := req.GetFields()
	actor := fields["actor_id"].GetNumberValue()
	target := fields["target_id"].GetNumberValue()
	if actor <= 0 || target <= 0 {
		return nil, svcErr.InvalidArgument("actor_id and target_id must be positive integers")
	}

	liked, err := m.svc.HasLiked(ctx, uint64(actor), uint64(target))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return wrapperspb.Bool(liked), nil
}

func userStruct(u db.User) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":              structpb.NewNumberValue(float64(u.ID)),
		"username":        structpb.NewStringValue(u.Username),
		"gender":          structpb.NewStringValue(u.Gender),
		"bio":             structpb.NewStringValue(u.Bio),
		"profile_picture": structpb.NewStringValue(u.ProfilePicture),
	}}
}

func _MatchService_ListMatches_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServer).ListMatches(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listMatchesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServer).ListMatches(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchService_HasLiked_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServer).HasLiked(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: hasLikedMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchServer).HasLiked(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// MatchServiceDesc describes MatchService for grpc.Server.RegisterService.
var MatchServiceDesc = grpc.ServiceDesc{
	ServiceName: MatchServiceName,
	HandlerType: (*MatchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListMatches", Handler: _MatchService_ListMatches_Handler},
		{MethodName: "HasLiked", Handler: _MatchService_HasLiked_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "explore/v1/match.proto",
}

// MatchClient calls MatchService over an existing connection.
type MatchClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchClient(cc grpc.ClientConnInterface) *MatchClient {
	return &MatchClient{cc: cc}
}

func (c *MatchClient) ListMatches(ctx context.Context, userID uint64, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listMatchesMethod, wrapperspb.UInt64(userID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MatchClient) HasLiked(ctx context.Context, actorID, targetID uint64, opts ...grpc.CallOption) (bool, error) {
	in := &structpb.Struct{Fields: map[string]*structpb.Value{
		"actor_id":  structpb.NewNumberValue(float64(actorID)),
		"target_id": structpb.NewNumberValue(float64(targetID)),
	}}
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, hasLikedMethod, in, out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}
