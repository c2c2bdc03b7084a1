package grpc

import (
	"context"

	"github.com/dmitrijs2005/aora/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// platformServer is the handler side of the service. Every message is a
// google.protobuf.Struct, so the descriptor is written by hand.
type platformServer interface {
	CreateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateEmailSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDocuments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ platformServer = (*GRPCServer)(nil)

type structMethod func(platformServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call structMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := &structpb.Struct{}
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(platformServer), ctx, req.(*structpb.Struct))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: wire.FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: wire.ServiceName,
	HandlerType: (*platformServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(wire.CreateAccount, platformServer.CreateAccount),
		methodDesc(wire.CreateEmailSession, platformServer.CreateEmailSession),
		methodDesc(wire.DeleteSession, platformServer.DeleteSession),
		methodDesc(wire.GetAccount, platformServer.GetAccount),
		methodDesc(wire.CreateDocument, platformServer.CreateDocument),
		methodDesc(wire.ListDocuments, platformServer.ListDocuments),
		methodDesc(wire.CreateUpload, platformServer.CreateUpload),
		methodDesc(wire.CompleteUpload, platformServer.CompleteUpload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "aora/platform/v1/platform.proto",
}
