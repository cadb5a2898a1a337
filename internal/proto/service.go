// Package proto declares the cheatsync.v1.CheatSheetService gRPC contract.
//
// Requests and responses travel as protobuf well-known types: structured
// payloads are google.protobuf.Struct documents carrying the JSON form of the
// models, and empty payloads are google.protobuf.Empty. Encode and Decode
// convert between the two.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "cheatsync.v1.CheatSheetService"

const (
	CheatSheetService_Ping_FullMethodName              = "/" + ServiceName + "/Ping"
	CheatSheetService_SignInAnonymously_FullMethodName = "/" + ServiceName + "/SignInAnonymously"
	CheatSheetService_RefreshToken_FullMethodName      = "/" + ServiceName + "/RefreshToken"
	CheatSheetService_ListSheets_FullMethodName        = "/" + ServiceName + "/ListSheets"
	CheatSheetService_GetSheet_FullMethodName          = "/" + ServiceName + "/GetSheet"
	CheatSheetService_CreateSheet_FullMethodName       = "/" + ServiceName + "/CreateSheet"
	CheatSheetService_UpdateSheet_FullMethodName       = "/" + ServiceName + "/UpdateSheet"
	CheatSheetService_DeleteSheet_FullMethodName       = "/" + ServiceName + "/DeleteSheet"
	CheatSheetService_ListCategories_FullMethodName    = "/" + ServiceName + "/ListCategories"
	CheatSheetService_CreateCategory_FullMethodName    = "/" + ServiceName + "/CreateCategory"
	CheatSheetService_DeleteCategory_FullMethodName    = "/" + ServiceName + "/DeleteCategory"
)

// CheatSheetServiceClient is the client API for CheatSheetService.
type CheatSheetServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	SignInAnonymously(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSheets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListCategories(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type cheatSheetServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCheatSheetServiceClient(cc grpc.ClientConnInterface) CheatSheetServiceClient {
	return &cheatSheetServiceClient{cc}
}

func invoke[Resp any, PResp interface {
	*Resp
	proto.Message
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cheatSheetServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_Ping_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) SignInAnonymously(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_SignInAnonymously_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_RefreshToken_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) ListSheets(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_ListSheets_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) GetSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_GetSheet_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) CreateSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_CreateSheet_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) UpdateSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_UpdateSheet_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) DeleteSheet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, CheatSheetService_DeleteSheet_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) ListCategories(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_ListCategories_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) CreateCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, CheatSheetService_CreateCategory_FullMethodName, in, opts)
}

func (c *cheatSheetServiceClient) DeleteCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, CheatSheetService_DeleteCategory_FullMethodName, in, opts)
}

// CheatSheetServiceServer is the server API for CheatSheetService.
// Implementations must embed UnimplementedCheatSheetServiceServer.
type CheatSheetServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SignInAnonymously(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSheets(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetSheet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSheet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSheet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSheet(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ListCategories(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CreateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCategory(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	mustEmbedUnimplementedCheatSheetServiceServer()
}

type UnimplementedCheatSheetServiceServer struct{}

func (UnimplementedCheatSheetServiceServer) Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedCheatSheetServiceServer) SignInAnonymously(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SignInAnonymously not implemented")
}
func (UnimplementedCheatSheetServiceServer) RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedCheatSheetServiceServer) ListSheets(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSheets not implemented")
}
func (UnimplementedCheatSheetServiceServer) GetSheet(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSheet not implemented")
}
func (UnimplementedCheatSheetServiceServer) CreateSheet(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSheet not implemented")
}
func (UnimplementedCheatSheetServiceServer) UpdateSheet(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSheet not implemented")
}
func (UnimplementedCheatSheetServiceServer) DeleteSheet(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteSheet not implemented")
}
func (UnimplementedCheatSheetServiceServer) ListCategories(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCategories not implemented")
}
func (UnimplementedCheatSheetServiceServer) CreateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateCategory not implemented")
}
func (UnimplementedCheatSheetServiceServer) DeleteCategory(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteCategory not implemented")
}
func (UnimplementedCheatSheetServiceServer) mustEmbedUnimplementedCheatSheetServiceServer() {}

func RegisterCheatSheetServiceServer(s grpc.ServiceRegistrar, srv CheatSheetServiceServer) {
	s.RegisterService(&CheatSheetService_ServiceDesc, srv)
}

func unary[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](method string, call func(CheatSheetServiceServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CheatSheetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CheatSheetServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CheatSheetService_ServiceDesc is the grpc.ServiceDesc for CheatSheetService.
var CheatSheetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CheatSheetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary[emptypb.Empty](CheatSheetService_Ping_FullMethodName, CheatSheetServiceServer.Ping)},
		{MethodName: "SignInAnonymously", Handler: unary[emptypb.Empty](CheatSheetService_SignInAnonymously_FullMethodName, CheatSheetServiceServer.SignInAnonymously)},
		{MethodName: "RefreshToken", Handler: unary[structpb.Struct](CheatSheetService_RefreshToken_FullMethodName, CheatSheetServiceServer.RefreshToken)},
		{MethodName: "ListSheets", Handler: unary[emptypb.Empty](CheatSheetService_ListSheets_FullMethodName, CheatSheetServiceServer.ListSheets)},
		{MethodName: "GetSheet", Handler: unary[structpb.Struct](CheatSheetService_GetSheet_FullMethodName, CheatSheetServiceServer.GetSheet)},
		{MethodName: "CreateSheet", Handler: unary[structpb.Struct](CheatSheetService_CreateSheet_FullMethodName, CheatSheetServiceServer.CreateSheet)},
		{MethodName: "UpdateSheet", Handler: unary[structpb.Struct](CheatSheetService_UpdateSheet_FullMethodName, CheatSheetServiceServer.UpdateSheet)},
		{MethodName: "DeleteSheet", Handler: unary[structpb.Struct](CheatSheetService_DeleteSheet_FullMethodName, CheatSheetServiceServer.DeleteSheet)},
		{MethodName: "ListCategories", Handler: unary[emptypb.Empty](CheatSheetService_ListCategories_FullMethodName, CheatSheetServiceServer.ListCategories)},
		{MethodName: "CreateCategory", Handler: unary[structpb.Struct](CheatSheetService_CreateCategory_FullMethodName, CheatSheetServiceServer.CreateCategory)},
		{MethodName: "DeleteCategory", Handler: unary[structpb.Struct](CheatSheetService_DeleteCategory_FullMethodName, CheatSheetServiceServer.DeleteCategory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cheatsync/v1/cheatsheet.proto",
}
