package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	pb "github.com/dmitrijs2005/cheatsync/internal/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.encode(ctx, pb.PingResponse{Status: "OK"})
}

func (s *GRPCServer) SignInAnonymously(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	user, tokens, err := s.identity.SignInAnonymously(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "anonymous identity issued", "user_id", user.ID)
	return s.encode(ctx, pb.SignInResponse{
		UserID:       user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pb.RefreshTokenRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	if in.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "missing refresh token")
	}

	userID, tokens, err := s.identity.RefreshToken(ctx, in.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, pb.SignInResponse{
		UserID:       userID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *GRPCServer) ListSheets(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.sheets.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, pb.SheetList{Sheets: list})
}

func (s *GRPCServer) GetSheet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in pb.IDRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	sheet, err := s.sheets.Get(ctx, userID, in.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, sheet)
}

func (s *GRPCServer) CreateSheet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in models.SheetDraft
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	sheet, err := s.sheets.Create(ctx, userID, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, sheet)
}

func (s *GRPCServer) UpdateSheet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in pb.UpdateSheetRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	sheet, err := s.sheets.Update(ctx, userID, in.ID, in.Patch)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, sheet)
}

func (s *GRPCServer) DeleteSheet(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in pb.IDRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.sheets.Delete(ctx, userID, in.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, pb.CategoryList{Categories: list})
}

func (s *GRPCServer) CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in models.CategoryDraft
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	c, err := s.categories.Create(ctx, userID, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, c)
}

func (s *GRPCServer) DeleteCategory(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var in pb.IDRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	if err := s.categories.Delete(ctx, userID, in.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func callerID(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing identity")
	}
	return id, nil
}

func decode(req *structpb.Struct, v any) error {
	if err := pb.Decode(req, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (s *GRPCServer) encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error(ctx, "failed to encode response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// toStatus maps service errors onto gRPC codes. Anything unrecognised is
// logged and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
