package grpc

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	pb "github.com/dmitrijs2005/cheatsync/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(id *fakeIdentity) *GRPCServer {
	return NewGRPCServer("", nopLogger{}, id, &fakeSheets{}, &fakeCategories{})
}

func withToken(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newTestServer(&fakeIdentity{})

	for _, m := range []string{
		pb.CheatSheetService_Ping_FullMethodName,
		pb.CheatSheetService_SignInAnonymously_FullMethodName,
		pb.CheatSheetService_RefreshToken_FullMethodName,
	} {
		handlerCalled := false
		h := func(ctx context.Context, req any) (any, error) {
			handlerCalled = true
			if _, ok := userIDFromContext(ctx); ok {
				t.Fatal("public method must not carry an identity")
			}
			return "ok", nil
		}

		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if !handlerCalled || resp != "ok" {
			t.Fatalf("%s: handler not called properly", m)
		}
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer(&fakeIdentity{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.CheatSheetService_ListSheets_FullMethodName}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer(&fakeIdentity{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.CheatSheetService_CreateSheet_FullMethodName}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called with invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withToken("not-a-valid-jwt"), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ExpiredTokenIsReported(t *testing.T) {
	s := newTestServer(&fakeIdentity{authErr: fmt.Errorf("%w: %w", common.ErrUnauthorized, common.ErrTokenExpired)})
	info := &grpc.UnaryServerInfo{FullMethod: pb.CheatSheetService_ListSheets_FullMethodName}

	_, err := s.accessTokenInterceptor(withToken("tok-u-1"), nil, info, func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called with an expired token")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != common.ErrTokenExpired.Error() {
		t.Fatalf("expected %q, got %q", common.ErrTokenExpired.Error(), status.Convert(err).Message())
	}
}

func TestInterceptor_StoreFailureIsInternal(t *testing.T) {
	s := newTestServer(&fakeIdentity{authErr: errDB})
	info := &grpc.UnaryServerInfo{FullMethod: pb.CheatSheetService_ListSheets_FullMethodName}

	_, err := s.accessTokenInterceptor(withToken("tok-u-1"), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, nil
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", status.Code(err))
	}
}

func TestInterceptor_ValidTokenInjectsUserID(t *testing.T) {
	s := newTestServer(&fakeIdentity{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.CheatSheetService_DeleteSheet_FullMethodName}

	var gotUID string
	h := func(ctx context.Context, req any) (any, error) {
		gotUID, _ = userIDFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.accessTokenInterceptor(withToken("tok-u-42"), nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUID != "u-42" {
		t.Fatalf("expected userID u-42, got %q", gotUID)
	}
}
