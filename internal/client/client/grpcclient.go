package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	pb "github.com/dmitrijs2005/cheatsync/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Metadata keys the identity is persisted under.
const (
	TokenKey        = "identity_token"
	RefreshTokenKey = "identity_refresh_token"
)

const pingTimeout = 2 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CheatSheetServiceClient
	tokens      TokenStore
	log         logging.Logger
	dialOpts    []grpc.DialOption

	mu           sync.Mutex
	loaded       bool
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func needsIdentity(method string) bool {
	switch method {
	case pb.CheatSheetService_Ping_FullMethodName,
		pb.CheatSheetService_SignInAnonymously_FullMethodName,
		pb.CheatSheetService_RefreshToken_FullMethodName:
		return false
	}
	return true
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if !needsIdentity(method) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	err = invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated {
		return err
	}

	token, err = s.renew(ctx, token)
	if err != nil {
		return err
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

// token returns the current access token. A new anonymous identity is only
// created when none has been stored yet.
func (s *GRPCClient) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load(ctx)

	switch {
	case s.accessToken != "":
		return s.accessToken, nil
	case s.refreshToken != "":
		return s.renewLocked(ctx)
	default:
		return s.signIn(ctx)
	}
}

// renew replaces a rejected access token, keeping the same identity through
// the refresh token.
func (s *GRPCClient) renew(ctx context.Context, rejected string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && s.accessToken != rejected {
		return s.accessToken, nil
	}
	return s.renewLocked(ctx)
}

// renewLocked must be called with s.mu held.
func (s *GRPCClient) renewLocked(ctx context.Context) (string, error) {
	if s.refreshToken != "" {
		token, err := s.refresh(ctx)
		if err == nil {
			return token, nil
		}
		if status.Code(err) != codes.Unauthenticated {
			return "", err
		}
		s.log.Warn(ctx, "stored identity can no longer be renewed, starting a new one", "error", err)
	}

	s.accessToken, s.refreshToken = "", ""
	return s.signIn(ctx)
}

// load must be called with s.mu held.
func (s *GRPCClient) load(ctx context.Context) {
	if s.loaded || s.tokens == nil {
		return
	}
	s.loaded = true

	access, err := s.tokens.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "failed to load identity token", "error", err)
	}
	refresh, err := s.tokens.Get(ctx, RefreshTokenKey)
	if err != nil {
		s.log.Warn(ctx, "failed to load refresh token", "error", err)
	}
	s.accessToken, s.refreshToken = string(access), string(refresh)
}

// refresh must be called with s.mu held.
func (s *GRPCClient) refresh(ctx context.Context) (string, error) {
	req, err := pb.Encode(pb.RefreshTokenRequest{RefreshToken: s.refreshToken})
	if err != nil {
		return "", err
	}

	resp, err := s.client.RefreshToken(ctx, req)
	if err != nil {
		return "", err
	}
	return s.adopt(ctx, resp)
}

// signIn must be called with s.mu held.
func (s *GRPCClient) signIn(ctx context.Context) (string, error) {
	resp, err := s.client.SignInAnonymously(ctx, &emptypb.Empty{})
	if err != nil {
		return "", err
	}

	token, err := s.adopt(ctx, resp)
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "anonymous identity established")
	return token, nil
}

// adopt must be called with s.mu held.
func (s *GRPCClient) adopt(ctx context.Context, resp *structpb.Struct) (string, error) {
	var out pb.SignInResponse
	if err := pb.Decode(resp, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	s.accessToken, s.refreshToken = out.AccessToken, out.RefreshToken
	s.loaded = true
	s.log.Debug(ctx, "identity tokens updated", "user_id", out.UserID)

	if s.tokens != nil {
		if err := s.tokens.Set(ctx, TokenKey, []byte(out.AccessToken)); err != nil {
			s.log.Warn(ctx, "failed to persist identity token", "error", err)
		}
		if err := s.tokens.Set(ctx, RefreshTokenKey, []byte(out.RefreshToken)); err != nil {
			s.log.Warn(ctx, "failed to persist refresh token", "error", err)
		}
	}
	return s.accessToken, nil
}

// NewGRPCClient dials endpointURL lazily; no I/O happens until the first call.
// Extra dial options are appended to the defaults.
func NewGRPCClient(endpointURL string, tokens TokenStore, log logging.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, tokens: tokens, log: log, dialOpts: opts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewCheatSheetServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	var out pb.PingResponse
	if err := pb.Decode(resp, &out); err != nil || out.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) FetchSheets(ctx context.Context) ([]models.Sheet, error) {
	resp, err := s.client.ListSheets(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out pb.SheetList
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Sheets, nil
}

func (s *GRPCClient) GetSheet(ctx context.Context, id string) (models.Sheet, error) {
	req, err := pb.Encode(pb.IDRequest{ID: id})
	if err != nil {
		return models.Sheet{}, err
	}

	resp, err := s.client.GetSheet(ctx, req)
	if err != nil {
		return models.Sheet{}, s.mapError(err)
	}
	return decodeSheet(resp)
}

func (s *GRPCClient) CreateSheet(ctx context.Context, draft models.SheetDraft) (models.Sheet, error) {
	req, err := pb.Encode(draft)
	if err != nil {
		return models.Sheet{}, err
	}

	resp, err := s.client.CreateSheet(ctx, req)
	if err != nil {
		return models.Sheet{}, s.mapError(err)
	}
	return decodeSheet(resp)
}

func (s *GRPCClient) UpdateSheet(ctx context.Context, id string, patch models.SheetPatch) (models.Sheet, error) {
	req, err := pb.Encode(pb.UpdateSheetRequest{ID: id, Patch: patch})
	if err != nil {
		return models.Sheet{}, err
	}

	resp, err := s.client.UpdateSheet(ctx, req)
	if err != nil {
		return models.Sheet{}, s.mapError(err)
	}
	return decodeSheet(resp)
}

func (s *GRPCClient) DeleteSheet(ctx context.Context, id string) error {
	req, err := pb.Encode(pb.IDRequest{ID: id})
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteSheet(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) FetchCategories(ctx context.Context) ([]models.CustomCategory, error) {
	resp, err := s.client.ListCategories(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out pb.CategoryList
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (s *GRPCClient) CreateCategory(ctx context.Context, draft models.CategoryDraft) (models.CustomCategory, error) {
	req, err := pb.Encode(draft)
	if err != nil {
		return models.CustomCategory{}, err
	}

	resp, err := s.client.CreateCategory(ctx, req)
	if err != nil {
		return models.CustomCategory{}, s.mapError(err)
	}

	var out models.CustomCategory
	if err := pb.Decode(resp, &out); err != nil {
		return models.CustomCategory{}, err
	}
	return out, nil
}

func (s *GRPCClient) DeleteCategory(ctx context.Context, id string) error {
	req, err := pb.Encode(pb.IDRequest{ID: id})
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteCategory(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func decodeSheet(resp *structpb.Struct) (models.Sheet, error) {
	var out models.Sheet
	if err := pb.Decode(resp, &out); err != nil {
		return models.Sheet{}, err
	}
	return out, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrInvalid, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
