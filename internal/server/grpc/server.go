// Package grpc exposes the remote store over the CheatSheetService gRPC API.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	pb "github.com/dmitrijs2005/cheatsync/internal/proto"
	sm "github.com/dmitrijs2005/cheatsync/internal/server/models"
	"github.com/dmitrijs2005/cheatsync/internal/server/services"
	"google.golang.org/grpc"
)

// Identity issues, renews and checks anonymous identities.
type Identity interface {
	SignInAnonymously(ctx context.Context) (*sm.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *services.TokenPair, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type Sheets interface {
	List(ctx context.Context, ownerID string) ([]models.Sheet, error)
	Get(ctx context.Context, ownerID, id string) (models.Sheet, error)
	Create(ctx context.Context, ownerID string, draft models.SheetDraft) (models.Sheet, error)
	Update(ctx context.Context, ownerID, id string, patch models.SheetPatch) (models.Sheet, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Categories interface {
	List(ctx context.Context, ownerID string) ([]models.CustomCategory, error)
	Create(ctx context.Context, ownerID string, draft models.CategoryDraft) (models.CustomCategory, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type GRPCServer struct {
	pb.UnimplementedCheatSheetServiceServer
	address    string
	identity   Identity
	sheets     Sheets
	categories Categories
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, id Identity, ss Sheets, cs Categories) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		identity:   id,
		sheets:     ss,
		categories: cs,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterCheatSheetServiceServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	<-stopped
	return nil
}
