package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/wire"
	"google.golang.org/grpc"
)

type accountService interface {
	CreateAccount(ctx context.Context, id, email, password, name string) (*models.Account, error)
	CreateEmailSession(ctx context.Context, email, password string) (*models.Session, string, error)
	Authenticate(ctx context.Context, secret string) (*models.Session, error)
	DeleteSession(ctx context.Context, current *models.Session, sessionID string) error
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

type documentService interface {
	Create(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (*wire.Document, error)
	List(ctx context.Context, databaseID, collectionID string, queries []wire.Query) ([]wire.Document, error)
}

type fileService interface {
	CreateUpload(ctx context.Context, ownerID, bucketID, fileID, name, mimeType string, size int64) (*models.File, string, error)
	CompleteUpload(ctx context.Context, ownerID, bucketID, fileID string) (*models.File, error)
}

// GRPCServer serves the aora.platform.v1.Platform service.
type GRPCServer struct {
	address   string
	projectID string
	accounts  accountService
	documents documentService
	files     fileService
	metrics   metrics.Recorder
	logger    logging.Logger
}

func NewGRPCServer(address, projectID string, l logging.Logger, as accountService, ds documentService, fs fileService, rec metrics.Recorder) *GRPCServer {
	return &GRPCServer{
		address:   address,
		projectID: projectID,
		accounts:  as,
		documents: ds,
		files:     fs,
		metrics:   rec,
		logger:    l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.projectInterceptor,
		s.sessionInterceptor,
	))
	srv.RegisterService(&serviceDesc, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// Serve returns nil after GracefulStop.
	return srv.Serve(listen)
}
