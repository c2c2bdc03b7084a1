package grpc

import (
	"context"
	"path"
	"time"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionKey ctxKey = "session"

func withSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func sessionFromContext(ctx context.Context) (*models.Session, error) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	if !ok || s == nil {
		return nil, status.Error(codes.Unauthenticated, "no active session")
	}
	return s, nil
}

func header(ctx context.Context, name string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(name); len(values) > 0 {
		return values[0]
	}
	return ""
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.RecordRPC(path.Base(info.FullMethod), status.Code(err).String(), time.Since(start))
	return resp, err
}

// projectInterceptor rejects calls addressed to another project.
func (s *GRPCServer) projectInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if project := header(ctx, common.ProjectHeaderName); project != s.projectID {
		return nil, status.Errorf(codes.FailedPrecondition, "project %q not found", project)
	}
	return handler(ctx, req)
}

// sessionInterceptor resolves the session secret of every non-public method
// and stores the session in the context.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if wire.Public(path.Base(info.FullMethod)) {
		return handler(ctx, req)
	}

	secret := header(ctx, common.SessionHeaderName)
	if secret == "" {
		return nil, status.Error(codes.Unauthenticated, "missing session")
	}

	session, err := s.accounts.Authenticate(ctx, secret)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(withSession(ctx, session), req)
}
