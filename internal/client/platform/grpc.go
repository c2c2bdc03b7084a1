package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/aora/internal/client/config"
	"github.com/dmitrijs2005/aora/internal/client/models"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/netx"
	"github.com/dmitrijs2005/aora/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCPlatform implements Platform over the aora.platform.v1.Platform
// service.
type GRPCPlatform struct {
	conn    grpc.ClientConnInterface
	closer  io.Closer
	urls    urlBuilder
	project string
	client  string
	timeout time.Duration
	http    *http.Client
	log     logging.Logger

	mu     sync.RWMutex
	secret string
}

var _ Platform = (*GRPCPlatform)(nil)

// NewGRPCPlatform dials cfg.RPCAddr. The connection is established lazily by
// grpc on the first call.
func NewGRPCPlatform(cfg *config.Config, log logging.Logger) (*GRPCPlatform, error) {
	p := newPlatform(nil, cfg, log)

	conn, err := grpc.NewClient(cfg.RPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(p.headersInterceptor),
	)
	if err != nil {
		return nil, fmt.Errorf("dial platform %s: %w", cfg.RPCAddr, err)
	}
	p.conn = conn
	p.closer = conn
	return p, nil
}

func newPlatform(conn grpc.ClientConnInterface, cfg *config.Config, log logging.Logger) *GRPCPlatform {
	return &GRPCPlatform{
		conn:    conn,
		urls:    urlBuilder{endpoint: cfg.Endpoint, project: cfg.ProjectID},
		project: cfg.ProjectID,
		client:  cfg.Platform,
		timeout: cfg.RequestTimeout,
		http:    &http.Client{Timeout: 10 * time.Minute},
		log:     log.With("module", "platform"),
	}
}

func (p *GRPCPlatform) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func (p *GRPCPlatform) SetSession(secret string) {
	p.mu.Lock()
	p.secret = secret
	p.mu.Unlock()
}

func (p *GRPCPlatform) ClearSession() {
	p.SetSession("")
}

func (p *GRPCPlatform) SessionSecret() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.secret
}

// withHeaders replaces the platform headers on the outgoing metadata.
func (p *GRPCPlatform) withHeaders(ctx context.Context) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.ProjectHeaderName, p.project)
	md.Set(common.PlatformHeaderName, p.client)
	md.Delete(common.SessionHeaderName)
	if secret := p.SessionSecret(); secret != "" {
		md.Set(common.SessionHeaderName, secret)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (p *GRPCPlatform) headersInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(p.withHeaders(ctx), method, req, reply, cc, opts...)
}

// call invokes method with req and returns the mapped reply.
func (p *GRPCPlatform) call(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reply := &structpb.Struct{}
	if err := p.conn.Invoke(ctx, wire.FullMethod(method), req, reply); err != nil {
		mapped := mapError(err)
		p.log.Debug(ctx, "platform call failed", "method", method, "error", mapped)
		return nil, mapped
	}
	return reply, nil
}

func identityFromStruct(s *structpb.Struct) *models.Identity {
	return &models.Identity{
		ID:    wire.String(s, wire.FieldID),
		Email: wire.String(s, wire.FieldEmail),
		Name:  wire.String(s, wire.FieldName),
	}
}

func (p *GRPCPlatform) CreateAccount(ctx context.Context, id, email, password, name string) (*models.Identity, error) {
	req, err := wire.NewStruct(map[string]any{
		wire.FieldID:       id,
		wire.FieldEmail:    email,
		wire.FieldPassword: password,
		wire.FieldName:     name,
	})
	if err != nil {
		return nil, err
	}
	resp, err := p.call(ctx, wire.CreateAccount, req)
	if err != nil {
		return nil, err
	}
	return identityFromStruct(resp), nil
}

func (p *GRPCPlatform) CreateEmailSession(ctx context.Context, email, password string) (*models.Session, error) {
	req, err := wire.NewStruct(map[string]any{
		wire.FieldEmail:    email,
		wire.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}
	resp, err := p.call(ctx, wire.CreateEmailSession, req)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:        wire.String(resp, wire.FieldID),
		AccountID: wire.String(resp, wire.FieldAccountID),
		Secret:    wire.String(resp, wire.FieldSecret),
		ExpiresAt: wire.Time(resp, wire.FieldExpiresAt),
	}, nil
}

func (p *GRPCPlatform) DeleteSession(ctx context.Context, sessionID string) error {
	req, err := wire.NewStruct(map[string]any{wire.FieldSessionID: sessionID})
	if err != nil {
		return err
	}
	_, err = p.call(ctx, wire.DeleteSession, req)
	return err
}

func (p *GRPCPlatform) GetAccount(ctx context.Context) (*models.Identity, error) {
	resp, err := p.call(ctx, wire.GetAccount, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return identityFromStruct(resp), nil
}

func (p *GRPCPlatform) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data map[string]any) (wire.Document, error) {
	req, err := wire.NewStruct(map[string]any{
		wire.FieldDatabaseID:   databaseID,
		wire.FieldCollectionID: collectionID,
		wire.FieldDocumentID:   documentID,
		wire.FieldData:         data,
	})
	if err != nil {
		return wire.Document{}, err
	}
	resp, err := p.call(ctx, wire.CreateDocument, req)
	if err != nil {
		return wire.Document{}, err
	}
	return wire.DocumentFromStruct(resp), nil
}

func (p *GRPCPlatform) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...wire.Query) ([]wire.Document, error) {
	req, err := wire.NewStruct(map[string]any{
		wire.FieldDatabaseID:   databaseID,
		wire.FieldCollectionID: collectionID,
	})
	if err != nil {
		return nil, err
	}
	lv, err := wire.EncodeQueries(queries)
	if err != nil {
		return nil, err
	}
	req.Fields[wire.FieldQueries] = structpb.NewListValue(lv)

	p.log.Debug(ctx, "list documents", "collection", collectionID, "queries", queries)
	resp, err := p.call(ctx, wire.ListDocuments, req)
	if err != nil {
		return nil, err
	}

	items := wire.List(resp, wire.FieldDocuments)
	docs := make([]wire.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, wire.DocumentFromStruct(item))
	}
	return docs, nil
}

// CreateFile runs the three-step upload: reserve the file and get a
// presigned URL, PUT the body there, then confirm.
func (p *GRPCPlatform) CreateFile(ctx context.Context, bucketID, fileID string, file UploadFile) (*models.StoredFile, error) {
	req, err := wire.NewStruct(map[string]any{
		wire.FieldBucketID: bucketID,
		wire.FieldFileID:   fileID,
		wire.FieldName:     file.Name,
		wire.FieldMimeType: file.MimeType,
		wire.FieldSize:     file.Size,
	})
	if err != nil {
		return nil, err
	}
	reserved, err := p.call(ctx, wire.CreateUpload, req)
	if err != nil {
		return nil, err
	}

	uploadURL := wire.String(reserved, wire.FieldUploadURL)
	if uploadURL == "" {
		return nil, fmt.Errorf("%w: create upload returned no url", common.ErrRemote)
	}
	if err := netx.UploadToPresignedURL(ctx, p.http, uploadURL, file.Body, file.Size, file.MimeType); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemote, err)
	}

	req, err = wire.NewStruct(map[string]any{
		wire.FieldBucketID: bucketID,
		wire.FieldFileID:   wire.String(reserved, wire.FieldFileID),
	})
	if err != nil {
		return nil, err
	}
	done, err := p.call(ctx, wire.CompleteUpload, req)
	if err != nil {
		return nil, err
	}

	return &models.StoredFile{
		ID:       wire.String(done, wire.FieldFileID),
		Bucket:   wire.String(done, wire.FieldBucketID),
		Name:     wire.String(done, wire.FieldName),
		MimeType: wire.String(done, wire.FieldMimeType),
		Size:     wire.Int(done, wire.FieldSize),
	}, nil
}

func (p *GRPCPlatform) FileViewURL(bucketID, fileID string) (string, error) {
	return p.urls.fileView(bucketID, fileID)
}

func (p *GRPCPlatform) FilePreviewURL(bucketID, fileID string, opts PreviewOptions) (string, error) {
	return p.urls.filePreview(bucketID, fileID, opts)
}

func (p *GRPCPlatform) InitialsURL(name string) (string, error) {
	return p.urls.initials(name)
}
