package grpc

import (
	"context"

	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/dmitrijs2005/aora/internal/wire"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// fail logs err and converts it to a status. Only unexpected errors are
// logged at error level.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "method", method, "error", err)
	}
	return st
}

func (s *GRPCServer) reply(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	resp, err := wire.NewStruct(fields)
	if err != nil {
		return nil, s.fail(ctx, method, err)
	}
	return resp, nil
}

func accountFields(a *models.Account) map[string]any {
	return map[string]any{
		wire.FieldID:    a.ID,
		wire.FieldEmail: a.Email,
		wire.FieldName:  a.Name,
	}
}

func fileFields(f *models.File) map[string]any {
	return map[string]any{
		wire.FieldFileID:   f.ID,
		wire.FieldBucketID: f.BucketID,
		wire.FieldName:     f.Name,
		wire.FieldMimeType: f.MimeType,
		wire.FieldSize:     f.Size,
		wire.FieldStatus:   f.Status,
	}
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := s.accounts.CreateAccount(ctx,
		wire.String(req, wire.FieldID),
		wire.String(req, wire.FieldEmail),
		wire.String(req, wire.FieldPassword),
		wire.String(req, wire.FieldName),
	)
	if err != nil {
		return nil, s.fail(ctx, wire.CreateAccount, err)
	}

	s.logger.Info(ctx, "Registered", "account_id", account.ID)
	return s.reply(ctx, wire.CreateAccount, accountFields(account))
}

func (s *GRPCServer) CreateEmailSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, secret, err := s.accounts.CreateEmailSession(ctx,
		wire.String(req, wire.FieldEmail),
		wire.String(req, wire.FieldPassword),
	)
	if err != nil {
		return nil, s.fail(ctx, wire.CreateEmailSession, err)
	}

	return s.reply(ctx, wire.CreateEmailSession, map[string]any{
		wire.FieldID:        session.ID,
		wire.FieldAccountID: session.AccountID,
		wire.FieldSecret:    secret,
		wire.FieldExpiresAt: wire.FormatTime(session.ExpiresAt),
	})
}

func (s *GRPCServer) DeleteSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	current, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.DeleteSession(ctx, current, wire.String(req, wire.FieldSessionID)); err != nil {
		return nil, s.fail(ctx, wire.DeleteSession, err)
	}
	return &structpb.Struct{}, nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	current, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccount(ctx, current.AccountID)
	if err != nil {
		return nil, s.fail(ctx, wire.GetAccount, err)
	}
	return s.reply(ctx, wire.GetAccount, accountFields(account))
}

func (s *GRPCServer) CreateDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var data map[string]any
	if v, ok := req.GetFields()[wire.FieldData]; ok {
		data = v.GetStructValue().AsMap()
	}

	doc, err := s.documents.Create(ctx,
		wire.String(req, wire.FieldDatabaseID),
		wire.String(req, wire.FieldCollectionID),
		wire.String(req, wire.FieldDocumentID),
		data,
	)
	if err != nil {
		return nil, s.fail(ctx, wire.CreateDocument, err)
	}

	resp, err := doc.Struct()
	if err != nil {
		return nil, s.fail(ctx, wire.CreateDocument, err)
	}
	return resp, nil
}

func (s *GRPCServer) ListDocuments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	docs, err := s.documents.List(ctx,
		wire.String(req, wire.FieldDatabaseID),
		wire.String(req, wire.FieldCollectionID),
		wire.DecodeQueries(req),
	)
	if err != nil {
		return nil, s.fail(ctx, wire.ListDocuments, err)
	}

	values := make([]*structpb.Value, 0, len(docs))
	for _, d := range docs {
		st, err := d.Struct()
		if err != nil {
			return nil, s.fail(ctx, wire.ListDocuments, err)
		}
		values = append(values, structpb.NewStructValue(st))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		wire.FieldTotal:     structpb.NewNumberValue(float64(len(docs))),
		wire.FieldDocuments: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

func (s *GRPCServer) CreateUpload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	current, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	f, url, err := s.files.CreateUpload(ctx, current.AccountID,
		wire.String(req, wire.FieldBucketID),
		wire.String(req, wire.FieldFileID),
		wire.String(req, wire.FieldName),
		wire.String(req, wire.FieldMimeType),
		wire.Int(req, wire.FieldSize),
	)
	if err != nil {
		return nil, s.fail(ctx, wire.CreateUpload, err)
	}

	return s.reply(ctx, wire.CreateUpload, map[string]any{
		wire.FieldFileID:    f.ID,
		wire.FieldBucketID:  f.BucketID,
		wire.FieldUploadURL: url,
	})
}

func (s *GRPCServer) CompleteUpload(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	current, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}

	f, err := s.files.CompleteUpload(ctx, current.AccountID,
		wire.String(req, wire.FieldBucketID),
		wire.String(req, wire.FieldFileID),
	)
	if err != nil {
		return nil, s.fail(ctx, wire.CompleteUpload, err)
	}
	return s.reply(ctx, wire.CompleteUpload, fileFields(f))
}
