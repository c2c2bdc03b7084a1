package wire

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "aora.platform.v1.Platform"

// Method names as registered in the service descriptor.
const (
	CreateAccount      = "CreateAccount"
	CreateEmailSession = "CreateEmailSession"
	DeleteSession      = "DeleteSession"
	GetAccount         = "GetAccount"
	CreateDocument     = "CreateDocument"
	ListDocuments      = "ListDocuments"
	CreateUpload       = "CreateUpload"
	CompleteUpload     = "CompleteUpload"
)

// Methods lists every method of the service.
var Methods = []string{
	CreateAccount,
	CreateEmailSession,
	DeleteSession,
	GetAccount,
	CreateDocument,
	ListDocuments,
	CreateUpload,
	CompleteUpload,
}

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Public reports whether a method may be called without a session.
func Public(method string) bool {
	switch method {
	case CreateAccount, CreateEmailSession:
		return true
	}
	return false
}

// Field keys shared by requests and responses.
const (
	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldName         = "name"
	FieldAccountID    = "account_id"
	FieldSecret       = "secret"
	FieldExpiresAt    = "expires_at"
	FieldSessionID    = "session_id"
	FieldDatabaseID   = "database_id"
	FieldCollectionID = "collection_id"
	FieldDocumentID   = "document_id"
	FieldData         = "data"
	FieldQueries      = "queries"
	FieldTotal        = "total"
	FieldDocuments    = "documents"
	FieldBucketID     = "bucket_id"
	FieldFileID       = "file_id"
	FieldMimeType     = "mime_type"
	FieldSize         = "size"
	FieldUploadURL    = "upload_url"
	FieldStatus       = "status"
)

// Reserved document attributes.
const (
	AttrID           = "$id"
	AttrCollectionID = "$collectionId"
	AttrCreatedAt    = "$createdAt"
)
