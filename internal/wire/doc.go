// Package wire is the RPC contract between the client access layer and the
// platform.
//
// The platform is exposed as a single gRPC service whose requests and
// responses are all google.protobuf.Struct values, so neither side needs
// generated stubs. This package names the methods, the field keys and the
// two structured shapes that travel inside those structs: Query and
// Document.
//
//	service aora.platform.v1.Platform {
//	  rpc CreateAccount(Struct)      returns (Struct); // {id,email,password,name} -> account
//	  rpc CreateEmailSession(Struct) returns (Struct); // {email,password} -> session
//	  rpc DeleteSession(Struct)      returns (Struct); // {session_id}
//	  rpc GetAccount(Struct)         returns (Struct); // {} -> account
//	  rpc CreateDocument(Struct)     returns (Struct); // {database_id,collection_id,document_id,data} -> document
//	  rpc ListDocuments(Struct)      returns (Struct); // {database_id,collection_id,queries} -> {total,documents}
//	  rpc CreateUpload(Struct)       returns (Struct); // {bucket_id,file_id,name,mime_type,size} -> {file_id,upload_url}
//	  rpc CompleteUpload(Struct)     returns (Struct); // {bucket_id,file_id} -> file
//	}
package wire
