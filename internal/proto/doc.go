// Package proto holds the wire contract of the blog RPC service, generated
// from blog.proto.
package proto

//go:generate protoc -I../.. --go_out=../.. --go_opt=paths=source_relative --go-grpc_out=../.. --go-grpc_opt=paths=source_relative ../../internal/proto/blog.proto
