package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" in HTTP headers and
	// gRPC metadata alike. gRPC metadata keys are lowercase.
	AuthorizationHeaderName = "authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
