// Package errmap encodes domain errors for the two server fronts. Both
// encoders switch over the same common.Kind set, so a kind added there
// must be handled in each.
package errmap

import (
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Body is the JSON error payload of the REST front.
type Body struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ToHTTP returns the status code and body for err. Internal errors carry a
// fixed message and no details.
func ToHTTP(err error) (int, Body) {
	de := common.AsError(err)

	switch de.Kind {
	case common.KindValidation:
		return http.StatusBadRequest, Body{Error: "validation error", Details: map[string]string{"message": de.Message}}
	case common.KindNotFound:
		return http.StatusNotFound, Body{Error: "not found", Details: map[string]string{"resource": de.Resource}}
	case common.KindUnauthorized:
		return http.StatusUnauthorized, Body{Error: "unauthorized"}
	case common.KindForbidden:
		return http.StatusForbidden, Body{Error: "forbidden"}
	case common.KindAlreadyExists:
		return http.StatusConflict, Body{Error: "already exists", Details: map[string]string{"reason": de.Message}}
	case common.KindInternal:
		return http.StatusInternalServerError, Body{Error: "internal server error"}
	default:
		return http.StatusInternalServerError, Body{Error: "internal server error"}
	}
}

// ToGRPC returns a status error with a code and message text only.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	de := common.AsError(err)

	switch de.Kind {
	case common.KindValidation:
		return status.Error(codes.InvalidArgument, de.Error())
	case common.KindNotFound:
		return status.Error(codes.NotFound, de.Error())
	case common.KindUnauthorized, common.KindForbidden:
		return status.Error(codes.PermissionDenied, de.Error())
	case common.KindAlreadyExists:
		return status.Error(codes.AlreadyExists, de.Error())
	case common.KindInternal:
		return status.Error(codes.Internal, de.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
