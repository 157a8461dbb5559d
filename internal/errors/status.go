package errors

import (
	"fmt"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorDomain identifies this service in gRPC ErrorInfo details
const errorDomain = "rpg-encounter"

type transport struct {
	http int
	grpc codes.Code
}

var transports = map[Code]transport{
	CodeInvalidArgument:    {http.StatusBadRequest, codes.InvalidArgument},
	CodeNotFound:           {http.StatusNotFound, codes.NotFound},
	CodeAlreadyExists:      {http.StatusConflict, codes.AlreadyExists},
	CodeFailedPrecondition: {http.StatusPreconditionFailed, codes.FailedPrecondition},
	CodeAborted:            {http.StatusConflict, codes.Aborted},
	CodeInternal:           {http.StatusInternalServerError, codes.Internal},
	CodeUnavailable:        {http.StatusServiceUnavailable, codes.Unavailable},
}

// HTTPStatus maps the code to a response status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if t, ok := transports[c]; ok {
		return t.http
	}
	return http.StatusInternalServerError
}

// GRPCCode maps the code to a gRPC status code. Unknown codes are Unknown.
func (c Code) GRPCCode() codes.Code {
	if t, ok := transports[c]; ok {
		return t.grpc
	}
	return codes.Unknown
}

// ToGRPCError converts err into a gRPC status error. A reason travels as an
// ErrorInfo detail with the metadata rendered as strings.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var e *Error
	if !As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if e.Reason == "" {
		return st.Err()
	}

	info := &errdetails.ErrorInfo{Reason: e.Reason.String(), Domain: errorDomain}
	if len(e.Meta) > 0 {
		info.Metadata = make(map[string]string, len(e.Meta))
		for k, v := range e.Meta {
			info.Metadata[k] = fmt.Sprint(v)
		}
	}
	if detailed, detailErr := st.WithDetails(info); detailErr == nil {
		st = detailed
	}
	return st.Err()
}
