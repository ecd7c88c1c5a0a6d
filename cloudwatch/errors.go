package cloudwatch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/smithy-go"
)

const codeAlreadyExists = "ResourceAlreadyExistsException"

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindAlreadyExists
	KindRequestFailure
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAlreadyExists:
		return "already_exists"
	case KindRequestFailure:
		return "request_failure"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Classify sorts an error returned by the CloudWatch Logs client.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		return KindAlreadyExists
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == codeAlreadyExists {
			return KindAlreadyExists
		}
		return KindRequestFailure
	}

	return KindUnexpected
}

// IsAlreadyExists reports whether err means the resource is already there.
func IsAlreadyExists(err error) bool {
	return Classify(err) == KindAlreadyExists
}

// HandleError applies the sink error policy at a call site: "already exists"
// is logged and swallowed, anything else is logged and returned wrapped.
func HandleError(logger *slog.Logger, op, resource string, err error) error {
	switch Classify(err) {
	case KindNone:
		return nil
	case KindAlreadyExists:
		logger.Info("Resource already exists",
			slog.String("operation", op),
			slog.String("resource", resource))
		return nil
	case KindRequestFailure:
		var apiErr smithy.APIError
		errors.As(err, &apiErr)
		logger.Error("AWS request failed",
			slog.String("operation", op),
			slog.String("resource", resource),
			slog.String("error_code", apiErr.ErrorCode()),
			slog.Any("error", err))
	default:
		logger.Error("Unexpected error occurred",
			slog.String("operation", op),
			slog.String("resource", resource),
			slog.Any("error", err))
	}
	return fmt.Errorf("%s %s: %w", op, resource, err)
}
