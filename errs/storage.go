package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrStorage = errors.New("blob storage failure")

// NewStorageError reports a failed put/delete against the blob store. The
// operation that triggered it is aborted at that point.
func NewStorageError(operation, path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s %s", operation, path),
		Field:      "image",
		Cause:      cause,
	}
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
