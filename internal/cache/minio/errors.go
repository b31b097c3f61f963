package minio

import (
	"errors"
	"net/http"

	"github.com/larkbyte/dialectdb/internal/errs"
	minioErr "github.com/minio/minio-go/v7"
)

// mapError translates a MinIO SDK error into a *errs.Error. The cache layer
// only distinguishes "key absent" from "store unavailable" — every failure
// that is not a clean NotFound degrades to a miss upstream.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	// MinIO SDK exposes a typed ErrorResponse for S3-protocol errors.
	var resp minioErr.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusNotFound {
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		}
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "InvalidBucketName", "InvalidObjectName", "KeyTooLongError":
			return errs.Wrap(errs.ErrKindConfiguration, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindBackendUnavailable, msg, err)
}
