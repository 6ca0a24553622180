package shared

import "errors"

var (

	// common errors
	ErrorNotFound   = errors.New("not found")
	ErrorValidation = errors.New("validation error")

	// store-specific errors
	ErrorStoreUnavailable = errors.New("local store unavailable")
	ErrorStorageIO        = errors.New("storage i/o error")

	// capture/sync-specific errors
	ErrorImageRequired     = errors.New("image is required")
	ErrorImageTooLarge     = errors.New("image exceeds size limit")
	ErrorImageType         = errors.New("unsupported image type")
	ErrorSOSImageDropped   = errors.New("sos alerts do not support image attachments")
	ErrorInvalidCoordinate = errors.New("invalid coordinates")
)
