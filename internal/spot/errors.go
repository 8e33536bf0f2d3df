package spot

import "github.com/code19m/errx"

const (
	CodeSpotNotFound     = "SPOT_NOT_FOUND"
	CodeInvalidSpotID    = "INVALID_SPOT_ID"
	CodeImageNotFound    = "IMAGE_NOT_FOUND"
	CodeImageRequired    = "IMAGE_REQUIRED"
	CodeInvalidNumber    = "INVALID_NUMBER"
	CodeStoreFailed      = "SPOT_STORE_FAILED"
	CodeStoreUnavailable = "SPOT_STORE_UNAVAILABLE"
)

// ErrNotFound returns the error reported for a spot id with no record.
func ErrNotFound(id string) error {
	return errx.New(
		"spot not found",
		errx.WithCode(CodeSpotNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"spot_id": id}),
	)
}

// ErrInvalidID returns the error reported for an id the store cannot parse.
// It is an internal error, so clients get a generic 500.
func ErrInvalidID(id string) error {
	return errx.New(
		"invalid spot id",
		errx.WithCode(CodeInvalidSpotID),
		errx.WithDetails(errx.D{"spot_id": id}),
	)
}

func errImageNotFound(id, index string) error {
	return errx.New(
		"image not found",
		errx.WithCode(CodeImageNotFound),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"spot_id": id, "index": index}),
	)
}
