package filestore

// Error codes for filestore operations.
const (
	// CodeFileNotFound is returned when a file does not exist at the specified path.
	CodeFileNotFound = "FILE_NOT_FOUND"

	// CodeFileExists is returned when an upload targets a path that is already taken.
	CodeFileExists = "FILE_ALREADY_EXISTS"

	// CodeInvalidPath is returned for keys that are empty or try to leave the store root.
	CodeInvalidPath = "INVALID_FILE_PATH"
)
