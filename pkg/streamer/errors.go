package streamer

// InvalidInput reports that a locator does not address a readable
// resource of the attempted kind: wrong file type, missing path, or a
// camera index that does not parse. The selector treats it as "try the
// next variant".
type InvalidInput struct {
	Message string
}

func (e *InvalidInput) Error() string {
	return e.Message
}

// OpenError reports that a locator matched the attempted kind but the
// resource could not be decoded: corrupt file, empty directory, device
// busy. More specific than InvalidInput, so the selector reports these
// with priority when every variant fails.
type OpenError struct {
	Message string
}

func (e *OpenError) Error() string {
	return e.Message
}
