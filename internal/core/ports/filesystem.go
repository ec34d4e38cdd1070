package ports

// FileSystem is the file-system contract consumed by discovery and classification.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Glob walks root recursively and returns every file whose root-relative,
	// slash-separated path matches pattern. Directories matching exclude are not entered.
	Glob(root, pattern, exclude string) ([]string, error)
	// IsDir reports whether path exists and is a directory.
	// A missing path is reported as (false, nil).
	IsDir(path string) (bool, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}
