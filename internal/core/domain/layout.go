package domain

import (
	"path/filepath"
	"slices"
)

const (
	// SourceDirName is the directory next to an anchor that gets scanned.
	SourceDirName = "src"

	// VendorDirName is the dependency directory excluded from every search.
	VendorDirName = "node_modules"

	// AnchorPattern matches the Next.js config files that anchor a project.
	AnchorPattern = "**/next.config.{js,mjs}"

	// SourcePattern matches the source files classified inside a src directory.
	SourcePattern = "**/*.{tsx,jsx,ts,js}"

	// VendorPattern excludes dependency directories at any depth.
	VendorPattern = "**/" + VendorDirName

	// ConfigFileName is the optional configuration file read from the working directory.
	ConfigFileName = "rscd.yaml"

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750
)

// anchorNames are the file names recognised as project anchors.
var anchorNames = []string{"next.config.js", "next.config.mjs"}

// AnchorNames returns the file names recognised as project anchors.
func AnchorNames() []string {
	names := make([]string, len(anchorNames))
	copy(names, anchorNames)
	return names
}

// IsAnchor reports whether path names a project anchor.
// Only the base name is inspected; the file does not need to exist.
func IsAnchor(path string) bool {
	return slices.Contains(anchorNames, filepath.Base(path))
}
