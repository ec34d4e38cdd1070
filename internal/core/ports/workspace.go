package ports

// Workspace exposes the folders discovery searches.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// Folders returns the absolute workspace folders.
	Folders() []string
}
