package domain

// EventKind enumerates the inputs the orchestrator accepts.
type EventKind uint8

const (
	// EventDocumentSaved is emitted when a file's content was written.
	EventDocumentSaved EventKind = iota
	// EventFilesCreated is emitted when files appeared.
	EventFilesCreated
	// EventFilesDeleted is emitted when files disappeared.
	EventFilesDeleted
	// EventWorkspaceFoldersChanged is emitted when the set of workspace roots changed.
	EventWorkspaceFoldersChanged
	// EventRefreshRequested is emitted when a user asked for a full rescan.
	EventRefreshRequested
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventDocumentSaved:
		return "document-saved"
	case EventFilesCreated:
		return "files-created"
	case EventFilesDeleted:
		return "files-deleted"
	case EventWorkspaceFoldersChanged:
		return "workspace-folders-changed"
	case EventRefreshRequested:
		return "manual-refresh-requested"
	default:
		return "unknown"
	}
}

// Event is one input from the event feed.
// Paths is set for saved (exactly one path), created and deleted events.
type Event struct {
	Kind  EventKind
	Paths []string
}

// DocumentSaved builds a save event.
func DocumentSaved(path string) Event {
	return Event{Kind: EventDocumentSaved, Paths: []string{path}}
}

// FilesCreated builds a create event.
func FilesCreated(paths ...string) Event {
	return Event{Kind: EventFilesCreated, Paths: paths}
}

// FilesDeleted builds a delete event.
func FilesDeleted(paths ...string) Event {
	return Event{Kind: EventFilesDeleted, Paths: paths}
}

// WorkspaceFoldersChanged builds a workspace change event.
func WorkspaceFoldersChanged() Event {
	return Event{Kind: EventWorkspaceFoldersChanged}
}

// RefreshRequested builds a manual refresh event.
func RefreshRequested() Event {
	return Event{Kind: EventRefreshRequested}
}

// Change is the notification sent to the presentation layer.
// When All is set every decoration may be stale and Files is empty.
type Change struct {
	All   bool
	Files []FileIdentity
}

// ChangedAll reports a change affecting every decoration.
func ChangedAll() Change {
	return Change{All: true}
}

// ChangedFile reports a change affecting a single file.
func ChangedFile(id FileIdentity) Change {
	return Change{Files: []FileIdentity{id}}
}
