package domain

// Classification is the client/server verdict for one file.
// It is always derived from file content and never treated as authoritative.
type Classification uint8

const (
	// Server marks a file without the client directive.
	Server Classification = iota
	// Client marks a file containing the client directive.
	Client
)

// String returns a human-readable name.
func (c Classification) String() string {
	if c == Client {
		return "client"
	}
	return "server"
}

// Decoration is what the presentation layer shows for a classified file.
type Decoration struct {
	// Badge is the short marker rendered next to the file name.
	Badge string
	// Tooltip is the longer description.
	Tooltip string
	// ColorTag names the color the presentation layer should use.
	ColorTag string
}

var (
	clientDecoration = Decoration{Badge: "C", Tooltip: "Client Side Component", ColorTag: "client"}
	serverDecoration = Decoration{Badge: "S", Tooltip: "Server Side Component", ColorTag: "server"}
)

// Decoration maps the classification to its presentation.
func (c Classification) Decoration() Decoration {
	if c == Client {
		return clientDecoration
	}
	return serverDecoration
}
