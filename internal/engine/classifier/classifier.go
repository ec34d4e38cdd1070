// Package classifier decides whether source text belongs to a client or a server component.
package classifier

import (
	"regexp"

	"go.trai.ch/rscd/internal/core/domain"
)

// clientDirective matches a quoted `use client` literal. Quotes may be mixed.
// The match is textual; it does not check that the directive is the first statement.
var clientDirective = regexp.MustCompile(`['"]use client['"]`)

// Classify returns Client if text contains the client directive anywhere, Server otherwise.
func Classify(text string) domain.Classification {
	if clientDirective.MatchString(text) {
		return domain.Client
	}
	return domain.Server
}

// ClassifyBytes is Classify for raw file content.
func ClassifyBytes(content []byte) domain.Classification {
	if clientDirective.Match(content) {
		return domain.Client
	}
	return domain.Server
}
