package parsing

import (
	"fmt"
	"strings"
)

// Registry holds the platform parsers in priority order. It is built once
// at process start and treated as immutable; callers receive it by
// injection rather than through package-level state.
type Registry struct {
	parsers    []Parser
	byPlatform map[string]Parser
}

// NewRegistry builds a registry from parsers in priority order. Detection
// tries parsers in the given order and returns the first match, so earlier
// parsers win on ambiguous content.
func NewRegistry(parsers ...Parser) *Registry {
	byPlatform := make(map[string]Parser, len(parsers))
	for _, p := range parsers {
		byPlatform[p.Platform()] = p
	}
	return &Registry{parsers: parsers, byPlatform: byPlatform}
}

// NewDefaultRegistry returns the registry with all supported platforms and
// their built-in detection markers, optionally extended by a marker
// overrides config (see LoadMarkers).
func NewDefaultRegistry(overrides MarkerConfig) *Registry {
	return NewRegistry(
		NewCAMWorksParser(overrides[PlatformCAMWorks]...),
		NewDELMIAParser(overrides[PlatformDELMIA]...),
		NewMastercamParser(overrides[PlatformMastercam]...),
	)
}

// UnknownPlatformError is returned for lookups of platform tags no parser
// is registered for.
type UnknownPlatformError struct {
	Platform string
	Known    []string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q, available: %s", e.Platform, strings.Join(e.Known, ", "))
}

// Get returns the parser registered for an exact platform tag.
func (r *Registry) Get(platform string) (Parser, error) {
	p, ok := r.byPlatform[platform]
	if !ok {
		return nil, &UnknownPlatformError{Platform: platform, Known: r.Platforms()}
	}
	return p, nil
}

// Detect returns the first parser, in registration order, whose Detect
// predicate matches the content. This is a priority list, not a
// classifier: ambiguous content resolves to the earliest match.
func (r *Registry) Detect(content string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Detect(content) {
			return p, true
		}
	}
	return nil, false
}

// Platforms lists the registered platform tags in priority order.
func (r *Registry) Platforms() []string {
	tags := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		tags = append(tags, p.Platform())
	}
	return tags
}
