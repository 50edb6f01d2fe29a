package parsing

import "strings"

const PlatformMastercam = "mastercam"

var mastercamMarkers = []string{"Mastercam", ".mcpost", ".pst"}

// MastercamParser is a placeholder until a Mastercam corpus is available.
type MastercamParser struct {
	markers []string
}

func NewMastercamParser(extraMarkers ...string) *MastercamParser {
	return &MastercamParser{markers: append(append([]string{}, mastercamMarkers...), extraMarkers...)}
}

func (p *MastercamParser) Platform() string { return PlatformMastercam }

func (p *MastercamParser) Detect(content string) bool {
	for _, marker := range p.markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func (p *MastercamParser) Parse(content string, postID string) *ParsedPost {
	return &ParsedPost{
		PostID:     postID,
		RawContent: content,
		Summary:    "Mastercam post processor (parsing not yet implemented)",
		Errors:     []string{"Mastercam parser is a placeholder, not yet implemented"},
	}
}
