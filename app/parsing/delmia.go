package parsing

import "strings"

const PlatformDELMIA = "delmia"

var delmiaMarkers = []string{"DELMIA", "3DEXPERIENCE"}

// DELMIAParser is a placeholder until a DELMIA corpus is available. It
// detects DELMIA content but parsing always reports not-implemented while
// still returning a valid ParsedPost shell.
type DELMIAParser struct {
	markers []string
}

func NewDELMIAParser(extraMarkers ...string) *DELMIAParser {
	return &DELMIAParser{markers: append(append([]string{}, delmiaMarkers...), extraMarkers...)}
}

func (p *DELMIAParser) Platform() string { return PlatformDELMIA }

func (p *DELMIAParser) Detect(content string) bool {
	for _, marker := range p.markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func (p *DELMIAParser) Parse(content string, postID string) *ParsedPost {
	return &ParsedPost{
		PostID:     postID,
		RawContent: content,
		Summary:    "DELMIA post processor (parsing not yet implemented)",
		Errors:     []string{"DELMIA parser is a placeholder, not yet implemented"},
	}
}
