package parsing

import (
	"fmt"
	"regexp"
	"strings"
)

const PlatformCAMWorks = "camworks"

// Preliminary UPG structure patterns; refined as the corpus grows.
var (
	sectionPattern  = regexp.MustCompile(`(?m)^[ \t]*\[(\w+)\]`)
	variablePattern = regexp.MustCompile(`(?m)^[ \t]*(\w+)[ \t]*=[ \t]*(.+)$`)
)

var camworksMarkers = []string{
	"Universal Post Generator",
	"CAMWorks",
	".ctl",
	"[GENERAL]",
	"[FORMAT]",
}

// CAMWorksParser handles CAMWorks Universal Post Generator (UPG) files.
// Parsing is pattern matching, not a grammar: it extracts bracketed
// section headers and key=value assignments and summarizes a few
// well-known fields.
type CAMWorksParser struct {
	markers []string
}

func NewCAMWorksParser(extraMarkers ...string) *CAMWorksParser {
	return &CAMWorksParser{markers: append(append([]string{}, camworksMarkers...), extraMarkers...)}
}

func (p *CAMWorksParser) Platform() string { return PlatformCAMWorks }

func (p *CAMWorksParser) Detect(content string) bool {
	for _, marker := range p.markers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

func (p *CAMWorksParser) Parse(content string, postID string) *ParsedPost {
	var sections []string
	for _, m := range sectionPattern.FindAllStringSubmatch(content, -1) {
		sections = append(sections, m[1])
	}

	// First assignment wins on duplicate keys.
	variables := make(map[string]string)
	for _, m := range variablePattern.FindAllStringSubmatch(content, -1) {
		key := m[1]
		if _, ok := variables[key]; ok {
			continue
		}
		variables[key] = strings.TrimRight(m[2], " \t\r")
	}

	var parts []string
	for _, s := range sections {
		if s == "GENERAL" {
			parts = append(parts, "Contains general configuration")
			break
		}
	}
	if v := variables["Machine"]; v != "" {
		parts = append(parts, fmt.Sprintf("Machine: %s", v))
	}
	if v := variables["Controller"]; v != "" {
		parts = append(parts, fmt.Sprintf("Controller: %s", v))
	}

	summary := "CAMWorks post processor file"
	if len(parts) > 0 {
		summary = strings.Join(parts, "; ")
	}

	return &ParsedPost{
		PostID:       postID,
		RawContent:   content,
		Summary:      summary,
		SectionNames: sections,
		Variables:    variables,
	}
}
