package parsing

// ParsedPost is the result of structurally parsing a post processor file.
// It is produced fresh on every parse request and never persisted.
type ParsedPost struct {
	PostID       string            `json:"post_id"`
	RawContent   string            `json:"raw_content"`
	Summary      string            `json:"summary"`
	SectionNames []string          `json:"section_names"`
	Variables    map[string]string `json:"variables"`
	Errors       []string          `json:"errors"`
}

// Parser is implemented once per CAM platform. Detect is a pure text scan
// for platform-identifying markers; Parse extracts structure from content
// it may only approximately understand.
type Parser interface {
	Platform() string
	Detect(content string) bool
	Parse(content string, postID string) *ParsedPost
}
