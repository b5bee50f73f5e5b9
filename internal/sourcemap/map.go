package sourcemap

import (
	"encoding/base64"
	"encoding/json"
)

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

const inlinePrefix = "//# sourceMappingURL=data:application/json;base64,"

// InlineComment returns the comment that embeds the encoded map as a data URL.
func InlineComment(encoded []byte) string {
	return inlinePrefix + base64.StdEncoding.EncodeToString(encoded)
}

// URLComment returns the comment that points at a separate map file.
func URLComment(url string) string {
	return "//# sourceMappingURL=" + url
}
