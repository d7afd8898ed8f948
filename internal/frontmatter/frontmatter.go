// Package frontmatter renders and reads `---` delimited YAML front matter.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Render serializes fields as front matter followed by body.
func Render(fields map[string]any, body []byte) ([]byte, error) {
	fm, err := SerializeYAML(fields)
	if err != nil {
		return nil, err
	}
	return Join(fm, body), nil
}

// Join reassembles a document from raw front matter and body.
func Join(frontmatter []byte, body []byte) []byte {
	out := make([]byte, 0, 2*len(delimiter)+len(frontmatter)+len(body))
	out = append(out, delimiter...)
	out = append(out, frontmatter...)
	out = append(out, delimiter...)
	out = append(out, body...)
	return out
}

// Split separates YAML front matter from the document body.
//
// If the document does not start with a front matter delimiter, had is
// false and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	open := []byte(delimiter)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte("\n" + delimiter)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + 1
	return content[start:end], content[end+len(open):], true, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
