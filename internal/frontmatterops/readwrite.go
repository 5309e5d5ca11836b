package frontmatterops

import "github.com/bogomolov-fly/portfolio/internal/frontmatter"

// Read splits a document into metadata fields and body.
//
// Read never fails; malformed metadata degrades as described on
// frontmatter.Parse.
func Read(content []byte, mode frontmatter.Mode) (frontmatter.Fields, []byte) {
	fields, body := frontmatter.Parse(string(content), mode)
	return fields, []byte(body)
}

// Write serializes fields as a `---` block and joins it with body.
func Write(fields frontmatter.Fields, body []byte) ([]byte, error) {
	out, err := frontmatter.Serialize(fields, string(body))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
