package frontmatter

import (
	"regexp"
	"strings"
)

var (
	keyValueLine      = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*)\s*:(\s*)(.*?)\s*$`)
	looseKeyValueLine = regexp.MustCompile(`^\s*([^:\s-][^:]*?)\s*:(.*)$`)
	listItemLine      = regexp.MustCompile(`^\s+-\s+(.*?)\s*$`)
	imageItem         = regexp.MustCompile(`^image\s*:\s*(.*)$`)
)

type scanState int

const (
	stateMetadata scanState = iota
	stateList
	stateBody
)

// lineScanner reads `key: value` metadata from lines that are not wrapped in
// `---` delimiters.
//
// In leading mode the first line that is neither a key/value pair nor a list
// continuation ends the metadata and everything from it onwards is body. In
// loose mode such lines are kept as body and scanning continues.
type lineScanner struct {
	loose bool

	state   scanState
	fields  Fields
	listKey string
	body    []string
}

func newLineScanner(loose bool) *lineScanner {
	return &lineScanner{loose: loose, fields: Fields{}}
}

func (s *lineScanner) scan(raw string) (Fields, string) {
	lines := strings.Split(raw, "\n")
	consumed := 0
	for i, line := range lines {
		if s.state == stateBody {
			s.body = append(s.body, lines[i:]...)
			break
		}
		if !s.feed(line) {
			if s.loose {
				s.body = append(s.body, line)
				continue
			}
			s.state = stateBody
			s.body = append(s.body, lines[i:]...)
			break
		}
		consumed++
	}

	if consumed == 0 {
		return Fields{}, raw
	}
	return s.fields, strings.Join(s.body, "\n")
}

// feed consumes one line and reports whether it was metadata.
func (s *lineScanner) feed(line string) bool {
	line = strings.TrimSuffix(line, "\r")

	if s.state == stateList {
		if m := listItemLine.FindStringSubmatch(line); m != nil {
			s.appendItem(m[1])
			return true
		}
		s.state = stateMetadata
		s.listKey = ""
	}

	key, value, ok := s.keyValue(line)
	if !ok {
		return false
	}
	if strings.TrimSpace(value) == "" {
		s.fields[key] = ""
		s.listKey = key
		s.state = stateList
		return true
	}
	s.fields[key] = parseScalar(value)
	return true
}

func (s *lineScanner) keyValue(line string) (string, string, bool) {
	if m := keyValueLine.FindStringSubmatch(line); m != nil {
		// "https://..." is a URL, not the key "https".
		if m[2] == "" && strings.HasPrefix(m[3], "//") {
			return "", "", false
		}
		return m[1], m[3], true
	}
	if !s.loose {
		return "", "", false
	}
	if m := looseKeyValueLine.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

func (s *lineScanner) appendItem(raw string) {
	var item any
	if m := imageItem.FindStringSubmatch(raw); m != nil {
		item = map[string]any{"image": parseText(m[1])}
	} else {
		item = parseText(raw)
	}

	list, _ := s.fields[s.listKey].([]any)
	s.fields[s.listKey] = append(list, item)
}
