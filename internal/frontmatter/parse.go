package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how much non-delimited metadata Parse is willing to recognise.
type Mode int

const (
	// ModeStrict only accepts metadata inside a `---` block.
	ModeStrict Mode = iota
	// ModeStandard also accepts leading `key: value` lines up to the first
	// line that does not fit the pattern.
	ModeStandard
	// ModePermissive scans every line of the document for `key: value` pairs.
	ModePermissive
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeStandard:
		return "standard"
	case ModePermissive:
		return "permissive"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a configuration value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return ModeStrict, nil
	case "", "standard":
		return ModeStandard, nil
	case "permissive":
		return ModePermissive, nil
	default:
		return ModeStandard, fmt.Errorf("unknown frontmatter mode %q", s)
	}
}

// Parse extracts metadata and body from raw document text.
//
// A `---` block is decoded as YAML; when the block is not valid YAML its lines
// are scanned as `key: value` pairs instead. An opening delimiter without a
// closing one yields no metadata and the whole input as body. Parse never
// fails: malformed metadata degrades to fewer fields.
func Parse(raw string, mode Mode) (Fields, string) {
	block, body, had, _, err := Split([]byte(raw))
	if errors.Is(err, ErrMissingClosingDelimiter) {
		return Fields{}, raw
	}

	if had {
		fields, err := ParseYAML(block)
		if err != nil {
			fields, _ = newLineScanner(true).scan(string(block))
		}
		return fields, string(body)
	}

	switch mode {
	case ModeStrict:
		return Fields{}, raw
	case ModePermissive:
		return newLineScanner(true).scan(raw)
	default:
		return newLineScanner(false).scan(raw)
	}
}
