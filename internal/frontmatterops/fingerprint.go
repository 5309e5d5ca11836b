package frontmatterops

import (
	"errors"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/inful/mdfp"
)

// ComputeFingerprint computes the canonical content fingerprint of a document.
//
// The metadata is serialized with sorted keys and LF newlines, a single
// trailing newline is trimmed, and any stored fingerprint field is ignored.
// Two documents with the same fields and body therefore hash the same no
// matter how their metadata was originally written.
func ComputeFingerprint(fields frontmatter.Fields, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		raw, err := frontmatter.SerializeYAML(forHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		serialized = trimSingleTrailingNewline(string(raw))
	}

	return mdfp.CalculateFingerprintFromParts(serialized, string(body)), nil
}

// Fingerprint parses a stored document and computes its content fingerprint.
func Fingerprint(content []byte, mode frontmatter.Mode) (string, error) {
	fields, body := Read(content, mode)
	return ComputeFingerprint(fields, body)
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
