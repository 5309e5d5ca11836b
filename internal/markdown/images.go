package markdown

import (
	"bytes"
	"sort"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// ImageRef is an image destination found in a Markdown body.
//
// Start and End are byte offsets of the destination text in the body, with
// End exclusive, so the reference can be replaced with an Edit.
type ImageRef struct {
	Destination string
	Start       int
	End         int
}

// ExtractImages returns the image references of body in source order.
//
// CommonMark images are found through the goldmark AST. Destinations that
// contain whitespace are not images in CommonMark, but authors write them
// (`![Кухня](кухня 1.jpg)`), so a line-based pass picks those up as well.
func ExtractImages(body []byte, opts Options) []ImageRef {
	root := ParseBody(body, opts)

	refs := make([]ImageRef, 0)
	cursor := 0
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		img, ok := n.(*gmast.Image)
		if !ok || len(img.Destination) == 0 {
			return gmast.WalkContinue, nil
		}

		from := cursor
		if t, ok := img.FirstChild().(*gmast.Text); ok && t.Segment.Start > from {
			from = t.Segment.Start
		}
		start, found := locateDestination(body, img.Destination, from)
		if !found {
			return gmast.WalkContinue, nil
		}
		end := start + len(img.Destination)
		refs = append(refs, ImageRef{Destination: string(img.Destination), Start: start, End: end})
		cursor = end
		return gmast.WalkContinue, nil
	})

	seen := make(map[int]struct{}, len(refs))
	for _, r := range refs {
		seen[r.Start] = struct{}{}
	}
	for _, r := range extractSpacedImages(body) {
		if _, dup := seen[r.Start]; !dup {
			refs = append(refs, r)
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
	return refs
}

// locateDestination finds dest right after a `](` (optionally `](<`) at or
// after from.
func locateDestination(body, dest []byte, from int) (int, bool) {
	for pos := from; pos < len(body); {
		i := bytes.Index(body[pos:], []byte("]("))
		if i < 0 {
			return 0, false
		}
		j := pos + i + 2
		for j < len(body) && (body[j] == ' ' || body[j] == '\t' || body[j] == '<') {
			j++
		}
		if bytes.HasPrefix(body[j:], dest) {
			return j, true
		}
		pos = pos + i + 2
	}
	return 0, false
}

func extractSpacedImages(body []byte) []ImageRef {
	out := make([]ImageRef, 0)

	inCodeBlock := false
	activeFence := ""
	offset := 0
	for _, line := range strings.SplitAfter(string(body), "\n") {
		lineStart := offset
		offset += len(line)

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "```")
			continue
		}
		if strings.HasPrefix(trimmed, "~~~") {
			inCodeBlock, activeFence = toggleFencedBlock(inCodeBlock, activeFence, "~~~")
			continue
		}
		if inCodeBlock || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		clean := blankInlineCode(line)
		for i := 0; i+2 < len(clean); i++ {
			if clean[i] != '!' || clean[i+1] != '[' {
				continue
			}
			start, end, ok := imageTarget(clean, i)
			if !ok {
				continue
			}
			target := clean[start:end]
			if !strings.ContainsAny(target, " \t") || strings.HasPrefix(target, "<") {
				continue
			}
			out = append(out, ImageRef{Destination: target, Start: lineStart + start, End: lineStart + end})
			i = end
		}
	}
	return out
}

// imageTarget returns the byte range of the text between `](` and `)` for the
// image opening at i.
func imageTarget(line string, i int) (int, int, bool) {
	closeBracket := strings.Index(line[i+2:], "]")
	if closeBracket == -1 {
		return 0, 0, false
	}
	closeBracket += i + 2

	if closeBracket+1 >= len(line) || line[closeBracket+1] != '(' {
		return 0, 0, false
	}

	end := strings.Index(line[closeBracket+2:], ")")
	if end == -1 {
		return 0, 0, false
	}
	return closeBracket + 2, closeBracket + 2 + end, true
}

func toggleFencedBlock(inCodeBlock bool, activeFence string, fence string) (bool, string) {
	if !inCodeBlock {
		return true, fence
	}
	if activeFence == fence {
		return false, ""
	}
	return inCodeBlock, activeFence
}

// blankInlineCode replaces closed code spans with spaces so byte offsets into
// the line stay valid.
func blankInlineCode(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	out := []byte(s)
	for i := 0; i < len(out); {
		if out[i] != '`' {
			i++
			continue
		}

		run := 1
		for i+run < len(out) && out[i+run] == '`' {
			run++
		}

		closeRel := strings.Index(string(out[i+run:]), strings.Repeat("`", run))
		if closeRel == -1 {
			i += run
			continue
		}

		end := i + run + closeRel + run
		for k := i; k < end; k++ {
			out[k] = ' '
		}
		i = end
	}
	return string(out)
}
