package relocate

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Move is one planned or performed file move.
type Move struct {
	Source   string
	Target   string
	Category string
}

// MissingAsset is an image reference that does not resolve to a file.
type MissingAsset struct {
	Document string
	Image    string
}

// Reassignment records an image claimed by documents of two categories.
// The later document wins.
type Reassignment struct {
	Image    string
	From     string
	To       string
	Document string
}

// Ambiguity records an image name matching several files, none of them in
// the target category.
type Ambiguity struct {
	Document   string
	Image      string
	Candidates []string
}

// ContentResult reports one content relocation run.
type ContentResult struct {
	RunID            string
	DryRun           bool
	Relocated        []Move
	AlreadyRelocated []Move
	Collisions       []Move
	Skipped          []string
	Deleted          []string
	Missing          []MissingAsset
	Warnings         []string
	Errors           []error
}

// HasErrors returns true if any document failed.
func (r *ContentResult) HasErrors() bool { return len(r.Errors) > 0 }

// ByCategory returns the relocated and already relocated file names per
// category, sorted.
func (r *ContentResult) ByCategory() map[string][]string {
	out := make(map[string][]string)
	for _, group := range [][]Move{r.Relocated, r.AlreadyRelocated} {
		for _, m := range group {
			out[m.Category] = append(out[m.Category], path.Base(m.Target))
		}
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// Counters returns the run totals keyed by name, as stored in the journal.
func (r *ContentResult) Counters() map[string]string {
	return counters(
		"relocated", len(r.Relocated),
		"already_relocated", len(r.AlreadyRelocated),
		"collisions", len(r.Collisions),
		"skipped", len(r.Skipped),
		"deleted", len(r.Deleted),
		"missing_assets", len(r.Missing),
		"errors", len(r.Errors),
	)
}

// Summary returns a human-readable report of the run.
func (r *ContentResult) Summary() string {
	var b strings.Builder

	writeHeader(&b, "Content relocation", r.DryRun)
	b.WriteString(fmt.Sprintf("Documents relocated: %d\n", len(r.Relocated)))
	b.WriteString(fmt.Sprintf("Already relocated: %d\n", len(r.AlreadyRelocated)))
	b.WriteString(fmt.Sprintf("Skipped (no category): %d\n", len(r.Skipped)))
	b.WriteString(fmt.Sprintf("Collisions: %d\n", len(r.Collisions)))
	b.WriteString(fmt.Sprintf("Originals deleted: %d\n", len(r.Deleted)))
	b.WriteString(fmt.Sprintf("Errors: %d\n", len(r.Errors)))

	byCategory := r.ByCategory()
	if len(byCategory) > 0 {
		b.WriteString("\nBy category:\n")
		for _, c := range sortedKeys(byCategory) {
			b.WriteString(fmt.Sprintf("  %s (%d): %s\n", c, len(byCategory[c]), strings.Join(byCategory[c], ", ")))
		}
	}

	writeList(&b, "Skipped documents", r.Skipped)
	writeMoves(&b, "Collisions (original kept)", r.Collisions)
	writeMissing(&b, r.Missing)
	writeList(&b, "Warnings", r.Warnings)
	writeErrors(&b, r.Errors)
	return b.String()
}

// AssetResult reports one image relocation run.
type AssetResult struct {
	RunID            string
	DryRun           bool
	Documents        int
	Moved            []Move
	InPlace          []Move
	Collisions       []Move
	Reassigned       []Reassignment
	Ambiguous        []Ambiguity
	Missing          []MissingAsset
	SkippedDocuments []string
	PerCategory      map[string]int
	Errors           []error
}

// HasErrors returns true if any move failed.
func (r *AssetResult) HasErrors() bool { return len(r.Errors) > 0 }

// Counters returns the run totals keyed by name, as stored in the journal.
func (r *AssetResult) Counters() map[string]string {
	return counters(
		"documents", r.Documents,
		"moved", len(r.Moved),
		"in_place", len(r.InPlace),
		"collisions", len(r.Collisions),
		"reassigned", len(r.Reassigned),
		"ambiguous", len(r.Ambiguous),
		"missing_assets", len(r.Missing),
		"errors", len(r.Errors),
	)
}

// Summary returns a human-readable report of the run.
func (r *AssetResult) Summary() string {
	var b strings.Builder

	writeHeader(&b, "Image relocation", r.DryRun)
	b.WriteString(fmt.Sprintf("Documents scanned: %d\n", r.Documents))
	b.WriteString(fmt.Sprintf("Images moved: %d\n", len(r.Moved)))
	b.WriteString(fmt.Sprintf("Already in place: %d\n", len(r.InPlace)))
	b.WriteString(fmt.Sprintf("Collisions: %d\n", len(r.Collisions)))
	b.WriteString(fmt.Sprintf("Errors: %d\n", len(r.Errors)))

	if len(r.PerCategory) > 0 {
		b.WriteString("\nImages per category:\n")
		for _, c := range sortedKeys(r.PerCategory) {
			b.WriteString(fmt.Sprintf("  %s: %d\n", c, r.PerCategory[c]))
		}
	}

	writeMoves(&b, "Moves", r.Moved)
	writeMoves(&b, "Collisions (source kept)", r.Collisions)
	if len(r.Reassigned) > 0 {
		b.WriteString(fmt.Sprintf("\nReassigned images: %d\n", len(r.Reassigned)))
		for _, ra := range r.Reassigned {
			b.WriteString(fmt.Sprintf("  • %s: %s → %s (%s)\n", ra.Image, ra.From, ra.To, ra.Document))
		}
	}
	if len(r.Ambiguous) > 0 {
		b.WriteString(fmt.Sprintf("\nAmbiguous images: %d\n", len(r.Ambiguous)))
		for _, a := range r.Ambiguous {
			b.WriteString(fmt.Sprintf("  • %s in %s: %s\n", a.Image, a.Document, strings.Join(a.Candidates, ", ")))
		}
	}
	writeMissing(&b, r.Missing)
	writeList(&b, "Skipped documents", r.SkippedDocuments)
	writeErrors(&b, r.Errors)
	return b.String()
}

// FixResult reports one path fixing run.
type FixResult struct {
	RunID     string
	DryRun    bool
	Scanned   int
	Updated   []string
	Unchanged []string
	Missing   []MissingAsset
	Errors    []error
}

// HasErrors returns true if any document failed.
func (r *FixResult) HasErrors() bool { return len(r.Errors) > 0 }

// Counters returns the run totals keyed by name, as stored in the journal.
func (r *FixResult) Counters() map[string]string {
	return counters(
		"scanned", r.Scanned,
		"updated", len(r.Updated),
		"unchanged", len(r.Unchanged),
		"missing_assets", len(r.Missing),
		"errors", len(r.Errors),
	)
}

// Summary returns a human-readable report of the run.
func (r *FixResult) Summary() string {
	var b strings.Builder

	writeHeader(&b, "Image path fix", r.DryRun)
	b.WriteString(fmt.Sprintf("Documents scanned: %d\n", r.Scanned))
	b.WriteString(fmt.Sprintf("Documents updated: %d\n", len(r.Updated)))
	b.WriteString(fmt.Sprintf("Unchanged: %d\n", len(r.Unchanged)))
	b.WriteString(fmt.Sprintf("Errors: %d\n", len(r.Errors)))

	writeList(&b, "Updated documents", r.Updated)
	writeMissing(&b, r.Missing)
	writeErrors(&b, r.Errors)
	return b.String()
}

// CleanupResult reports one image cleanup run.
type CleanupResult struct {
	RunID       string
	DryRun      bool
	Removed     []string
	Kept        []string
	Placeholder bool
	// Remaining is the number of images left under the images root.
	Remaining   int
	Errors      []error
}

// HasErrors returns true if any removal failed.
func (r *CleanupResult) HasErrors() bool { return len(r.Errors) > 0 }

// Counters returns the run totals keyed by name, as stored in the journal.
func (r *CleanupResult) Counters() map[string]string {
	placeholder := 0
	if r.Placeholder {
		placeholder = 1
	}
	return counters(
		"removed", len(r.Removed),
		"kept", len(r.Kept),
		"placeholder_removed", placeholder,
		"remaining", r.Remaining,
		"errors", len(r.Errors),
	)
}

// Summary returns a human-readable report of the run.
func (r *CleanupResult) Summary() string {
	var b strings.Builder

	writeHeader(&b, "Image cleanup", r.DryRun)
	b.WriteString(fmt.Sprintf("Files removed: %d\n", len(r.Removed)))
	b.WriteString(fmt.Sprintf("Files kept: %d\n", len(r.Kept)))
	if r.Placeholder {
		b.WriteString("Placeholder directory removed\n")
	}
	b.WriteString(fmt.Sprintf("Images remaining: %d\n", r.Remaining))
	b.WriteString(fmt.Sprintf("Errors: %d\n", len(r.Errors)))

	writeList(&b, "Removed", r.Removed)
	writeList(&b, "Kept (no categorized copy)", r.Kept)
	writeErrors(&b, r.Errors)
	return b.String()
}

func writeHeader(b *strings.Builder, title string, dryRun bool) {
	if dryRun {
		title += " (dry run, nothing written)"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n%s: %d\n", title, len(items)))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("  • %s\n", item))
	}
}

func writeMoves(b *strings.Builder, title string, moves []Move) {
	if len(moves) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n%s: %d\n", title, len(moves)))
	for _, m := range moves {
		b.WriteString(fmt.Sprintf("  • %s → %s\n", m.Source, m.Target))
	}
}

func writeMissing(b *strings.Builder, missing []MissingAsset) {
	if len(missing) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\nMissing images: %d\n", len(missing)))
	for _, m := range missing {
		b.WriteString(fmt.Sprintf("  • %s: %s\n", m.Document, m.Image))
	}
}

func writeErrors(b *strings.Builder, errs []error) {
	if len(errs) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\nErrors encountered: %d\n", len(errs)))
	for _, err := range errs {
		b.WriteString(fmt.Sprintf("  • %v\n", err))
	}
}

func counters(kv ...any) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = strconv.Itoa(kv[i+1].(int))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
