package resource

import (
	"regexp"
	"strings"
)

// Matches the same set as unicode.IsSpace, which \s alone does not.
var whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// Slugify lower-cases s and turns every whitespace run into one hyphen.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(s), "-")
}

// NameSlug keeps a slug in step with a name as it is typed, until the slug
// is edited by hand
type NameSlug struct {
	Name   string
	Slug   string
	pinned bool
}

// NewNameSlug starts from an existing pair. A non-empty slug that does not
// follow name is treated as hand-edited.
func NewNameSlug(name, slug string) NameSlug {
	return NameSlug{Name: name, Slug: slug, pinned: slug != "" && slug != Slugify(name)}
}

// SetName records a keystroke in the name field
func (d *NameSlug) SetName(name string) {
	d.Name = name
	if !d.pinned {
		d.Slug = Slugify(name)
	}
}

// SetSlug records a keystroke in the slug field. Clearing the slug hands it
// back to the name.
func (d *NameSlug) SetSlug(slug string) {
	d.Slug = Slugify(slug)
	d.pinned = d.Slug != ""
}

// Pinned reports whether the slug was edited by hand
func (d NameSlug) Pinned() bool {
	return d.pinned
}
