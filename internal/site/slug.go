package site

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// PageSlug derives the on-disk page name for a node or species id:
// lowercase, whitespace collapsed to underscores. "Lasius niger" and
// "lasius_niger" land on the same file.
func PageSlug(id string) string {
	return whitespace.ReplaceAllString(strings.ToLower(id), "_")
}

// linker computes hrefs between generated documents. Pages live either at
// the site root or inside the page/ directory; in single-document mode
// every target collapses to an in-page anchor.
type linker struct {
	// toRoot is the relative path prefix back to the site root ("" at the
	// root, "../" inside page/).
	toRoot string
	single bool
}

func (l linker) index() string {
	if l.single {
		return "#top"
	}
	return l.toRoot + "index.html"
}

func (l linker) node(id string) string {
	if l.single {
		return "#page-" + PageSlug(id)
	}
	return l.toRoot + "page/" + PageSlug(id) + ".html"
}

func (l linker) speciesList() string {
	if l.single {
		return "#species"
	}
	return l.toRoot + "species.html"
}

func (l linker) dictionary() string {
	if l.single {
		return "#dictionary"
	}
	return l.toRoot + "dictionary.html"
}

func (l linker) styles() string {
	return l.toRoot + "styles.css"
}

func (l linker) image(rel string) string {
	return l.toRoot + "img/" + rel
}
