package docctx

import "strings"

// Kind classifies the rendered document.
type Kind int

const (
	// KindPage is a standalone page tracked under its exact path.
	KindPage Kind = iota
	// KindBook is a chapter of a multi-chapter book; all chapters share
	// one tracking key.
	KindBook
	// KindDeck is a slide presentation; position is a slide index, not a
	// scroll offset.
	KindDeck
)

// String returns the kind name used in logs and the decide command.
func (k Kind) String() string {
	switch k {
	case KindBook:
		return "book"
	case KindDeck:
		return "deck"
	default:
		return "page"
	}
}

// Document describes the rendered document as reported by the host at load
// time. The marker booleans correspond to structural elements the host
// found in the DOM.
type Document struct {
	// Path is the URL path of the current page.
	Path string
	// HasPageNav is true when a previous/next page-navigation control is
	// present.
	HasPageNav bool
	// HasSidebar is true when a chapter sidebar is present.
	HasSidebar bool
	// HasDeck is true when the presentation framework is loaded.
	HasDeck bool
}

// Context is the resolved tracking context for a single page load. It is
// computed once per load and threaded by value into every component; it
// must never be cached across loads.
type Context struct {
	Kind        Kind
	Path        string
	TrackingKey string
}

// IsBook reports whether the context is a book chapter.
func (c Context) IsBook() bool { return c.Kind == KindBook }

// IsDeck reports whether the context is a slide deck.
func (c Context) IsDeck() bool { return c.Kind == KindDeck }

// Resolve classifies doc and derives its tracking key.
//
// A document is a book chapter only when both the page-navigation control
// and the chapter sidebar are present; either alone is not enough. Book
// chapters share the book root (the path with its final segment removed)
// as tracking key, so every chapter reads and writes the same slot. A
// deck or standalone page is tracked under its exact path.
func Resolve(doc Document) Context {
	path := doc.Path
	if path == "" {
		path = "/"
	}

	if doc.HasDeck {
		return Context{Kind: KindDeck, Path: path, TrackingKey: path}
	}

	if doc.HasPageNav && doc.HasSidebar {
		return Context{Kind: KindBook, Path: path, TrackingKey: bookRoot(path)}
	}

	return Context{Kind: KindPage, Path: path, TrackingKey: path}
}

// bookRoot strips the final path segment, keeping the trailing slash.
// "/guide/ch2.html" becomes "/guide/"; a path with no slash becomes "/".
func bookRoot(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "/"
	}
	root := path[:idx+1]
	if root == "" {
		return "/"
	}
	return root
}
