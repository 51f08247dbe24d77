// ABOUTME: OPML directory tree model and parser
// ABOUTME: Converts tunein-style OPML documents into Folder/Stream nodes

// Package opml models the radio directory as a tree of folders and streams
// parsed from OPML documents.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Node is either a *Folder or a *Stream. The interface is sealed so type
// switches over nodes are exhaustive.
type Node interface {
	Name() string
	node()
}

// Folder groups child nodes and can be expanded or collapsed. Folders built
// from link outlines carry a URL and fetch their children on first expansion.
type Folder struct {
	Text     string
	Children []Node
	Expanded bool
	URL      string
	Loaded   bool
}

// Name returns the display name of the folder.
func (f *Folder) Name() string { return f.Text }

func (f *Folder) node() {}

// Stream is a leaf node representing one playable station.
type Stream struct {
	Text        string
	URL         string
	Subtext     string
	Bitrate     int
	Reliability int
	Favorite    bool
}

// Name returns the display name of the stream.
func (s *Stream) Name() string { return s.Text }

func (s *Stream) node() {}

// document mirrors the OPML wire format. Numeric attributes stay strings so
// a single bad value cannot fail the whole parse.
type document struct {
	Body struct {
		Outlines []outline `xml:"outline"`
	} `xml:"body"`
}

type outline struct {
	Text         string    `xml:"text,attr"`
	Type         string    `xml:"type,attr"`
	URL          string    `xml:"URL,attr"`
	Bitrate      string    `xml:"bitrate,attr"`
	Reliability  string    `xml:"reliability,attr"`
	CurrentTrack string    `xml:"current_track,attr"`
	Subtext      string    `xml:"subtext,attr"`
	Outlines     []outline `xml:"outline"`
}

// Parse reads an OPML document and returns its body as a root folder.
// A malformed document yields an empty root and an error so the caller can
// log the failure and keep the session alive.
func Parse(r io.Reader) (*Folder, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return &Folder{Expanded: true}, fmt.Errorf("parse opml: %w", err)
	}

	root := &Folder{Expanded: true, Loaded: true}
	root.Children = convertAll(doc.Body.Outlines)

	return root, nil
}

func convertAll(outlines []outline) []Node {
	var nodes []Node

	for _, o := range outlines {
		if n := convert(o); n != nil {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// convert maps one outline element to a node. Untyped outlines with children
// are plain folders, matching how the tunein directory omits the type
// attribute on nested categories.
func convert(o outline) Node {
	typ := o.Type
	if typ == "" && len(o.Outlines) > 0 {
		typ = "outline"
	}

	switch typ {
	case "outline":
		return &Folder{
			Text:     o.Text,
			Children: convertAll(o.Outlines),
			Loaded:   true,
		}
	case "link":
		return &Folder{Text: o.Text, URL: o.URL}
	case "audio":
		return &Stream{
			Text:        o.Text,
			URL:         o.URL,
			Subtext:     secondary(o),
			Bitrate:     atoi(o.Bitrate),
			Reliability: atoi(o.Reliability),
		}
	default:
		// Unsupported leaf types (e.g. text placeholders) are skipped.
		return nil
	}
}

// secondary picks the subtitle shown next to a stream name.
func secondary(o outline) string {
	if o.CurrentTrack != "" {
		return o.CurrentTrack
	}

	return o.Subtext
}

// atoi parses a numeric OPML attribute. Malformed or negative values become
// zero so one bad attribute cannot break rendering.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// MarkFavorites sets the favorite flag on every stream whose URL appears in
// urls. Called once after the tree is built.
func MarkFavorites(root *Folder, urls map[string]bool) {
	if len(urls) == 0 {
		return
	}

	markFavorites(root, urls)
}

func markFavorites(f *Folder, urls map[string]bool) {
	for _, child := range f.Children {
		switch n := child.(type) {
		case *Folder:
			markFavorites(n, urls)
		case *Stream:
			if urls[n.URL] {
				n.Favorite = true
			}
		}
	}
}

// StreamsByURL returns the tree's stream nodes for the given URLs, first
// occurrence wins. Lets the synthetic favorites folder share nodes with the
// directory so a favorite toggle shows everywhere the station appears.
func StreamsByURL(root *Folder, urls map[string]bool) map[string]*Stream {
	found := make(map[string]*Stream)
	collectStreams(root, urls, found)

	return found
}

func collectStreams(f *Folder, urls map[string]bool, found map[string]*Stream) {
	for _, child := range f.Children {
		switch n := child.(type) {
		case *Folder:
			collectStreams(n, urls, found)
		case *Stream:
			if urls[n.URL] {
				if _, ok := found[n.URL]; !ok {
					found[n.URL] = n
				}
			}
		}
	}
}

// FavoritesFolder builds the synthetic favorites folder shown at the top of
// the directory. It is static for the session like the rest of the tree.
func FavoritesFolder(streams []*Stream) *Folder {
	f := &Folder{Text: "Favorites", Loaded: true}
	for _, s := range streams {
		f.Children = append(f.Children, s)
	}

	return f
}
