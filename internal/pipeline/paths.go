package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// pathRewriter turns relative img[src] and a[href] values into file:// URLs
// so cards rendered from a temporary file still find local images. A zero
// rewriter leaves everything alone.
type pathRewriter struct {
	base string // absolute source directory
}

func newPathRewriter(sourceDir string) (pathRewriter, error) {
	if sourceDir == "" {
		return pathRewriter{}, nil
	}
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return pathRewriter{}, err
	}
	return pathRewriter{base: abs}, nil
}

func (p pathRewriter) rewrite(n *xhtml.Node) {
	if p.base == "" {
		return
	}
	if n.Type == xhtml.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			p.rewriteAttr(n, "src")
		case atom.A:
			p.rewriteAttr(n, "href")
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		p.rewrite(ch)
	}
}

func (p pathRewriter) rewriteAttr(n *xhtml.Node, key string) {
	for i, a := range n.Attr {
		if a.Key != key || !isRelativePath(a.Val) {
			continue
		}
		abs := filepath.Join(p.base, filepath.FromSlash(a.Val))
		if !isPathUnderDir(abs, p.base) {
			continue // traversal outside the source directory stays as written
		}
		n.Attr[i].Val = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
}

// isRelativePath reports whether path is a relative filesystem path, as
// opposed to a URL, an anchor or an absolute path.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
