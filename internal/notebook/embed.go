package notebook

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	mdImageRe   = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	htmlImageRe = regexp.MustCompile(`<img[^>]*/?>`)
)

const attachmentPrefix = "attachment:"

// Embed returns a copy of nb in which every image reference in a markdown
// cell has been replaced by an <img> tag carrying the image bytes as an
// inline data URI. The input notebook is never modified, so a failure
// mid-transform leaves the original intact.
//
// References are resolved relative to baseDir (the notebook's category
// directory), except "attachment:" references which resolve through the
// cell's own attachment table. An image that cannot be read or resolved is a
// hard error: the rewritten cell would otherwise carry a permanently broken
// link.
func Embed(nb *Notebook, baseDir string) (*Notebook, error) {
	out, err := nb.Clone()
	if err != nil {
		return nil, err
	}

	for ci := range out.Cells {
		cell := &out.Cells[ci]
		if !cell.IsMarkdown() {
			continue
		}
		for li, line := range cell.Source {
			var rewritten string
			switch {
			case strings.Contains(line, "<img"):
				rewritten, err = embedTagReference(line, baseDir)
			case strings.Contains(line, "!["):
				rewritten, err = embedLinkReference(line, cell, baseDir)
			default:
				continue
			}
			if err != nil {
				return nil, err
			}
			cell.Source[li] = rewritten
		}
	}
	return out, nil
}

// embedTagReference rewrites the src of an HTML <img> tag in place.
func embedTagReference(line, baseDir string) (string, error) {
	ctxNode := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(line), ctxNode)
	if err != nil {
		return "", fmt.Errorf("parse img tag: %w", err)
	}

	img := findImg(nodes)
	if img == nil {
		return line, nil
	}

	replaced := false
	for i := range img.Attr {
		if img.Attr[i].Key != "src" {
			continue
		}
		uri, err := dataURI(filepath.Join(baseDir, img.Attr[i].Val))
		if err != nil {
			return "", err
		}
		img.Attr[i].Val = uri
		replaced = true
	}
	if !replaced {
		return line, nil
	}

	var sb strings.Builder
	if err := html.Render(&sb, img); err != nil {
		return "", fmt.Errorf("render img tag: %w", err)
	}
	return htmlImageRe.ReplaceAllLiteralString(line, sb.String()), nil
}

// embedLinkReference rewrites markdown image syntax into an <img> tag with an
// inline data URI.
func embedLinkReference(line string, cell *Cell, baseDir string) (string, error) {
	m := mdImageRe.FindStringSubmatch(line)
	if m == nil {
		return line, nil
	}
	alt, target := m[1], m[2]

	var uri string
	if name, ok := strings.CutPrefix(target, attachmentPrefix); ok {
		mimeType := mime.TypeByExtension(filepath.Ext(name))
		payload, found := cell.Attachments[name][mimeType]
		if !found {
			return "", fmt.Errorf("attachment %q (%s) not present in cell attachments", name, mimeType)
		}
		uri = fmt.Sprintf("data:%s;base64,%s", mimeType, payload)
	} else {
		var err error
		uri, err = dataURI(filepath.Join(baseDir, target))
		if err != nil {
			return "", err
		}
	}

	tag := fmt.Sprintf(`<img src="%s" alt="%s"/>`, uri, html.EscapeString(alt))
	return mdImageRe.ReplaceAllLiteralString(line, tag), nil
}

func findImg(nodes []*html.Node) *html.Node {
	var img *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if img != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			img = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return img
}

// dataURI reads an image file and encodes it as a self-contained data URI.
func dataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read embedded image %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
