package webpage

import (
	"bytes"
	"html"
	"mime"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
	"github.com/orkg/license-service/internal/domain/license"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Dublin Core and Highwire metadata carrying license statements.
const metaXPath = `//meta[@content][translate(@name,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')='dc.rights' or ` +
	`translate(@name,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')='dcterms.license' or ` +
	`translate(@name,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')='dcterms.rights' or ` +
	`translate(@name,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')='citation_license']`

// prescanLimit bounds the search for an in-document charset declaration.
const prescanLimit = 1024

var textPolicy = bluemonday.StrictPolicy()

// isHTML reports whether body looks like an HTML document.
func isHTML(body []byte) bool {
	mt := mimetype.Detect(body)
	return mt.Is("text/html") || mt.Is("application/xhtml+xml")
}

// decode converts body to UTF-8. The Content-Type charset wins, then a
// charset declared in the document head, then a sniffed guess.
func decode(body []byte, contentType string) []byte {
	name := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		name = params["charset"]
	}
	if name == "" {
		name = declaredCharset(body)
	}
	if name == "" {
		name = detectCharset(body)
	}

	r, err := charset.NewReader(bytes.NewReader(body), "text/html; charset="+name)
	if err != nil {
		return body
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return body
	}
	return buf.Bytes()
}

// declaredCharset reads <meta charset> or the http-equiv Content-Type from
// the first prescanLimit bytes, the window browsers use for the same check.
func declaredCharset(body []byte) string {
	if len(body) > prescanLimit {
		body = body[:prescanLimit]
	}
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if n := htmlquery.FindOne(doc, "//meta[@charset]"); n != nil {
		return strings.TrimSpace(htmlquery.SelectAttr(n, "charset"))
	}
	n := htmlquery.FindOne(doc, `//meta[translate(@http-equiv,'CONTENT-TYPE','content-type')='content-type'][@content]`)
	if n == nil {
		return ""
	}
	if _, params, err := mime.ParseMediaType(htmlquery.SelectAttr(n, "content")); err == nil {
		return params["charset"]
	}
	return ""
}

func detectCharset(data []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// extract finds the first recognisable license statement in the page.
// rel="license" links are preferred over metadata.
func extract(page *url.URL, body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false
	}

	var id string
	var found bool
	doc.Find(`a[rel~="license"], link[rel~="license"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		id, found = classify(page, href, s.Text())
		return !found
	})
	if found {
		return id, true
	}

	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	nodes, err := htmlquery.QueryAll(root, metaXPath)
	if err != nil {
		return "", false
	}
	for _, n := range nodes {
		content := htmlquery.SelectAttr(n, "content")
		if id, ok := classify(page, content, content); ok {
			return id, true
		}
	}
	return "", false
}

// classify maps a license link or its label to an SPDX ID.
func classify(page *url.URL, ref, label string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref != "" {
		if target, err := page.Parse(ref); err == nil {
			if id, ok := license.FromLicenseURL(target.String()); ok {
				return id, true
			}
		}
	}
	label = strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(label))), " ")
	if label == "" {
		return "", false
	}
	return license.LookupSPDX(label)
}
