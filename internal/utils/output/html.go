package output

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/localevents/pkg/models"
	"golang.org/x/net/html"
)

var pageTemplate = template.Must(template.New("events").Funcs(template.FuncMap{
	"linked": func(u string) bool { return u != "" && u != models.NoURL },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .FellBack}}
<p>No events found on {{.Date}}. Showing all upcoming events in {{.City}}.</p>
{{- end}}
{{- if .Events}}
<table>
<thead><tr><th>Event</th><th>Date</th><th>Venue</th><th>Description</th></tr></thead>
<tbody>
{{- range .Events}}
<tr><td>{{if linked .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td><td>{{.Date}}</td><td>{{.Venue}}</td><td>{{.Description}}</td></tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p>No events found.</p>
{{- end}}
<p><small>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</small></p>
</body>
</html>
`))

// RenderHTML writes r as a standalone HTML page
func RenderHTML(w io.Writer, r *Report) error {
	return pageTemplate.Execute(w, r)
}

// SaveHTML writes the HTML page for r to filepath
func SaveHTML(r *Report, filepath string) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, r); err != nil {
		return err
	}
	return os.WriteFile(filepath, buf.Bytes(), 0644)
}

// CleanHTML removes unwanted elements and attributes to produce a safe HTML excerpt
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("head, script, style, link, meta, noscript, iframe, svg, form").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		node := s.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			switch {
			case node.Data == "a" && (attr.Key == "href" || attr.Key == "title"):
				kept = append(kept, attr)
			case node.Data == "img" && (attr.Key == "src" || attr.Key == "alt"):
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(body), nil
}
