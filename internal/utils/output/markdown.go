package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/localevents/pkg/models"
)

// RenderMarkdown converts the HTML page of r to GitHub flavored Markdown
func RenderMarkdown(r *Report) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	// Placeholder links have nowhere to go
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, _ := selec.Attr("href")
			if href == "" || href == models.NoURL {
				return md.String(content)
			}
			str := fmt.Sprintf("[%s](%s)", strings.TrimSpace(content), href)
			return &str
		},
	})

	var buf bytes.Buffer
	if err := RenderHTML(&buf, r); err != nil {
		return "", err
	}

	cleaned, err := CleanHTML(buf.String())
	if err != nil {
		return "", err
	}

	return converter.ConvertString(cleaned)
}

// SaveMarkdown writes the Markdown rendering of r to filepath
func SaveMarkdown(r *Report, filepath string) error {
	mdStr, err := RenderMarkdown(r)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(mdStr+"\n"), 0644)
}
