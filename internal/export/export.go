// Package export renders the project collection for use outside cps.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/cps/internal/model"
)

// Format names an export encoding.
type Format string

const (
	JSON     Format = "json"
	YAML     Format = "yaml"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// Formats lists the supported formats in display order.
var Formats = []Format{JSON, YAML, Markdown, HTML}

// ParseFormat accepts a format name or common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml, markdown or html)", s)
}

// Document is what gets exported.
type Document struct {
	Version  string          `json:"version" yaml:"version"`
	Projects []model.Project `json:"projects" yaml:"projects"`
}

// NewDocument wraps projects for export.
func NewDocument(projects []model.Project) Document {
	if projects == nil {
		projects = []model.Project{}
	}
	return Document{Version: model.ConfigVersion, Projects: projects}
}

// Write encodes doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case Markdown:
		_, err := io.WriteString(w, RenderMarkdown(doc.Projects))
		return err
	case HTML:
		return writeHTML(w, doc.Projects)
	}
	return fmt.Errorf("unknown export format %q", f)
}

const ungrouped = "Ungrouped"

// RenderMarkdown renders projects as one table per group. Named groups are
// sorted; projects without a group come last.
func RenderMarkdown(projects []model.Project) string {
	var b strings.Builder
	b.WriteString("# Projects\n")

	if len(projects) == 0 {
		b.WriteString("\nNo projects registered.\n")
		return b.String()
	}

	byGroup := make(map[string][]model.Project)
	for _, p := range projects {
		byGroup[p.Group] = append(byGroup[p.Group], p)
	}
	names := make([]string, 0, len(byGroup))
	for g := range byGroup {
		if g != "" {
			names = append(names, g)
		}
	}
	sort.Strings(names)
	if _, ok := byGroup[""]; ok {
		names = append(names, "")
	}

	for _, g := range names {
		title := g
		if title == "" {
			title = ungrouped
		}
		fmt.Fprintf(&b, "\n## %s\n\n", escapeCell(title))
		b.WriteString("| Name | Path | Tags | Language | Accesses | Last accessed |\n")
		b.WriteString("| --- | --- | --- | --- | ---: | --- |\n")
		for _, p := range byGroup[g] {
			lang := ""
			if p.Metadata != nil {
				lang = p.Metadata.Language
				if p.Metadata.Framework != "" {
					lang += " (" + p.Metadata.Framework + ")"
				}
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %s | %s |\n",
				escapeCell(p.Name),
				strings.ReplaceAll(p.Path, "`", "'"),
				escapeCell(strings.Join(p.Tags, ", ")),
				escapeCell(lang),
				strconv.Itoa(p.AccessCount),
				formatMillis(p.LastAccessed),
			)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return strings.ReplaceAll(s, "|", `\|`)
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}

func writeHTML(w io.Writer, projects []model.Project) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(projects)), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString("Projects"), body.String())
	return err
}
