package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/tessro/procsim/internal/id"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Markdown returns the summary as a GitHub-flavored markdown document.
func Markdown(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# procsim run %s\n\n", id.Short(s.RunID))
	fmt.Fprintf(&b, "- **Run:** `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- **Started:** %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- **Elapsed:** %dms\n", s.ElapsedMS)
	fmt.Fprintf(&b, "- **Processes:** %d (%d failed)\n\n", s.Processes, s.Failed)

	b.WriteString("| Process | State | Outcome | CPU (ms) | I/O (ms) | Error |\n")
	b.WriteString("|--------:|-------|---------|---------:|---------:|-------|\n")
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %s |\n",
			row.ID, row.State, row.Outcome, row.TotalCPUMS, row.TotalIOMS, cell(row.Error))
	}
	fmt.Fprintf(&b, "| **Total** | | | %d | %d | |\n", s.TotalCPUMS, s.TotalIOMS)
	return b.String()
}

// cell escapes text for use inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func renderMarkdown(w io.Writer, s Summary) error {
	_, err := io.WriteString(w, Markdown(s))
	return err
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 4px 10px; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

type pageData struct {
	Title   string
	Content template.HTML
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Linkify,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

func renderHTML(w io.Writer, s Summary) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(s)), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	data := pageData{
		Title:   "procsim run " + id.Short(s.RunID),
		Content: template.HTML(body.String()),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}
