package tosfetch

import "strings"

// FormatDocuments renders documents as plain text for display. Each text is
// preceded by a header line naming its title and URL, or just the URL when
// the page had no title. Documents are separated by blank lines.
func FormatDocuments(docs []*Document) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, "## "+header(doc)+"\n"+doc.Text)
	}

	return strings.Join(parts, "\n\n")
}

func header(doc *Document) string {
	if doc.Title == "" {
		return doc.URL
	}
	return doc.Title + " (" + doc.URL + ")"
}
