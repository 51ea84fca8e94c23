package knowledge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// docsDirDocuments ingests extra documentation files from a directory.
// Markdown files are split into sections like the readme; PDF files
// contribute their extracted text as a single document. Files that cannot
// be read or parsed are skipped, they are optional sources. A missing
// directory yields no documents.
func docsDirDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	// Sort by name so the document order is deterministic across platforms.
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			docs = append(docs, sectionDocuments(string(data), name)...)
		case ".pdf":
			text, err := extractPDFText(path)
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
			docs = append(docs, Document{
				Text:   strings.TrimSpace(text),
				Source: name,
				Type:   TypeDocumentation,
			})
		}
	}
	return docs, nil
}

// extractPDFText extracts plain text from every page of a PDF file.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
