// Package knowledge builds the retrievable document collection from dataset
// metadata and free-text documentation.
package knowledge

// DocumentType classifies where a document's content comes from.
type DocumentType string

// Document type values.
const (
	TypeDescription   DocumentType = "description"
	TypeMethodology   DocumentType = "methodology"
	TypeCitation      DocumentType = "citation"
	TypeMetadata      DocumentType = "metadata"
	TypeDocumentation DocumentType = "documentation"
	TypeStructure     DocumentType = "structure"
	TypeDefinition    DocumentType = "definition"
)

// Document is a single retrievable passage. Documents are never mutated after
// the build; a document's identity is its position in the built sequence,
// which is also its link to the parallel embedding matrix.
type Document struct {
	Text   string       `json:"text"`
	Source string       `json:"source"`
	Type   DocumentType `json:"type"`
}
