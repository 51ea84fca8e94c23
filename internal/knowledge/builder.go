package knowledge

import (
	"fmt"
	"os"
	"strings"
)

// SectionMarker splits free-text documentation into sections: a newline
// followed by a markdown level-two heading.
const SectionMarker = "\n## "

// Fixed documents describing the HDI dataset itself. These mirror the
// dashboard's built-in explanations and are always part of the base.
const (
	structureText = "O dataset contém colunas: Entity (nome do país/entidade), Code (código ISO), Year (ano), Human Development Index (valor do HDI de 0 a 1), World regions according to OWID (região geográfica)."

	definitionText = "O Índice de Desenvolvimento Humano (HDI) é uma medida resumida de dimensões-chave do desenvolvimento humano: uma vida longa e saudável, uma boa educação e um padrão de vida decente. Valores mais altos indicam maior desenvolvimento humano. O HDI varia de 0 a 1."

	methodologyText = "O HDI é calculado como a média geométrica de três índices: Índice de Expectativa de Vida (baseado na expectativa de vida ao nascer), Índice de Educação (baseado em anos esperados e médios de escolaridade) e Índice de Renda Nacional Bruta (baseado no RNB per capita em PPP$)."
)

// Builder assembles the knowledge base from an indicator's metadata file,
// its readme, and an optional directory of extra documentation.
type Builder struct {
	metadataFile string
	indicator    string
	readmeFile   string
	docsDir      string
}

// NewBuilder creates a knowledge-base builder for one indicator.
func NewBuilder(metadataFile, indicator, readmeFile string) *Builder {
	return &Builder{
		metadataFile: metadataFile,
		indicator:    indicator,
		readmeFile:   readmeFile,
	}
}

// SetDocsDir enables ingestion of extra documentation files (.md, .pdf)
// from the given directory.
func (b *Builder) SetDocsDir(dir string) {
	b.docsDir = dir
}

// Build assembles the document sequence in a fixed order: metadata-derived
// documents, readme sections, extra documentation, then the fixed structure,
// definition and methodology documents. Missing optional sources are skipped;
// the order of whatever is present is deterministic. An empty result is valid
// and yields empty search results downstream.
func (b *Builder) Build() ([]Document, error) {
	var docs []Document

	meta, ok, err := LoadIndicatorMetadata(b.metadataFile, b.indicator)
	if err != nil {
		return nil, fmt.Errorf("loading indicator metadata: %w", err)
	}
	if ok {
		docs = append(docs, metadataDocuments(meta)...)
	}

	readme, err := readOptionalFile(b.readmeFile)
	if err != nil {
		return nil, fmt.Errorf("reading readme: %w", err)
	}
	docs = append(docs, sectionDocuments(readme, "README.md")...)

	if b.docsDir != "" {
		extra, err := docsDirDocuments(b.docsDir)
		if err != nil {
			return nil, fmt.Errorf("reading docs directory: %w", err)
		}
		docs = append(docs, extra...)
	}

	docs = append(docs,
		Document{Text: structureText, Source: "Estrutura de Dados", Type: TypeStructure},
		Document{Text: definitionText, Source: "Definição HDI", Type: TypeDefinition},
		Document{Text: methodologyText, Source: "Metodologia HDI", Type: TypeMethodology},
	)

	return docs, nil
}

// metadataDocuments converts present metadata fields into documents, keeping
// the fixed field order: description, key details, citation, timespan.
func metadataDocuments(meta IndicatorMetadata) []Document {
	var docs []Document

	if meta.DescriptionShort != "" {
		docs = append(docs, Document{
			Text:   meta.DescriptionShort,
			Source: "Metadados HDI - Descrição",
			Type:   TypeDescription,
		})
	}

	for _, desc := range meta.DescriptionKey {
		if desc == "" {
			continue
		}
		docs = append(docs, Document{
			Text:   desc,
			Source: "Metadados HDI - Detalhes",
			Type:   TypeMethodology,
		})
	}

	if meta.CitationShort != "" {
		docs = append(docs, Document{
			Text:   "Fonte dos dados: " + meta.CitationShort,
			Source: "Metadados HDI - Citação",
			Type:   TypeCitation,
		})
	}

	if meta.Timespan != "" {
		lastUpdated := meta.LastUpdated
		if lastUpdated == "" {
			lastUpdated = "N/A"
		}
		docs = append(docs, Document{
			Text:   fmt.Sprintf("Período dos dados: %s. Última atualização: %s", meta.Timespan, lastUpdated),
			Source: "Metadados HDI - Período",
			Type:   TypeMetadata,
		})
	}

	return docs
}

// sectionDocuments splits documentation text on the section marker. Each
// trimmed non-empty section becomes one document labeled with its 1-based
// position over the split (positions of empty sections are kept, matching
// how the dashboard numbered readme sections).
func sectionDocuments(content, sourceName string) []Document {
	if content == "" {
		return nil
	}

	sections := strings.Split(content, SectionMarker)
	docs := make([]Document, 0, len(sections))
	for i, section := range sections {
		text := strings.TrimSpace(section)
		if text == "" {
			continue
		}
		docs = append(docs, Document{
			Text:   text,
			Source: fmt.Sprintf("%s - Seção %d", sourceName, i+1),
			Type:   TypeDocumentation,
		})
	}
	return docs
}

// readOptionalFile reads a file, treating absence as empty content.
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}
