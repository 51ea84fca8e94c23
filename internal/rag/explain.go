package rag

import (
	"context"
	"fmt"

	"github.com/owid-edu/owidrag/internal/index"
)

// Step is one stage of the retrieval pipeline, described for educational
// display.
type Step struct {
	Number      int    `json:"step"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Trace is a step-by-step account of how a query was answered. It is a pure
// function of the engine state and the query; nothing in it is persisted.
type Trace struct {
	Query              string         `json:"query"`
	QueryEmbedding     []float32      `json:"query_embedding"`
	EmbeddingDimension int            `json:"embedding_dimension"`
	KnowledgeBaseSize  int            `json:"knowledge_base_size"`
	Results            []index.Result `json:"results"`
	Steps              []Step         `json:"process_steps"`
}

// Explain runs the retrieval pipeline for a query with the engine's default
// top-k and threshold, and narrates each stage with the live numbers. The
// query is embedded once and that vector drives the search, so the trace
// shows exactly what Search would do.
func (e *Engine) Explain(ctx context.Context, query string) (*Trace, error) {
	if err := e.init(ctx); err != nil {
		return nil, err
	}

	queryEmb, err := e.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results := e.snap.Search(queryEmb.Vector, e.topK, e.threshold)

	return &Trace{
		Query:              query,
		QueryEmbedding:     queryEmb.Vector,
		EmbeddingDimension: queryEmb.Dimensions(),
		KnowledgeBaseSize:  e.snap.Size(),
		Results:            results,
		Steps: []Step{
			{
				Number:      1,
				Name:        "Query de Entrada",
				Description: fmt.Sprintf("O usuário faz a pergunta: '%s'", query),
			},
			{
				Number:      2,
				Name:        "Geração de Embedding",
				Description: fmt.Sprintf("A query é convertida em um vetor numérico de %d dimensões usando o modelo %s", queryEmb.Dimensions(), e.provider.ModelName()),
			},
			{
				Number:      3,
				Name:        "Busca Semântica",
				Description: fmt.Sprintf("O vetor da query é comparado com %d documentos na base de conhecimento usando similaridade de cosseno", e.snap.Size()),
			},
			{
				Number:      4,
				Name:        "Retrieval (Recuperação)",
				Description: fmt.Sprintf("Foram encontrados %d documentos relevantes acima do threshold de %v", len(results), e.threshold),
			},
			{
				Number:      5,
				Name:        "Contexto para Resposta",
				Description: "Os documentos mais relevantes são usados como contexto para gerar uma resposta precisa, evitando alucinações",
			},
		},
	}, nil
}
