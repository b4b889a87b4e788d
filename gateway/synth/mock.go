// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"context"
	"fmt"
	"strings"
)

const (
	mockProvider = "mock"
	mockModel    = "entrevia-mock-1"
)

// MockSynthesizer builds deterministic per-tool results. Output depends only
// on the tool, input and scope, so idempotent replays and test fixtures stay
// stable across processes. Mock runs are free: CostCents is always zero.
type MockSynthesizer struct{}

// NewMockSynthesizer creates a mock synthesizer.
func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

// Name implements Synthesizer.
func (*MockSynthesizer) Name() string { return mockProvider }

// Synthesize implements Synthesizer. The result is validated against its own
// contract before it is returned; a validation failure here means the mock and
// the contract drifted apart and is surfaced as ErrContractViolation.
func (m *MockSynthesizer) Synthesize(ctx context.Context, tool Tool, input Input, scope Scope) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result Result
	switch tool {
	case ToolAnalyzeSession:
		result = m.analyzeSession(input, scope)
	case ToolTranscribeAudio:
		result = m.transcribeAudio(input, scope)
	case ToolSummarizeInvestigation:
		result = m.summarizeInvestigation(input, scope)
	case ToolGenerateProfile:
		result = m.generateProfile(input, scope)
	case ToolRAGQuery:
		result = m.ragQuery(input, scope)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("mock result for %s failed self-validation: %w", tool, err)
	}

	return &Outcome{
		Result:    result,
		Provider:  mockProvider,
		Model:     mockModel,
		CostCents: 0,
	}, nil
}

// transcriptIDFor derives a stable transcript handle from the run scope.
func transcriptIDFor(scope Scope) string {
	if scope.SessionID != "" {
		return "transcript-" + scope.SessionID
	}
	return "transcript-demo"
}

func (m *MockSynthesizer) analyzeSession(input Input, scope Scope) *SessionAnalysis {
	tid := transcriptIDFor(scope)

	categoryID := "dolor-generico"
	if len(scope.DolorCategoryIDs) > 0 {
		categoryID = scope.DolorCategoryIDs[0]
	}

	return &SessionAnalysis{
		Summary: fmt.Sprintf(
			"Resumen simulado de la sesión %s: la persona participante describe fricciones al completar el flujo principal.",
			orDefault(scope.SessionID, "demo")),
		Insights: []Insight{
			{
				Text:     "La participante abandona el flujo al llegar al paso de verificación.",
				Evidence: EvidenceRef{TranscriptID: tid, StartMS: 12000, EndMS: 45000},
			},
			{
				Text:     "Valora positivamente la claridad del onboarding inicial.",
				Evidence: EvidenceRef{TranscriptID: tid, StartMS: 61000, EndMS: 83000},
			},
		},
		Dolores: []Dolor{
			{
				CategoryID: categoryID,
				Evidence:   EvidenceRef{TranscriptID: tid, StartMS: 12000, EndMS: 45000},
			},
		},
		SuggestedProfile: &SuggestedProfile{
			Name:       "Usuaria pragmática",
			Confidence: 0.72,
		},
	}
}

func (m *MockSynthesizer) transcribeAudio(input Input, scope Scope) *Transcription {
	tid := transcriptIDFor(scope)
	lang := orDefault(input.Language, "es")

	return &Transcription{
		Segments: []TranscriptSegment{
			{
				Speaker:  "moderadora",
				Text:     "¿Podrías contarme cómo fue tu última compra en la aplicación?",
				Evidence: EvidenceRef{TranscriptID: tid, StartMS: 0, EndMS: 5200},
			},
			{
				Speaker:  "participante",
				Text:     "Claro, la semana pasada intenté comprar y el pago falló dos veces.",
				Evidence: EvidenceRef{TranscriptID: tid, StartMS: 5200, EndMS: 14800},
			},
		},
		Language:   lang,
		DurationMS: 14800,
	}
}

func (m *MockSynthesizer) summarizeInvestigation(input Input, scope Scope) *InvestigationSummary {
	return &InvestigationSummary{
		Summary: fmt.Sprintf(
			"Resumen simulado de la investigación %s: patrones consistentes de fricción en el proceso de pago.",
			orDefault(scope.InvestigationID, "demo")),
		KeyFindings: []string{
			"El 60% de las sesiones menciona problemas con el paso de verificación.",
			"Las participantes recurrentes completan el flujo en menos de la mitad del tiempo.",
		},
	}
}

func (m *MockSynthesizer) generateProfile(input Input, scope Scope) *GeneratedProfile {
	tid := transcriptIDFor(scope)

	return &GeneratedProfile{
		Name:        "Compradora recurrente móvil",
		Description: "Persona que compra semanalmente desde el móvil y prioriza rapidez sobre precio.",
		Confidence:  0.68,
		Evidence: []EvidenceRef{
			{TranscriptID: tid, StartMS: 3000, EndMS: 21000},
		},
	}
}

func (m *MockSynthesizer) ragQuery(input Input, scope Scope) *RAGAnswer {
	tid := transcriptIDFor(scope)

	question := strings.TrimSpace(input.Query)
	if question == "" {
		question = "la consulta"
	}

	return &RAGAnswer{
		Answer: fmt.Sprintf(
			"Respuesta simulada para %q basada en la evidencia indexada de la investigación.",
			question),
		Citations: []EvidenceRef{
			{TranscriptID: tid, StartMS: 9000, EndMS: 17000},
		},
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
