// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseTool(t *testing.T) {
	tests := []struct {
		in   string
		want Tool
		ok   bool
	}{
		{"analyze_session", ToolAnalyzeSession, true},
		{"transcribe_audio", ToolTranscribeAudio, true},
		{"summarize_investigation", ToolSummarizeInvestigation, true},
		{"generate_profile", ToolGenerateProfile, true},
		{"rag_query", ToolRAGQuery, true},
		{"", "", false},
		{"delete_everything", "", false},
		{"ANALYZE_SESSION", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseTool(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseTool(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMockAllToolsSelfValidate(t *testing.T) {
	m := NewMockSynthesizer()
	scope := Scope{TenantID: "tenant-1", SessionID: "ses-42", InvestigationID: "inv-7"}

	for _, tool := range AllTools() {
		out, err := m.Synthesize(context.Background(), tool, Input{Language: "es"}, scope)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tool, err)
		}
		if out.Result.Tool() != tool {
			t.Errorf("%s: result reports tool %s", tool, out.Result.Tool())
		}
		if err := out.Result.Validate(); err != nil {
			t.Errorf("%s: result fails its own contract: %v", tool, err)
		}
		if out.CostCents != 0 {
			t.Errorf("%s: mock run should be free, got %d cents", tool, out.CostCents)
		}
		if out.Provider != "mock" {
			t.Errorf("%s: provider = %q", tool, out.Provider)
		}
	}
}

func TestMockAnalyzeSessionContract(t *testing.T) {
	m := NewMockSynthesizer()
	out, err := m.Synthesize(context.Background(), ToolAnalyzeSession, Input{}, Scope{
		TenantID:         "tenant-1",
		SessionID:        "ses-99",
		DolorCategoryIDs: []string{"dolor-pago"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	analysis, ok := out.Result.(*SessionAnalysis)
	if !ok {
		t.Fatalf("expected *SessionAnalysis, got %T", out.Result)
	}

	if len(analysis.Summary) < 20 {
		t.Errorf("summary too short: %q", analysis.Summary)
	}
	if len(analysis.Insights) == 0 {
		t.Error("expected at least one insight")
	}
	for _, in := range analysis.Insights {
		if in.Evidence.StartMS < 0 || in.Evidence.EndMS < 0 {
			t.Errorf("negative evidence timing: %+v", in.Evidence)
		}
	}
	if len(analysis.Dolores) == 0 || analysis.Dolores[0].CategoryID != "dolor-pago" {
		t.Errorf("expected dolor anchored to requested category, got %+v", analysis.Dolores)
	}
	if p := analysis.SuggestedProfile; p == nil || p.Confidence < 0 || p.Confidence > 1 {
		t.Errorf("suggested profile outside contract: %+v", p)
	}
}

func TestMockDeterminism(t *testing.T) {
	m := NewMockSynthesizer()
	scope := Scope{TenantID: "tenant-1", SessionID: "ses-1"}

	first, err := m.Synthesize(context.Background(), ToolAnalyzeSession, Input{}, scope)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := m.Synthesize(context.Background(), ToolAnalyzeSession, Input{}, scope)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if !reflect.DeepEqual(first.Result, second.Result) {
		t.Error("mock output is not deterministic for identical input")
	}
}

func TestMockHonorsCancelledContext(t *testing.T) {
	m := NewMockSynthesizer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Synthesize(ctx, ToolAnalyzeSession, Input{}, Scope{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDispatcherLiveModeRefuses(t *testing.T) {
	d := NewDispatcher(true, nil)

	_, err := d.Synthesize(context.Background(), ToolAnalyzeSession, Input{}, Scope{TenantID: "t"})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestDispatcherMockMode(t *testing.T) {
	d := NewDispatcher(false, nil)

	out, err := d.Synthesize(context.Background(), ToolRAGQuery, Input{Query: "¿qué duele?"}, Scope{TenantID: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out.Result.(*RAGAnswer); !ok {
		t.Fatalf("expected *RAGAnswer, got %T", out.Result)
	}
}

func TestEvidenceRefValidate(t *testing.T) {
	tests := []struct {
		name    string
		ref     EvidenceRef
		wantErr bool
	}{
		{"valid", EvidenceRef{TranscriptID: "t", StartMS: 0, EndMS: 10}, false},
		{"missing transcript", EvidenceRef{StartMS: 0, EndMS: 10}, true},
		{"negative start", EvidenceRef{TranscriptID: "t", StartMS: -1, EndMS: 10}, true},
		{"negative end", EvidenceRef{TranscriptID: "t", StartMS: 0, EndMS: -5}, true},
		// Start after end is tolerated for now; only sign is enforced.
		{"inverted span", EvidenceRef{TranscriptID: "t", StartMS: 10, EndMS: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrContractViolation) {
				t.Errorf("expected ErrContractViolation, got %v", err)
			}
		})
	}
}

func TestResultContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		result Result
	}{
		{"short summary", &SessionAnalysis{Summary: "corto"}},
		{"confidence above one", &SessionAnalysis{
			Summary:          "Resumen suficientemente largo para el contrato.",
			SuggestedProfile: &SuggestedProfile{Name: "x", Confidence: 1.2},
		}},
		{"empty transcription", &Transcription{}},
		{"summary without findings", &InvestigationSummary{
			Summary: "Resumen suficientemente largo para el contrato.",
		}},
		{"profile without name", &GeneratedProfile{Confidence: 0.5}},
		{"empty answer", &RAGAnswer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.result.Validate(); !errors.Is(err, ErrContractViolation) {
				t.Errorf("expected ErrContractViolation, got %v", err)
			}
		})
	}
}
