// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

package synth

import "fmt"

// Input carries the tool-specific request fields. All fields are optional at
// this layer; the validator decides which ones a given tool requires.
type Input struct {
	// Text is a free-text payload (transcript excerpt, question, notes).
	// It must be redacted before it is stored or logged.
	Text string `json:"text,omitempty"`

	// AudioURL points at a session recording for transcription.
	AudioURL string `json:"audioUrl,omitempty"`

	// Query is the question for rag_query.
	Query string `json:"query,omitempty"`

	// Language is the BCP-47 language of the inputs. Defaults to "es".
	Language string `json:"language"`
}

// Scope identifies the tenant-scoped entities a run operates on.
type Scope struct {
	TenantID         string   `json:"tenantId"`
	UserID           string   `json:"userId,omitempty"`
	InvestigationID  string   `json:"investigationId,omitempty"`
	SessionID        string   `json:"sessionId,omitempty"`
	ParticipantID    string   `json:"participantId,omitempty"`
	DolorCategoryIDs []string `json:"dolorCategoryIds,omitempty"`
	ProfileIDs       []string `json:"profileIds,omitempty"`
}

// EvidenceRef anchors a result fragment to a span of a transcript.
// Run timestamps are milliseconds from the start of the recording.
type EvidenceRef struct {
	TranscriptID string `json:"transcriptId"`
	StartMS      int64  `json:"start_ms"`
	EndMS        int64  `json:"end_ms"`
}

// Validate checks the evidence timing invariants. Start-before-end is expected
// but not enforced; only non-negative timestamps are required.
func (e EvidenceRef) Validate() error {
	if e.TranscriptID == "" {
		return fmt.Errorf("%w: evidence transcriptId is empty", ErrContractViolation)
	}
	if e.StartMS < 0 {
		return fmt.Errorf("%w: evidence start_ms %d is negative", ErrContractViolation, e.StartMS)
	}
	if e.EndMS < 0 {
		return fmt.Errorf("%w: evidence end_ms %d is negative", ErrContractViolation, e.EndMS)
	}
	return nil
}

// Result is the contract every tool result satisfies. Validate is called by
// the synthesizer on its own output before the result leaves this package, so
// contract drift is caught at synthesis time rather than downstream.
type Result interface {
	Tool() Tool
	Validate() error
}

// Insight is one observation extracted from a session.
type Insight struct {
	Text     string      `json:"text"`
	Evidence EvidenceRef `json:"evidence"`
}

// Dolor is a pain point tied to a catalog category.
type Dolor struct {
	CategoryID string      `json:"categoryId"`
	Evidence   EvidenceRef `json:"evidence"`
}

// SuggestedProfile is a proposed participant profile with a confidence score.
type SuggestedProfile struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// SessionAnalysis is the analyze_session result.
type SessionAnalysis struct {
	Summary          string            `json:"summary"`
	Insights         []Insight         `json:"insights"`
	Dolores          []Dolor           `json:"dolores"`
	SuggestedProfile *SuggestedProfile `json:"suggestedProfile,omitempty"`
}

// Tool implements Result.
func (*SessionAnalysis) Tool() Tool { return ToolAnalyzeSession }

// Validate implements Result.
func (r *SessionAnalysis) Validate() error {
	if len(r.Summary) < 20 {
		return fmt.Errorf("%w: summary shorter than 20 chars", ErrContractViolation)
	}
	for _, in := range r.Insights {
		if in.Text == "" {
			return fmt.Errorf("%w: insight with empty text", ErrContractViolation)
		}
		if err := in.Evidence.Validate(); err != nil {
			return err
		}
	}
	for _, d := range r.Dolores {
		if d.CategoryID == "" {
			return fmt.Errorf("%w: dolor with empty categoryId", ErrContractViolation)
		}
		if err := d.Evidence.Validate(); err != nil {
			return err
		}
	}
	if p := r.SuggestedProfile; p != nil {
		if p.Confidence < 0 || p.Confidence > 1 {
			return fmt.Errorf("%w: profile confidence %f outside [0,1]", ErrContractViolation, p.Confidence)
		}
	}
	return nil
}

// TranscriptSegment is one speaker turn of a transcription.
type TranscriptSegment struct {
	Speaker  string      `json:"speaker"`
	Text     string      `json:"text"`
	Evidence EvidenceRef `json:"evidence"`
}

// Transcription is the transcribe_audio result.
type Transcription struct {
	Segments   []TranscriptSegment `json:"segments"`
	Language   string              `json:"language"`
	DurationMS int64               `json:"duration_ms"`
}

// Tool implements Result.
func (*Transcription) Tool() Tool { return ToolTranscribeAudio }

// Validate implements Result.
func (r *Transcription) Validate() error {
	if len(r.Segments) == 0 {
		return fmt.Errorf("%w: transcription without segments", ErrContractViolation)
	}
	if r.DurationMS < 0 {
		return fmt.Errorf("%w: negative duration_ms", ErrContractViolation)
	}
	for _, s := range r.Segments {
		if s.Text == "" {
			return fmt.Errorf("%w: segment with empty text", ErrContractViolation)
		}
		if err := s.Evidence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InvestigationSummary is the summarize_investigation result.
type InvestigationSummary struct {
	Summary     string   `json:"summary"`
	KeyFindings []string `json:"keyFindings"`
}

// Tool implements Result.
func (*InvestigationSummary) Tool() Tool { return ToolSummarizeInvestigation }

// Validate implements Result.
func (r *InvestigationSummary) Validate() error {
	if len(r.Summary) < 20 {
		return fmt.Errorf("%w: summary shorter than 20 chars", ErrContractViolation)
	}
	if len(r.KeyFindings) == 0 {
		return fmt.Errorf("%w: summary without key findings", ErrContractViolation)
	}
	return nil
}

// GeneratedProfile is the generate_profile result.
type GeneratedProfile struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Confidence  float64       `json:"confidence"`
	Evidence    []EvidenceRef `json:"evidence,omitempty"`
}

// Tool implements Result.
func (*GeneratedProfile) Tool() Tool { return ToolGenerateProfile }

// Validate implements Result.
func (r *GeneratedProfile) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: profile without name", ErrContractViolation)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: profile confidence %f outside [0,1]", ErrContractViolation, r.Confidence)
	}
	for _, e := range r.Evidence {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RAGAnswer is the rag_query result.
type RAGAnswer struct {
	Answer    string        `json:"answer"`
	Citations []EvidenceRef `json:"citations"`
}

// Tool implements Result.
func (*RAGAnswer) Tool() Tool { return ToolRAGQuery }

// Validate implements Result.
func (r *RAGAnswer) Validate() error {
	if r.Answer == "" {
		return fmt.Errorf("%w: empty answer", ErrContractViolation)
	}
	for _, c := range r.Citations {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
