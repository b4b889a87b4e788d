// Copyright 2026 Entrevia
// SPDX-License-Identifier: Apache-2.0

// Package synth defines the closed set of AI tools the gateway can execute and
// the result contract each tool must satisfy. It provides a deterministic mock
// synthesizer for environments where real execution is disabled, and the
// Synthesizer seam a provider-routing dispatcher plugs into later.
package synth

// Tool identifies an AI tool the gateway knows how to run. The set is closed:
// dispatch is an exhaustive switch, never a default branch.
type Tool string

const (
	// ToolAnalyzeSession extracts insights, pains and a suggested participant
	// profile from a research session transcript.
	ToolAnalyzeSession Tool = "analyze_session"

	// ToolTranscribeAudio produces a timed transcript from a session recording.
	ToolTranscribeAudio Tool = "transcribe_audio"

	// ToolSummarizeInvestigation condenses an investigation's sessions into a
	// summary with key findings.
	ToolSummarizeInvestigation Tool = "summarize_investigation"

	// ToolGenerateProfile builds a participant profile proposal.
	ToolGenerateProfile Tool = "generate_profile"

	// ToolRAGQuery answers a free-form question against indexed evidence.
	ToolRAGQuery Tool = "rag_query"
)

// AllTools returns the closed tool set in declaration order.
func AllTools() []Tool {
	return []Tool{
		ToolAnalyzeSession,
		ToolTranscribeAudio,
		ToolSummarizeInvestigation,
		ToolGenerateProfile,
		ToolRAGQuery,
	}
}

// ParseTool maps a wire string onto the closed tool set.
func ParseTool(s string) (Tool, bool) {
	switch Tool(s) {
	case ToolAnalyzeSession, ToolTranscribeAudio, ToolSummarizeInvestigation,
		ToolGenerateProfile, ToolRAGQuery:
		return Tool(s), true
	}
	return "", false
}

// String returns the wire representation of the tool.
func (t Tool) String() string { return string(t) }
