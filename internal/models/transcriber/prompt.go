package transcriber

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
)

const basePrompt = `Process the audio file and generate a detailed transcription.

Requirements:
1. Identify distinct speakers (e.g., Speaker 1, Speaker 2, or names if context allows). Count and report the total number of speakers.
2. Provide accurate start and end timestamps for each segment (Format: MM:SS).
3. IMPORTANT: Create SHORT segments - one sentence or phrase per segment (typically 2-10 seconds each). Do NOT combine multiple sentences into one segment. Split at natural phrase boundaries, pauses, and sentence endings.
4. For EACH segment, detect ALL languages used (important for code-switching). List them in the "languages" array with the primary language first. If a speaker switches between languages mid-sentence, include ALL languages they use.
5. If the segment contains any non-English content, provide an English translation in the translation field. If it's entirely in English, set translation to null.
6. Identify the primary emotion of the speaker in EACH segment. You MUST choose exactly one of: happy, sad, angry, neutral. Also provide a list of ALL emotions detected across the entire audio in "detected_emotions".
7. Provide a brief summary of the entire audio that includes the number of speakers and the overall emotional tone.
8. PRESERVE all punctuation, hyphens, apostrophes, and special characters exactly as spoken. Do not strip or modify punctuation.

Be precise with timestamps - each segment should have both a start and end time. Prefer many short segments over few long segments.`

// BuildPrompt appends the caller's hints to the fixed instructions.
func BuildPrompt(h transcript.Hints) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n")
	if lang := strings.TrimSpace(h.Language); lang != "" {
		fmt.Fprintf(&b, "\nLanguage hint: %s.", lang)
	}
	if h.SpeakerCount > 0 {
		fmt.Fprintf(&b, "\nExpected speaker count: %d.", h.SpeakerCount)
	}
	if orth := strings.TrimSpace(h.Orthography); orth != "" {
		fmt.Fprintf(&b, "\nOrthography hint: write the transcript using %s.", orth)
	}
	return b.String()
}

var emotions = []string{
	string(transcript.EmotionHappy),
	string(transcript.EmotionSad),
	string(transcript.EmotionAngry),
	string(transcript.EmotionNeutral),
}

func responseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	emotion := &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: emotions}

	segment := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"speaker":         str("Speaker identifier (e.g., 'Speaker 1', 'Speaker 2')"),
			"timestamp_start": str("Segment start timestamp in MM:SS format"),
			"timestamp_end":   str("Segment end timestamp in MM:SS format"),
			"content":         str("The transcribed text content"),
			"languages": {
				Type:        genai.TypeArray,
				Description: "All languages used in this segment (for code-switching). List primary language first.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": str("Language name (e.g., 'English')"),
						"code": str("ISO code (e.g., 'en')"),
					},
					Required: []string{"name", "code"},
				},
			},
			"translation": {
				Type:        genai.TypeString,
				Description: "English translation if the segment contains non-English, otherwise null",
				Nullable:    true,
			},
			"emotion": emotion,
		},
		Required: []string{"speaker", "timestamp_start", "timestamp_end", "content", "languages", "emotion"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": str("A concise summary of the audio content including number of speakers and overall tone/emotion."),
			"detected_emotions": {
				Type:        genai.TypeArray,
				Description: "List of all emotions detected across the entire audio",
				Items:       emotion,
			},
			"speaker_count": {
				Type:        genai.TypeInteger,
				Description: "Total number of distinct speakers in the audio",
			},
			"segments": {
				Type:        genai.TypeArray,
				Description: "List of transcribed segments with speaker and timestamp.",
				Items:       segment,
			},
		},
		Required: []string{"summary", "detected_emotions", "speaker_count", "segments"},
	}
}
