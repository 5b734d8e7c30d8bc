package transcript

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	DefaultSpeaker  = "Speaker 1"
	DefaultMimeType = "audio/wav"
	// MinSegmentSpan is added to start when a segment arrives with end <= start.
	MinSegmentSpan = 1.0
)

var mimeTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aiff": "audio/aiff",
	".aif":  "audio/aiff",
	".aac":  "audio/aac",
}

// MimeTypeFor infers the audio mime type from the file extension.
func MimeTypeFor(fileName string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mt
	}
	return DefaultMimeType
}

// ExtensionFor is the inverse of MimeTypeFor, used to build blob keys.
func ExtensionFor(fileName, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := mimeTypes[ext]; ok {
		return ext
	}
	for e, mt := range mimeTypes {
		if mt == mimeType && e != ".aif" {
			return e
		}
	}
	return ".wav"
}

// ParseTimestamp converts "MM:SS", "HH:MM:SS" or raw seconds into seconds.
// Anything malformed parses to 0.
func ParseTimestamp(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parts := strings.Split(raw, ":")
	var total float64
	switch len(parts) {
	case 1:
		s, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0
		}
		total = s
	case 2, 3:
		// all but the last field are integers, most significant first
		for _, p := range parts[:len(parts)-1] {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return 0
			}
			total = total*60 + float64(n)
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
		if err != nil {
			return 0
		}
		total = total*60 + s
	default:
		return 0
	}
	if !isFinite(total) || total < 0 {
		return 0
	}
	return total
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NormalizeEmotion maps anything outside the enum to neutral.
func NormalizeEmotion(raw string) Emotion {
	e := Emotion(strings.ToLower(strings.TrimSpace(raw)))
	if e.Valid() {
		return e
	}
	return EmotionNeutral
}

// NormalizeSegment applies the ingestion invariants in place: non-finite
// boundaries become 0, end > start (clamped to start+1), a speaker label,
// a valid emotion, null for an empty translation and the primary-language
// mirror fields.
func NormalizeSegment(s *Segment) {
	if !isFinite(s.Start) || s.Start < 0 {
		s.Start = 0
	}
	if !isFinite(s.End) {
		s.End = 0
	}
	if s.End <= s.Start {
		s.End = s.Start + MinSegmentSpan
	}
	if strings.TrimSpace(s.Speaker) == "" {
		s.Speaker = DefaultSpeaker
	}
	s.Emotion = NormalizeEmotion(string(s.Emotion))
	if s.Translation != nil && strings.TrimSpace(*s.Translation) == "" {
		s.Translation = nil
	}
	if len(s.Languages) > 0 {
		for i := range s.Languages {
			s.Languages[i].Code = NormalizeLanguageCode(s.Languages[i].Code)
			if s.Languages[i].Name == "" {
				s.Languages[i].Name = LanguageName(s.Languages[i].Code)
			}
		}
		s.Language = s.Languages[0].Name
		s.LanguageCode = s.Languages[0].Code
	} else {
		s.LanguageCode = NormalizeLanguageCode(s.LanguageCode)
	}
	if s.Languages == nil {
		s.Languages = []Language{}
	}
	if len(s.Words) == 0 {
		s.Words = nil
	}
}

// NormalizeLanguageCode canonicalizes a BCP-47 code. Codes the parser
// rejects are kept lowercased so model output is never lost.
func NormalizeLanguageCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return tag.String()
}

// LanguageName returns the English display name for a code, or the code
// itself when it is unknown.
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// DetectLanguages builds the ordered, unique-by-code union of the
// segments' languages. Segments without a language list contribute their
// single language_code.
func DetectLanguages(segments []Segment) []DetectedLanguage {
	seen := make(map[string]struct{})
	out := []DetectedLanguage{}
	add := func(code, name string) {
		code = NormalizeLanguageCode(code)
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		if name == "" {
			name = LanguageName(code)
		}
		out = append(out, DetectedLanguage{Code: code, Language: name})
	}
	for _, s := range segments {
		if len(s.Languages) > 0 {
			for _, l := range s.Languages {
				add(l.Code, l.Name)
			}
			continue
		}
		add(s.LanguageCode, s.Language)
	}
	return out
}

// DedupeDetected removes repeated codes, keeping the first occurrence.
func DedupeDetected(langs []DetectedLanguage) []DetectedLanguage {
	seen := make(map[string]struct{}, len(langs))
	out := make([]DetectedLanguage, 0, len(langs))
	for _, l := range langs {
		code := NormalizeLanguageCode(l.Code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		if l.Language == "" {
			l.Language = LanguageName(code)
		}
		l.Code = code
		out = append(out, l)
	}
	return out
}

// CheckSize rejects inputs over the ceiling before any network call. Uploads
// are read one byte past the ceiling, so the message names the limit and
// not the observed size.
func CheckSize(in AudioInput, ceiling int64) error {
	if ceiling > 0 && in.Size() > ceiling {
		return NewJobError(KindInputTooLarge,
			fmt.Errorf("%w: %s exceeds %d bytes", ErrInputTooLarge, in.FileName, ceiling))
	}
	return nil
}
