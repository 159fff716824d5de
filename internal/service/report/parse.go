package report

import (
	"encoding/json"
	"strings"
)

// Default bullets substituted when a section yields no extractable items.
const (
	defaultStrength    = "구성원의 입장과 감정을 이해하려는 노력이 보였습니다."
	defaultImprovement = "다음 대화를 위해 구체적인 질문을 2~3개 더 정리해보면 좋겠습니다."
)

// parseResponse extracts the four report sections from the provider's
// text. Structured JSON is tried first; the numbered-marker parse is the
// fallback for prose answers.
func parseResponse(raw string) Report {
	if rep, ok := parseJSON(raw); ok {
		return normalize(rep, raw)
	}
	return normalize(parseMarkers(raw), raw)
}

// parseJSON attempts to unmarshal the response as a Report, tolerating a
// surrounding markdown code fence.
func parseJSON(raw string) (Report, bool) {
	text := stripFence(strings.TrimSpace(raw))

	// The model sometimes prefixes the object with a sentence; start at
	// the first brace.
	if idx := strings.Index(text, "{"); idx > 0 {
		text = text[idx:]
	}

	var rep Report
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return Report{}, false
	}
	if rep.Summary == "" && len(rep.Strengths) == 0 && len(rep.Improvements) == 0 && rep.CoachNote == "" {
		return Report{}, false
	}
	return rep, true
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// parseMarkers slices the response between the literal numbered markers.
// A missing first marker leaves the whole raw text as the summary; a
// missing later marker leaves that section empty. Best effort only.
func parseMarkers(raw string) Report {
	i1 := strings.Index(raw, markerSummary)
	i2 := indexFrom(raw, markerStrengths, i1)
	i3 := indexFrom(raw, markerImprovements, i2)
	i4 := indexFrom(raw, markerCoachNote, i3)

	return Report{
		Summary:      sliceSection(raw, i1, len(markerSummary), i2, raw),
		Strengths:    ExtractBullets(sliceSection(raw, i2, len(markerStrengths), i3, "")),
		Improvements: ExtractBullets(sliceSection(raw, i3, len(markerImprovements), i4, "")),
		CoachNote:    sliceSection(raw, i4, len(markerCoachNote), -1, ""),
	}
}

// indexFrom finds marker at or after position from; -1 when absent.
func indexFrom(s, marker string, from int) int {
	if from < 0 {
		from = 0
	}
	idx := strings.Index(s[from:], marker)
	if idx < 0 {
		return -1
	}
	return from + idx
}

// sliceSection returns the text between the end of a marker and the next
// marker (or end of text), or the fallback when the marker is absent.
func sliceSection(raw string, start, markerLen, end int, fallback string) string {
	if start < 0 {
		return strings.TrimSpace(fallback)
	}
	from := start + markerLen
	to := len(raw)
	if end > from {
		to = end
	}
	return strings.TrimSpace(raw[from:to])
}

// ExtractBullets keeps every line containing the bullet glyph, stripped of
// leading bullet/dash/space characters.
func ExtractBullets(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		if !strings.Contains(line, "•") {
			continue
		}
		item := strings.TrimLeft(strings.TrimSpace(line), "•-– \t")
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// normalize fills the gaps the parse left: an empty summary falls back to
// the raw text, empty bullet lists get the fixed defaults.
func normalize(rep Report, raw string) Report {
	if strings.TrimSpace(rep.Summary) == "" {
		rep.Summary = strings.TrimSpace(raw)
	}
	if len(rep.Strengths) == 0 {
		rep.Strengths = []string{defaultStrength}
	}
	if len(rep.Improvements) == 0 {
		rep.Improvements = []string{defaultImprovement}
	}
	return rep
}
