package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Section markers the fallback parser looks for when the provider ignores
// the JSON instruction and answers in prose.
const (
	markerSummary      = "1)"
	markerStrengths    = "2)"
	markerImprovements = "3)"
	markerCoachNote    = "4)"
)

var (
	schemaOnce sync.Once
	schemaJSON string
)

// reportSchema reflects the Report struct into a JSON schema once. The
// schema is embedded in the prompt so the provider can be asked for
// structured output directly instead of free-form prose.
func reportSchema() string {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties:  false,
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: false,
		}
		schema := reflector.Reflect(Report{})
		raw, err := json.Marshal(schema)
		if err != nil {
			raw = []byte(`{"type":"object"}`)
		}
		schemaJSON = string(raw)
	})
	return schemaJSON
}

// buildPrompt assembles the single large report request: simulation
// metadata, the speaker-labeled transcript, and the output instructions.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("다음은 팀장(리더)과 팀원 사이의 1:1 면담 시뮬레이션 기록이다.\n\n")

	b.WriteString("[면담 정보]\n")
	fmt.Fprintf(&b, "- 주제: %s\n", req.Topic.Label)
	fmt.Fprintf(&b, "- 팀원 유형: %s\n", personaLabel(req.Persona))
	fmt.Fprintf(&b, "- 상황: %s\n", req.Situation.Title)
	if agenda := strings.TrimSpace(req.Agenda); agenda != "" {
		fmt.Fprintf(&b, "- 아젠다: %s\n", agenda)
	}

	b.WriteString("\n[대화 기록]\n")
	b.WriteString(Transcript(req.ChatHistory))

	b.WriteString(`

위 면담을 리더십 코칭 관점에서 분석해, 아래 JSON 스키마를 따르는 JSON 객체 하나만 출력하라.
다른 설명이나 마크다운 코드 블록 없이 JSON만 출력한다.

`)
	b.WriteString(reportSchema())

	b.WriteString(`

JSON 출력이 불가능한 경우에만, 아래 형식의 번호 목록으로 출력한다.
1) 현상 진단: 면담 전체 요약 (2~4문장)
2) 잘한 점: • 로 시작하는 목록
3) 개선할 점: • 로 시작하는 목록
4) 코치의 한마디: 리더에게 전하는 조언 (2~3문장)`)

	return b.String()
}

// Transcript serializes chat history as alternating speaker-labeled lines.
func Transcript(history []TranscriptEntry) string {
	var b strings.Builder
	for _, entry := range history {
		label := "팀원"
		if entry.Role == "leader" {
			label = "리더"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, strings.TrimSpace(entry.Text))
	}
	return b.String()
}

func personaLabel(p PersonaRef) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
