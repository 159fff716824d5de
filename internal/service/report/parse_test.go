package report

import (
	"strings"
	"testing"
)

func TestParseMarkersFullResponse(t *testing.T) {
	raw := "1) 현상 진단: 면담 전반에서 리더가 대화를 주도했습니다.\n" +
		"2) 잘한 점:\n• 경청하는 태도를 보였다\n• 구체적인 질문을 던졌다\n" +
		"3) 개선할 점:\n• 아젠다를 미리 공유하면 좋겠다\n" +
		"4) 코치의 한마디: 다음 면담에서는 팀원에게 더 많은 발언 기회를 주세요."

	rep := parseResponse(raw)

	if !strings.Contains(rep.Summary, "리더가 대화를 주도했습니다") {
		t.Fatalf("unexpected summary: %q", rep.Summary)
	}
	if len(rep.Strengths) != 2 || rep.Strengths[0] != "경청하는 태도를 보였다" {
		t.Fatalf("unexpected strengths: %+v", rep.Strengths)
	}
	if len(rep.Improvements) != 1 || rep.Improvements[0] != "아젠다를 미리 공유하면 좋겠다" {
		t.Fatalf("unexpected improvements: %+v", rep.Improvements)
	}
	if !strings.Contains(rep.CoachNote, "발언 기회를 주세요") {
		t.Fatalf("unexpected coach note: %q", rep.CoachNote)
	}
}

func TestParseMarkersMissingFirstMarker(t *testing.T) {
	raw := "형식을 따르지 않은 자유 서술 답변입니다."

	rep := parseResponse(raw)

	if rep.Summary != raw {
		t.Fatalf("expected raw text as summary, got %q", rep.Summary)
	}
	if len(rep.Strengths) != 1 || rep.Strengths[0] != defaultStrength {
		t.Fatalf("expected default strength, got %+v", rep.Strengths)
	}
	if len(rep.Improvements) != 1 || rep.Improvements[0] != defaultImprovement {
		t.Fatalf("expected default improvement, got %+v", rep.Improvements)
	}
}

func TestParseMarkersMissingLaterMarker(t *testing.T) {
	raw := "1) 요약만 있는 답변입니다.\n2) 잘한 점:\n• 하나 있음"

	rep := parseResponse(raw)

	if !strings.Contains(rep.Summary, "요약만 있는") {
		t.Fatalf("unexpected summary: %q", rep.Summary)
	}
	if len(rep.Strengths) != 1 || rep.Strengths[0] != "하나 있음" {
		t.Fatalf("unexpected strengths: %+v", rep.Strengths)
	}
	if rep.CoachNote != "" {
		t.Fatalf("expected empty coach note, got %q", rep.CoachNote)
	}
}

func TestExtractBulletsSkipsContinuationLines(t *testing.T) {
	items := ExtractBullets("• 첫번째\n설명 줄\n• 두번째")

	if len(items) != 2 || items[0] != "첫번째" || items[1] != "두번째" {
		t.Fatalf("expected [첫번째 두번째], got %+v", items)
	}
}

func TestParseJSONResponse(t *testing.T) {
	raw := `{"summary":"면담 요약","strengths":["경청"],"improvements":["질문 준비"],"coachNote":"꾸준히 하세요"}`

	rep := parseResponse(raw)

	if rep.Summary != "면담 요약" {
		t.Fatalf("unexpected summary: %q", rep.Summary)
	}
	if len(rep.Strengths) != 1 || rep.Strengths[0] != "경청" {
		t.Fatalf("unexpected strengths: %+v", rep.Strengths)
	}
	if rep.CoachNote != "꾸준히 하세요" {
		t.Fatalf("unexpected coach note: %q", rep.CoachNote)
	}
}

func TestParseJSONResponseInsideFence(t *testing.T) {
	raw := "```json\n{\"summary\":\"요약\",\"strengths\":[\"a\"],\"improvements\":[\"b\"],\"coachNote\":\"c\"}\n```"

	rep := parseResponse(raw)

	if rep.Summary != "요약" {
		t.Fatalf("expected fence-stripped JSON parse, got %q", rep.Summary)
	}
}

func TestParseJSONFillsEmptyListsWithDefaults(t *testing.T) {
	raw := `{"summary":"요약","strengths":[],"improvements":[],"coachNote":"조언"}`

	rep := parseResponse(raw)

	if len(rep.Strengths) != 1 || rep.Strengths[0] != defaultStrength {
		t.Fatalf("expected default strength, got %+v", rep.Strengths)
	}
	if len(rep.Improvements) != 1 || rep.Improvements[0] != defaultImprovement {
		t.Fatalf("expected default improvement, got %+v", rep.Improvements)
	}
}

func TestTranscriptLabelsSpeakers(t *testing.T) {
	text := Transcript([]TranscriptEntry{
		{Role: "leader", Text: "요즘 어때요?"},
		{Role: "member", Text: "괜찮습니다."},
	})

	if !strings.Contains(text, "리더: 요즘 어때요?") {
		t.Fatalf("missing leader line: %q", text)
	}
	if !strings.Contains(text, "팀원: 괜찮습니다.") {
		t.Fatalf("missing member line: %q", text)
	}
}

func TestBuildPromptEmbedsSchemaAndTranscript(t *testing.T) {
	prompt := buildPrompt(Request{
		CompanyID: "acme",
		Topic:     Topic{ID: "schedule", Label: "일정 조율"},
		Persona:   PersonaRef{ID: "quiet", Name: "조용한 팀원"},
		Situation: Situation{ID: "delay", Title: "일정 지연 상황"},
		ChatHistory: []TranscriptEntry{
			{Role: "leader", Text: "일정 이야기를 해볼까요?"},
		},
	})

	if !strings.Contains(prompt, "일정 조율") {
		t.Fatalf("missing topic in prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "리더: 일정 이야기를 해볼까요?") {
		t.Fatal("missing transcript in prompt")
	}
	if !strings.Contains(prompt, `"coachNote"`) {
		t.Fatal("missing schema in prompt")
	}
	if !strings.Contains(prompt, "1) 현상 진단") {
		t.Fatal("missing fallback format instructions in prompt")
	}
}
