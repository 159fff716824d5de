package ai

import (
	"strings"
	"testing"
)

func TestMockReplyDeterministic(t *testing.T) {
	const message = "우리 다음 프로젝트 일정 조정이 필요해요"

	first := MockReply(message, "idea")
	second := MockReply(message, "idea")
	if first != second {
		t.Fatal("expected identical replies for identical input")
	}
	if !strings.Contains(first, message) {
		t.Fatalf("expected reply to quote the message, got %q", first)
	}
}

func TestMockReplyPersonaBranches(t *testing.T) {
	const message = "피드백이 있어요"

	idea := MockReply(message, "idea")
	social := MockReply(message, "social")
	quiet := MockReply(message, "quiet")
	unknown := MockReply(message, "nonexistent")

	if idea == social || social == quiet || idea == quiet {
		t.Fatal("expected distinct replies per persona")
	}
	if unknown != quiet {
		t.Fatal("expected unknown persona to use the quiet template")
	}
}

func TestMockReplyTrimsMessage(t *testing.T) {
	if MockReply("  일정 변경  ", "quiet") != MockReply("일정 변경", "quiet") {
		t.Fatal("expected whitespace-insensitive interpolation")
	}
}

func TestSystemPromptIncludesPersona(t *testing.T) {
	prompt := SystemPrompt("당신은 조용한 팀원이다.")

	if !strings.Contains(prompt, "당신은 조용한 팀원이다.") {
		t.Fatalf("expected persona text in system prompt, got %q", prompt)
	}
}

func TestWrapMessageQuotesLeader(t *testing.T) {
	wrapped := WrapMessage("요즘 어때요?")

	if !strings.Contains(wrapped, "요즘 어때요?") {
		t.Fatalf("expected original message in wrapper, got %q", wrapped)
	}
	if !strings.Contains(wrapped, "[리더의 발화]") {
		t.Fatalf("expected leader label in wrapper, got %q", wrapped)
	}
}
