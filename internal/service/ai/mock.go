package ai

import (
	"fmt"
	"strings"
)

// EmptyReplyFallback is returned when the provider answers with an empty
// string: apologize and ask the leader to repeat themselves.
const EmptyReplyFallback = "죄송합니다, 방금 말씀을 제대로 듣지 못했습니다. 한 번만 다시 말씀해 주시겠어요?"

// MockReply is the deterministic rule-based reply used when the provider
// call fails. Three branches keyed by persona, each a fixed template
// interpolating the trimmed original message. No randomness, no external
// calls.
func MockReply(message, personaKey string) string {
	m := strings.TrimSpace(message)

	switch personaKey {
	case "idea":
		return fmt.Sprintf(
			"오, %q 이 부분 진짜 흥미로운데요! "+
				"만약 시간을 조금 더 받는다면 완전히 다른 방식으로 실행해볼 수도 있어요. "+
				"지금 떠오른 아이디어가 몇 가지 있는데, 이야기해봐도 될까요?", m)
	case "social":
		return fmt.Sprintf(
			"%q라고 말씀해주셔서 감사해요. "+
				"혹시 제가 너무 부담을 드린 부분이 있었다면 알려주세요. "+
				"같이 맞춰가면 좋겠어요.", m)
	default: // quiet
		return fmt.Sprintf(
			"알겠습니다. %q 말씀 주신 내용은 잘 이해했습니다. "+
				"제가 부족했던 부분이 있다면 천천히 개선하겠습니다.", m)
	}
}
