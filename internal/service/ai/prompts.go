package ai

import "fmt"

// prompts.go holds the Korean instruction text wrapped around persona
// prompts and leader messages. Kept separate so the wording can be tuned
// without touching the chain plumbing.

// SystemPrompt frames the simulation as a 1:1 meeting between a team lead
// and the persona's team member. It seeds every new simulation.
func SystemPrompt(personaPrompt string) string {
	return fmt.Sprintf(`다음은 팀장과 팀원 사이의 1:1 면담이다.

[팀원 설정]
%s

위 상황에서, 너는 팀원의 입장에서만 대답한다.`, personaPrompt)
}

// WrapMessage wraps one leader utterance with the in-character reply
// instructions: conversational Korean, three to five sentences, and never
// acknowledging being an automated system.
func WrapMessage(message string) string {
	return fmt.Sprintf(`[리더의 발화]
%s

위 발화에 팀원의 입장에서만 대답하라.
- 자연스러운 한국어 구어체로 3~5문장 정도로 말한다.
- 코치나 설명자가 아니라, 실제 팀원이 메신저에 답하듯이 말한다.
- AI, 프롬프트, 모델 같은 단어는 절대 언급하지 않는다.`, message)
}
