package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/config"
	"github.com/tapi-ai/simulator/backend/internal/model/persona"
	simmodel "github.com/tapi-ai/simulator/backend/internal/model/simulation"
	"github.com/tapi-ai/simulator/backend/internal/service/ai"
	"github.com/tapi-ai/simulator/backend/internal/service/simulation"
)

// stubGenerator scripts the provider behavior per test.
type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string, _ []simmodel.Turn, _ string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func newTestService(gen Generator, policy string) (*Service, *simulation.Service) {
	sims := simulation.NewService(persona.NewMemoryStore(persona.Seed()))
	return NewService(sims, gen, policy), sims
}

func TestChatSuccess(t *testing.T) {
	gen := &stubGenerator{reply: "네, 말씀 감사합니다. 제 생각을 말씀드려도 될까요?"}
	svc, _ := newTestService(gen, config.FallbackMock)

	result, err := svc.Chat(context.Background(), "요즘 업무가 어때요?", "quiet", "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.SimulationID == "" {
		t.Fatal("expected simulation id")
	}
	if result.Mock {
		t.Fatal("expected real reply, got mock flag")
	}
	if result.Reply != gen.reply {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if result.Persona != "quiet" {
		t.Fatalf("expected persona quiet, got %q", result.Persona)
	}
}

func TestChatEmptyMessageRejectedBeforeSessionMutation(t *testing.T) {
	gen := &stubGenerator{reply: "any"}
	svc, sims := newTestService(gen, config.FallbackMock)

	_, err := svc.Chat(context.Background(), "   ", "quiet", "some-id")
	if !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected provider untouched, got %d calls", gen.calls)
	}
	if _, err := sims.History(context.Background(), "some-id"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatal("expected no simulation to be created for rejected message")
	}
}

func TestChatProviderFailureServesDeterministicMock(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc, _ := newTestService(gen, config.FallbackMock)

	const message = "우리 다음 프로젝트 일정 조정이 필요해요"

	first, err := svc.Chat(context.Background(), message, "idea", "")
	if err != nil {
		t.Fatalf("expected mock fallback, got %v", err)
	}
	if !first.Mock {
		t.Fatal("expected mock flag on fallback reply")
	}
	if first.Reply != ai.MockReply(message, "idea") {
		t.Fatalf("expected deterministic mock reply, got %q", first.Reply)
	}

	second, err := svc.Chat(context.Background(), message, "idea", "")
	if err != nil {
		t.Fatalf("expected mock fallback, got %v", err)
	}
	if first.Reply != second.Reply {
		t.Fatal("expected identical mock replies for identical input")
	}
	if !strings.Contains(first.Reply, message) {
		t.Fatalf("expected mock reply to quote the message, got %q", first.Reply)
	}
}

func TestChatProviderFailureSurfacesUnderErrorPolicy(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream unavailable")}
	svc, _ := newTestService(gen, config.FallbackError)

	_, err := svc.Chat(context.Background(), "일정 이야기 좀 할까요?", "quiet", "")
	if !errors.Is(err, apperrors.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestChatEmptyProviderReplyUsesPlaceholder(t *testing.T) {
	gen := &stubGenerator{reply: "   "}
	svc, _ := newTestService(gen, config.FallbackMock)

	result, err := svc.Chat(context.Background(), "듣고 있나요?", "quiet", "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Reply != ai.EmptyReplyFallback {
		t.Fatalf("expected placeholder reply, got %q", result.Reply)
	}
	if !result.Mock {
		t.Fatal("expected mock flag on placeholder reply")
	}
}

func TestChatAppendsExchangeToHistory(t *testing.T) {
	gen := &stubGenerator{reply: "알겠습니다, 한번 정리해볼게요."}
	svc, sims := newTestService(gen, config.FallbackMock)

	result, err := svc.Chat(context.Background(), "이번 주 목표를 정리해줄래요?", "quiet", "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	turns, err := sims.History(context.Background(), result.SimulationID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Content != "이번 주 목표를 정리해줄래요?" || turns[1].Content != gen.reply {
		t.Fatalf("unexpected history: %+v", turns)
	}
}

func TestChatResumeSendsHistoryToProvider(t *testing.T) {
	gen := &stubGenerator{reply: "네."}
	svc, _ := newTestService(gen, config.FallbackMock)

	first, err := svc.Chat(context.Background(), "첫 질문입니다", "social", "")
	if err != nil {
		t.Fatalf("first turn failed: %v", err)
	}

	prepared, err := svc.Prepare(context.Background(), "두번째 질문입니다", "social", first.SimulationID)
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if len(prepared.History) != 2 {
		t.Fatalf("expected 2 prior turns, got %d", len(prepared.History))
	}
	if prepared.Persona.Key != "social" {
		t.Fatalf("expected persona social, got %q", prepared.Persona.Key)
	}
}
