// Package chat exposes the participant chat endpoints: the synchronous
// turn and the SSE streaming variant.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/tapi-ai/simulator/backend/internal/apperrors"
	"github.com/tapi-ai/simulator/backend/internal/metrics"
	aiservice "github.com/tapi-ai/simulator/backend/internal/service/ai"
	chatservice "github.com/tapi-ai/simulator/backend/internal/service/chat"
	"github.com/tapi-ai/simulator/backend/pkg/utils"
)

// Handler serves the /chat routes.
type Handler struct {
	chatSvc *chatservice.Service
	aiSvc   *aiservice.Service
}

// New creates the chat handler. aiSvc powers the streaming variant and
// may be nil, in which case /chat/stream responds 503.
func New(chatSvc *chatservice.Service, aiSvc *aiservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc, aiSvc: aiSvc}
}

// RegisterRoutes mounts the chat routes. The caller applies the
// access-token middleware around this group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/stream/{simulationID}", h.handleStream)
}

type chatRequest struct {
	Message      string `json:"message"`
	Persona      string `json:"persona"`
	SimulationID string `json:"simulation_id,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chatSvc.Chat(r.Context(), payload.Message, payload.Persona, payload.SimulationID)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// streamResponse is one SSE frame of the streaming chat variant.
type streamResponse struct {
	Event        string `json:"event"`
	Content      string `json:"content,omitempty"`
	SimulationID string `json:"simulation_id,omitempty"`
	Persona      string `json:"persona,omitempty"`
	Mock         bool   `json:"mock,omitempty"`
	Finished     bool   `json:"finished,omitempty"`
	Error        string `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "streaming unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	message := r.URL.Query().Get("message")
	personaKey := r.URL.Query().Get("persona")
	simulationID := chi.URLParam(r, "simulationID")

	prepared, err := h.chatSvc.Prepare(r.Context(), message, personaKey, simulationID)
	if err != nil {
		utils.RespondError(w, apperrors.HTTPStatus(err), err.Error())
		return
	}
	metrics.Global().ChatRequests.Inc()

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, streamResponse{
		Event:        "start",
		SimulationID: prepared.Simulation.ID,
		Persona:      prepared.Persona.Key,
	})

	reply, mock, err := h.streamReply(r.Context(), w, flusher, prepared)
	if err != nil {
		utils.SendSSEChunk(w, flusher, streamResponse{
			Event:        "error",
			SimulationID: prepared.Simulation.ID,
			Error:        "provider failure",
		})
		return
	}
	if reply == "" {
		reply = aiservice.EmptyReplyFallback
		mock = true
	}
	if mock {
		metrics.Global().MockFallbacks.Inc()
	}

	if err := h.chatSvc.Finish(r.Context(), prepared.Simulation.ID, prepared.Message, reply); err != nil {
		log.Printf("[stream] failed to record exchange for simulation=%s: %v", prepared.Simulation.ID, err)
	}

	utils.SendSSEChunk(w, flusher, streamResponse{
		Event:        "message",
		Content:      reply,
		SimulationID: prepared.Simulation.ID,
		Persona:      prepared.Persona.Key,
		Mock:         mock,
	})
	utils.SendSSEChunk(w, flusher, streamResponse{
		Event:        "end",
		SimulationID: prepared.Simulation.ID,
		Finished:     true,
	})
}

// streamReply forwards provider chunks as delta events and returns the
// assembled reply. Provider failures degrade to the deterministic mock
// reply under the default fallback policy and surface as errors otherwise.
func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, prepared chatservice.Prepared) (string, bool, error) {
	stream, err := h.aiSvc.Stream(ctx, prepared.SystemPrompt, prepared.History, prepared.Query)
	if err != nil {
		return h.streamFallback(prepared, err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return h.streamFallback(prepared, recvErr)
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			utils.SendSSEChunk(w, flusher, streamResponse{
				Event:        "delta",
				Content:      chunk.Content,
				SimulationID: prepared.Simulation.ID,
			})
		}
	}

	full, err := schema.ConcatMessages(chunks)
	if err != nil {
		return h.streamFallback(prepared, err)
	}
	return full.Content, false, nil
}

func (h *Handler) streamFallback(prepared chatservice.Prepared, cause error) (string, bool, error) {
	metrics.Global().ProviderFailures.Inc()
	if !h.chatSvc.FallbackOnError() {
		return "", false, cause
	}

	log.Printf("[stream] provider error, serving mock reply: %v", cause)
	return h.chatSvc.Fallback(prepared.Message, prepared.Persona.Key), true, nil
}
