package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/frcscout/pkg/logger"
	"github.com/okian/frcscout/pkg/metrics"
)

// maxAskBody bounds the request body of POST /ask.
const maxAskBody = 64 << 10

// DefaultFallbackReply answers a question whose dispatcher panicked when
// no reply was configured with WithFallbackReply.
const DefaultFallbackReply = "Sorry, something went wrong."

// freeText accepts a JSON string or number. A bare number like 1507 is
// treated as its decimal text.
type freeText string

func (t *freeText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = freeText(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("team_number must be text: %w", ErrBadRequest)
	}
	*t = freeText(b)
	return nil
}

// askRequest mirrors the OpenAPI schema for POST /ask.
type askRequest struct {
	TeamNumber freeText `json:"team_number"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

// AskHandler handles chat requests.
type AskHandler struct {
	deps     Dependencies
	log      logger.Logger
	fallback string
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(deps Dependencies, log logger.Logger, fallback string) *AskHandler {
	if log == nil {
		log = logger.Nop()
	}
	if fallback == "" {
		fallback = DefaultFallbackReply
	}
	return &AskHandler{deps: deps, log: log, fallback: fallback}
}

// HandleAsk handles POST /ask requests. Every request that reaches the
// dispatcher is answered with 200; problems are explained in the reply.
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBody)).Decode(&req); err != nil {
		// An unreadable body is answered like an empty question.
		h.log.Debug(r.Context(), "unreadable ask body", logger.Error(err))
		req = askRequest{}
	}
	writeJSON(w, http.StatusOK, askResponse{Reply: h.ask(r, string(req.TeamNumber))})
}

func (h *AskHandler) ask(r *http.Request, text string) (reply string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error(r.Context(), "ask panicked", logger.Any("panic", rec))
			metrics.RecordErrorByComponent("api", "panic")
			reply = h.fallback
		}
	}()
	return h.deps.Ask(r.Context(), text)
}
