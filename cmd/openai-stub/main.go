package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

const cannedRecommendation = `Final Year Project Recommendation: Smart Campus Companion

Project Overview:
A mobile and web platform that helps students find rooms, events and study groups on campus.

Key Features:
* Interactive campus map with indoor routing
* Event calendar with push notifications
* Study group matching by course

**Recommended Tech Stack**
Flutter for the mobile app, Node.js with Express for the API and PostgreSQL for storage.

Timeline:
* Month 1: requirements and UI design
* Months 2-3: core features
* Month 4: testing and deployment

Estimated Budget:
PKR 150,000 - 250,000 including hosting for one year.`

const cannedRevision = `Final Year Project Recommendation: Smart Campus Companion (Revised)

Project Overview:
The revised plan applies the requested changes while keeping the original scope.

Key Features:
* Interactive campus map with indoor routing
* Event calendar with push notifications`

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		var content string
		switch {
		case strings.Contains(prompt, "Previous recommendation:"):
			content = cannedRevision
		case strings.Contains(prompt, "Final Year Project Advisor"):
			content = cannedRecommendation
		default:
			http.Error(w, "unexpected prompt", http.StatusBadRequest)
			return
		}
		log.Debug().Str("model", req.Model).Int("prompt_chars", len(prompt)).Msg("chat completion")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-stub",
			"object": "chat.completion",
			"model":  model,
			"choices": []map[string]any{
				{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	})
	return mux
}
