package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/schedule"
	"github.com/MikeSquared-Agency/huddle/internal/segment"
)

const defaultSlotMinutes = 60

type intentRequest struct {
	Text string `json:"text"`
}

// analyzeIntent parses a single block of text without touching storage.
func (s *Server) analyzeIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Parser.Parse(req.Text))
}

type segmentsRequest struct {
	Messages []chat.Message `json:"messages"`
}

type segmentsResponse struct {
	Groups   []segment.Group           `json:"groups"`
	Contexts []*segment.MeetingContext `json:"contexts"`
}

// segments splits a posted transcript into threads and reports the meeting
// context of each qualifying thread.
func (s *Server) segments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := segmentsResponse{
		Groups:   segment.Segment(req.Messages),
		Contexts: []*segment.MeetingContext{},
	}
	if resp.Groups == nil {
		resp.Groups = []segment.Group{}
	}
	for _, g := range resp.Groups {
		if ctx, ok := segment.Extract(g); ok {
			resp.Contexts = append(resp.Contexts, ctx)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	var participants []string
	for _, p := range strings.Split(r.URL.Query().Get("participants"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}

	minutes := defaultSlotMinutes
	if v := r.URL.Query().Get("duration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "duration must be a positive number of minutes")
			return
		}
		minutes = n
	}

	slots := schedule.SuggestSlots(s.deps.Now(), participants, time.Duration(minutes)*time.Minute)
	writeJSON(w, http.StatusOK, slots)
}
