package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/huddle/internal/chat"
	"github.com/MikeSquared-Agency/huddle/internal/schedule"
	"github.com/MikeSquared-Agency/huddle/internal/store"
)

const defaultMessageLimit = 50

// Store is the read side of persistence used by the API.
type Store interface {
	ListMessages(ctx context.Context, limit int) ([]chat.Message, error)
	ListMessagesByUser(ctx context.Context, email string) ([]chat.Message, error)
	CreateUser(ctx context.Context, name, email string) (*store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	ListMeetings(ctx context.Context) ([]store.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*store.Meeting, error)
	UpdateMeetingStatus(ctx context.Context, id uuid.UUID, status string) error
	Statistics(ctx context.Context) (*store.Statistics, error)
}

// Scheduler books meetings from stored chat.
type Scheduler interface {
	Ingest(ctx context.Context, m chat.Message) (chat.Message, error)
	Schedule(ctx context.Context) (*schedule.Result, error)
}

type messageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "email and message are required")
		return
	}
	if req.Name == "" {
		req.Name = req.Email
	}

	saved, err := s.deps.Scheduler.Ingest(r.Context(), chat.Message{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Text:        req.Message,
	})
	if err != nil {
		s.internalError(w, r, "save message", err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	limit := defaultMessageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	msgs, err := s.deps.Store.ListMessages(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) listMessagesByUser(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.deps.Store.ListMessagesByUser(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		s.internalError(w, r, "list messages by user", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	u, err := s.deps.Store.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		s.internalError(w, r, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Store.ListUsers(r.Context())
	if err != nil {
		s.internalError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Scheduler.Schedule(r.Context())
	switch {
	case errors.Is(err, schedule.ErrNoMessages):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   err.Error(),
			"message": "start a conversation first",
		})
		return
	case errors.Is(err, schedule.ErrNoIntent):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   err.Error(),
			"message": "no meeting scheduling intent found in the conversation",
		})
		return
	case err != nil:
		s.internalError(w, r, "schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.deps.Store.ListMeetings(r.Context())
	if err != nil {
		s.internalError(w, r, "list meetings", err)
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}

func (s *Server) getMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}

	m, err := s.deps.Store.GetMeeting(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	if err != nil {
		s.internalError(w, r, "get meeting", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateMeetingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := meetingID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	err := s.deps.Store.UpdateMeetingStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, store.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	case err != nil:
		s.internalError(w, r, "update meeting status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) statistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.deps.Store.Statistics(r.Context())
	if err != nil {
		s.internalError(w, r, "statistics", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func meetingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meeting id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error("request failed", "op", op, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}
