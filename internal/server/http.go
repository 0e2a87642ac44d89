package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/golox/internal/interpreter"
	"github.com/karupanerura/golox/internal/types"
)

var basePathRegexp = regexp.MustCompile(`^/v1/sessions(?:/([^/:]+)(?::([a-z]+))?)?$`)

type session struct {
	mu sync.Mutex

	Name       string    `json:"name"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
	Runs       int       `json:"runs"`

	output  bytes.Buffer
	session *interpreter.Session
}

type sessionView struct {
	Name       string                 `json:"name"`
	CreateTime time.Time              `json:"createTime"`
	UpdateTime time.Time              `json:"updateTime"`
	Runs       int                    `json:"runs"`
	Variables  map[string]types.Value `json:"variables,omitempty"`
}

// view must be called with s.mu held.
func (s *session) view(withVariables bool) sessionView {
	v := sessionView{
		Name:       s.Name,
		CreateTime: s.CreateTime,
		UpdateTime: s.UpdateTime,
		Runs:       s.Runs,
	}
	if withVariables {
		v.Variables = s.session.Environment().Snapshot()
	}
	return v
}

type runRequest struct {
	Source string `json:"source"`
}

type runResponse struct {
	Output string `json:"output"`
	Error  any    `json:"error,omitempty"`
}

type httpHandler struct {
	idBase   uint64
	sessions sync.Map
	setup    func(*interpreter.Session) error
}

// NewHTTPHandler serves script sessions over HTTP. setup, when non-nil, is
// applied to every new session before it is published.
func NewHTTPHandler(setup func(*interpreter.Session) error) http.Handler {
	return &httpHandler{setup: setup}
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m := basePathRegexp.FindStringSubmatch(r.URL.Path)
	if m == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	sessionID, customMethod := m[1], m[2]

	if sessionID == "" {
		switch r.Method {
		case http.MethodGet:
			h.listSessions(w, r)
		case http.MethodPost:
			h.createSession(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if customMethod != "" {
		if customMethod == "run" && r.Method == http.MethodPost {
			h.runSession(w, r, sessionID)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getSession(w, r, sessionID)
	case http.MethodDelete:
		h.deleteSession(w, r, sessionID)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *httpHandler) createSession(w http.ResponseWriter, r *http.Request) {
	s := &session{}
	s.session = interpreter.NewSession(&s.output)
	if h.setup != nil {
		if err := h.setup(s.session); err != nil {
			log.Printf("failed to set up session: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	id := fmt.Sprintf("%016x", atomic.AddUint64(&h.idBase, 1))
	s.Name = "sessions/" + id
	s.CreateTime = time.Now().UTC()
	s.UpdateTime = s.CreateTime
	h.sessions.Store(id, s)

	s.mu.Lock()
	view := s.view(false)
	s.mu.Unlock()
	resJSON(w, http.StatusOK, view)
}

func (h *httpHandler) lookup(w http.ResponseWriter, id string) (*session, bool) {
	v, ok := h.sessions.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}
	return v.(*session), true
}

func (h *httpHandler) runSession(w http.ResponseWriter, r *http.Request, id string) {
	defer r.Body.Close()

	s, ok := h.lookup(w, id)
	if !ok {
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// runs of one session are serialized; the environment has a single mutator
	s.mu.Lock()
	defer s.mu.Unlock()

	s.output.Reset()
	runErr := s.session.Run(req.Source)
	s.Runs++
	s.UpdateTime = time.Now().UTC()

	res := runResponse{Output: s.output.String()}
	if runErr != nil {
		var exception types.Exception
		if errors.As(runErr, &exception) {
			res.Error = exception.Exception()
		} else {
			log.Printf("failed to run source: %v", runErr)
			res.Error = map[string]any{"message": runErr.Error()}
		}
	}
	resJSON(w, http.StatusOK, res)
}

func (h *httpHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	results := []sessionView{}
	h.sessions.Range(func(key, value any) bool {
		s := value.(*session)
		s.mu.Lock()
		results = append(results, s.view(false))
		s.mu.Unlock()
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	resJSON(w, http.StatusOK, map[string][]sessionView{"sessions": results})
}

func (h *httpHandler) getSession(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := h.lookup(w, id)
	if !ok {
		return
	}

	s.mu.Lock()
	view := s.view(true)
	s.mu.Unlock()
	resJSON(w, http.StatusOK, view)
}

func (h *httpHandler) deleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if _, loaded := h.sessions.LoadAndDelete(id); !loaded {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	resJSON(w, http.StatusOK, map[string]any{})
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
