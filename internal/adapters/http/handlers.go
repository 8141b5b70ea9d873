package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"svw.info/digitguess/internal/config"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/engine"
	"svw.info/digitguess/internal/usecase"
)

type Handler struct {
	UC       *usecase.Service
	Defaults domain.Rules
}

func New(uc *usecase.Service, defaults domain.Rules) *Handler {
	return &Handler{UC: uc, Defaults: defaults}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/match", h.handleMatch)
	mux.HandleFunc("/api/match/guess", h.handleGuess)
	mux.HandleFunc("/api/match/opponent", h.handleOpponent)
	mux.HandleFunc("/api/score", h.handleScore)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
}

// ---- Create / fetch ----

type createReq struct {
	Length       int    `json:"length,omitempty"`
	AllowRepeats *bool  `json:"allowRepeats,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	GuessLimit   int    `json:"guessLimit,omitempty"`
	HumanSecret  string `json:"humanSecret,omitempty"`
	Seed         int64  `json:"seed,omitempty"`
}

type matchResp struct {
	ID    string        `json:"id,omitempty"`
	Match *domain.Match `json:"match,omitempty"`
	Error string        `json:"error,omitempty"`
}

func (h *Handler) rulesFrom(req createReq) (domain.Rules, error) {
	rules := h.Defaults
	if req.Length > 0 {
		rules.Length = req.Length
	}
	if req.AllowRepeats != nil {
		rules.AllowRepeats = *req.AllowRepeats
	}
	if req.Difficulty != "" {
		d, err := config.ParseDifficulty(req.Difficulty)
		if err != nil {
			return domain.Rules{}, err
		}
		rules.Difficulty = d
	}
	if req.GuessLimit > 0 {
		rules.GuessLimit = req.GuessLimit
	}
	return rules, rules.Validate()
}

// redact hides live secrets: the computer's until the match ends, the
// human's always (the human knows it, the browser should not echo it).
func redact(m *domain.Match) *domain.Match {
	out := *m
	out.HumanSecret = ""
	if out.State == domain.Active {
		out.ComputerSecret = ""
	}
	return &out
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	switch r.Method {
	case http.MethodGet:
		m, err := h.UC.Get(r.URL.Query().Get("id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(matchResp{Error: err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(matchResp{ID: m.ID(), Match: redact(m.Record())})
	case http.MethodPost:
		var req createReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(matchResp{Error: "invalid JSON: " + err.Error()})
			return
		}
		rules, err := h.rulesFrom(req)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(matchResp{Error: err.Error()})
			return
		}
		seed := req.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		m, err := h.UC.Create(rules, domain.Code(req.HumanSecret), seed)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrInvalidRules) || errors.Is(err, domain.ErrIllegalCode) {
				status = http.StatusBadRequest
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(matchResp{Error: err.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(matchResp{ID: m.ID(), Match: redact(m.Record())})
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

// ---- Human guess ----

type guessReq struct {
	ID    string `json:"id"`
	Guess string `json:"guess"`
}

type guessResp struct {
	Feedback domain.Feedback `json:"feedback"`
	Kind     string          `json:"kind"`
	State    string          `json:"state"`
	Secret   string          `json:"secret,omitempty"` // revealed once the match ends
	Error    string          `json:"error,omitempty"`
}

func (h *Handler) handleGuess(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(guessResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	m, err := h.UC.Get(req.ID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(guessResp{Error: err.Error()})
		return
	}
	fb, err := m.HumanGuess(domain.Code(req.Guess))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrMatchOver) {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(guessResp{Error: err.Error(), State: m.State().String()})
		return
	}
	resp := guessResp{Feedback: fb, Kind: fb.Kind.String(), State: m.State().String()}
	if m.State() != domain.Active {
		resp.Secret = string(m.ComputerSecret())
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// ---- Computer turn ----

type opponentReq struct {
	ID string `json:"id"`
}

type opponentResp struct {
	Turn       domain.Turn `json:"turn"`
	Kind       string      `json:"kind"`
	State      string      `json:"state"`
	DurationMs int64       `json:"durationMs"`
	Nodes      int         `json:"nodes"`
	Error      string      `json:"error,omitempty"`
}

func (h *Handler) handleOpponent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req opponentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(opponentResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	m, err := h.UC.Get(req.ID)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(opponentResp{Error: err.Error()})
		return
	}
	turn, st, err := m.ComputerTurn(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrMatchOver) {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(opponentResp{Error: err.Error(), State: m.State().String()})
		return
	}
	_ = json.NewEncoder(w).Encode(opponentResp{
		Turn:       turn,
		Kind:       turn.Feedback.Kind.String(),
		State:      m.State().String(),
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
	})
}

// ---- Score an arbitrary pair ----

type scoreReq struct {
	Guess        string `json:"guess"`
	Secret       string `json:"secret"`
	AllowRepeats bool   `json:"allowRepeats"`
}

type scoreResp struct {
	Feedback domain.Feedback `json:"feedback"`
	Kind     string          `json:"kind"`
	Error    string          `json:"error,omitempty"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(scoreResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Secret == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(scoreResp{Error: "secret must not be empty"})
		return
	}
	rules := domain.Rules{Length: len(req.Secret), AllowRepeats: req.AllowRepeats}
	fb, err := h.UC.Score(domain.Code(req.Guess), domain.Code(req.Secret), rules)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(scoreResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(scoreResp{Feedback: fb, Kind: fb.Kind.String()})
}

// ---- Persistence ----

type saveReq struct {
	ID string `json:"id"`
}

type saveResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if err := h.UC.Save(r.Context(), req.ID); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(saveResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(saveResp{OK: true})
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	m, err := h.UC.Load(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(matchResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(matchResp{ID: m.ID, Match: m})
}

type listResp struct {
	Matches []domain.MatchMeta `json:"matches"`
	Error   string             `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	list, err := h.UC.List(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(listResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(listResp{Matches: list})
}
