package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// eventRequest is the wire shape for POST /v1/users/{userID}/events.
type eventRequest struct {
	ResponseTimeMs     int64    `json:"response_time_ms"`
	DwellTimeMs        *int64   `json:"dwell_time_ms,omitempty"`
	IsCorrect          bool     `json:"is_correct"`
	RetryCount         int      `json:"retry_count"`
	HintUsed           bool     `json:"hint_used"`
	PauseCount         int      `json:"pause_count"`
	SwitchCount        int      `json:"switch_count"`
	InteractionDensity *float64 `json:"interaction_density,omitempty"`
	FocusLossMs        *int64   `json:"focus_loss_ms,omitempty"`
	PausedTimeMs       *int64   `json:"paused_time_ms,omitempty"`
	WordID             string   `json:"word_id,omitempty"`

	Hour *int `json:"hour,omitempty"`

	CurrentParams  *strategyDTO         `json:"current_params,omitempty"`
	WordState      *wordMemoryStateDTO  `json:"word_state,omitempty"`
	RecentAccuracy *float64             `json:"recent_accuracy,omitempty"`
	RootFeatures   *float64             `json:"root_features,omitempty"`
	SkipUpdate     bool                 `json:"skip_update,omitempty"`
	Session        *sessionInfoDTO      `json:"session,omitempty"`
}

type strategyDTO struct {
	Difficulty    string  `json:"difficulty"`
	NewRatio      float64 `json:"new_ratio"`
	BatchSize     int     `json:"batch_size"`
	IntervalScale float64 `json:"interval_scale"`
	HintLevel     int     `json:"hint_level"`
}

func difficultyFromString(s string) domain.DifficultyLevel {
	switch s {
	case "easy":
		return domain.DifficultyEasy
	case "hard":
		return domain.DifficultyHard
	default:
		return domain.DifficultyMid
	}
}

func (d strategyDTO) toDomain() domain.StrategyParams {
	return domain.StrategyParams{
		Difficulty:    difficultyFromString(d.Difficulty),
		NewRatio:      d.NewRatio,
		BatchSize:     d.BatchSize,
		IntervalScale: d.IntervalScale,
		HintLevel:     d.HintLevel,
	}
}

func strategyFromDomain(sp domain.StrategyParams) strategyDTO {
	return strategyDTO{
		Difficulty:    sp.Difficulty.String(),
		NewRatio:      sp.NewRatio,
		BatchSize:     sp.BatchSize,
		IntervalScale: sp.IntervalScale,
		HintLevel:     sp.HintLevel,
	}
}

type wordMemoryStateDTO struct {
	Stability        float64 `json:"stability"`
	Difficulty       float64 `json:"difficulty"`
	ElapsedDays      float64 `json:"elapsed_days"`
	ScheduledDays    float64 `json:"scheduled_days"`
	Reps             int     `json:"reps"`
	Lapses           int     `json:"lapses"`
	DesiredRetention float64 `json:"desired_retention"`
}

func (w wordMemoryStateDTO) toDomain() domain.WordMemoryState {
	return domain.WordMemoryState{
		Stability:        w.Stability,
		Difficulty:       w.Difficulty,
		ElapsedDays:      w.ElapsedDays,
		ScheduledDays:    w.ScheduledDays,
		Reps:             w.Reps,
		Lapses:           w.Lapses,
		DesiredRetention: w.DesiredRetention,
	}
}

type sessionInfoDTO struct {
	TotalSessions   int     `json:"total_sessions"`
	DurationMinutes float64 `json:"duration_minutes"`
}

func (s sessionInfoDTO) toDomain() domain.SessionInfo {
	return domain.SessionInfo{TotalSessions: s.TotalSessions, DurationMinutes: s.DurationMinutes}
}

type userStateDTO struct {
	Attention  float64 `json:"attention"`
	Fatigue    float64 `json:"fatigue"`
	Motivation float64 `json:"motivation"`
	Memory     float64 `json:"memory"`
	Speed      float64 `json:"speed"`
	Stability  float64 `json:"stability"`
	Confidence float64 `json:"confidence"`
}

func userStateFromDomain(s domain.UserState) userStateDTO {
	return userStateDTO{
		Attention:  s.Attention,
		Fatigue:    s.Fatigue,
		Motivation: s.Motivation,
		Memory:     s.Cognitive.Mem,
		Speed:      s.Cognitive.Speed,
		Stability:  s.Cognitive.Stability,
		Confidence: s.Conf,
	}
}

type wordMasteryDTO struct {
	Rating          string  `json:"rating"`
	NewIntervalDays float64 `json:"new_interval_days"`
	TotalScore      float64 `json:"total_score"`
	Confidence      float64 `json:"confidence"`
	IsMastered      bool    `json:"is_mastered"`
	PrevMastery     float64 `json:"prev_mastery"`
	NewMastery      float64 `json:"new_mastery"`
}

func wordMasteryFromDomain(m *domain.WordMasteryDecision) *wordMasteryDTO {
	if m == nil {
		return nil
	}
	return &wordMasteryDTO{
		Rating:          m.Rating.String(),
		NewIntervalDays: m.NewIntervalDays,
		TotalScore:      m.TotalScore,
		Confidence:      m.Confidence,
		IsMastered:      m.IsMastered,
		PrevMastery:     m.PrevMastery,
		NewMastery:      m.NewMastery,
	}
}

type processResultDTO struct {
	UserState      userStateDTO    `json:"user_state"`
	Strategy       strategyDTO     `json:"strategy"`
	RewardValue    float64         `json:"reward_value"`
	RewardReason   string          `json:"reward_reason"`
	ExplanationText string         `json:"explanation"`
	WordMastery    *wordMasteryDTO `json:"word_mastery,omitempty"`
	ColdStartPhase string          `json:"cold_start_phase"`
	ShortTerm      float64         `json:"objective_short_term"`
	LongTerm       float64         `json:"objective_long_term"`
	Efficiency     float64         `json:"objective_efficiency"`
	Aggregated     float64         `json:"objective_aggregated"`
	Violations     []string        `json:"objective_violations,omitempty"`
}

func processResultFromDomain(r domain.ProcessResult) processResultDTO {
	return processResultDTO{
		UserState:       userStateFromDomain(r.UserState),
		Strategy:        strategyFromDomain(r.Strategy),
		RewardValue:     r.Reward.Value,
		RewardReason:    r.Reward.Reason,
		ExplanationText: r.Explanation.Text,
		WordMastery:     wordMasteryFromDomain(r.WordMastery),
		ColdStartPhase:  r.ColdStartPhase.String(),
		ShortTerm:       r.Objective.ShortTerm,
		LongTerm:        r.Objective.LongTerm,
		Efficiency:      r.Objective.Efficiency,
		Aggregated:      r.Objective.Aggregated,
		Violations:      r.Objective.Violations,
	}
}

func (s *Server) handleProcessEvent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev := domain.RawEvent{
		ResponseTimeMs:     req.ResponseTimeMs,
		DwellTimeMs:        req.DwellTimeMs,
		IsCorrect:          req.IsCorrect,
		RetryCount:         req.RetryCount,
		HintUsed:           req.HintUsed,
		PauseCount:         req.PauseCount,
		SwitchCount:        req.SwitchCount,
		InteractionDensity: req.InteractionDensity,
		FocusLossMs:        req.FocusLossMs,
		PausedTimeMs:       req.PausedTimeMs,
		WordID:             req.WordID,
	}

	opts := domain.ProcessOptions{
		RecentAccuracy: req.RecentAccuracy,
		RootFeatures:   req.RootFeatures,
		SkipUpdate:     req.SkipUpdate,
	}
	if req.CurrentParams != nil {
		sp := req.CurrentParams.toDomain()
		opts.CurrentParams = &sp
	}
	if req.WordState != nil {
		ws := req.WordState.toDomain()
		opts.WordState = &ws
	}
	if req.Session != nil {
		si := req.Session.toDomain()
		opts.Session = &si
	}

	hour := time.Now().Hour()
	if req.Hour != nil {
		hour = *req.Hour
	}

	result, err := s.engine.ProcessEvent(r.Context(), userID, ev, opts, hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	writeJSON(w, http.StatusOK, processResultFromDomain(result))
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	st, err := s.engine.GetUserState(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user state")
		return
	}
	writeJSON(w, http.StatusOK, userStateFromDomain(st))
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	sp, err := s.engine.GetCurrentStrategy(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load strategy")
		return
	}
	writeJSON(w, http.StatusOK, strategyFromDomain(sp))
}

func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	s.engine.InvalidateCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.GetCacheStats())
}

func (s *Server) handleReloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload config: "+err.Error())
		return
	}
	s.engine.ReloadConfig(cfg)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
