// Package config loads and defaults the engine's tunable configuration
// surface from TOML.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ─── Attention ──────────────────────────────────────────────────────────

// AttentionConfig weights the attention monitor's linear score.
type AttentionConfig struct {
	Smoothing            float64 `toml:"smoothing"`
	WeightRTMean         float64 `toml:"weight_rt_mean"`
	WeightRTCV           float64 `toml:"weight_rt_cv"`
	WeightPaceCV         float64 `toml:"weight_pace_cv"`
	WeightPauseCount     float64 `toml:"weight_pause_count"`
	WeightSwitchCount    float64 `toml:"weight_switch_count"`
	WeightDrift          float64 `toml:"weight_drift"`
	WeightDensity        float64 `toml:"weight_density"`
	WeightFocusLoss      float64 `toml:"weight_focus_loss"`
}

func defaultAttentionConfig() AttentionConfig {
	return AttentionConfig{
		Smoothing:         0.3,
		WeightRTMean:      -0.15,
		WeightRTCV:        -0.2,
		WeightPaceCV:      -0.15,
		WeightPauseCount:  -0.1,
		WeightSwitchCount: -0.1,
		WeightDrift:       -0.1,
		WeightDensity:     0.3,
		WeightFocusLoss:   -0.2,
	}
}

// ─── Fatigue ────────────────────────────────────────────────────────────

// FatigueConfig weights the fatigue estimator's additive model.
type FatigueConfig struct {
	WeightErrorTrend   float64 `toml:"weight_error_trend"`
	WeightRTIncrease   float64 `toml:"weight_rt_increase"`
	WeightRepeatErrors float64 `toml:"weight_repeat_errors"`
	WeightBreakRecover float64 `toml:"weight_break_recover"`
	DecayOnLoadRate    float64 `toml:"decay_on_load_rate"` // the 0.05 in e^(-rate*minutes)
}

func defaultFatigueConfig() FatigueConfig {
	return FatigueConfig{
		WeightErrorTrend:   0.35,
		WeightRTIncrease:   0.25,
		WeightRepeatErrors: 0.25,
		WeightBreakRecover: -0.4,
		DecayOnLoadRate:    0.05,
	}
}

// ─── Cognitive / Motivation / Trend ─────────────────────────────────────

// CognitiveConfig tunes the three-axis EMA profiler.
type CognitiveConfig struct {
	MemAlpha       float64 `toml:"mem_alpha"`
	SpeedAlpha     float64 `toml:"speed_alpha"`
	StabilityAlpha float64 `toml:"stability_alpha"`
	ACTRBlendSelf  float64 `toml:"actr_blend_self"`  // 0.6
	ACTRBlendACTR  float64 `toml:"actr_blend_actr"`  // 0.4
}

func defaultCognitiveConfig() CognitiveConfig {
	return CognitiveConfig{
		MemAlpha:       0.2,
		SpeedAlpha:     0.2,
		StabilityAlpha: 0.15,
		ACTRBlendSelf:  0.6,
		ACTRBlendACTR:  0.4,
	}
}

// MotivationConfig tunes the streak-aware motivation tracker.
type MotivationConfig struct {
	CorrectDelta float64 `toml:"correct_delta"`
	WrongDelta   float64 `toml:"wrong_delta"`
	QuitDelta    float64 `toml:"quit_delta"`
	StreakBonus  float64 `toml:"streak_bonus"` // per streak step, capped
	StreakCap    int     `toml:"streak_cap"`
}

func defaultMotivationConfig() MotivationConfig {
	return MotivationConfig{
		CorrectDelta: 0.08,
		WrongDelta:   -0.12,
		QuitDelta:    -0.3,
		StreakBonus:  0.02,
		StreakCap:    10,
	}
}

// TrendConfig tunes the sliding-window regression trend analyzer.
type TrendConfig struct {
	WindowSize    int     `toml:"window_size"`
	StableBand    float64 `toml:"stable_band"` // |slope| below this => stable
}

func defaultTrendConfig() TrendConfig {
	return TrendConfig{
		WindowSize: 10,
		StableBand: 0.01,
	}
}

// ConfidenceConfig tunes the shared estimator-confidence update.
type ConfidenceConfig struct {
	Decay        float64 `toml:"decay"`
	MinConfidence float64 `toml:"min_confidence"`
}

func defaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{Decay: 0.9, MinConfidence: 0.3}
}

// StateConfig groups every state-modelling-sublayer parameter.
type StateConfig struct {
	Attention  AttentionConfig  `toml:"attention"`
	Fatigue    FatigueConfig    `toml:"fatigue"`
	Cognitive  CognitiveConfig  `toml:"cognitive"`
	Motivation MotivationConfig `toml:"motivation"`
	Trend      TrendConfig      `toml:"trend"`
	Confidence ConfidenceConfig `toml:"confidence"`
}

func defaultStateConfig() StateConfig {
	return StateConfig{
		Attention:  defaultAttentionConfig(),
		Fatigue:    defaultFatigueConfig(),
		Cognitive:  defaultCognitiveConfig(),
		Motivation: defaultMotivationConfig(),
		Trend:      defaultTrendConfig(),
		Confidence: defaultConfidenceConfig(),
	}
}

// ─── Bandit ─────────────────────────────────────────────────────────────

// BanditConfig tunes both contextual bandit learners.
type BanditConfig struct {
	ContextDim int     `toml:"context_dim"`
	Alpha      float64 `toml:"alpha"`       // LinUCB exploration constant
	Ridge      float64 `toml:"ridge"`       // lambda, initial A = ridge*I
	LinUCBEnabled   bool `toml:"linucb_enabled"`
	ThompsonEnabled bool `toml:"thompson_enabled"`
}

func defaultBanditConfig() BanditConfig {
	return BanditConfig{
		ContextDim:      10,
		Alpha:           1.0,
		Ridge:           1.0,
		LinUCBEnabled:   true,
		ThompsonEnabled: true,
	}
}

// ─── Cold Start ─────────────────────────────────────────────────────────

// ColdStartConfig gates the classify/explore/normal phase machine.
// WarmupSamples mirrors PerformanceConfig.WarmupSamples by default so
// both trackers leave cold-start at the same sample count.
type ColdStartConfig struct {
	WarmupSamples    int `toml:"warmup_samples"`
	ClassifySamples  int `toml:"classify_samples"`
	ExploreSamples   int `toml:"explore_samples"`
}

func defaultColdStartConfig() ColdStartConfig {
	return ColdStartConfig{
		WarmupSamples:   20,
		ClassifySamples: 3,
		ExploreSamples:  20,
	}
}

// ─── Ensemble ───────────────────────────────────────────────────────────

// StrategySimilarityWeights weight the four dimensions of strategy
// similarity used to attribute reward back to candidates.
type StrategySimilarityWeights struct {
	Difficulty    float64 `toml:"difficulty"`
	NewRatio      float64 `toml:"new_ratio"`
	BatchSize     float64 `toml:"batch_size"`
	IntervalScale float64 `toml:"interval_scale"`
}

func defaultSimilarityWeights() StrategySimilarityWeights {
	return StrategySimilarityWeights{
		Difficulty:    0.3,
		NewRatio:      0.3,
		BatchSize:     0.2,
		IntervalScale: 0.2,
	}
}

// PerformanceConfig tunes the per-algorithm EMA/trust tracker.
type PerformanceConfig struct {
	WarmupSamples  uint64  `toml:"warmup_samples"`
	EMAAlpha       float64 `toml:"ema_alpha"`
	TrustScoreMin  float64 `toml:"trust_score_min"`
	TrustScoreMax  float64 `toml:"trust_score_max"`
	MinWeight      float64 `toml:"min_weight"`
	BlendScale     float64 `toml:"blend_scale"`
	BlendMax       float64 `toml:"blend_max"`
}

func defaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{
		WarmupSamples: 20,
		EMAAlpha:      0.1,
		TrustScoreMin: 0.1,
		TrustScoreMax: 0.9,
		MinWeight:     0.05,
		BlendScale:    100.0,
		BlendMax:      0.8,
	}
}

// EnsembleConfig tunes candidate merging.
type EnsembleConfig struct {
	HeuristicBaseWeight float64                   `toml:"heuristic_base_weight"`
	SimilarityWeights   StrategySimilarityWeights `toml:"similarity_weights"`
	HeuristicEnabled    bool                      `toml:"heuristic_enabled"`
	IGEEnabled          bool                      `toml:"ige_enabled"`
	SWDEnabled          bool                      `toml:"swd_enabled"`
	ACTRMemoryEnabled   bool                      `toml:"actr_memory_enabled"`
	EnsembleEnabled     bool                      `toml:"ensemble_enabled"`
}

func defaultEnsembleConfig() EnsembleConfig {
	return EnsembleConfig{
		HeuristicBaseWeight: 0.2,
		SimilarityWeights:   defaultSimilarityWeights(),
		HeuristicEnabled:    true,
		IGEEnabled:          true,
		SWDEnabled:          true,
		ACTRMemoryEnabled:   false,
		EnsembleEnabled:     true,
	}
}

// ─── Safety Filter ──────────────────────────────────────────────────────

// SafetyConfig tunes the post-merge safety filter.
type SafetyConfig struct {
	MidFatigueThreshold      float64 `toml:"mid_fatigue_threshold"`
	HighFatigueThreshold     float64 `toml:"high_fatigue_threshold"`
	MidFatigueMaxBatch       int     `toml:"mid_fatigue_max_batch"`
	HighFatigueMaxBatch      int     `toml:"high_fatigue_max_batch"`
	HighFatigueMaxNewRatio   float64 `toml:"high_fatigue_max_new_ratio"`
	LowAttentionThreshold    float64 `toml:"low_attention_threshold"`
	NewUserSessionThreshold  int     `toml:"new_user_session_threshold"`
	LongSessionMinutes       float64 `toml:"long_session_minutes"`
	LongSessionMaxNewRatio   float64 `toml:"long_session_max_new_ratio"`
}

func defaultSafetyConfig() SafetyConfig {
	return SafetyConfig{
		MidFatigueThreshold:     0.6,
		HighFatigueThreshold:    0.8,
		MidFatigueMaxBatch:      12,
		HighFatigueMaxBatch:     8,
		HighFatigueMaxNewRatio:  0.2,
		LowAttentionThreshold:   0.3,
		NewUserSessionThreshold: 3,
		LongSessionMinutes:      45.0,
		LongSessionMaxNewRatio:  0.15,
	}
}

// ─── Reward ─────────────────────────────────────────────────────────────

// RewardConfig weights the per-event reward composition.
type RewardConfig struct {
	AccuracyWeight   float64 `toml:"accuracy_weight"`
	SpeedWeight      float64 `toml:"speed_weight"`
	StabilityWeight  float64 `toml:"stability_weight"`
	RetentionWeight  float64 `toml:"retention_weight"`
	MaxResponseTimeMs float64 `toml:"max_response_time_ms"`
	FastThresholdMs   float64 `toml:"fast_threshold_ms"` // fast-correct reason cutoff
}

func defaultRewardConfig() RewardConfig {
	return RewardConfig{
		AccuracyWeight:    0.4,
		SpeedWeight:       0.3,
		StabilityWeight:   0.15,
		RetentionWeight:   0.15,
		MaxResponseTimeMs: 8000,
		FastThresholdMs:   2500,
	}
}

// ─── Cache ──────────────────────────────────────────────────────────────

// CacheConfig tunes the engine's in-memory per-user cache.
type CacheConfig struct {
	DefaultMaxAgeMs int64 `toml:"default_max_age_ms"`
}

func defaultCacheConfig() CacheConfig {
	return CacheConfig{DefaultMaxAgeMs: 24 * 60 * 60 * 1000}
}

// ─── Root Config ────────────────────────────────────────────────────────

// Config is the full engine configuration surface. ReloadConfig swaps an
// atomically-held pointer to one of these; readers take a snapshot at
// the start of each event.
type Config struct {
	State       StateConfig       `toml:"state"`
	Bandit      BanditConfig      `toml:"bandit"`
	ColdStart   ColdStartConfig   `toml:"coldstart"`
	Ensemble    EnsembleConfig    `toml:"ensemble"`
	Performance PerformanceConfig `toml:"performance"`
	Safety      SafetyConfig      `toml:"safety"`
	Reward      RewardConfig      `toml:"reward"`
	Cache       CacheConfig       `toml:"cache"`
}

// DefaultConfig returns the engine's built-in defaults, grounded where
// the source repository pins concrete numbers and otherwise chosen to
// match the documented ranges.
func DefaultConfig() Config {
	return Config{
		State:       defaultStateConfig(),
		Bandit:      defaultBanditConfig(),
		ColdStart:   defaultColdStartConfig(),
		Ensemble:    defaultEnsembleConfig(),
		Performance: defaultPerformanceConfig(),
		Safety:      defaultSafetyConfig(),
		Reward:      defaultRewardConfig(),
		Cache:       defaultCacheConfig(),
	}
}

// Load reads a TOML file into a Config, defaulting every field the file
// omits by decoding on top of DefaultConfig rather than a zero value.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
