package ensemble

import (
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// ApplyRewardProfile applies the caller-selected study-mode adjustment
// ahead of the fatigue/attention/session safety rules. Any profile
// other than cram/relaxed is a no-op.
func ApplyRewardProfile(sp domain.StrategyParams, profile domain.RewardProfile) domain.StrategyParams {
	switch profile {
	case domain.RewardProfileCram:
		sp.IntervalScale *= 0.7
		sp.NewRatio = minf(sp.NewRatio*1.3, 0.5)
		sp.BatchSize = minInt(int(float64(sp.BatchSize)*1.3), 20)
		sp.Difficulty = sp.Difficulty.Harder()
		sp.HintLevel = maxInt(sp.HintLevel-1, 0)
	case domain.RewardProfileRelaxed:
		sp.IntervalScale *= 1.4
		sp.NewRatio = maxf(sp.NewRatio*0.6, 0.05)
		sp.BatchSize = maxInt(int(float64(sp.BatchSize)*0.75), 4)
		sp.Difficulty = sp.Difficulty.Easier()
		sp.HintLevel = minInt(sp.HintLevel+1, 2)
	}
	return sp
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// PostFilter applies the reward profile, then the fatigue/attention/
// session safety rules, in a fixed order: profile adjustment first,
// then fatigue-driven difficulty/hint caps, then attention, then
// session-based caps, then grid snapping.
func PostFilter(sp domain.StrategyParams, state domain.UserState, session *domain.SessionInfo, cfg config.SafetyConfig) domain.StrategyParams {
	if state.RewardProfile != nil {
		sp = ApplyRewardProfile(sp, *state.RewardProfile)
	}

	fatigue := state.Fatigue
	if state.FusedFatigue != nil {
		fatigue = *state.FusedFatigue
	}

	minBatch, maxBatch := 5, 20
	maxRatio := 0.5
	switch {
	case fatigue > cfg.HighFatigueThreshold:
		maxBatch = cfg.HighFatigueMaxBatch
		maxRatio = cfg.HighFatigueMaxNewRatio
	case fatigue > cfg.MidFatigueThreshold:
		maxBatch = cfg.MidFatigueMaxBatch
	}

	if fatigue > cfg.HighFatigueThreshold {
		sp.Difficulty = domain.DifficultyEasy
		sp.HintLevel = maxInt(sp.HintLevel, 2)
	} else if fatigue > cfg.MidFatigueThreshold && sp.Difficulty == domain.DifficultyHard {
		sp.Difficulty = domain.DifficultyMid
	}

	if state.Attention < cfg.LowAttentionThreshold {
		sp.HintLevel = maxInt(sp.HintLevel, 1)
	}

	if session != nil {
		if session.TotalSessions < cfg.NewUserSessionThreshold {
			sp.Difficulty = domain.DifficultyEasy
			sp.HintLevel = maxInt(sp.HintLevel, 1)
		}
		if session.DurationMinutes > cfg.LongSessionMinutes {
			sp.NewRatio = minf(sp.NewRatio, cfg.LongSessionMaxNewRatio)
		}
	}

	sp.BatchSize = snapBatchSizeInRange(sp.BatchSize, minBatch, maxBatch)
	sp.NewRatio = snapNewRatio(clampf(sp.NewRatio, 0.05, maxRatio))
	return sp
}
