// Package achievement tracks XP and level progression, unlockable
// achievements and skills, streaks, daily challenges, and the leaderboard
// snapshot. Everything here is session-scoped.
package achievement

import (
	"errors"
	"sync"
	"time"

	"github.com/focushub/focushub/internal/xp"
)

var (
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrSkillMaxed          = errors.New("skill is already at max level")
	ErrNoFreezesLeft       = errors.New("no streak freezes left")
)

type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	XPReward    int        `json:"xp_reward"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"max_level"`
}

// Streak is a single record of consecutive active days. There is no history
// ledger, only the current and longest counters.
type Streak struct {
	Current     int `json:"current"`
	Longest     int `json:"longest"`
	FreezesLeft int `json:"freezes_left"`
}

type DailyChallenge struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"` // 0..100
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	TotalXP  int    `json:"total_xp"`
	Level    int    `json:"level"`
}

// Store owns the gamification state. XP within the current level, the level
// itself, and the requirement for the next level evolve together through
// AddXP.
type Store struct {
	mu sync.Mutex

	level     int
	currentXP int
	xpForNext int

	achievements map[string]*Achievement
	skills       map[string]*Skill
	streak       Streak
	challenges   map[string]*DailyChallenge
	leaderboard  []LeaderboardEntry

	// OnLevelUp, when set, runs once per level gained.
	OnLevelUp func(newLevel int)
}

func NewStore() *Store {
	return &Store{
		level:        1,
		xpForNext:    xp.BaseRequirement,
		achievements: make(map[string]*Achievement),
		skills:       make(map[string]*Skill),
		challenges:   make(map[string]*DailyChallenge),
	}
}

// AddXP credits experience points. When the credit reaches or crosses the
// next level's requirement, the store levels up, carrying the overflow into
// the new level. A single large grant can clear several levels at once.
func (s *Store) AddXP(amount int) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentXP += amount

	for s.currentXP >= s.xpForNext {
		s.levelUp()
	}
}

// levelUp advances one level, carrying overflow XP into the new level.
// Callers must hold s.mu and ensure the threshold was reached.
func (s *Store) levelUp() {
	s.currentXP -= s.xpForNext
	s.xpForNext = xp.NextRequirement(s.xpForNext)
	s.level++

	if s.OnLevelUp != nil {
		s.OnLevelUp(s.level)
	}
}

// Level returns the current level.
func (s *Store) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.level
}

// XP returns progress within the current level and the requirement to clear
// it.
func (s *Store) XP() (current, required int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentXP, s.xpForNext
}

// TotalXP returns cumulative XP across all levels.
func (s *Store) TotalXP() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return xp.ForLevel(s.level) + s.currentXP
}

// SetAchievements replaces the achievement catalog, preserving nothing.
func (s *Store) SetAchievements(list []Achievement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.achievements = make(map[string]*Achievement, len(list))

	for i := range list {
		a := list[i]
		s.achievements[a.ID] = &a
	}
}

// UnlockAchievement marks an achievement unlocked and credits its XP reward.
// Unlocking twice is a no-op.
func (s *Store) UnlockAchievement(id string) error {
	s.mu.Lock()

	a, ok := s.achievements[id]
	if !ok {
		s.mu.Unlock()
		return ErrAchievementNotFound
	}

	if a.UnlockedAt != nil {
		s.mu.Unlock()
		return nil
	}

	now := time.Now()
	a.UnlockedAt = &now
	reward := a.XPReward

	s.mu.Unlock()

	s.AddXP(reward)

	return nil
}

// Achievements returns a copy of the catalog.
func (s *Store) Achievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Achievement, 0, len(s.achievements))
	for _, a := range s.achievements {
		out = append(out, *a)
	}

	return out
}

// SetSkills replaces the skill tree.
func (s *Store) SetSkills(list []Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.skills = make(map[string]*Skill, len(list))

	for i := range list {
		sk := list[i]
		s.skills[sk.ID] = &sk
	}
}

// UpgradeSkill raises a skill by one level, bounded by its max.
func (s *Store) UpgradeSkill(id string) (Skill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.skills[id]
	if !ok {
		return Skill{}, ErrSkillNotFound
	}

	if sk.Level >= sk.MaxLevel {
		return *sk, ErrSkillMaxed
	}

	sk.Level++

	return *sk, nil
}

// IncrementStreak extends the current streak, raising the longest counter
// when passed.
func (s *Store) IncrementStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streak.Current++

	if s.streak.Current > s.streak.Longest {
		s.streak.Longest = s.streak.Current
	}
}

// BreakStreak resets the current streak to zero. The longest counter is
// untouched.
func (s *Store) BreakStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streak.Current = 0
}

// UseStreakFreeze spends one freeze to keep the current streak alive.
func (s *Store) UseStreakFreeze() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streak.FreezesLeft <= 0 {
		return ErrNoFreezesLeft
	}

	s.streak.FreezesLeft--

	return nil
}

// SetStreakFreezes sets the available freeze count.
func (s *Store) SetStreakFreezes(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.streak.FreezesLeft = n
}

// Streak returns the current streak record.
func (s *Store) Streak() Streak {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.streak
}

// SetChallenges replaces the daily challenge list.
func (s *Store) SetChallenges(list []DailyChallenge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges = make(map[string]*DailyChallenge, len(list))

	for i := range list {
		c := list[i]
		c.Progress = clampProgress(c.Progress)
		s.challenges[c.ID] = &c
	}
}

// UpdateChallengeProgress adds to a challenge's progress, clamped to the
// 0..100 range. Unknown ids are ignored.
func (s *Store) UpdateChallengeProgress(id string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[id]
	if !ok {
		return
	}

	c.Progress = clampProgress(c.Progress + delta)
}

// Challenges returns a copy of the daily challenge list.
func (s *Store) Challenges() []DailyChallenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DailyChallenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		out = append(out, *c)
	}

	return out
}

// SetLeaderboard replaces the leaderboard snapshot.
func (s *Store) SetLeaderboard(entries []LeaderboardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaderboard = append([]LeaderboardEntry(nil), entries...)
}

// Leaderboard returns the most recent snapshot.
func (s *Store) Leaderboard() []LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]LeaderboardEntry(nil), s.leaderboard...)
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}

	if p > 100 {
		return 100
	}

	return p
}
