// Package models defines the records that FocusHub persists to its local
// datastore and exchanges with the sync backend.
package models

import "time"

// Status is the lifecycle state of the countdown timer.
type Status string

const (
	Idle      Status = "idle"
	Running   Status = "running"
	Paused    Status = "paused"
	Completed Status = "completed"
)

// SessionType distinguishes work sessions from breaks.
type SessionType string

const (
	Work  SessionType = "work"
	Break SessionType = "break"
)

// TimerSnapshot is the persisted state of the timer store. Timestamps
// serialize as RFC 3339 strings and are parsed back on rehydration.
type TimerSnapshot struct {
	Status            Status      `json:"status"`
	SessionType       SessionType `json:"session_type"`
	CurrentTime       int         `json:"current_time"`
	TotalTime         int         `json:"total_time"`
	StartTime         *time.Time  `json:"start_time"`
	EndTime           *time.Time  `json:"end_time"`
	PausedAt          *time.Time  `json:"paused_at"`
	SessionsCompleted int         `json:"sessions_completed"`
	CurrentProject    string      `json:"current_project,omitempty"`
	CurrentTask       string      `json:"current_task,omitempty"`
}

// User is the authenticated account identity.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Token is a bearer token issued by the backend.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// AuthState is the persisted subset of the user store. Stats and
// preferences are deliberately excluded and refetched from the backend.
type AuthState struct {
	User            *User  `json:"user"`
	Token           *Token `json:"token"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// UserStats is session-scoped and never persisted locally.
type UserStats struct {
	TotalXP           int `json:"total_xp"`
	Level             int `json:"level"`
	CurrentStreak     int `json:"current_streak"`
	SessionsCompleted int `json:"sessions_completed"`
	TotalFocusSeconds int `json:"total_focus_seconds"`
}

// Preferences is session-scoped and never persisted locally.
type Preferences struct {
	Theme                string `json:"theme"`
	SoundEnabled         bool   `json:"sound_enabled"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	LeaderboardOptIn     bool   `json:"leaderboard_opt_in"`
}

// SessionRecord is a finished session appended to local history and queued
// for backend sync.
type SessionRecord struct {
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	SessionType SessionType `json:"session_type"`
	Duration    int         `json:"duration"`
	ProjectID   string      `json:"project_id,omitempty"`
	TaskID      string      `json:"task_id,omitempty"`
	Completed   bool        `json:"completed"`
}

// PendingSync is one queued offline timer write awaiting upload.
type PendingSync struct {
	ID         string        `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Session    SessionRecord `json:"session"`
}
