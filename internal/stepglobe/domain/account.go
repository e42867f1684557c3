package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// NicknameMaxLen is counted in runes.
const NicknameMaxLen = 64

// MaxTotalSteps bounds a step total. It is far beyond any real challenge
// and keeps totals and increments clear of int64 overflow.
const MaxTotalSteps int64 = 1_000_000_000

// AnonymousNickname labels accounts that never set a nickname.
const AnonymousNickname = "Anon"

// Account is a participant's persisted profile.
type Account struct {
	ID             string
	Email          string // unique; Telegram accounts use TelegramEmail
	Nickname       string
	AvatarURL      string
	TotalSteps     int64
	IsApproved     bool
	Role           Role
	CredentialHash string // argon2id, empty for accounts without a bridge credential
	TelegramID     *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// Label is what the globe shows next to the marker.
func (a Account) Label() string {
	if n := strings.TrimSpace(a.Nickname); n != "" {
		return n
	}
	return AnonymousNickname
}

// TelegramEmail is the derived key a Telegram identity is stored under.
func TelegramEmail(telegramID int64) string {
	return fmt.Sprintf("tg_%d@telegram.placeholder.com", telegramID)
}

// NormalizeNickname trims s and checks its length.
func NormalizeNickname(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("nickname must not be empty")
	}
	if utf8.RuneCountInString(s) > NicknameMaxLen {
		return "", fmt.Errorf("nickname must be at most %d characters", NicknameMaxLen)
	}
	return s, nil
}

// Profile is the public part of an account, as listed in the roster.
type Profile struct {
	ID         string    `json:"id"`
	Nickname   string    `json:"nickname"`
	AvatarURL  string    `json:"avatar_url"`
	TotalSteps int64     `json:"total_steps"`
	IsApproved bool      `json:"is_approved"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a Account) Profile() Profile {
	return Profile{
		ID:         a.ID,
		Nickname:   a.Nickname,
		AvatarURL:  a.AvatarURL,
		TotalSteps: a.TotalSteps,
		IsApproved: a.IsApproved,
		UpdatedAt:  a.UpdatedAt,
	}
}
