package domain

import "time"

// RecoveryCode is a single-use 6-digit code issued by a forgot-password request.
// Only the newest code per username can ever match.
type RecoveryCode struct {
	ID        int64     `json:"id"`
	Code      string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Used      bool      `json:"used"`
}

// Matches reports whether code redeems this row
func (rc *RecoveryCode) Matches(code string) bool {
	return !rc.Used && rc.Code == code
}
