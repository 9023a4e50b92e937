package attendance

import "time"

const (
	DateLayout       = "2006-01-02"
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

type RecordRequest struct {
	PassID        string
	MemberID      string
	EventID       string
	EventName     string
	PassCategory  string
	Date          string // "YYYY-MM-DD", "today" or empty for today
	ScannedAt     time.Time
	IsOfflineSync bool
}

type ListQuery struct {
	EventID string
	Date    string
	Limit   int
}

type ListResponse struct {
	Records []Record `json:"records"`
	Count   int      `json:"count"`
}
