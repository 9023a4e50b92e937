package scan

import "time"

type ScanRequest struct {
	PassID    string `json:"passId"`
	PassType  string `json:"passType,omitempty"`
	ScannerID string `json:"scannerId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// Student carries everything a subsequent confirmation call needs.
// Field names mirror what scanner clients already consume.
type Student struct {
	ID               string     `json:"_id,omitempty"`
	Name             string     `json:"name"`
	PassType         string     `json:"passType"`
	AmountPaid       float64    `json:"amountPaid"`
	Members          []Member   `json:"members,omitempty"`
	CheckedIn        bool       `json:"checkedIn"`
	CheckedInAt      *time.Time `json:"checkedInAt,omitempty"`
	FirstCheckInTime string     `json:"firstCheckInTime,omitempty"`
}

// ScanResult is the business outcome of one verification attempt.
type ScanResult struct {
	Status  string   `json:"status"`
	Student *Student `json:"student,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func Valid(s *Student) ScanResult     { return ScanResult{Status: StatusValid, Student: s} }
func Duplicate(s *Student) ScanResult { return ScanResult{Status: StatusDuplicate, Student: s} }
func Invalid(reason string) ScanResult {
	return ScanResult{Status: StatusInvalid, Error: reason}
}

type ConfirmRequest struct {
	PassID         string `json:"passId" binding:"required"`
	MemberID       string `json:"memberId,omitempty"`
	ScannerID      string `json:"scannerId,omitempty"`
	EventID        string `json:"eventId,omitempty"`
	EventName      string `json:"eventName,omitempty"`
	PassCategory   string `json:"passCategory,omitempty"`
	AttendanceDate string `json:"attendanceDate,omitempty"`
}

type ConfirmResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type SyncRequest struct {
	PassID         string `json:"passId" binding:"required"`
	MemberID       string `json:"memberId,omitempty"`
	ScannerID      string `json:"scannerId,omitempty"`
	ScannedAt      *int64 `json:"scannedAt,omitempty"` // epoch millis on the offline device
	EventID        string `json:"eventId,omitempty"`
	EventName      string `json:"eventName,omitempty"`
	PassCategory   string `json:"passCategory,omitempty"`
	AttendanceDate string `json:"attendanceDate,omitempty"`
}

type SyncResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}
