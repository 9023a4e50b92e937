package attendance

import "time"

// Record is one per-event, per-day admission fact. Independent of the
// pass-level checkedIn flag: one pass may attend many events per day, but
// each (passId, eventId, attendanceDate) at most once.
type Record struct {
	ID             string    `bson:"_id" json:"id"`
	PassID         string    `bson:"passId" json:"passId"`
	MemberID       string    `bson:"memberId,omitempty" json:"memberId,omitempty"`
	EventID        string    `bson:"eventId" json:"eventId"`
	EventName      string    `bson:"eventName,omitempty" json:"eventName,omitempty"`
	PassCategory   string    `bson:"passCategory,omitempty" json:"passCategory,omitempty"`
	AttendanceDate string    `bson:"attendanceDate" json:"attendanceDate"` // YYYY-MM-DD
	ScannedAt      time.Time `bson:"scannedAt" json:"scannedAt"`
	IsOfflineSync  bool      `bson:"isOfflineSync" json:"isOfflineSync"`
}
