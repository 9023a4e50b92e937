package scan

import "time"

// Scan log statuses.
const (
	StatusValid     = "valid"
	StatusDuplicate = "duplicate"
	StatusInvalid   = "invalid"
)

// Member is one entry of a group pass roster. Check-in state is tracked per
// member; the pass-level checkedIn flag stays untouched for group passes.
type Member struct {
	MemberID    string     `bson:"memberId" json:"memberId"`
	Name        string     `bson:"name,omitempty" json:"name,omitempty"`
	CheckedIn   bool       `bson:"checkedIn" json:"checkedIn"`
	CheckedInAt *time.Time `bson:"checkedInAt,omitempty" json:"checkedInAt,omitempty"`
}

type TeamSnapshot struct {
	Members []Member `bson:"members,omitempty" json:"members,omitempty"`
}

// Pass is a document of the passes collection. Legacy documents carry the
// holder name under either userName or name and the price under either
// amount or price, so both spellings are mapped.
type Pass struct {
	DocID        string        `bson:"_id,omitempty"`
	PassID       string        `bson:"passId,omitempty"`
	Name         string        `bson:"name,omitempty"`
	UserName     string        `bson:"userName,omitempty"`
	PassType     string        `bson:"passType,omitempty"`
	Amount       float64       `bson:"amount,omitempty"`
	Price        float64       `bson:"price,omitempty"`
	TeamSnapshot *TeamSnapshot `bson:"teamSnapshot,omitempty"`
	CheckedIn    bool          `bson:"checkedIn"`
	CheckedInAt  *time.Time    `bson:"checkedInAt,omitempty"`
}

func (p *Pass) DisplayName() string {
	if p.UserName != "" {
		return p.UserName
	}
	if p.Name != "" {
		return p.Name
	}
	return "Access Pass"
}

func (p *Pass) AmountPaid() float64 {
	if p.Amount != 0 {
		return p.Amount
	}
	return p.Price
}

func (p *Pass) Members() []Member {
	if p.TeamSnapshot == nil {
		return nil
	}
	return p.TeamSnapshot.Members
}

// IsGroup: group passes are never duplicate at the pass level.
func (p *Pass) IsGroup() bool {
	return p.TeamSnapshot != nil && len(p.TeamSnapshot.Members) > 0
}

// ScanRecord is an append-only scans log entry. Never updated after creation;
// the earliest valid entry is the authoritative first-scan timestamp.
type ScanRecord struct {
	ID            string    `bson:"_id" json:"id"`
	PassID        string    `bson:"passId" json:"passId"`
	MemberID      string    `bson:"memberId,omitempty" json:"memberId,omitempty"`
	ScannerID     string    `bson:"scannerId" json:"scannerId"`
	Status        string    `bson:"status" json:"status"`
	ScannedAt     time.Time `bson:"scannedAt" json:"scannedAt"`
	IsOfflineSync bool      `bson:"isOfflineSync" json:"isOfflineSync"`
}
