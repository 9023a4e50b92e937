package attendance

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Recorder is what the scan feature depends on; confirm and offline sync
// both record attendance through it.
type Recorder interface {
	Record(ctx context.Context, req RecordRequest) (bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Record writes one attendance fact, deduplicated on
// (passId, eventId, attendanceDate). Returns created=false when an identical
// record already exists.
//
// The Exists→Insert pair is not atomic: two concurrent identical requests can
// both pass the check and write two rows. Accepted trade-off; an occasional
// duplicate attendance row is a data-quality cost, not a correctness one.
func (s *Service) Record(ctx context.Context, req RecordRequest) (bool, error) {
	if req.PassID == "" {
		return false, ErrInvalid("passId is required")
	}
	if req.EventID == "" {
		return false, ErrInvalid("eventId is required")
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		return false, err
	}

	exists, err := s.store.Exists(ctx, req.PassID, req.EventID, date)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	scannedAt := req.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = s.now().UTC()
	}
	rec := Record{
		ID:             ulid.Make().String(),
		PassID:         req.PassID,
		MemberID:       req.MemberID,
		EventID:        req.EventID,
		EventName:      req.EventName,
		PassCategory:   req.PassCategory,
		AttendanceDate: date,
		ScannedAt:      scannedAt,
		IsOfflineSync:  req.IsOfflineSync,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Record, error) {
	if q.Date != "" {
		normalized, err := s.resolveDate(q.Date)
		if err != nil {
			return nil, err
		}
		q.Date = normalized
	}
	return s.store.List(ctx, q)
}

func (s *Service) resolveDate(v string) (string, error) {
	if v == "" || v == "today" {
		return s.now().UTC().Format(DateLayout), nil
	}
	if _, err := time.ParseInLocation(DateLayout, v, time.UTC); err != nil {
		return "", ErrInvalid("attendanceDate must be YYYY-MM-DD or 'today'")
	}
	return v, nil
}
