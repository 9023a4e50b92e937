package scan

import (
	"context"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"passgate-backend/internal/attendance"
)

// Sync replays a scan performed while the scanner was offline. The client
// reports its original timestamp; conflicts against persisted state resolve
// to whichever check-in happened earliest.
//
// Rule: the persisted checkedInAt wins iff the pass was already checked in
// AND the persisted time is strictly earlier than the client-reported one.
// Otherwise the client time (or now, when none was reported) is written.
// Tolerant of out-of-order replays.
func (s *Service) Sync(ctx context.Context, req SyncRequest) (SyncResult, error) {
	if req.PassID == "" {
		return SyncResult{}, NewInvalidArgumentError("Missing Pass ID")
	}

	pass, err := s.repo.FindPass(ctx, req.PassID)
	if err != nil {
		if IsCode(err, ErrCodeNotFound) {
			return SyncResult{Success: false, Status: StatusInvalid, Error: "Ticket not found in database"}, nil
		}
		return SyncResult{}, err
	}

	clientTime := s.now().UTC()
	if req.ScannedAt != nil {
		clientTime = time.UnixMilli(*req.ScannedAt).UTC()
	}

	resolved := clientTime
	wasCheckedIn := pass.CheckedIn
	if wasCheckedIn && pass.CheckedInAt != nil && pass.CheckedInAt.Before(clientTime) {
		resolved = pass.CheckedInAt.UTC()
	}

	err = s.repo.SetCheckedIn(ctx, pass.DocID, resolved)
	if IsCode(err, ErrCodeNotFound) {
		err = s.repo.SetCheckedInByField(ctx, req.PassID, resolved)
	}
	if err != nil {
		return SyncResult{}, err
	}
	s.cache.Add(req.PassID)

	rec := ScanRecord{
		ID:            ulid.Make().String(),
		PassID:        req.PassID,
		MemberID:      req.MemberID,
		ScannerID:     orScanner(req.ScannerID),
		Status:        StatusValid,
		ScannedAt:     clientTime,
		IsOfflineSync: true,
	}
	if err := s.repo.AppendScan(ctx, rec); err != nil {
		log.Printf("[WARN] offline scan log append failed for pass %s: %v", req.PassID, err)
	}

	if req.EventID != "" {
		_, err := s.att.Record(ctx, attendance.RecordRequest{
			PassID:        req.PassID,
			MemberID:      req.MemberID,
			EventID:       req.EventID,
			EventName:     req.EventName,
			PassCategory:  req.PassCategory,
			Date:          req.AttendanceDate,
			ScannedAt:     clientTime,
			IsOfflineSync: true,
		})
		if err != nil {
			log.Printf("[WARN] attendance record failed for pass %s event %s: %v", req.PassID, req.EventID, err)
		}
	}

	status := StatusValid
	if wasCheckedIn {
		status = StatusDuplicate
	}
	return SyncResult{Success: true, Status: status}, nil
}
