package scan

import (
	"context"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"passgate-backend/internal/attendance"
)

// Confirm commits a valid scan decision: flips the pass (or the matching
// group member), appends a scans-log entry and primes the duplicate cache.
//
// Best-effort by design: a missing pass or member is tolerated silently, and
// a log-append failure after a successful state mutation is logged, not
// rolled back.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) error {
	if req.PassID == "" {
		return NewInvalidArgumentError("Missing Pass ID")
	}
	now := s.now().UTC()

	if req.MemberID != "" {
		if err := s.confirmMember(ctx, req.PassID, req.MemberID, now); err != nil {
			return err
		}
	} else {
		err := s.repo.SetCheckedIn(ctx, req.PassID, now)
		if IsCode(err, ErrCodeNotFound) {
			// Document id and printed pass id can differ; retry addressed by
			// the secondary field.
			err = s.repo.SetCheckedInByField(ctx, req.PassID, now)
			if IsCode(err, ErrCodeNotFound) {
				err = nil
			}
		}
		if err != nil {
			return err
		}
		s.cache.Add(req.PassID)
	}

	// One scans-log entry per confirmation, whichever branch ran.
	rec := ScanRecord{
		ID:        ulid.Make().String(),
		PassID:    req.PassID,
		MemberID:  req.MemberID,
		ScannerID: orScanner(req.ScannerID),
		Status:    StatusValid,
		ScannedAt: now,
	}
	if err := s.repo.AppendScan(ctx, rec); err != nil {
		log.Printf("[WARN] scan log append failed for pass %s: %v", req.PassID, err)
	}

	if req.EventID != "" {
		_, err := s.att.Record(ctx, attendance.RecordRequest{
			PassID:       req.PassID,
			MemberID:     req.MemberID,
			EventID:      req.EventID,
			EventName:    req.EventName,
			PassCategory: req.PassCategory,
			Date:         req.AttendanceDate,
			ScannedAt:    now,
		})
		if err != nil {
			log.Printf("[WARN] attendance record failed for pass %s event %s: %v", req.PassID, req.EventID, err)
		}
	}
	return nil
}

func (s *Service) confirmMember(ctx context.Context, passID, memberID string, now time.Time) error {
	pass, err := s.repo.FindPass(ctx, passID)
	if err != nil {
		if IsCode(err, ErrCodeNotFound) {
			return nil
		}
		return err
	}
	if !pass.IsGroup() {
		return nil
	}

	members := pass.Members()
	updated := make([]Member, len(members))
	for i, m := range members {
		if m.MemberID == memberID {
			m.CheckedIn = true
			at := now
			m.CheckedInAt = &at
		}
		updated[i] = m
	}
	return s.repo.ReplaceMembers(ctx, pass.DocID, updated)
}

func orScanner(id string) string {
	if id == "" {
		return defaultScannerID
	}
	return id
}
