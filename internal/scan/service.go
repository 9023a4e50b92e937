package scan

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"passgate-backend/internal/attendance"
	"passgate-backend/internal/qrcodec"
)

const (
	defaultPassType    = "General"
	defaultScannerID   = "device-id-placeholder"
	invalidMarker      = "invalid"
	pathSeparatorToken = "//"
)

// Service owns the scan verification state machine plus the check-in
// recorder and offline sync reconciler built on top of it.
type Service struct {
	repo  Repository
	cache *DuplicateCache
	codec *qrcodec.Codec
	att   attendance.Recorder
	now   func() time.Time
}

func NewService(repo Repository, cache *DuplicateCache, codec *qrcodec.Codec, att attendance.Recorder) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		codec: codec,
		att:   att,
		now:   time.Now,
	}
}

// Verify classifies one scan attempt as valid, duplicate or invalid.
// It never mutates state; check-in happens in the separate Confirm step.
//
// Pipeline: format checks → cache check → concurrent store lookup →
// duplicate decision. Benign failures (bad QR, unknown pass) come back as
// invalid ScanResults; only store-unavailable and unexpected faults return
// an error.
func (s *Service) Verify(ctx context.Context, req ScanRequest) (ScanResult, error) {
	passID := strings.TrimSpace(req.PassID)
	if passID == "" {
		return ScanResult{}, NewInvalidArgumentError("Missing Pass ID")
	}

	passType := req.PassType
	if qrcodec.IsEncrypted(passID) {
		payload, err := s.codec.Decrypt(passID)
		if err != nil {
			return Invalid("Invalid or corrupted QR code"), nil
		}
		passID = payload.ID
		if payload.PassType != "" {
			passType = payload.PassType
		}
	}

	// The store addresses documents by id; a path separator can never
	// resolve. Rejected before any lookup.
	if strings.Contains(passID, pathSeparatorToken) {
		return Invalid("Invalid Ticket Format"), nil
	}
	// Test/override hook: ids carrying the literal marker are always invalid.
	if strings.Contains(passID, invalidMarker) {
		return Invalid("Ticket explicitly marked invalid"), nil
	}

	// Instant duplicate rejection, zero store round-trips. Absorbs repeated
	// scans of an already-processed pass under burst load.
	if s.cache.Has(passID) {
		return Duplicate(&Student{
			Name:             "Cached Passenger",
			PassType:         orDefault(passType),
			CheckedIn:        true,
			FirstCheckInTime: s.now().UTC().Format(time.RFC3339),
		}), nil
	}

	// Pass fetch (primary id, secondary field fallback) and prior-scan query
	// run concurrently.
	var (
		pass  *Pass
		prior *ScanRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.FindPass(gctx, passID)
		if err != nil {
			if IsCode(err, ErrCodeNotFound) {
				return nil
			}
			return err
		}
		pass = p
		return nil
	})
	g.Go(func() error {
		rec, err := s.repo.FirstValidScan(gctx, passID)
		if err != nil {
			return err
		}
		prior = rec
		return nil
	})
	if err := g.Wait(); err != nil {
		return ScanResult{}, err
	}

	if pass == nil {
		return Invalid("Ticket not found in database"), nil
	}

	student := &Student{
		Name:        pass.DisplayName(),
		PassType:    pass.PassType,
		AmountPaid:  pass.AmountPaid(),
		Members:     pass.Members(),
		CheckedIn:   pass.CheckedIn,
		CheckedInAt: pass.CheckedInAt,
	}
	if student.PassType == "" {
		student.PassType = orDefault(passType)
	}

	// Duplicate iff a prior valid scan is logged or the pass itself is
	// flagged, and only for individual passes. Group passes always pass
	// through: their duplication is per member, decided at confirmation.
	if (prior != nil || pass.CheckedIn) && !pass.IsGroup() {
		s.cache.Add(passID)

		first := s.now().UTC()
		if pass.CheckedInAt != nil {
			first = pass.CheckedInAt.UTC()
		}
		// The earliest logged scan is the authoritative first check-in time.
		if prior != nil {
			first = prior.ScannedAt.UTC()
		}
		student.FirstCheckInTime = first.Format(time.RFC3339)
		return Duplicate(student), nil
	}

	// The resolved id is echoed back so the confirmation call knows which
	// document to flip.
	student.ID = passID
	return Valid(student), nil
}

func orDefault(passType string) string {
	if passType == "" {
		return defaultPassType
	}
	return passType
}
