package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func millis(t time.Time) *int64 {
	v := t.UnixMilli()
	return &v
}

func TestSyncNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "ghost"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, "Ticket not found in database", res.Error)
}

func TestSyncPersistedEarlierTimeWins(t *testing.T) {
	svc, repo, _ := newTestService(t)
	persisted := testNow.Add(-2 * time.Hour)
	client := testNow.Add(-1 * time.Hour)
	repo.seed(&Pass{DocID: "abc", CheckedIn: true, CheckedInAt: &persisted})

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "abc", ScannedAt: millis(client)})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, StatusDuplicate, res.Status)

	// min(T1, T2) = the persisted time
	assert.Equal(t, persisted, repo.pass("abc").CheckedInAt.UTC())
}

func TestSyncClientEarlierTimeWins(t *testing.T) {
	svc, repo, _ := newTestService(t)
	persisted := testNow.Add(-1 * time.Hour)
	client := testNow.Add(-2 * time.Hour)
	repo.seed(&Pass{DocID: "abc", CheckedIn: true, CheckedInAt: &persisted})

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "abc", ScannedAt: millis(client)})
	require.NoError(t, err)
	assert.Equal(t, StatusDuplicate, res.Status)
	assert.Equal(t, client, repo.pass("abc").CheckedInAt.UTC())
}

func TestSyncNotCheckedInWritesClientTime(t *testing.T) {
	svc, repo, _ := newTestService(t)
	client := testNow.Add(-3 * time.Hour)
	// Stale checkedInAt without the flag set must not win.
	old := testNow.Add(-10 * time.Hour)
	repo.seed(&Pass{DocID: "abc", CheckedIn: false, CheckedInAt: &old})

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "abc", ScannedAt: millis(client)})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, StatusValid, res.Status)

	p := repo.pass("abc")
	assert.True(t, p.CheckedIn)
	assert.Equal(t, client, p.CheckedInAt.UTC())
	assert.True(t, svc.cache.Has("abc"))
}

func TestSyncNoClientTimeUsesNow(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{DocID: "abc"})

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, testNow, repo.pass("abc").CheckedInAt.UTC())
}

func TestSyncAppendsOfflineScanRecord(t *testing.T) {
	svc, repo, _ := newTestService(t)
	client := testNow.Add(-90 * time.Minute)
	repo.seed(&Pass{DocID: "abc"})

	_, err := svc.Sync(context.Background(), SyncRequest{PassID: "abc", ScannerID: "gate-7", ScannedAt: millis(client)})
	require.NoError(t, err)

	require.Len(t, repo.scans, 1)
	rec := repo.scans[0]
	assert.True(t, rec.IsOfflineSync)
	assert.Equal(t, client, rec.ScannedAt.UTC())
	assert.Equal(t, "gate-7", rec.ScannerID)
	assert.Equal(t, StatusValid, rec.Status)
}

func TestSyncRecordsAttendanceWithClientTime(t *testing.T) {
	svc, repo, att := newTestService(t)
	client := testNow.Add(-45 * time.Minute)
	repo.seed(&Pass{DocID: "abc"})

	_, err := svc.Sync(context.Background(), SyncRequest{
		PassID:         "abc",
		ScannedAt:      millis(client),
		EventID:        "evt-workshop",
		AttendanceDate: "2026-08-27",
	})
	require.NoError(t, err)

	require.Len(t, att.calls, 1)
	call := att.calls[0]
	assert.Equal(t, "evt-workshop", call.EventID)
	assert.Equal(t, "2026-08-27", call.Date)
	assert.Equal(t, client, call.ScannedAt.UTC())
	assert.True(t, call.IsOfflineSync)
}

func TestSyncSecondaryFieldFallback(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{DocID: "doc-internal-1", PassID: "printed-9"})

	res, err := svc.Sync(context.Background(), SyncRequest{PassID: "printed-9"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, repo.pass("doc-internal-1").CheckedIn)
}
