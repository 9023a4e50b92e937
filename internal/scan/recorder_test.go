package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmIndividualPass(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{DocID: "abc", Name: "Riley Chen"})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "abc"}))

	p := repo.pass("abc")
	assert.True(t, p.CheckedIn)
	require.NotNil(t, p.CheckedInAt)
	assert.Equal(t, testNow, *p.CheckedInAt)
	assert.True(t, svc.cache.Has("abc"), "confirmed pass must be primed in the duplicate cache")

	require.Len(t, repo.scans, 1)
	rec := repo.scans[0]
	assert.Equal(t, "abc", rec.PassID)
	assert.Equal(t, StatusValid, rec.Status)
	assert.Equal(t, defaultScannerID, rec.ScannerID)
	assert.False(t, rec.IsOfflineSync)
	assert.NotEmpty(t, rec.ID)
}

func TestConfirmFallsBackToSecondaryField(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{DocID: "doc-internal-1", PassID: "printed-9"})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "printed-9", ScannerID: "gate-3"}))

	p := repo.pass("doc-internal-1")
	assert.True(t, p.CheckedIn)
	require.Len(t, repo.scans, 1)
	assert.Equal(t, "gate-3", repo.scans[0].ScannerID)
}

func TestConfirmGroupMember(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{
		DocID: "team-1",
		TeamSnapshot: &TeamSnapshot{Members: []Member{
			{MemberID: "m1", Name: "One"},
			{MemberID: "m2", Name: "Two"},
		}},
	})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "team-1", MemberID: "m2"}))

	p := repo.pass("team-1")
	members := p.Members()
	require.Len(t, members, 2)
	assert.False(t, members[0].CheckedIn, "other members stay untouched")
	assert.True(t, members[1].CheckedIn)
	require.NotNil(t, members[1].CheckedInAt)
	assert.False(t, p.CheckedIn, "pass-level flag is per-member territory")

	require.Len(t, repo.scans, 1)
	assert.Equal(t, "m2", repo.scans[0].MemberID)
}

func TestConfirmMissingPassToleratedSilently(t *testing.T) {
	svc, repo, _ := newTestService(t)

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "ghost"}))
	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "ghost", MemberID: "m1"}))

	// The scans log still gets its entries, best effort.
	assert.Len(t, repo.scans, 2)
}

func TestConfirmMissingMemberToleratedSilently(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.seed(&Pass{
		DocID:        "team-1",
		TeamSnapshot: &TeamSnapshot{Members: []Member{{MemberID: "m1"}}},
	})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "team-1", MemberID: "nope"}))
	assert.False(t, repo.pass("team-1").Members()[0].CheckedIn)
}

func TestConfirmRecordsAttendance(t *testing.T) {
	svc, repo, att := newTestService(t)
	repo.seed(&Pass{DocID: "abc"})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{
		PassID:       "abc",
		EventID:      "evt-main-stage",
		EventName:    "Main Stage",
		PassCategory: "general",
	}))

	require.Len(t, att.calls, 1)
	call := att.calls[0]
	assert.Equal(t, "abc", call.PassID)
	assert.Equal(t, "evt-main-stage", call.EventID)
	assert.Equal(t, "Main Stage", call.EventName)
	assert.Equal(t, testNow, call.ScannedAt)
	assert.False(t, call.IsOfflineSync)
}

func TestConfirmWithoutEventSkipsAttendance(t *testing.T) {
	svc, repo, att := newTestService(t)
	repo.seed(&Pass{DocID: "abc"})

	require.NoError(t, svc.Confirm(context.Background(), ConfirmRequest{PassID: "abc"}))
	assert.Empty(t, att.calls)
}
