package admin_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-classroom-client/admin"
	"github.com/jrsteele09/go-classroom-client/bookings"
	apperrors "github.com/jrsteele09/go-classroom-client/internal/errors"
	"github.com/jrsteele09/go-classroom-client/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestApproveAndReject(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, `{"message":"updated","request_id":5}`)
	svc := admin.NewService(srv.APIClient(t))
	ctx := context.Background()

	_, err := svc.Approve(ctx, "5")
	require.NoError(t, err)
	last := srv.Last(t)
	require.Equal(t, http.MethodPut, last.Method)
	require.Equal(t, "/admin/bookings/5/status", last.Path)
	require.JSONEq(t, `{"status":"approved"}`, last.Body)

	_, err = svc.Reject(ctx, "5", "room under repair")
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"rejected","reject_reason":"room under repair"}`, srv.Last(t).Body)

	_, err = svc.Reject(ctx, "5", "  ")
	require.ErrorIs(t, err, admin.MissingRejectReasonErr)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.UpdateBookingStatus(ctx, "5", admin.StatusUpdate{Status: bookings.StatusCancelled})
	require.ErrorIs(t, err, admin.InvalidStatusErr)
	require.Len(t, srv.Requests(), 2)
}

func TestPending(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK,
		`[{"request_id":1,"status":"pending"},{"request_id":2,"status":"approved"},{"request_id":3}]`)
	pending, err := admin.NewService(srv.APIClient(t)).Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "/admin/bookings", srv.Last(t).Path)
}

func TestBlacklist(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, `{"message":"added","request_id":9}`)
	svc := admin.NewService(srv.APIClient(t))
	ctx := context.Background()

	_, err := svc.AddToBlacklist(ctx, admin.BlacklistRequest{UserID: "4", Reason: "no show", ExpiredAt: "2026-03-01"})
	require.NoError(t, err)
	require.Equal(t, "/admin/blacklist", srv.Last(t).Path)
	require.JSONEq(t, `{"user_id":"4","reason":"no show","expired_at":"2026-03-01"}`, srv.Last(t).Body)

	tests := []admin.BlacklistRequest{
		{Reason: "no show"},
		{UserID: "4"},
		{UserID: "4", Reason: "no show", ExpiredAt: "March"},
	}
	for _, req := range tests {
		_, err := svc.AddToBlacklist(ctx, req)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	}

	_, err = svc.RemoveFromBlacklist(ctx, "4")
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, srv.Last(t).Method)
	require.Equal(t, "/admin/blacklist/4", srv.Last(t).Path)

	srv.Respond(http.StatusOK, `[{"blacklist_id":1,"user_id":"4","reason":"no show"}]`)
	entries, err := svc.Blacklist(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "no show", entries[0].Reason)
}
