package announcements_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-classroom-client/announcements"
	"github.com/jrsteele09/go-classroom-client/api"
	"github.com/jrsteele09/go-classroom-client/internal/testutil"
	"github.com/stretchr/testify/require"
)

const list = `[
	{"announcement_id":2,"title":"防疫注意事項","content":"進入教室請配戴口罩並完成手部消毒。","created_at":"2025-11-29T16:27:57.000Z","expired_at":null},
	{"announcement_id":3,"title":"old","content":"gone","created_at":"2025-01-01T00:00:00.000Z","expired_at":"2025-02-01T00:00:00.000Z"}
]`

func TestList(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, list)
	all, err := announcements.NewService(srv.APIClient(t)).List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, api.ID("2"), all[0].AnnouncementID)
	require.Nil(t, all[0].ExpiredAt)
	require.Equal(t, 2025, all[0].CreatedAt.Year())
	require.NotNil(t, all[1].ExpiredAt)
}

func TestActive(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, list)
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	active, err := announcements.NewService(srv.APIClient(t)).Active(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "防疫注意事項", active[0].Title)
}

func TestCreateUpdateDelete(t *testing.T) {
	srv := testutil.NewRecordingServer(t, http.StatusOK, `{"message":"ok"}`)
	svc := announcements.NewService(srv.APIClient(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, announcements.Input{Title: "Exam week", Content: "Rooms close early"})
	require.NoError(t, err)
	require.Equal(t, "/announcements/", srv.Last(t).Path)
	require.JSONEq(t, `{"title":"Exam week","content":"Rooms close early"}`, srv.Last(t).Body)

	_, err = svc.Update(ctx, "2", announcements.Input{Title: "Exam week", ExpiredAt: "2026-01-10"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, srv.Last(t).Method)
	require.Equal(t, "/announcements/2", srv.Last(t).Path)

	_, err = svc.Delete(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, srv.Last(t).Method)

	_, err = svc.Create(ctx, announcements.Input{})
	require.ErrorIs(t, err, announcements.MissingTitleErr)
	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, announcements.MissingIDErr)
}
