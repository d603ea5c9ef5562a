package storage_test

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-classroom-client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepos_GetSetRemove(t *testing.T) {
	fileRepo, err := storage.NewFileRepo(t.TempDir())
	require.NoError(t, err)

	repos := map[string]storage.Repo{
		"memory": storage.NewMemoryRepo(),
		"file":   fileRepo,
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			_, ok := repo.Get("uid")
			require.False(t, ok)

			require.NoError(t, repo.Set("uid", "7"))
			v, ok := repo.Get("uid")
			require.True(t, ok)
			require.Equal(t, "7", v)

			require.NoError(t, repo.Set("uid", "8"))
			v, _ = repo.Get("uid")
			require.Equal(t, "8", v)

			require.NoError(t, repo.Remove("uid"))
			_, ok = repo.Get("uid")
			require.False(t, ok)

			// removing twice is fine
			require.NoError(t, repo.Remove("uid"))

			require.ErrorIs(t, repo.Set("", "x"), storage.ErrInvalidKey)
		})
	}
}

func TestFileRepo_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := storage.NewFileRepo(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("uid", "42"))

	second, err := storage.NewFileRepo(dir)
	require.NoError(t, err)
	v, ok := second.Get("uid")
	require.True(t, ok)
	require.Equal(t, "42", v)

	info, err := os.Stat(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileRepo_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0600))

	repo, err := storage.NewFileRepo(dir)
	require.NoError(t, err)
	_, ok := repo.Get("uid")
	require.False(t, ok)

	require.NoError(t, repo.Set("uid", "1"))
}

func TestFileRepo_RequiresDir(t *testing.T) {
	_, err := storage.NewFileRepo("")
	require.Error(t, err)
}

func TestCookieJar_PersistsRefreshCookie(t *testing.T) {
	repo := storage.NewMemoryRepo()
	apiURL, _ := url.Parse("http://localhost:3000/api/login")

	jar, err := storage.NewCookieJar(repo)
	require.NoError(t, err)
	jar.SetCookies(apiURL, []*http.Cookie{{
		Name:     "refreshToken",
		Value:    "r-1",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   3600,
	}})

	restored, err := storage.NewCookieJar(repo)
	require.NoError(t, err)

	refreshURL, _ := url.Parse("http://localhost:3000/api/refresh")
	cookies := restored.Cookies(refreshURL)
	require.Len(t, cookies, 1)
	require.Equal(t, "refreshToken", cookies[0].Name)
	require.Equal(t, "r-1", cookies[0].Value)
}

func TestCookieJar_DefaultPath(t *testing.T) {
	repo := storage.NewMemoryRepo()
	loginURL, _ := url.Parse("http://localhost:3000/api/login")

	jar, err := storage.NewCookieJar(repo)
	require.NoError(t, err)
	jar.SetCookies(loginURL, []*http.Cookie{{Name: "refreshToken", Value: "r-1"}})

	restored, err := storage.NewCookieJar(repo)
	require.NoError(t, err)

	refreshURL, _ := url.Parse("http://localhost:3000/api/refresh")
	require.Len(t, restored.Cookies(refreshURL), 1)

	otherURL, _ := url.Parse("http://localhost:3000/bookings/")
	require.Empty(t, restored.Cookies(otherURL))
}

func TestCookieJar_DeletedCookieIsForgotten(t *testing.T) {
	repo := storage.NewMemoryRepo()
	u, _ := url.Parse("http://localhost:3000/api/logout")

	jar, err := storage.NewCookieJar(repo)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "r-1", Path: "/", MaxAge: 60}})
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "", Path: "/", MaxAge: -1}})

	_, ok := repo.Get("cookies")
	require.False(t, ok)

	restored, err := storage.NewCookieJar(repo)
	require.NoError(t, err)
	require.Empty(t, restored.Cookies(u))
}

func TestCookieJar_ExpiredCookiesAreNotRestored(t *testing.T) {
	repo := storage.NewMemoryRepo()
	require.NoError(t, repo.Set("cookies",
		`{"http://localhost:3000":[{"name":"refreshToken","value":"old","path":"/","expires":"`+
			time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)+`"}]}`))

	jar, err := storage.NewCookieJar(repo)
	require.NoError(t, err)

	u, _ := url.Parse("http://localhost:3000/api/refresh")
	require.Empty(t, jar.Cookies(u))
}
