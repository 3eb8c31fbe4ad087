package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/studentdesk/internal/storage/redis"
)

// run executes the root command with args and returns stdout
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	// Never pick up a developer's .env
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestHealthText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, err := run(t, "", "health", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestHealthJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, err := run(t, "", "health", "--server", srv.URL, "-o", "json")
	require.NoError(t, err)

	var result HealthResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ok", result.Status)
}

func TestHealthReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := run(t, "", "health", "--server", srv.URL)
	assert.ErrorContains(t, err, "HTTP 503")
}

func TestUserAddRejectsMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "memory")

	_, err := run(t, "secret1\n", "useradd", "alice", "--password-stdin")
	assert.ErrorContains(t, err, "persistent backend")
}

func TestUserAddWithRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://"+mini.Addr())
	t.Setenv("BCRYPT_COST", "4")

	out, err := run(t, "secret1\n", "useradd", "alice", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "User: alice (1)")

	// The account is stored with a hash, not the plaintext
	cfg := redis.DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()
	store, err := redis.New(cfg)
	require.NoError(t, err)
	defer store.Close()

	user, err := store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = run(t, "secret1\n", "useradd", "alice", "--password-stdin")
	assert.ErrorContains(t, err, "already exists")
}

func TestUserAddValidatesInput(t *testing.T) {
	mini := miniredis.RunT(t)
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://"+mini.Addr())

	_, err := run(t, "123\n", "useradd", "alice", "--password-stdin")
	assert.ErrorContains(t, err, "password")
}

func TestUserAddRequiresPasswordStdin(t *testing.T) {
	mini := miniredis.RunT(t)
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://"+mini.Addr())

	_, err := run(t, "", "useradd", "alice")
	assert.ErrorContains(t, err, "--password-stdin")
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "memory")

	_, err := run(t, "", "migrate")
	assert.ErrorContains(t, err, "postgres")
}

func TestServeRejectsInvalidStorageFlag(t *testing.T) {
	_, err := run(t, "", "serve", "--storage", "sqlite")
	assert.ErrorContains(t, err, "invalid STORAGE_TYPE")
}
