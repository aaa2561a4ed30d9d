package agent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/shrine-cli/shrine/shrine"
)

var _ shrine.Client = (*Client)(nil)

func startTestServer(t *testing.T, ttl time.Duration) (*Server, *Client) {
	t.Helper()
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "agent.sock")
	pidPath := filepath.Join(dir, "agent.pid")

	srv := NewServer(socketPath, pidPath, ttl, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.NoError(t, srv.WaitReady(context.Background()))

	t.Cleanup(func() {
		cancel()
		<-done
	})

	return srv, NewClient(socketPath, pidPath)
}

func writeTestShrine(t *testing.T, passphrase []byte) (string, uuid.UUID) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "shrine")

	open := shrine.NewLocal()
	require.NoError(t, open.Set("k", []byte("v"), shrine.Text))
	if passphrase != nil {
		open.SetPassword(passphrase)
	} else {
		open.IntoClear()
	}
	closed, err := open.Close()
	require.NoError(t, err)
	require.NoError(t, closed.Persist(path))

	return path, closed.UUID()
}

func TestServer_ClearShrineGetSet(t *testing.T) {
	_, client := startTestServer(t, time.Minute)
	path, _ := writeTestShrine(t, nil)

	secret, err := client.GetKey(path, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(secret.Bytes()))

	require.NoError(t, client.SetKey(path, "k2", []byte("v2"), shrine.Text))

	keys, err := client.ListKeys(path)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"k", "k2"}, keys)

	removed, err := client.RemoveKey(path, "k2")
	require.NoError(t, err)
	require.True(t, removed)
}

func TestServer_AesShrineRequiresCachedPassword(t *testing.T) {
	_, client := startTestServer(t, time.Minute)
	path, id := writeTestShrine(t, []byte("pw"))

	_, err := client.GetKey(path, "k")
	require.ErrorIs(t, err, shrine.ErrUnauthorized)

	require.NoError(t, client.PutPassword(id, []byte("pw")))

	secret, err := client.GetKey(path, "k")
	require.NoError(t, err)
	require.Equal(t, "v", string(secret.Bytes()))
}

func TestServer_WrongCachedPasswordIsForbidden(t *testing.T) {
	_, client := startTestServer(t, time.Minute)
	path, id := writeTestShrine(t, []byte("pw"))

	require.NoError(t, client.PutPassword(id, []byte("wrong")))

	_, err := client.GetKey(path, "k")
	require.ErrorIs(t, err, shrine.ErrForbidden)
}

func TestServer_MissingFile(t *testing.T) {
	_, client := startTestServer(t, time.Minute)
	_, err := client.GetKey("/nonexistent/shrine", "k")
	require.True(t, shrine.IsFileNotFound(err))
}

func TestServer_AtMostOneAgent(t *testing.T) {
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "agent.sock")
	pidPath := filepath.Join(dir, "agent.pid")

	first := NewServer(socketPath, pidPath, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Serve(ctx) }()
	require.NoError(t, first.WaitReady(context.Background()))

	second := NewServer(socketPath, pidPath, time.Minute, nil)
	err := second.Serve(context.Background())
	require.ErrorIs(t, err, ErrAgentAlreadyRunning)

	cancel()
	<-done
}
