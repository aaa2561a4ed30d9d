package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shrine-cli/shrine/shrine"
)

// Client is a short-lived process's handle to a running agent. It probes
// liveness via the pid file and issues one request per call; it never
// retries across a broken connection (spec.md §4.J).
type Client struct {
	socketPath string
	pidPath    string
	http       *http.Client
}

// NewClient returns a Client targeting the agent at socketPath, whose pid
// is expected at pidPath.
func NewClient(socketPath, pidPath string) *Client {
	return &Client{
		socketPath: socketPath,
		pidPath:    pidPath,
		http: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
			},
		},
	}
}

// IsRunning reports whether the recorded pid is alive and the agent
// answers GET /pid with a matching body (spec.md §4.J).
func (c *Client) IsRunning() bool {
	data, err := os.ReadFile(c.pidPath)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(string(bytes.TrimSpace(data)))
	if err != nil {
		return false
	}
	if err := syscall.Kill(pid, 0); err != nil {
		return false
	}

	resp, err := c.http.Get("http://unix/pid")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	return string(bytes.TrimSpace(body)) == strconv.Itoa(pid)
}

// PutPassword stores password under id, resetting its access time.
func (c *Client) PutPassword(id uuid.UUID, password []byte) error {
	body, err := json.Marshal(putPasswordRequest{UUID: id, Password: string(password)})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, "http://unix/passwords", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agent: put password: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return decodeError(resp, "", nil)
	}
	return nil
}

// ClearPasswords drops every cached passphrase on the agent.
func (c *Client) ClearPasswords() error {
	req, err := http.NewRequest(http.MethodDelete, "http://unix/passwords", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agent: clear passwords: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return decodeError(resp, "", nil)
	}
	return nil
}

// Shutdown asks the agent to drain and exit.
func (c *Client) Shutdown() error {
	req, err := http.NewRequest(http.MethodDelete, "http://unix/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agent: shutdown: %w", err)
	}
	defer resp.Body.Close()
	return nil
}

// GetKey opens the shrine at path through the agent and returns the
// secret stored under key.
func (c *Client) GetKey(path, key string) (shrine.Secret, error) {
	resp, err := c.http.Get(fmt.Sprintf("http://unix/keys/%s?%s", url.PathEscape(key), url.Values{"path": {path}}.Encode()))
	if err != nil {
		return shrine.Secret{}, fmt.Errorf("agent: get key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return shrine.Secret{}, decodeError(resp, path, key)
	}

	var out keyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return shrine.Secret{}, fmt.Errorf("agent: decode response: %w", err)
	}
	return shrine.NewSecret([]byte(out.Secret), shrine.Mode(out.Mode)), nil
}

// SetKey opens the shrine at path through the agent, stores value under
// key, and persists it.
func (c *Client) SetKey(path, key string, value []byte, mode shrine.Mode) error {
	body, err := json.Marshal(keyRequest{Secret: string(value), Mode: int(mode)})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("http://unix/keys/%s?%s", url.PathEscape(key), url.Values{"path": {path}}.Encode()),
		bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("agent: set key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return decodeError(resp, path, key)
	}
	return nil
}

// RemoveKey opens the shrine at path through the agent, removes key, and
// persists it, reporting whether the key was present.
func (c *Client) RemoveKey(path, key string) (bool, error) {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("http://unix/keys/%s?%s", url.PathEscape(key), url.Values{"path": {path}}.Encode()), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("agent: remove key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp, path, key)
	}

	var out rmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("agent: decode response: %w", err)
	}
	return out.Removed, nil
}

// ListKeys returns the public namespace's keys for the shrine at path.
func (c *Client) ListKeys(path string) ([]string, error) {
	return c.listKeys(path, false)
}

// ListKeysPrivate returns the private namespace's keys for the shrine at
// path.
func (c *Client) ListKeysPrivate(path string) ([]string, error) {
	return c.listKeys(path, true)
}

func (c *Client) listKeys(path string, private bool) ([]string, error) {
	values := url.Values{"path": {path}}
	if private {
		values.Set("private", "true")
	}
	resp, err := c.http.Get("http://unix/keys?" + values.Encode())
	if err != nil {
		return nil, fmt.Errorf("agent: list keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, path, "")
	}

	var out keysResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("agent: decode response: %w", err)
	}
	return out.Keys, nil
}

// decodeError translates an error HTTP response into the matching shrine
// error kind (spec.md §6 "Error payloads over the wire").
func decodeError(resp *http.Response, path, key string) error {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("agent: request failed with status %d", resp.StatusCode)
	}

	switch body.Error {
	case "file-not-found":
		return &shrine.FileNotFoundError{Path: path}
	case "key-not-found":
		return &shrine.KeyNotFoundError{Key: key}
	case "unauthorized":
		return shrine.ErrUnauthorized
	case "forbidden":
		return shrine.ErrForbidden
	case "read", "write":
		return &shrine.IOError{Op: body.Error, Path: path, Err: fmt.Errorf("agent reported %s failure", body.Error)}
	default:
		return fmt.Errorf("agent: %s", body.Error)
	}
}
