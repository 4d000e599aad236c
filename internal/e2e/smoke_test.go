package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	backend := newBackend(t)

	stdout, stderr, err := runCamrelay(t, binaryPath, home, backend.URL, "clients")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "10.0.0.1:9000")

	_, stderr, err = runCamrelay(t, binaryPath, home, backend.URL, "connect", "10.0.0.1:9000")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runCamrelay(t, binaryPath, home, backend.URL, "turn", "on")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Camera turned on successfully.")
	assert.Contains(t, stdout, "https://www.youtube.com/channel/UCsmoke/live")

	stdout, stderr, err = runCamrelay(t, binaryPath, home, backend.URL, "close")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Successfully closed 10.0.0.1:9000 session.")

	stdout, _, err = runCamrelay(t, binaryPath, home, backend.URL, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "run connect first")
}

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"host": "10.0.0.1", "port": 9000}})
	})
	mux.HandleFunc("POST /clients/{host}/{port}/camera/switch", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("DELETE /clients/{host}/{port}", func(w http.ResponseWriter, r *http.Request) {})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "camrelay-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/camrelay")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build camrelay binary: %s", string(output))
	return binaryPath
}

func runCamrelay(t *testing.T, binaryPath, home, apiURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"CAMRELAY_API_URL="+apiURL,
		"CAMRELAY_NOTIFY_LIVE_DELAY=50ms",
		"CAMRELAY_NOTIFY_CHANNEL_ID=UCsmoke",
		"CAMRELAY_LOG_LEVEL=warn",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
