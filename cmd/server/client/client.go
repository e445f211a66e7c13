// Package client provides commands that drive a running game master over
// its HTTP API, for poking at a session from the terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

var (
	// Connection flags
	serverURL string
	grpcAddr  string
	timeout   time.Duration
	asJSON    bool
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Play against a running game master",
	Long:  `Client commands make real HTTP requests against the game master API.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "HTTP API base URL")
	ClientCmd.PersistentFlags().StringVar(&grpcAddr, "grpc", "localhost:50051", "gRPC address used by health")
	// Model calls can take minutes on a laptop
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 3*time.Minute, "Request timeout")
	ClientCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON responses")

	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(actCmd)
	ClientCmd.AddCommand(continueCmd)
	ClientCmd.AddCommand(stateCmd)
	ClientCmd.AddCommand(saveCmd)
	ClientCmd.AddCommand(savesCmd)
	ClientCmd.AddCommand(loadCmd)
	ClientCmd.AddCommand(healthCmd)
}

// apiError is a non-2xx response decoded from the server's error envelope
type apiError struct {
	Status int
	Body   errors.HTTPBody
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Error)
	if e.Body.SessionID != "" {
		msg += fmt.Sprintf(" (session %s, retry with: client continue %s)", e.Body.SessionID, e.Body.SessionID)
	}
	return msg
}

// do sends body as JSON and decodes a 2xx response into out. The raw
// response is returned for --json printing.
func do(ctx context.Context, method, path string, body, out any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(serverURL, "/")+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", serverURL, err)
	}
	defer func() {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, &apiErr.Body); jsonErr != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return raw, apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return raw, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = w.Write(raw)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
