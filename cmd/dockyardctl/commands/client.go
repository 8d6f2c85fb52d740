package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// apiClient is a thin wrapper around an *http.Client whose transport dials
// the daemon's Unix control socket instead of a TCP address. Requests use
// a fixed "http://dockyard" host since Unix sockets have no DNS name.
type apiClient struct {
	http       *http.Client
	socketPath string
}

func newAPIClient(cmd *cobra.Command) *apiClient {
	socketPath, _ := cmd.Flags().GetString("socket")
	return &apiClient{
		socketPath: socketPath,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					dialer := net.Dialer{}
					return dialer.DialContext(ctx, "unix", socketPath)
				},
			},
		},
	}
}

func (c *apiClient) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequest(method, "http://dockyard"+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("could not reach dockyardd at %s: %w", c.socketPath, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if response.StatusCode >= 400 {
		var errorBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(responseBody, &errorBody) == nil && errorBody.Error != "" {
			return fmt.Errorf("%s", errorBody.Error)
		}
		return fmt.Errorf("dockyardd returned status %d", response.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func envOr(key, fallbackValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallbackValue
}
