package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const checkTimeout = 5 * time.Second

// CheckService verifies that the remote service answers its liveness route.
func CheckService(ctx context.Context, baseURL, token string) Result {
	const name = "Service"

	status, err := probe(ctx, baseURL, "/", token)
	switch {
	case err != nil:
		return Result{Name: name, Detail: summarizeError(baseURL, err)}
	case status >= 200 && status < 300:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", baseURL)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (liveness check failed: %d)", baseURL, status)}
	}
}

// CheckAuth verifies that token is accepted by the service.
func CheckAuth(ctx context.Context, baseURL, token string) Result {
	const name = "Authentication"

	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "no token (run quarry login)"}
	}
	status, err := probe(ctx, baseURL, "/auth/me", token)
	switch {
	case err != nil:
		return Result{Name: name, Detail: summarizeError(baseURL, err)}
	case status == http.StatusOK:
		return Result{Name: name, Passed: true, Detail: "token accepted"}
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return Result{Name: name, Detail: "token rejected (run quarry login)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", status)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func probe(ctx context.Context, baseURL, path, token string) (int, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return 0, errors.New("missing service address")
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+path, nil)
	if err != nil {
		return 0, err
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := (&http.Client{Timeout: checkTimeout}).Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func summarizeError(baseURL string, err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s (timed out)", baseURL)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("%s (timed out)", baseURL)
	}
	if baseURL == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s (unreachable: %v)", baseURL, err)
}
