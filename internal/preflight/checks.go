package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"tracksift/internal/catalog"
	"tracksift/internal/deps"
)

const discogsCheckTimeout = 10 * time.Second

// Pinger verifies that a remote catalog is reachable with the configured
// credentials.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckDiscogs verifies that a token is configured and, when a pinger is
// supplied, that the API accepts it.
func CheckDiscogs(ctx context.Context, token string, pinger Pinger) Result {
	const name = "Discogs"

	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "token missing (set discogs.token or DISCOGS_TOKEN)"}
	}
	if pinger == nil {
		return Result{Name: name, Passed: true, Detail: "token configured (not probed)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, discogsCheckTimeout)
	defer cancel()

	if err := pinger.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
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
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckFFprobe reports whether the configured ffprobe binary can be executed.
func CheckFFprobe(configured string) Result {
	status := deps.CheckFFprobe(configured)
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Command}
}

func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "ping timed out (Discogs API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ping timed out (Discogs API unreachable)"
	}
	if errors.Is(err, catalog.ErrTransport) && strings.Contains(err.Error(), "returned 401") {
		return "auth failed (invalid token)"
	}
	return err.Error()
}
