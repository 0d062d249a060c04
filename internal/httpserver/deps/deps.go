package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/gemshub/internal/auth"
	"github.com/MrSnakeDoc/gemshub/internal/domain"
	"github.com/MrSnakeDoc/gemshub/internal/logger"
	"github.com/MrSnakeDoc/gemshub/internal/store/file"
)

// Mirror is the synchronous side of the remote mirror. Resync runs on the
// mirror's worker and calls load when the push starts.
type Mirror interface {
	Enabled() bool
	Resync(ctx context.Context, load func() []domain.Gem) (int, error)
}

// Pinger is an optional backend checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	Store        *file.Store   // gems file, the only source of truth
	Gate         *auth.Gate    // admin session checks
	Mirror       Mirror        // remote mirror, Enabled() false when not configured
	SyncTrigger  chan struct{} // manual resync trigger, nil when the scheduler is not running
	Sessions     Pinger        // session backend probed by readyz, nil for in-process sessions
	AllowedHosts []string      // Host headers allowed to access the server
	AllowedCIDRS []string      // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	LoginBurst   int           // login attempts per client IP before throttling
	LoginPerMin  int           // login attempts refilled per minute
}
