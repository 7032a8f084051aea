package deps

import (
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/monitor"
	redisstore "github.com/MrSnakeDoc/armada/internal/store/redis"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	SitesFile string            // path to the site definitions file
	Sites     []domain.Site     // loaded site definitions (passwords never serialized)
	Monitor   *monitor.State    // latest health sweep results
	History   *redisstore.Store // run history store, nil when Redis is disabled
}
