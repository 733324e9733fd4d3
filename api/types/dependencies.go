package types

import (
	"log/slog"

	"github.com/killallgit/autocut/internal/database"
	"github.com/killallgit/autocut/internal/services/cuts"
	"github.com/killallgit/autocut/internal/services/jobs"
	"github.com/killallgit/autocut/internal/services/workers"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB         *database.DB
	JobService jobs.Service
	CutService cuts.CutService
	WorkerPool *workers.WorkerPool
	Build      BuildInfo
	Logger     *slog.Logger
}
