package api

import (
	"github.com/2008zhum-boop/radar-ai/app/database"
	"github.com/2008zhum-boop/radar-ai/app/monitor"
	"github.com/2008zhum-boop/radar-ai/app/tasks"
)

type LibraryStoreInterface interface {
	GetByID(id int64) (*monitor.Mention, error)
	Library(filter monitor.LibraryFilter) (monitor.LibraryPage, error)
	SetCleanStatus(ids []int64, status string) (int, error)
	Associate(id int64, clientID string) error
	Correct(id int64, sentiment *float64, riskLevel *int) error
	GetMentionCount() (int, error)
}

var _ LibraryStoreInterface = (*database.MentionRepository)(nil)

type BlacklistStoreInterface interface {
	Add(s monitor.BlacklistedSource) error
	Remove(sourceName string) error
	List() ([]monitor.BlacklistedSource, error)
}

var _ BlacklistStoreInterface = (*database.BlacklistRepository)(nil)

type Handler struct {
	registry  *monitor.Registry
	pipeline  *monitor.Pipeline
	stats     *monitor.StatsService
	library   LibraryStoreInterface
	blacklist BlacklistStoreInterface
	scheduler tasks.TaskSchedulerInterface
}
