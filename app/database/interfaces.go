package database

import (
	"github.com/2008zhum-boop/radar-ai/app/monitor"
)

var (
	_ monitor.ClientStore    = (*ClientRepository)(nil)
	_ monitor.MentionStore   = (*MentionRepository)(nil)
	_ monitor.BlacklistStore = (*BlacklistRepository)(nil)
)
