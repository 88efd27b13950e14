package handler

import (
	"log"

	"github.com/adegamar/backend/usecase"
	"github.com/adegamar/backend/utils"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Users    usecase.UserRepository
	Sessions usecase.SessionRepository
	Content  *usecase.ContentStore
}

func NewStatsHandler(users usecase.UserRepository, sessions usecase.SessionRepository, content *usecase.ContentStore) *StatsHandler {
	return &StatsHandler{Users: users, Sessions: sessions, Content: content}
}

// Stats returns admin-dashboard counters plus basic host health.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	userCount, err := h.Users.CountUsers(ctx)
	if err != nil {
		log.Printf("Error counting users: %v", err)
		utils.InternalError(c, "Failed to fetch stats")
		return
	}

	sessionCount, err := h.Sessions.CountActiveSessions(ctx, "")
	if err != nil {
		log.Printf("Error counting sessions: %v", err)
		utils.InternalError(c, "Failed to fetch stats")
		return
	}

	utils.Success(c, gin.H{
		"users":           userCount,
		"active_sessions": sessionCount,
		"content_files":   len(h.Content.AllowedPaths()),
		"system": gin.H{
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
			"uptime_seconds": utils.GetHostUptime(),
		},
	})
}
