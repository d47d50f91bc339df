package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/2008zhum-boop/radar-ai/app/monitor"
	"github.com/2008zhum-boop/radar-ai/app/tasks"
)

func NewHandler(registry *monitor.Registry, pipeline *monitor.Pipeline, stats *monitor.StatsService,
	library LibraryStoreInterface, blacklist BlacklistStoreInterface,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		registry:  registry,
		pipeline:  pipeline,
		stats:     stats,
		library:   library,
		blacklist: blacklist,
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if mentionCount, err := h.library.GetMentionCount(); err == nil {
		health["mentions"] = mentionCount
	}

	if clients, err := h.registry.List(); err == nil {
		health["clients"] = len(clients)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.stats.Run("")
	if err != nil {
		slog.Error("Failed to compute dashboard stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

type ingestRequest struct {
	Items []monitor.RawItem `json:"items"`
}

func (h *Handler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.pipeline.Ingest(c.Request.Context(), req.Items)
	if err != nil {
		slog.Error("Batch ingestion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type createClientRequest struct {
	Name            string                 `json:"name"`
	Industry        string                 `json:"industry"`
	BrandKeywords   []string               `json:"brand_keywords"`
	ExcludeKeywords []string               `json:"exclude_keywords"`
	AdvancedRules   []monitor.AdvancedRule `json:"advanced_rules"`
}

func (h *Handler) APICreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	clientID, err := h.registry.Create(req.Name, req.Industry, monitor.MatchLogic{
		BrandKeywords:   req.BrandKeywords,
		ExcludeKeywords: req.ExcludeKeywords,
		AdvancedRules:   req.AdvancedRules,
	})
	if err != nil {
		h.respondRegistryError(c, err)
		return
	}

	h.enqueueRescan(clientID)

	c.JSON(http.StatusCreated, gin.H{"client_id": clientID})
}

func (h *Handler) APIListClients(c *gin.Context) {
	clients, err := h.registry.List()
	if err != nil {
		slog.Error("Failed to list clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": len(clients)})
}

func (h *Handler) APIGetClient(c *gin.Context) {
	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.respondRegistryError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *Handler) APIUpdateClient(c *gin.Context) {
	var patch monitor.ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	// The id resolves the target; a caller that only knows the name can pass
	// it in the lookup_name query parameter with id "-".
	clientID := c.Param("id")
	lookupName := c.Query("lookup_name")
	if clientID == "-" {
		clientID = ""
	}

	client, err := h.registry.Update(clientID, lookupName, patch)
	if err != nil {
		h.respondRegistryError(c, err)
		return
	}

	h.enqueueRescan(client.ID)

	c.JSON(http.StatusOK, client)
}

func (h *Handler) APIDeleteClient(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		h.respondRegistryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIGetClientStats(c *gin.Context) {
	client, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.respondRegistryError(c, err)
		return
	}

	stats, err := h.stats.Run(client.ID)
	if err != nil {
		slog.Error("Failed to compute client stats", "client_id", client.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIGetLibrary(c *gin.Context) {
	filter := monitor.LibraryFilter{
		SearchText: c.Query("search"),
		TimeRange:  c.Query("time_range"),
	}

	if sources := c.Query("sources"); sources != "" {
		filter.Sources = strings.Split(sources, ",")
	}
	if statuses := c.Query("clean_status"); statuses != "" {
		filter.CleanStatus = strings.Split(statuses, ",")
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = pageSize
	}

	page, err := h.library.Library(filter)
	if err != nil {
		slog.Error("Failed to query content library", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query library"})
		return
	}

	c.JSON(http.StatusOK, page)
}

type discardRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) APIDiscardMentions(c *gin.Context) {
	var req discardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No mention ids provided"})
		return
	}

	updated, err := h.library.SetCleanStatus(req.IDs, monitor.CleanStatusDiscarded)
	if err != nil {
		slog.Error("Failed to discard mentions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard mentions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

type associateRequest struct {
	ClientID string `json:"client_id"`
}

func (h *Handler) APIAssociateMention(c *gin.Context) {
	mentionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mention id"})
		return
	}

	var req associateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	client, err := h.registry.Get(req.ClientID)
	if err != nil {
		h.respondRegistryError(c, err)
		return
	}

	if err := h.library.Associate(mentionID, client.ID); err != nil {
		if errors.Is(err, monitor.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Mention already attributed for this client"})
			return
		}
		slog.Error("Failed to associate mention", "mention_id", mentionID, "client_id", client.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to associate mention"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type correctRequest struct {
	SentimentScore *float64 `json:"sentiment_score"`
	RiskLevel      *int     `json:"risk_level"`
}

func (h *Handler) APICorrectMention(c *gin.Context) {
	mentionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mention id"})
		return
	}

	var req correctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.SentimentScore == nil && req.RiskLevel == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No correction fields provided"})
		return
	}
	if req.RiskLevel != nil && (*req.RiskLevel < monitor.RiskPositive || *req.RiskLevel > monitor.RiskCritical) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "risk_level must be between 0 and 3"})
		return
	}
	if req.SentimentScore != nil && (*req.SentimentScore < -1 || *req.SentimentScore > 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sentiment_score must be between -1 and 1"})
		return
	}

	mention, err := h.library.GetByID(mentionID)
	if err != nil {
		slog.Error("Failed to load mention", "mention_id", mentionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load mention"})
		return
	}
	if mention == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mention not found"})
		return
	}

	if err := h.library.Correct(mentionID, req.SentimentScore, req.RiskLevel); err != nil {
		slog.Error("Failed to correct mention", "mention_id", mentionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correct mention"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) APIListBlacklist(c *gin.Context) {
	sources, err := h.blacklist.List()
	if err != nil {
		slog.Error("Failed to list blacklisted sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list blacklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": sources, "total": len(sources)})
}

func (h *Handler) APIAddBlacklist(c *gin.Context) {
	var req monitor.BlacklistedSource
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.SourceName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_name is required"})
		return
	}

	if err := h.blacklist.Add(req); err != nil {
		slog.Error("Failed to add blacklisted source", "source", req.SourceName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add source"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *Handler) APIRemoveBlacklist(c *gin.Context) {
	source := c.Param("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source parameter"})
		return
	}

	if err := h.blacklist.Remove(source); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not blacklisted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// enqueueRescan schedules a re-evaluation of the recent global pool after a
// client configuration change. A full queue is logged, not surfaced; the next
// harvest cycle covers new items either way.
func (h *Handler) enqueueRescan(clientID string) {
	task := tasks.NewRescanClientTask(clientID, h.pipeline)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue RescanClientTask", "client_id", clientID, "error", err)
	}
}

func (h *Handler) respondRegistryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, monitor.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
	case errors.Is(err, monitor.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "Client name already exists"})
	case errors.Is(err, monitor.ErrInvalidRule):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advanced rule", "details": err.Error()})
	default:
		slog.Error("Client operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}
