package api

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moodmix/internal/models"
	"moodmix/internal/mood"
	"moodmix/internal/service/chat"
	"moodmix/internal/service/spotify"
)

// Handler wires HTTP routes to the chat store, the mood analyzer and the
// Spotify client.
type Handler struct {
	chat     *chat.Service
	analyzer *mood.Analyzer
	spotify  *spotify.Client
}

// NewHandler constructs a Handler instance.
func NewHandler(chatService *chat.Service, analyzer *mood.Analyzer, spotifyClient *spotify.Client) *Handler {
	return &Handler{
		chat:     chatService,
		analyzer: analyzer,
		spotify:  spotifyClient,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/sessions", h.createSession)
	api.GET("/sessions", h.getSessionList)
	api.DELETE("/sessions/:session_id", h.deleteSession)
	api.GET("/sessions/:session_id/messages", h.getSessionMessages)
	api.POST("/sessions/:session_id/analyze", h.analyzeMood)
	api.GET("/music", h.getRecommendations)
	api.POST("/playlists", h.createPlaylist)
	api.POST("/music-insights", h.getMusicInsights)
}

func (h *Handler) createSession(c *gin.Context) {
	session, welcome, err := h.chat.CreateSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session": session,
		"message": welcome,
	})
}

func (h *Handler) getSessionList(c *gin.Context) {
	seList, err := h.chat.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(seList) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"session_list": make([]models.Session, 0),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_list": seList,
	})
}

// deleteSession removes a session. When the last session is deleted, a fresh
// welcome-seeded session is created in its place so the client always has a
// conversation to land in.
func (h *Handler) deleteSession(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if err := h.chat.DeleteSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.chat.CountSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count == 0 {
		session, welcome, err := h.chat.CreateSession(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session": session,
			"message": welcome,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getSessionMessages(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	session, messages, err := h.chat.GetSessionWithMessages(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = make([]*models.Message, 0)
	}
	c.JSON(http.StatusOK, gin.H{
		"session":  session,
		"messages": messages,
	})
}

// Mood analysis interface
type analyzeRequest struct {
	Message     string                      `json:"message"`
	Context     *models.ConversationContext `json:"context"`
	AccessToken string                      `json:"access_token"`
}

func (h *Handler) analyzeMood(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	// Clients may carry the context themselves; fall back to the cached one.
	prior := req.Context
	if prior == nil {
		prior, _ = h.chat.LoadContext(c.Request.Context(), sessionID)
	}

	userMessage, err := h.chat.AppendMessage(c.Request.Context(), sessionID, models.RoleUser, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), mood.Request{
		Message:     req.Message,
		Context:     prior,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}

	assistantMessage, err := h.chat.AppendMessage(c.Request.Context(), sessionID, models.RoleAssistant, analysis.Response)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if analysis.DisplayTitle != "" {
		if isDefault, err := h.chat.HasDefaultTitle(c.Request.Context(), sessionID); err == nil && isDefault {
			_ = h.chat.UpdateSessionTitle(c.Request.Context(), sessionID, analysis.DisplayTitle)
		}
	}
	h.chat.SaveContext(c.Request.Context(), sessionID, analysis.ConversationContext)

	c.JSON(http.StatusOK, gin.H{
		"analysis":          analysis,
		"user_message":      userMessage,
		"assistant_message": assistantMessage,
	})
}

// writeAnalyzeError maps analyzer failures to HTTP statuses. Oracle failures
// carry a fallback genre so the client can still show something playable.
func (h *Handler) writeAnalyzeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mood.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
	case errors.Is(err, mood.ErrOracleUnavailable):
		log.Printf("mood analysis failed, oracle unavailable: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "mood analysis unavailable",
			"fallback_genres": []string{mood.DefaultGenre},
		})
	case errors.Is(err, mood.ErrOracleResponseInvalid):
		log.Printf("mood analysis failed, invalid oracle reply: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "mood analysis unavailable",
			"fallback_genres": []string{mood.DefaultGenre},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) getRecommendations(c *gin.Context) {
	accessToken := c.Query("access_token")
	if accessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_token is required"})
		return
	}
	genres := splitGenres(c.Query("genres"))
	if len(genres) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "genres is required"})
		return
	}
	for _, g := range genres {
		if !mood.IsValidGenre(g) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported genre: " + g})
			return
		}
	}
	attrs := models.TargetAttributes{
		Energy:       queryFloat(c, "energy"),
		Valence:      queryFloat(c, "valence"),
		Tempo:        queryFloat(c, "tempo"),
		Danceability: queryFloat(c, "danceability"),
	}

	tracks, err := h.spotify.Recommendations(c.Request.Context(), accessToken, genres, attrs)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if len(tracks) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tracks found for the requested genres"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

// Playlist creation interface
type playlistRequest struct {
	AccessToken string   `json:"access_token"`
	Name        string   `json:"name"`
	TrackURIs   []string `json:"track_uris"`
}

func (h *Handler) createPlaylist(c *gin.Context) {
	var req playlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_token is required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if len(req.TrackURIs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "track_uris is required"})
		return
	}

	playlist, err := h.spotify.CreatePlaylist(c.Request.Context(), req.AccessToken, req.Name, req.TrackURIs)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"playlist": playlist})
}

// Music insights interface
type insightsRequest struct {
	Location string   `json:"location"`
	Weather  string   `json:"weather"`
	Genres   []string `json:"genres"`
}

func (h *Handler) getMusicInsights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Location == "" || req.Weather == "" || len(req.Genres) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location, weather and genres are required"})
		return
	}

	insights, err := h.analyzer.MusicInsights(c.Request.Context(), req.Location, req.Weather, req.Genres)
	if err != nil {
		if errors.Is(err, mood.ErrOracleUnavailable) || errors.Is(err, mood.ErrOracleResponseInvalid) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "music insights unavailable"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func splitGenres(raw string) []string {
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func queryFloat(c *gin.Context, name string) float64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
