package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nate2211/github-analytics/internal/blocks"
	"github.com/nate2211/github-analytics/internal/collector"
	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/domain"
	apperrors "github.com/nate2211/github-analytics/internal/errors"
	"github.com/nate2211/github-analytics/internal/pipeline"
)

// Handler handles API requests
type Handler struct {
	collector  collector.Collector
	configPath string
}

// NewHandler creates a new API handler
func NewHandler(col collector.Collector, configPath string) *Handler {
	return &Handler{
		collector:  col,
		configPath: configPath,
	}
}

type fetchAnalyticsRequest struct {
	Repos []string `json:"repos"`
	Token string   `json:"token"`
}

// FetchAnalytics fetches and aggregates analytics for the requested repos.
// When the body names no repos, the active preset is used instead.
// POST /api/v1/analytics
func (h *Handler) FetchAnalytics(c *gin.Context) {
	var body fetchAnalyticsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	repos := body.Repos
	if len(repos) == 0 {
		repos = config.Load(h.configPath).ActiveRepos()
	}
	if len(repos) == 0 {
		respondError(c, apperrors.NewBadRequestError("no repositories specified"))
		return
	}

	payload := &pipeline.Payload{
		Request: &domain.FetchRequest{
			Repos: repos,
			Token: domain.NewSecret(body.Token),
		},
	}
	p := pipeline.New(
		blocks.Fetch{Collector: h.collector},
		blocks.Aggregate{},
	)

	payload, meta, err := p.Run(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": payload.Report,
		"meta": meta,
	})
}

// GetPresets returns the stored presets and the active preset name.
// GET /api/v1/presets
func (h *Handler) GetPresets(c *gin.Context) {
	doc := config.Load(h.configPath)
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"presets":       doc.Presets,
			"active_preset": doc.ActivePreset,
		},
	})
}

type putPresetRequest struct {
	Repos []string `json:"repos"`
}

// PutPreset creates or replaces a preset and makes it active.
// PUT /api/v1/presets/:name
func (h *Handler) PutPreset(c *gin.Context) {
	var body putPresetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid request body"))
		return
	}

	doc := config.Load(h.configPath)
	if err := doc.SetPreset(c.Param("name"), body.Repos); err != nil {
		respondError(c, err)
		return
	}
	if err := doc.Save(h.configPath); err != nil {
		respondError(c, apperrors.NewInternalError("failed to save config", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"presets":       doc.Presets,
			"active_preset": doc.ActivePreset,
		},
	})
}

// ActivatePreset makes an existing preset active.
// POST /api/v1/presets/:name/activate
func (h *Handler) ActivatePreset(c *gin.Context) {
	doc := config.Load(h.configPath)
	if err := doc.ApplyPreset(c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	if err := doc.Save(h.configPath); err != nil {
		respondError(c, apperrors.NewInternalError("failed to save config", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"active_preset": doc.ActivePreset,
			"repos":         doc.Repos,
		},
	})
}

// DeletePreset removes a preset. The last remaining preset cannot be
// deleted.
// DELETE /api/v1/presets/:name
func (h *Handler) DeletePreset(c *gin.Context) {
	doc := config.Load(h.configPath)
	if err := doc.DeletePreset(c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	if err := doc.Save(h.configPath); err != nil {
		respondError(c, apperrors.NewInternalError("failed to save config", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"presets":       doc.Presets,
			"active_preset": doc.ActivePreset,
		},
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
