package api

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gocrop/adapters/report"
	"gocrop/app"
	"gocrop/domain/stats"
	"gocrop/internal/errors"
)

type adviceRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ds, err := s.crops.Dataset()
	loaded := err == nil

	body := gin.H{
		"status":          "ok",
		"dataset_loaded":  loaded,
		"advisor_enabled": s.advisor != nil && s.advisor.Enabled(),
	}
	if loaded {
		body["records"] = ds.Len()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": s.crops.Catalog().Features()})
}

func (s *Server) handleDatasetSummary(c *gin.Context) {
	summary, err := s.crops.Summary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleDatasetUpload(c *gin.Context) {
	if c.Request.ContentLength > s.opts.UploadMaxBytes {
		s.respondError(c, errors.PayloadTooLarge(s.opts.UploadMaxBytes))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.UploadMaxBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(c, errors.PayloadTooLarge(s.opts.UploadMaxBytes))
			return
		}
		s.respondError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}

	f, err := header.Open()
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	ds, err := s.crops.Upload(c.Request.Context(), header.Filename, f)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"dataset": ds,
		"records": ds.Len(),
		"crops":   ds.Classes(),
	})
}

func (s *Server) handleDatasetReset(c *gin.Context) {
	ds, err := s.crops.Reset(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset": ds,
		"records": ds.Len(),
	})
}

func (s *Server) handleRankings(c *gin.Context) {
	sorted := false
	if raw := c.Query("sorted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(c, errors.ValidationError("sorted must be a boolean"))
			return
		}
		sorted = v
	}

	top := 0
	if raw := c.Query("top"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			s.respondError(c, errors.ValidationError("top must be a non-negative integer"))
			return
		}
		top = v
	}

	ctx := c.Request.Context()
	var (
		entries []stats.FeatureRankEntry
		err     error
	)
	if top > 0 {
		entries, err = s.crops.Recommend(ctx, top)
	} else {
		entries, err = s.crops.Rank(ctx, sorted)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rankings": entries})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req app.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid prediction request: "+err.Error()))
		return
	}

	result, err := s.crops.Predict(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAdvice(c *gin.Context) {
	if s.advisor == nil {
		s.respondError(c, errors.Unavailable("advisor is not available"))
		return
	}

	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.ValidationError("question is required"))
		return
	}

	resp, err := s.advisor.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "html"))
	if format != "html" && format != "md" {
		s.respondError(c, errors.ValidationError("format must be html or md"))
		return
	}

	ctx := c.Request.Context()
	summary, err := s.crops.Summary(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	ranking, err := s.crops.Rank(ctx, true)
	if err != nil {
		s.respondError(c, err)
		return
	}

	r := report.Report{GeneratedAt: time.Now(), Summary: summary, Ranking: ranking}
	if format == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", report.Markdown(r))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(r))
}

// respondError writes err as {"error": {"code", "message"}} with the status
// implied by its code. Errors without a known code are logged and reported as
// a bare internal error.
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if errors.GetCode(err) == errors.CodeUnknown {
		err = errors.InternalError("internal server error")
	}
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    errors.GetCode(err),
			"message": err.Error(),
		},
	})
}
