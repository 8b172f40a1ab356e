package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goclean/adapters/excel"
	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/internal/errors"
	"goclean/internal/report"
	"goclean/ports"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"history": s.service.HistoryEnabled(),
	})
}

// handleClean cleans a JSON payload {"data": ..., "options": ...}
func (s *Server) handleClean(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes))
	if err != nil {
		respondError(c, errors.InvalidInput(fmt.Sprintf("failed to read request body: %v", err)))
		return
	}

	payload, err := s.payloads.Parse(body)
	if err != nil {
		respondError(c, decodeError(err))
		return
	}

	result, err := s.service.Clean(c.Request.Context(), payload.Dataset, payload.Options)
	respondResult(c, result, err)
}

// handleUpload cleans an uploaded CSV or XLSX file. Options may be sent as
// a JSON document in the "options" form field.
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, errors.InvalidInput(fmt.Sprintf("no file uploaded: %v", err)))
		return
	}
	defer file.Close()

	if !excel.IsSupported(header.Filename) {
		respondError(c, errors.InvalidInput("only .csv, .xlsx and .xlsm files are supported"))
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(c, errors.InvalidInput(fmt.Sprintf("failed to read upload: %v", err)))
		return
	}

	opts, err := s.payloads.ParseOptionsJSON(c.PostForm("options"))
	if err != nil {
		respondError(c, decodeError(err))
		return
	}

	ds, err := excel.NewDataReaderFromBytes(header.Filename, content, excel.DefaultReaderConfig()).Load(c.Request.Context())
	if err != nil {
		respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	result, err := s.service.Clean(c.Request.Context(), ds, opts)
	respondResult(c, result, err)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes))
	if err != nil {
		respondError(c, errors.InvalidInput(fmt.Sprintf("failed to read request body: %v", err)))
		return
	}

	payload, err := s.payloads.Parse(body)
	if err != nil {
		respondError(c, decodeError(err))
		return
	}

	issues, err := s.service.Analyze(c.Request.Context(), payload.Dataset, payload.Options)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

func (s *Server) handleListRuns(c *gin.Context) {
	filters := ports.RunFilters{Limit: ports.DefaultRunLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(c, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		filters.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondError(c, errors.InvalidInput("offset must be a non-negative integer"))
			return
		}
		filters.Offset = offset
	}
	if raw := c.Query("status"); raw != "" {
		status := cleaning.RunStatus(raw)
		if status != cleaning.RunStatusSucceeded && status != cleaning.RunStatusFailed {
			respondError(c, errors.InvalidInput("status must be succeeded or failed"))
			return
		}
		filters.Status = &status
	}

	runs, err := s.service.ListRuns(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleRunReport(c *gin.Context) {
	run, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(run))
}

func (s *Server) lookupRun(c *gin.Context) (*cleaning.Run, bool) {
	if !s.service.HistoryEnabled() {
		respondError(c, errors.Unavailable("run history is disabled"))
		return nil, false
	}

	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return nil, false
	}

	run, err := s.service.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return run, true
}
