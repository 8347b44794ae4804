package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s0up4200/experian/endpoints"
	"github.com/s0up4200/experian/experian"
	"github.com/s0up4200/experian/experian/business"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"authenticated": s.registry.Client().Authenticated(),
	})
}

func (s *Server) handleHeaders(c *gin.Context) {
	resp, err := s.registry.Business.Headers(c.Request.Context(), business.BINRequest{
		BIN:     c.Param("bin"),
		Subcode: s.cfg.Subcode,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", resp.Body)
}

func (s *Server) handleRelay(c *gin.Context) {
	ep, err := s.registry.Lookup(c.Param("family"), c.Param("endpoint"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var body any
	if len(raw) > 0 {
		if !json.Valid(raw) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
			return
		}
		body = json.RawMessage(raw)
	}

	result, err := ep.Call(c.Request.Context(), body)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", result)
}

// writeError maps client errors to relay responses. Experian's own error
// bodies are passed through untouched.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		domErr  *experian.DomainError
		authErr *experian.AuthenticationError
		tErr    *experian.TransportError
	)

	switch {
	case errors.Is(err, endpoints.ErrUnknownEndpoint):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, experian.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, experian.ErrValidation), errors.Is(err, experian.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &domErr):
		status := domErr.StatusCode
		if status == http.StatusOK {
			status = http.StatusUnprocessableEntity
		}
		contentType := "application/json"
		if !json.Valid(domErr.Body) {
			contentType = "text/plain; charset=utf-8"
		}
		c.Data(status, contentType, domErr.Body)
	case errors.As(err, &authErr), errors.As(err, &tErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}

	s.logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
}
