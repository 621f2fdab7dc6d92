// SPDX-License-Identifier: MIT

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/katalvlaran/wayfind/congestion"
	"github.com/katalvlaran/wayfind/core"
	"github.com/katalvlaran/wayfind/navigator"
)

const (
	qrDefaultSize = 256
	qrMinSize     = 64
	qrMaxSize     = 1024
)

type navigateRequest struct {
	StartNodeID string `json:"startNodeId" binding:"omitempty,locid"`
	EndNodeID   string `json:"endNodeId" binding:"omitempty,locid"`
	QRID        string `json:"qrId" binding:"omitempty,max=128"`
	IsEmergency bool   `json:"isEmergency"`
}

type navigateResponse struct {
	RequestID string          `json:"requestId"`
	Mode      navigator.Mode  `json:"mode"`
	Path      []core.Location `json:"path"`
	Cost      float64         `json:"cost"`
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}
	route, err := s.engine.Navigate(c.Request.Context(), navigator.Request{
		StartID:   req.StartNodeID,
		EndID:     req.EndNodeID,
		QRID:      req.QRID,
		Emergency: req.IsEmergency,
	})
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, navigateResponse{
		RequestID: c.GetString(requestIDKey),
		Mode:      route.Mode,
		Path:      route.Locations,
		Cost:      route.Cost,
	})
}

type crowdUpdateRequest struct {
	NodeID string `json:"nodeId" binding:"required,locid"`
	Count  *int   `json:"count" binding:"required,min=0"`
}

type crowdUpdateResponse struct {
	Message string                 `json:"message"`
	Data    congestion.Observation `json:"data"`
}

func (s *Server) handleCrowdUpdate(c *gin.Context) {
	var req crowdUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}
	obs, err := s.engine.RecordCongestion(c.Request.Context(), req.NodeID, *req.Count)
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, crowdUpdateResponse{Message: "Crowd density updated", Data: obs})
}

func (s *Server) handleCrowdStatus(c *gin.Context) {
	obs, err := s.engine.CrowdStatus(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}
	if obs == nil {
		obs = []congestion.Observation{}
	}
	c.JSON(http.StatusOK, obs)
}

type position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Floor int     `json:"floor"`
}

type qrResponse struct {
	NodeID   string   `json:"nodeId"`
	Position position `json:"position"`
	Message  string   `json:"message"`
}

func (s *Server) handleQR(c *gin.Context) {
	loc, err := s.engine.ResolveQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, qrResponse{
		NodeID:   loc.ID,
		Position: position{X: loc.X, Y: loc.Y, Floor: loc.Floor},
		Message:  "You are at " + loc.DisplayName(),
	})
}

// handleQRCode renders the QR id as a PNG for printing on signage.
func (s *Server) handleQRCode(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.engine.ResolveQR(c.Request.Context(), id); err != nil {
		s.fail(c, err)

		return
	}
	png, err := qrcode.Encode(id, qrcode.Medium, qrSize(c.Query("size")))
	if err != nil {
		s.fail(c, err)

		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}

// qrSize parses the size query, clamped to [qrMinSize, qrMaxSize].
func qrSize(raw string) int {
	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		return qrDefaultSize
	case n < qrMinSize:
		return qrMinSize
	case n > qrMaxSize:
		return qrMaxSize
	default:
		return n
	}
}

func (s *Server) handleReload(c *gin.Context) {
	st, err := s.engine.Reload(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Graph reloaded", "stats": st})
}

func (s *Server) handleStats(c *gin.Context) {
	st, err := s.engine.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleAudit(c *gin.Context) {
	a, err := s.engine.Audit(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *Server) handleLocations(c *gin.Context) {
	locs, err := s.engine.Locations(c.Request.Context())
	if err != nil {
		s.fail(c, err)

		return
	}
	c.JSON(http.StatusOK, locs)
}
