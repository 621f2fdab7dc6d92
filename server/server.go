// SPDX-License-Identifier: MIT

// Package server exposes a navigator.Engine over HTTP with gin.
//
// Routes:
//
//	POST /api/navigate           route request
//	POST /api/crowd/update       occupancy report
//	GET  /api/crowd/status       persisted observations
//	GET  /api/qr/:id             QR code → location
//	GET  /api/qr/:id/code.png    printable QR label
//	POST /api/graph/reload       reload the building
//	GET  /api/graph/stats        snapshot counts
//	GET  /api/graph/audit        evacuation audit
//	GET  /api/locations          destination list
//	GET  /debug/vars             expvar metrics
//	GET  /health                 liveness
package server

import (
	"expvar"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/wayfind/navigator"
)

// Options configures a Server.
type Options struct {
	// CORSOrigins lists allowed origins; empty or "*" allows any.
	CORSOrigins []string

	Logger *log.Logger
}

// Server routes HTTP requests to an Engine.
type Server struct {
	engine *navigator.Engine
	logger *log.Logger
	router *gin.Engine
}

// New builds the router. It registers the locid validation tag on gin's
// validator the first time it runs.
func New(engine *navigator.Engine, opts Options) *Server {
	registerValidators()

	s := &Server{engine: engine, logger: opts.Logger}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	api := r.Group("/api")
	api.POST("/navigate", s.handleNavigate)
	api.POST("/crowd/update", s.handleCrowdUpdate)
	api.GET("/crowd/status", s.handleCrowdStatus)
	api.GET("/qr/:id", s.handleQR)
	api.GET("/qr/:id/code.png", s.handleQRCode)
	api.POST("/graph/reload", s.handleReload)
	api.GET("/graph/stats", s.handleStats)
	api.GET("/graph/audit", s.handleAudit)
	api.GET("/locations", s.handleLocations)

	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.router = r

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	config.MaxAge = 12 * time.Hour

	all := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			all = true
		}
	}
	if all {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	return config
}
