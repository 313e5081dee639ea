package api

import "github.com/gin-gonic/gin"

// Register mounts the service routes on the engine. OPTIONS preflight for
// /process and /suggestions is answered by the CORS middleware, which runs
// before routing for every method.
func (h *Handlers) Register(e *gin.Engine) {
	e.POST("/transcribe", h.Transcribe)
	e.POST("/process", h.Process)
	e.POST("/suggestions", h.Suggestions)
	e.GET("/health", h.Health)
}
