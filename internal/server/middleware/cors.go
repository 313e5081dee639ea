package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
}

// CORS returns middleware that sets CORS headers and answers OPTIONS
// preflight requests.
func CORS(cfg *CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORSHeaders(c.Writer.Header(), c.GetHeader("Origin"), cfg)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setCORSHeaders writes CORS response headers if the origin is allowed.
// A "*" entry allows any origin.
func setCORSHeaders(h http.Header, origin string, cfg *CORSConfig) {
	allowed, echo := allowedOrigin(origin, cfg.AllowedOrigins)
	if !allowed {
		return
	}
	h.Set("Access-Control-Allow-Origin", echo)
	if len(cfg.AllowedMethods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
	}
	if len(cfg.AllowedHeaders) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
	}
	if cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

func allowedOrigin(origin string, allowed []string) (bool, string) {
	for _, a := range allowed {
		if a == "*" {
			// Allow-all must also cover non-browser callers that send no Origin.
			return true, "*"
		}
		if origin != "" && origin == a {
			return true, origin
		}
	}
	return false, ""
}
