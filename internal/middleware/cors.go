package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const corsPreflightMaxAge = 10 * time.Minute

var (
	corsAllowMethods  = strings.Join([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, ", ")
	corsAllowHeaders  = strings.Join([]string{"Authorization", "Content-Type", requestIDHeader}, ", ")
	corsExposeHeaders = requestIDHeader
)

// corsPolicy answers which origin value, if any, a response may echo back.
// An empty allowlist or a "*" entry opens the API to every origin.
type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newCORSPolicy(allowlist []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowlist))}
	for _, origin := range allowlist {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	if len(p.origins) == 0 {
		p.any = true
	}
	return p
}

func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	if p.any {
		return "*", true
	}
	if _, ok := p.origins[origin]; ok {
		return origin, true
	}
	return "", false
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// CORS applies the origin allowlist. Preflight requests are answered here and
// never reach the routes.
func CORS(allowlist []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowlist)
	maxAge := strconv.Itoa(int(corsPreflightMaxAge / time.Second))
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if !policy.any {
			h.Add("Vary", "Origin")
		}
		allowed, ok := policy.allowOrigin(c.GetHeader("Origin"))
		if ok {
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
		}
		if !isPreflight(c.Request) {
			c.Next()
			return
		}
		if ok {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}
