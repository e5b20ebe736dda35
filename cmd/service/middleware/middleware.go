package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/breeew/stellar-api/internal/core"
	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
)

const (
	AUTHORIZATION_HEADER_KEY = "Authorization"
	SESSION_COOKIE_KEY       = "session"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

// Metrics records the latency of every request by its route pattern.
func Metrics(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		core.Metrics().ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(c *gin.Context) string {
	if v := c.GetHeader(AUTHORIZATION_HEADER_KEY); v != "" {
		token, found := strings.CutPrefix(v, "Bearer ")
		if found {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, _ := c.Cookie(SESSION_COOKIE_KEY)
	return token
}

func Authorization(core *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.APIError(c, errors.New(tracePrefix+".sessionToken", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := core.Srv().Signer().Verify(token)
		if err != nil {
			response.APIError(c, errors.New(tracePrefix+".Signer.Verify", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
			return
		}

		// tokens of another deployment mode are not accepted
		if claims.Appid != core.DefaultAppid() || claims.User == "" {
			response.APIError(c, errors.New(tracePrefix+".Appid", i18n.ERROR_INVALID_TOKEN, nil).Code(http.StatusUnauthorized))
			return
		}

		c.Set(v1.TOKEN_CONTEXT_KEY, *claims)
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Request-Id")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type, X-Request-Id")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// UseLimit rejects the request once the limiter of the generated key is
// drained. limit is the number of requests allowed per minute.
func UseLimit(core *core.Core, operation string, limit int, genKeyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !core.UseLimiter(genKeyFunc(c), operation, limit).Allow() {
			response.APIError(c, errors.New("middleware.limiter."+operation, i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
