package response

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/utils"
)

const (
	REQUEST_ID_KEY    = "__stellar.request_id"
	LOCALIZER_KEY     = "__stellar.localizer"
	LANGUAGE_KEY      = "__stellar.accept_language"
	REQUEST_ID_HEADER = "X-Request-Id"
)

type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type Body struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewResponse tags every request with a request id, reusing the one sent
// by the client when present.
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = utils.RandomStr(16)
		}
		c.Set(REQUEST_ID_KEY, requestID)
		c.Header(REQUEST_ID_HEADER, requestID)
	}
}

func ProvideResponseLocalizer(l *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LOCALIZER_KEY, l)

		lang := i18n.DEFAULT_LANG
		if tags := utils.ParseAcceptLanguage(c.GetHeader("Accept-Language")); len(tags) > 0 {
			if strings.HasPrefix(tags[0].Tag, "zh") {
				lang = "zh-CN"
			}
		}
		c.Set(LANGUAGE_KEY, lang)
	}
}

func localize(c *gin.Context, id string) string {
	l, ok := c.Value(LOCALIZER_KEY).(*i18n.Localizer)
	if !ok {
		return id
	}
	return l.Get(c.GetString(LANGUAGE_KEY), id)
}

func APISuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{
		Meta: Meta{
			Code:      http.StatusOK,
			Message:   "success",
			RequestID: c.GetString(REQUEST_ID_KEY),
		},
		Data: data,
	})
}

func APIError(c *gin.Context, err error) {
	var (
		code = http.StatusInternalServerError
		msg  = i18n.ERROR_INTERNAL
		ce   *errors.CustomizedError
	)
	if errors.As(err, &ce) {
		code = ce.HTTPCode()
		msg = ce.Message()
	}

	attrs := []any{
		slog.String("request_id", c.GetString(REQUEST_ID_KEY)),
		slog.String("path", c.Request.URL.Path),
		slog.Int("code", code),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", attrs...)
	} else {
		slog.Debug("request rejected", attrs...)
	}

	c.AbortWithStatusJSON(code, Body{
		Meta: Meta{
			Code:      code,
			Message:   localize(c, msg),
			RequestID: c.GetString(REQUEST_ID_KEY),
		},
	})
}
