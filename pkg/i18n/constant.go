package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL            = "error.internal"
	ERROR_NOTFOUND            = "error.notfound"
	ERROR_INVALIDARGUMENT     = "error.invalidargument"
	ERROR_UNAUTHORIZED        = "error.unauthorized"
	ERROR_TITLE_EXIST         = "error.title.exist"
	ERROR_TOO_MANY_REQUESTS   = "error.tooManyRequests"
	ERROR_UNSUPPORTED_FEATURE = "error.unsupported.feature"

	ERROR_EMAIL_ALREADY_REGISTED = "error.email_has_already_registed"
	ERROR_INVALID_TOKEN          = "error.invalid.token"
	ERROR_INVALID_ACCOUNT        = "error.invalid.account"

	ERROR_UPSTREAM_FETCH     = "error.upstream.fetch"
	ERROR_PARSE              = "error.parse"
	ERROR_AI_UNAVAILABLE     = "error.ai.unavailable"
	ERROR_INVALID_CONNECTION = "error.invalid.connection"
)
