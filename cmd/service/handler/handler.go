package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/breeew/stellar-api/internal/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
