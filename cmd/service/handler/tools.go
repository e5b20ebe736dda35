package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/utils"
)

type ToolsReaderRequest struct {
	Endpoint string `json:"endpoint" form:"endpoint" binding:"required"`
}

func (s *HttpSrv) ToolsReader(c *gin.Context) {
	var (
		err error
		req ToolsReaderRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewPaperLogic(c, s.Core).Reader(req.Endpoint)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}
