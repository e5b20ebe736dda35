package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

func (s *HttpSrv) GetGraph(c *gin.Context) {
	g, err := v1.NewGraphLogic(c, s.Core).Graph()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, g)
}

type ConnectRequest struct {
	Source       string `json:"source" binding:"required"`
	Target       string `json:"target" binding:"required"`
	Relationship string `json:"relationship"`
	EdgeType     string `json:"edgeType"`
}

func (s *HttpSrv) Connect(c *gin.Context) {
	var (
		err error
		req ConnectRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	conn, err := v1.NewGraphLogic(c, s.Core).Connect(req.Source, req.Target, req.Relationship, req.EdgeType)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, conn)
}

type DisconnectRequest struct {
	Source string `json:"source" form:"source" binding:"required"`
	Target string `json:"target" form:"target" binding:"required"`
}

func (s *HttpSrv) Disconnect(c *gin.Context) {
	var (
		err error
		req DisconnectRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewGraphLogic(c, s.Core).Disconnect(req.Source, req.Target); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteEdge(c *gin.Context) {
	if err := v1.NewGraphLogic(c, s.Core).DeleteEdge(c.Param("edgeid")); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) MoveNode(c *gin.Context) {
	var (
		err error
		req types.Position
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewGraphLogic(c, s.Core).MoveNode(c.Param("id"), req); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
