package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

type ListPapersRequest struct {
	Keywords string   `json:"keywords" form:"keywords"`
	Tags     []string `json:"tags" form:"tags"`
	Page     uint64   `json:"page" form:"page"`
	PageSize uint64   `json:"pagesize" form:"pagesize" binding:"max=100"`
}

type ListPapersResponse struct {
	List  []types.Paper `json:"list"`
	Total int           `json:"total"`
}

func (s *HttpSrv) ListPapers(c *gin.Context) {
	var (
		err error
		req ListPapersRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	list, total := v1.NewDatasetLogic(c, s.Core).List(req.Keywords, req.Tags, req.Page, req.PageSize)
	response.APISuccess(c, ListPapersResponse{
		List:  list,
		Total: total,
	})
}

type SearchPapersRequest struct {
	Prompt      string `json:"prompt" form:"prompt" binding:"required,max=1000"`
	Demographic string `json:"demographic" form:"demographic"`
}

func (s *HttpSrv) SearchPapers(c *gin.Context) {
	var (
		err error
		req SearchPapersRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewDatasetLogic(c, s.Core).Search(req.Prompt, req.Demographic)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ListPapersResponse{
		List:  list,
		Total: len(list),
	})
}

type PaperDetailRequest struct {
	Title       string `json:"title" form:"title"`
	Index       *int   `json:"index" form:"index"`
	Link        string `json:"link" form:"link"`
	Demographic string `json:"demographic" form:"demographic"`
}

func (s *HttpSrv) PaperDetail(c *gin.Context) {
	var (
		err error
		req PaperDetailRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	detail, err := v1.NewPaperLogic(c, s.Core).Detail(v1.PaperQuery{
		Title: req.Title,
		Index: req.Index,
		Link:  req.Link,
	}, req.Demographic)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, detail)
}
