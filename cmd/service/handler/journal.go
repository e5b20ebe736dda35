package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

func (s *HttpSrv) ListJournal(c *gin.Context) {
	list, err := v1.NewJournalLogic(c, s.Core).List()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, list)
}

type CreateJournalRequest struct {
	Paper       types.JournalPaper    `json:"paper"`
	Category    types.JournalCategory `json:"category"`
	Annotations types.Annotations     `json:"annotations"`
	Position    *types.Position       `json:"position"`
}

type CreateJournalResponse struct {
	ID string `json:"id"`
}

func (s *HttpSrv) CreateJournal(c *gin.Context) {
	var (
		err error
		req CreateJournalRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewJournalLogic(c, s.Core).Save(v1.SaveJournalEntryArgs{
		Paper:       req.Paper,
		Category:    req.Category,
		Annotations: req.Annotations,
		Position:    req.Position,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, CreateJournalResponse{ID: id})
}

func (s *HttpSrv) GetJournal(c *gin.Context) {
	entry, err := v1.NewJournalLogic(c, s.Core).Get(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, entry)
}

type UpdateJournalRequest struct {
	Paper       *types.JournalPaper    `json:"paper"`
	Category    *types.JournalCategory `json:"category"`
	Annotations *types.Annotations     `json:"annotations"`
	Position    *types.Position        `json:"position"`
}

func (s *HttpSrv) UpdateJournal(c *gin.Context) {
	var (
		err error
		req UpdateJournalRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err = v1.NewJournalLogic(c, s.Core).Update(c.Param("id"), v1.UpdateJournalEntryArgs{
		Paper:       req.Paper,
		Category:    req.Category,
		Annotations: req.Annotations,
		Position:    req.Position,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteJournal(c *gin.Context) {
	if err := v1.NewJournalLogic(c, s.Core).Delete(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type AddAnnotationRequest struct {
	Text        string `json:"text" binding:"required,max=10000"`
	AIGenerated bool   `json:"aiGenerated"`
}

func (s *HttpSrv) AddAnnotation(c *gin.Context) {
	var (
		err error
		req AddAnnotationRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	annotation, err := v1.NewJournalLogic(c, s.Core).AddAnnotation(c.Param("id"), req.Text, req.AIGenerated)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, annotation)
}

type JournalSavedRequest struct {
	Title string `form:"title" binding:"required"`
}

type JournalSavedResponse struct {
	Saved bool   `json:"saved"`
	ID    string `json:"id,omitempty"`
}

func (s *HttpSrv) JournalSaved(c *gin.Context) {
	var (
		err error
		req JournalSavedRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	saved, id, err := v1.NewJournalLogic(c, s.Core).IsSaved(req.Title)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, JournalSavedResponse{
		Saved: saved,
		ID:    id,
	})
}
