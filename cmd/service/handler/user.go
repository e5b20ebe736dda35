package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/response"
	"github.com/breeew/stellar-api/pkg/utils"
)

type SignupRequest struct {
	Name        string `json:"name" form:"name" binding:"max=64"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Password    string `json:"password" form:"password" binding:"required,min=6"`
	Demographic string `json:"demographic" form:"demographic"`
}

type SignupResponse struct {
	UserID string `json:"user_id"`
}

func (s *HttpSrv) Signup(c *gin.Context) {
	var (
		err error
		req SignupRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewUserLogic(c, s.Core).Signup(req.Name, req.Email, req.Password, req.Demographic)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, SignupResponse{UserID: id})
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (s *HttpSrv) Login(c *gin.Context) {
	var (
		err error
		req LoginRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewUserLogic(c, s.Core).Login(req.Email, req.Password)
	if err != nil {
		response.APIError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("session", res.Token, int(time.Until(time.Unix(res.ExpiresAt, 0)).Seconds()), "/", "", false, true)
	response.APISuccess(c, res)
}

type UserInfoResponse struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	Demographic string `json:"demographic"`
	ServiceMode string `json:"service_mode"`
}

func (s *HttpSrv) GetUser(c *gin.Context) {
	user, err := v1.NewUserLogic(c, s.Core).Profile()
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, UserInfoResponse{
		UserID:      user.ID,
		UserName:    user.Name,
		Email:       user.Email,
		Demographic: string(user.Demographic),
		ServiceMode: s.Core.Plugins.Name(),
	})
}

type UpdateDemographicRequest struct {
	Demographic string `json:"demographic" form:"demographic" binding:"required"`
}

func (s *HttpSrv) UpdateDemographic(c *gin.Context) {
	var (
		err error
		req UpdateDemographicRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err = v1.NewUserLogic(c, s.Core).UpdateDemographic(req.Demographic); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}
