package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，Code/100 与HTTP状态码一致
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationData 校验失败时返回的逐条信息
type ValidationData struct {
	Messages []string `json:"messages"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功，写入Location头
func Created(c *gin.Context, location string, data interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// NoContent 无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	result, err := useCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只写日志，不返回给客户端
	if appErr.Err != nil {
		logrus.WithFields(logrus.Fields{
			"code":       appErr.Code,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).WithError(appErr.Err).Error("request failed")
	}

	var data interface{}
	if len(appErr.Details) > 0 {
		data = ValidationData{Messages: appErr.Details}
	}

	c.JSON(appErr.Status(), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    data,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// Abort 错误响应并中断后续handler（中间件使用）
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
