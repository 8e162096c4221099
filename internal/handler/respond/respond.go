/**
 * 处理器:响应辅助
 * @description: 统一的Gin响应写出。成功与失败走同一响应结构,
 *               编辑器保存的校验失败单独降级为字段级错误
 * @func: Success、Error、ValidationFailed
 */
package respond

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"adminboard/internal/model"

	"github.com/gin-gonic/gin"
)

// Success 写出成功响应
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error 写出错误响应
func Error(c *gin.Context, statusCode int, message string, err error) {
	resp := model.APIResponse{
		Code:    statusCode,
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// ValidationFailed 写出字段级校验错误响应
func ValidationFailed(c *gin.Context, ve *model.ValidationError) {
	c.JSON(http.StatusBadRequest, model.APIResponse{
		Code:    http.StatusBadRequest,
		Status:  "error",
		Message: "validation failed",
		Errors:  []model.ValidationError{*ve},
	})
}

// PathID 解析路径中的数字ID参数
// 解析失败时已写出400响应,调用方直接return即可
func PathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// BusinessError 按错误内容映射状态码后写出
// "not found"类错误映射404,字段校验错误映射400,其余按500处理
func BusinessError(c *gin.Context, message string, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		ValidationFailed(c, ve)
		return
	}
	if strings.Contains(err.Error(), "not found") {
		Error(c, http.StatusNotFound, message, err)
		return
	}
	Error(c, http.StatusInternalServerError, message, err)
}
