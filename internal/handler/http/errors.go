package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"flow-board/internal/engine"
	"flow-board/internal/service"
)

// HandleServiceError 把服务层错误转换为 HTTP 响应。
// 校验错误以字符串数组返回，其它错误返回 {"error": "..."}。
func HandleServiceError(c *gin.Context, err error) {
	var verrs engine.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, []string(verrs))
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRegistrationFailed), errors.Is(err, service.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBoardNotFound):
		ErrorResponse(c, http.StatusNotFound, "Game board not found")
	case errors.Is(err, service.ErrSolutionNotFound):
		ErrorResponse(c, http.StatusNotFound, "Solution not found")
	case errors.Is(err, service.ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, "User not found")
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// HandleBindingError 把请求体绑定错误转换为 {字段: 信息} 对象
func HandleBindingError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[jsonFieldName(fe.Field())] = describeTag(fe)
	}
	c.JSON(http.StatusBadRequest, details)
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value is at most %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	}
	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}
