package response

import "github.com/gin-gonic/gin"

const (
	CodeOK             = 0
	CodeBadRequest     = 40000
	CodeAdminImmutable = 40001
	CodeUnauthorized   = 40100
	CodeInvalidToken   = 40101
	CodeBadCredentials = 40102
	CodeForbidden      = 40300
	CodePendingUser    = 40301
	CodeAdminOnly      = 40302
	CodeNotFound       = 40400
	CodeUserNotFound   = 40401
	CodeNoSuchProject  = 40402
	CodeConflict       = 40900
	CodeUsernameExists = 40901
	CodeEmailExists    = 40902
	CodeProjectExists  = 40903
	CodeInternalServer = 50000
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
