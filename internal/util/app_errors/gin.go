package app_errors

import (
	"errors"
	"net/http"

	"zidotask/internal/util/logger"

	"github.com/gin-gonic/gin"
)

// WriteError renders err as {"code", "error"}. Errors that are not an
// AppError are logged and reported as a generic internal error.
func WriteError(ctx *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		logger.GetLogger().Error(
			"Unhandled error",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":  string(KindInternal),
			"error": "internal error",
		})
		return
	}

	status := HTTPStatus(appErr)
	if status >= http.StatusInternalServerError {
		logger.GetLogger().Error(
			"Request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
		)
	}

	message := appErr.Message
	if appErr.Kind == KindInternal {
		message = "internal error"
	}

	ctx.JSON(status, gin.H{
		"code":  appErr.Code,
		"error": message,
	})
}

// AbortWithError writes the error and stops the handler chain.
func AbortWithError(ctx *gin.Context, err error) {
	WriteError(ctx, err)
	ctx.Abort()
}
