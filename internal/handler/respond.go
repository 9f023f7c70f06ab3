package handler

import (
	"net/http"

	"coachloop/internal/model"
	"coachloop/internal/service"

	"github.com/gin-gonic/gin"
)

func statusFor(kind service.FailureKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindEmptyResult:
		return http.StatusUnprocessableEntity
	case service.KindExtraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failureBody keeps persistence detail out of responses; the service already logged it.
func failureBody(err error) (int, model.SubmitResponse) {
	f := service.AsFailure(err)
	return statusFor(f.Kind), model.SubmitResponse{Message: f.Message, Issues: f.Issues}
}

func respondFailure(c *gin.Context, err error) {
	status, body := failureBody(err)
	c.JSON(status, body)
}
