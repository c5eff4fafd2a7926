package petstoreserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-pet-api/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.DefaultResponder.Respond(c, problem)
}
