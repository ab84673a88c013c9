package response

import (
	"errors"
	"log"
	"net/http"

	"anoa.com/schoolhub/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// Error writes a standardized failure body. Field-validation failures render
// as {"errors": [{"message": ...}, ...]}; everything else as {"error": ...}.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	var valErr *apperror.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(code, gin.H{"errors": valErr.Errors})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
