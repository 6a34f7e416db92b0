package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard envelope. Controllers pass "success" or
// "error" as status; errors is nil on the success path.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}
