package response

import "github.com/gin-gonic/gin"

// Detail writes the API's error body: {"detail": "..."} with the given
// status.
func Detail(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"detail": message})
}
