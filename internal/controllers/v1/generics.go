package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS
// request for a specific resource.
func resourceOptionsDetail[R models.Factory | models.Machine | models.Material | models.Supplier | models.PurchaseOrder](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
