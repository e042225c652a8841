package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
)

func RegisterAllocationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAllocations)
		r.GET("", GetAllocations)
		r.POST("", CreateAllocation)
	}
	{
		r.OPTIONS("/:id", OptionsAllocationDetail)
		r.PUT("/:id", UpdateAllocation)
		r.DELETE("/:id", DeleteAllocation)
	}
	{
		r.OPTIONS("/material/:id", httputil.OptionsGet)
		r.GET("/material/:id", GetMaterialAllocations)
	}
	{
		r.OPTIONS("/machine/:id/history", httputil.OptionsGet)
		r.GET("/machine/:id/history", GetMachineHistory)
	}
	{
		r.OPTIONS("/factory/:id", httputil.OptionsGet)
		r.GET("/factory/:id", GetFactoryAllocations)
	}
}

// factoryScope returns the optional factory scope for an allocation
// operation, nil when no factory was submitted.
func factoryScope(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}

	return &id
}

// actor returns the optional acting user for an allocation operation, nil
// when no user was submitted.
func actor(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}

	return &id
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/allocations [options]
func OptionsAllocations(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [options]
func OptionsAllocationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Allocation{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPutDelete(c)
}

// @Summary		Allocate stock
// @Description	Assigns stock of a material to one or more machines. For a machine that already has an allocation of the material, the submitted quantity replaces the current one. The material's stock is reduced by the sum of all submitted quantities, all within a single transaction.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocateResponse
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			allocation	body		AllocationRequest	true	"Allocation"
// @Router			/v1/allocations [post]
func CreateAllocation(c *gin.Context) {
	var request AllocationRequest

	// Bind data and return error if not possible
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	updatedStock, err := models.Allocate(
		request.MaterialID,
		request.items(),
		actor(request.UserID),
		factoryScope(request.FactoryID),
	)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AllocateResponse{
		Message:      "Stock allocated successfully",
		UpdatedStock: updatedStock,
	})
}

// @Summary		Get allocations
// @Description	Returns a list of allocations, most recently updated first, with material and machine populated
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		400	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Router			/v1/allocations [get]
// @Param			factory	query	string	false	"Only allocations to machines of this factory"
// @Param			page	query	int		false	"The page to return. Defaults to 1."
// @Param			limit	query	int		false	"Maximum number of allocations per page. Defaults to 10, capped at 100."
func GetAllocations(c *gin.Context) {
	var filter AllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	modelFilter := filter.filter()

	allocations, count, err := models.ListAllocations(modelFilter)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	page, limit, _ := modelFilter.Paginate()
	c.JSON(http.StatusOK, AllocationListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get allocations for a material
// @Description	Returns all allocations of one material with machine details and history
// @Tags			Allocations
// @Produce		json
// @Success		200	{array}		Allocation
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			factory	query	string	false	"Only allocations to machines of this factory"
// @Router			/v1/allocations/material/{id} [get]
func GetMaterialAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var query struct {
		Factory ps_uuid.UUID `form:"factory"`
	}
	if err := c.Bind(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	allocations, err := models.AllocationsForMaterial(uri.ID.UUID, factoryScope(query.Factory.UUID))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, data)
}

// @Summary		Get allocation history of a machine
// @Description	Returns all allocations of one machine with their full history and material details
// @Tags			Allocations
// @Produce		json
// @Success		200	{array}		Allocation
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			factory	query	string	false	"The factory the machine is expected to belong to"
// @Router			/v1/allocations/machine/{id}/history [get]
func GetMachineHistory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var query struct {
		Factory ps_uuid.UUID `form:"factory"`
	}
	if err := c.Bind(&query); err != nil {
		c.JSON(http.StatusBadRequest, httpError{
			Error: err.Error(),
		})
		return
	}

	allocations, err := models.MachineStockHistory(uri.ID.UUID, factoryScope(query.Factory.UUID))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	c.JSON(http.StatusOK, data)
}

// @Summary		Get allocations of a factory
// @Description	Returns a list of all allocations to machines of one factory
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationListResponse
// @Failure		404	{object}	AllocationListResponse
// @Failure		500	{object}	AllocationListResponse
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			page	query	int		false	"The page to return. Defaults to 1."
// @Param			limit	query	int		false	"Maximum number of allocations per page. Defaults to 10, capped at 100."
// @Router			/v1/allocations/factory/{id} [get]
func GetFactoryAllocations(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	var filter AllocationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationListResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.First(&models.Factory{}, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	modelFilter := filter.filter()
	modelFilter.FactoryID = &uri.ID.UUID

	allocations, count, err := models.ListAllocations(modelFilter)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		data = append(data, newAllocation(c, allocation))
	}

	page, limit, _ := modelFilter.Paginate()
	c.JSON(http.StatusOK, AllocationListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Update allocation
// @Description	Sets an existing allocation to a new quantity. The difference is booked against the material's stock within a single transaction.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationUpdateResponse
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			allocation	body		AllocationUpdateRequest	true	"Allocation update"
// @Router			/v1/allocations/{id} [put]
func UpdateAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var request AllocationUpdateRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	allocation, updatedStock, err := models.UpdateAllocation(
		uri.ID.UUID,
		request.AllocatedStock,
		actor(request.UserID),
		request.Comment,
		factoryScope(request.FactoryID),
	)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AllocationUpdateResponse{
		Message:              "Allocation updated successfully",
		Allocation:           newAllocation(c, allocation),
		UpdatedMaterialStock: updatedStock,
	})
}

// @Summary		Delete allocation
// @Description	Deletes an allocation and returns its full quantity to the material's stock. The allocation's history is deleted with it.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationDeleteResponse
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/allocations/{id} [delete]
func DeleteAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = models.DeleteAllocation(uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AllocationDeleteResponse{
		Message: "Allocation deleted and stock returned",
	})
}
