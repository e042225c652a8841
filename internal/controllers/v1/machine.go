package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
)

func RegisterMachineRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMachines)
		r.GET("", GetMachines)
		r.POST("", CreateMachines)
	}
	{
		r.OPTIONS("/:id", OptionsMachineDetail)
		r.GET("/:id", GetMachine)
		r.PATCH("/:id", UpdateMachine)
		r.DELETE("/:id", DeleteMachine)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Machines
// @Success		204
// @Router			/v1/machines [options]
func OptionsMachines(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Machines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/machines/{id} [options]
func OptionsMachineDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Machine{})
}

// @Summary		Create machines
// @Description	Creates new machines
// @Tags			Machines
// @Produce		json
// @Success		201			{object}	MachineCreateResponse
// @Failure		400			{object}	MachineCreateResponse
// @Failure		404			{object}	MachineCreateResponse
// @Failure		500			{object}	MachineCreateResponse
// @Param			machines	body		[]MachineEditable	true	"Machines"
// @Router			/v1/machines [post]
func CreateMachines(c *gin.Context) {
	var editables []MachineEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := MachineCreateResponse{}

	for _, editable := range editables {
		machine := editable.model()
		err = models.DB.Create(&machine).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newMachine(c, machine)
		r.Data = append(r.Data, MachineResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get machines
// @Description	Returns a list of machines
// @Tags			Machines
// @Produce		json
// @Success		200	{object}	MachineListResponse
// @Failure		400	{object}	MachineListResponse
// @Failure		500	{object}	MachineListResponse
// @Router			/v1/machines [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			factory	query	string	false	"Filter by factory ID"
// @Param			page	query	int		false	"The page to return. Defaults to 1."
// @Param			limit	query	int		false	"Maximum number of machines per page. Defaults to 10, capped at 100."
func GetMachines(c *gin.Context) {
	var filter MachineQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, MachineListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("machines.name ASC")
	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	if filter.Factory != ps_uuid.Nil {
		q = q.Where("machines.factory_id = ?", filter.Factory.UUID)
	}

	page, limit, offset := paginate(filter.Page, filter.Limit)
	q = q.Offset(offset).Limit(limit)

	var machines []models.Machine
	err := q.Find(&machines).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MachineListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MachineListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Machine, 0, len(machines))
	for _, machine := range machines {
		data = append(data, newMachine(c, machine))
	}

	c.JSON(http.StatusOK, MachineListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get machine
// @Description	Returns a specific machine
// @Tags			Machines
// @Produce		json
// @Success		200	{object}	MachineResponse
// @Failure		400	{object}	MachineResponse
// @Failure		404	{object}	MachineResponse
// @Failure		500	{object}	MachineResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/machines/{id} [get]
func GetMachine(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	var machine models.Machine
	err = models.DB.First(&machine, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	apiResource := newMachine(c, machine)
	c.JSON(http.StatusOK, MachineResponse{Data: &apiResource})
}

// @Summary		Update machine
// @Description	Updates an existing machine. Only values to be updated need to be specified.
// @Tags			Machines
// @Accept			json
// @Produce		json
// @Success		200		{object}	MachineResponse
// @Failure		400		{object}	MachineResponse
// @Failure		404		{object}	MachineResponse
// @Failure		500		{object}	MachineResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			machine	body		MachineEditable	true	"Machine"
// @Router			/v1/machines/{id} [patch]
func UpdateMachine(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	var machine models.Machine
	err = models.DB.First(&machine, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, MachineEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	var data MachineEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&machine).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MachineResponse{
			Error: &e,
		})
		return
	}

	apiResource := newMachine(c, machine)
	c.JSON(http.StatusOK, MachineResponse{Data: &apiResource})
}

// @Summary		Delete machine
// @Description	Deletes a machine. Allocations for the machine must be deleted first.
// @Tags			Machines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/machines/{id} [delete]
func DeleteMachine(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var machine models.Machine
	err = models.DB.First(&machine, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Machines with stock still allocated to them cannot be deleted, the
	// stock would be lost without a trace
	var count int64
	err = models.DB.Model(&models.Allocation{}).Where("machine_id = ?", machine.ID).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if count > 0 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: "the machine still has allocations, delete those first",
		})
		return
	}

	err = models.DB.Delete(&machine).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
