package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
	"gorm.io/gorm"
)

func RegisterFactoryRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsFactories)
		r.GET("", GetFactories)
		r.POST("", CreateFactories)
	}
	{
		r.OPTIONS("/:id", OptionsFactoryDetail)
		r.GET("/:id", GetFactory)
		r.PATCH("/:id", UpdateFactory)
		r.DELETE("/:id", DeleteFactory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Factories
// @Success		204
// @Router			/v1/factories [options]
func OptionsFactories(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Factories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/factories/{id} [options]
func OptionsFactoryDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Factory{})
}

// @Summary		Create factories
// @Description	Creates new factories
// @Tags			Factories
// @Produce		json
// @Success		201			{object}	FactoryCreateResponse
// @Failure		400			{object}	FactoryCreateResponse
// @Failure		500			{object}	FactoryCreateResponse
// @Param			factories	body		[]FactoryEditable	true	"Factories"
// @Router			/v1/factories [post]
func CreateFactories(c *gin.Context) {
	var editables []FactoryEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := FactoryCreateResponse{}

	for _, editable := range editables {
		factory := editable.model()
		err = models.DB.Create(&factory).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newFactory(c, factory)
		r.Data = append(r.Data, FactoryResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get factories
// @Description	Returns a list of factories
// @Tags			Factories
// @Produce		json
// @Success		200	{object}	FactoryListResponse
// @Failure		400	{object}	FactoryListResponse
// @Failure		500	{object}	FactoryListResponse
// @Router			/v1/factories [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			location	query	string	false	"Filter by location"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			page		query	int		false	"The page to return. Defaults to 1."
// @Param			limit		query	int		false	"Maximum number of factories per page. Defaults to 10, capped at 100."
func GetFactories(c *gin.Context) {
	var filter FactoryQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, FactoryListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("factories.name ASC")
	q = stringFilters(models.DB, q, setFields, filter.Name, "", filter.Search)

	if filter.Location != "" {
		q = q.Where("location LIKE ?", "%"+filter.Location+"%")
	}

	page, limit, offset := paginate(filter.Page, filter.Limit)
	q = q.Offset(offset).Limit(limit)

	var factories []models.Factory
	err := q.Find(&factories).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FactoryListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), FactoryListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Factory, 0, len(factories))
	for _, factory := range factories {
		data = append(data, newFactory(c, factory))
	}

	c.JSON(http.StatusOK, FactoryListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get factory
// @Description	Returns a specific factory
// @Tags			Factories
// @Produce		json
// @Success		200	{object}	FactoryResponse
// @Failure		400	{object}	FactoryResponse
// @Failure		404	{object}	FactoryResponse
// @Failure		500	{object}	FactoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/factories/{id} [get]
func GetFactory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	var factory models.Factory
	err = models.DB.First(&factory, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	apiResource := newFactory(c, factory)
	c.JSON(http.StatusOK, FactoryResponse{Data: &apiResource})
}

// @Summary		Update factory
// @Description	Updates an existing factory. Only values to be updated need to be specified.
// @Tags			Factories
// @Accept			json
// @Produce		json
// @Success		200		{object}	FactoryResponse
// @Failure		400		{object}	FactoryResponse
// @Failure		404		{object}	FactoryResponse
// @Failure		500		{object}	FactoryResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			factory	body		FactoryEditable	true	"Factory"
// @Router			/v1/factories/{id} [patch]
func UpdateFactory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	var factory models.Factory
	err = models.DB.First(&factory, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, FactoryEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	var data FactoryEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&factory).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), FactoryResponse{
			Error: &e,
		})
		return
	}

	apiResource := newFactory(c, factory)
	c.JSON(http.StatusOK, FactoryResponse{Data: &apiResource})
}

// @Summary		Delete factory
// @Description	Deletes a factory. Machines assigned to it are kept and unassigned.
// @Tags			Factories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/factories/{id} [delete]
func DeleteFactory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var factory models.Factory
	err = models.DB.First(&factory, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Keep the machines, but remove their factory assignment
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		// UpdateColumn skips the machine hooks, they cannot deal with batch updates
		err := tx.Model(&models.Machine{}).Where("factory_id = ?", factory.ID).UpdateColumn("factory_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&factory).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
