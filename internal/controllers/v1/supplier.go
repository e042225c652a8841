package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
)

func RegisterSupplierRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsSuppliers)
		r.GET("", GetSuppliers)
		r.POST("", CreateSuppliers)
	}
	{
		r.OPTIONS("/:id", OptionsSupplierDetail)
		r.GET("/:id", GetSupplier)
		r.PATCH("/:id", UpdateSupplier)
		r.DELETE("/:id", DeleteSupplier)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Suppliers
// @Success		204
// @Router			/v1/suppliers [options]
func OptionsSuppliers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Suppliers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/suppliers/{id} [options]
func OptionsSupplierDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Supplier{})
}

// @Summary		Create suppliers
// @Description	Creates new suppliers
// @Tags			Suppliers
// @Produce		json
// @Success		201			{object}	SupplierCreateResponse
// @Failure		400			{object}	SupplierCreateResponse
// @Failure		500			{object}	SupplierCreateResponse
// @Param			suppliers	body		[]SupplierEditable	true	"Suppliers"
// @Router			/v1/suppliers [post]
func CreateSuppliers(c *gin.Context) {
	var editables []SupplierEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := SupplierCreateResponse{}

	for _, editable := range editables {
		supplier := editable.model()
		err = models.DB.Create(&supplier).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newSupplier(c, supplier)
		r.Data = append(r.Data, SupplierResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get suppliers
// @Description	Returns a list of suppliers
// @Tags			Suppliers
// @Produce		json
// @Success		200	{object}	SupplierListResponse
// @Failure		400	{object}	SupplierListResponse
// @Failure		500	{object}	SupplierListResponse
// @Router			/v1/suppliers [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			page	query	int		false	"The page to return. Defaults to 1."
// @Param			limit	query	int		false	"Maximum number of suppliers per page. Defaults to 10, capped at 100."
func GetSuppliers(c *gin.Context) {
	var filter SupplierQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, SupplierListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("suppliers.name ASC")
	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	page, limit, offset := paginate(filter.Page, filter.Limit)
	q = q.Offset(offset).Limit(limit)

	var suppliers []models.Supplier
	err := q.Find(&suppliers).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SupplierListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), SupplierListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Supplier, 0, len(suppliers))
	for _, supplier := range suppliers {
		data = append(data, newSupplier(c, supplier))
	}

	c.JSON(http.StatusOK, SupplierListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get supplier
// @Description	Returns a specific supplier
// @Tags			Suppliers
// @Produce		json
// @Success		200	{object}	SupplierResponse
// @Failure		400	{object}	SupplierResponse
// @Failure		404	{object}	SupplierResponse
// @Failure		500	{object}	SupplierResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/suppliers/{id} [get]
func GetSupplier(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	var supplier models.Supplier
	err = models.DB.First(&supplier, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	apiResource := newSupplier(c, supplier)
	c.JSON(http.StatusOK, SupplierResponse{Data: &apiResource})
}

// @Summary		Update supplier
// @Description	Updates an existing supplier. Only values to be updated need to be specified.
// @Tags			Suppliers
// @Accept			json
// @Produce		json
// @Success		200			{object}	SupplierResponse
// @Failure		400			{object}	SupplierResponse
// @Failure		404			{object}	SupplierResponse
// @Failure		500			{object}	SupplierResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			supplier	body		SupplierEditable	true	"Supplier"
// @Router			/v1/suppliers/{id} [patch]
func UpdateSupplier(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	var supplier models.Supplier
	err = models.DB.First(&supplier, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, SupplierEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	var data SupplierEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&supplier).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupplierResponse{
			Error: &e,
		})
		return
	}

	apiResource := newSupplier(c, supplier)
	c.JSON(http.StatusOK, SupplierResponse{Data: &apiResource})
}

// @Summary		Delete supplier
// @Description	Deletes a supplier. Purchase orders for the supplier must be deleted first.
// @Tags			Suppliers
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/suppliers/{id} [delete]
func DeleteSupplier(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var supplier models.Supplier
	err = models.DB.First(&supplier, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var count int64
	err = models.DB.Model(&models.PurchaseOrder{}).Where("supplier_id = ?", supplier.ID).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if count > 0 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: "the supplier still has purchase orders, delete those first",
		})
		return
	}

	err = models.DB.Delete(&supplier).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
