package v1

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
	"gorm.io/gorm"
)

func RegisterPurchaseOrderRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsPurchaseOrders)
		r.GET("", GetPurchaseOrders)
		r.POST("", CreatePurchaseOrders)
	}
	{
		r.OPTIONS("/:id", OptionsPurchaseOrderDetail)
		r.GET("/:id", GetPurchaseOrder)
		r.PATCH("/:id", UpdatePurchaseOrder)
		r.DELETE("/:id", DeletePurchaseOrder)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			PurchaseOrders
// @Success		204
// @Router			/v1/orders [options]
func OptionsPurchaseOrders(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			PurchaseOrders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [options]
func OptionsPurchaseOrderDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.PurchaseOrder{})
}

// @Summary		Create purchase orders
// @Description	Creates new purchase orders
// @Tags			PurchaseOrders
// @Produce		json
// @Success		201		{object}	PurchaseOrderCreateResponse
// @Failure		400		{object}	PurchaseOrderCreateResponse
// @Failure		404		{object}	PurchaseOrderCreateResponse
// @Failure		500		{object}	PurchaseOrderCreateResponse
// @Param			orders	body		[]PurchaseOrderEditable	true	"Purchase orders"
// @Router			/v1/orders [post]
func CreatePurchaseOrders(c *gin.Context) {
	var editables []PurchaseOrderEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PurchaseOrderCreateResponse{}

	for _, editable := range editables {
		order := editable.model()

		// Creating the order and its lines is all or nothing
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newPurchaseOrder(c, order)
		r.Data = append(r.Data, PurchaseOrderResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get purchase orders
// @Description	Returns a list of purchase orders
// @Tags			PurchaseOrders
// @Produce		json
// @Success		200	{object}	PurchaseOrderListResponse
// @Failure		400	{object}	PurchaseOrderListResponse
// @Failure		500	{object}	PurchaseOrderListResponse
// @Router			/v1/orders [get]
// @Param			supplier	query	string	false	"Filter by supplier ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in the note"
// @Param			page		query	int		false	"The page to return. Defaults to 1."
// @Param			limit		query	int		false	"Maximum number of purchase orders per page. Defaults to 10, capped at 100."
func GetPurchaseOrders(c *gin.Context) {
	var filter PurchaseOrderQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PurchaseOrderListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Preload("Lines").Order("purchase_orders.order_date DESC")

	if filter.Supplier != ps_uuid.Nil {
		q = q.Where("purchase_orders.supplier_id = ?", filter.Supplier.UUID)
	}

	if filter.Status != "" {
		q = q.Where("purchase_orders.status = ?", filter.Status)
	}

	// Purchase orders have no name, only the note is searchable
	if filter.Note != "" {
		q = q.Where("note LIKE ?", "%"+filter.Note+"%")
	} else if slices.Contains(setFields, "Note") {
		q = q.Where("note = ''")
	}

	if filter.Search != "" {
		q = q.Where("note LIKE ?", "%"+filter.Search+"%")
	}

	page, limit, offset := paginate(filter.Page, filter.Limit)
	q = q.Offset(offset).Limit(limit)

	var orders []models.PurchaseOrder
	err := q.Find(&orders).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PurchaseOrderListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PurchaseOrderListResponse{
			Error: &s,
		})
		return
	}

	data := make([]PurchaseOrder, 0, len(orders))
	for _, order := range orders {
		data = append(data, newPurchaseOrder(c, order))
	}

	c.JSON(http.StatusOK, PurchaseOrderListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get purchase order
// @Description	Returns a specific purchase order
// @Tags			PurchaseOrders
// @Produce		json
// @Success		200	{object}	PurchaseOrderResponse
// @Failure		400	{object}	PurchaseOrderResponse
// @Failure		404	{object}	PurchaseOrderResponse
// @Failure		500	{object}	PurchaseOrderResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [get]
func GetPurchaseOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	var order models.PurchaseOrder
	err = models.DB.Preload("Lines").First(&order, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	apiResource := newPurchaseOrder(c, order)
	c.JSON(http.StatusOK, PurchaseOrderResponse{Data: &apiResource})
}

// @Summary		Update purchase order
// @Description	Updates an existing purchase order. Only values to be updated need to be specified. When lines are specified, they replace all existing lines of the order.
// @Tags			PurchaseOrders
// @Accept			json
// @Produce		json
// @Success		200		{object}	PurchaseOrderResponse
// @Failure		400		{object}	PurchaseOrderResponse
// @Failure		404		{object}	PurchaseOrderResponse
// @Failure		500		{object}	PurchaseOrderResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			order	body		PurchaseOrderEditable	true	"Purchase order"
// @Router			/v1/orders/{id} [patch]
func UpdatePurchaseOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	var order models.PurchaseOrder
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, PurchaseOrderEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	var data PurchaseOrderEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	// Lines are replaced wholesale, not updated column by column
	replaceLines := false
	updateFields = slices.DeleteFunc(updateFields, func(field any) bool {
		if field == "Lines" {
			replaceLines = true
			return true
		}
		return false
	})

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if len(updateFields) > 0 {
			err := tx.Model(&order).Select("", updateFields...).Updates(data.model()).Error
			if err != nil {
				return err
			}
		}

		if replaceLines {
			err := tx.Where("purchase_order_id = ?", order.ID).Delete(&models.PurchaseOrderLine{}).Error
			if err != nil {
				return err
			}

			for _, editable := range data.Lines {
				line := editable.model()
				line.PurchaseOrderID = order.ID
				err := tx.Create(&line).Error
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Preload("Lines").First(&order, order.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PurchaseOrderResponse{
			Error: &e,
		})
		return
	}

	apiResource := newPurchaseOrder(c, order)
	c.JSON(http.StatusOK, PurchaseOrderResponse{Data: &apiResource})
}

// @Summary		Delete purchase order
// @Description	Deletes a purchase order and its lines
// @Tags			PurchaseOrders
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/orders/{id} [delete]
func DeletePurchaseOrder(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var order models.PurchaseOrder
	err = models.DB.First(&order, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("purchase_order_id = ?", order.ID).Delete(&models.PurchaseOrderLine{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&order).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
