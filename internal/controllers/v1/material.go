package v1

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/httputil"
	"github.com/plantstock/backend/internal/models"
	"gorm.io/gorm"
)

func RegisterMaterialRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMaterials)
		r.GET("", GetMaterials)
		r.POST("", CreateMaterials)
	}
	{
		r.OPTIONS("/:id", OptionsMaterialDetail)
		r.GET("/:id", GetMaterial)
		r.PATCH("/:id", UpdateMaterial)
		r.DELETE("/:id", DeleteMaterial)
	}
	{
		r.OPTIONS("/:id/history", httputil.OptionsGet)
		r.GET("/:id/history", GetMaterialHistory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Materials
// @Success		204
// @Router			/v1/materials [options]
func OptionsMaterials(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Materials
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/materials/{id} [options]
func OptionsMaterialDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Material{})
}

// @Summary		Create materials
// @Description	Creates new materials
// @Tags			Materials
// @Produce		json
// @Success		201			{object}	MaterialCreateResponse
// @Failure		400			{object}	MaterialCreateResponse
// @Failure		500			{object}	MaterialCreateResponse
// @Param			materials	body		[]MaterialEditable	true	"Materials"
// @Router			/v1/materials [post]
func CreateMaterials(c *gin.Context) {
	var editables []MaterialEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := MaterialCreateResponse{}

	for _, editable := range editables {
		material := editable.model()

		err = models.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Create(&material).Error
			if err != nil {
				return err
			}

			if material.CurrentStock != 0 {
				return tx.Create(&models.MaterialHistoryEntry{
					MaterialID:  material.ID,
					Description: fmt.Sprintf("Initial stock of %d recorded", material.CurrentStock),
				}).Error
			}

			return nil
		})
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newMaterial(c, material)
		r.Data = append(r.Data, MaterialResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get materials
// @Description	Returns a list of materials
// @Tags			Materials
// @Produce		json
// @Success		200	{object}	MaterialListResponse
// @Failure		400	{object}	MaterialListResponse
// @Failure		500	{object}	MaterialListResponse
// @Router			/v1/materials [get]
// @Param			name	query	string	false	"Filter by name"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			unit	query	string	false	"Filter by unit"
// @Param			page	query	int		false	"The page to return. Defaults to 1."
// @Param			limit	query	int		false	"Maximum number of materials per page. Defaults to 10, capped at 100."
func GetMaterials(c *gin.Context) {
	var filter MaterialQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, MaterialListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.Order("materials.name ASC")
	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	if filter.Unit != "" {
		q = q.Where("materials.unit = ?", filter.Unit)
	} else if slices.Contains(setFields, "Unit") {
		q = q.Where("materials.unit = ''")
	}

	page, limit, offset := paginate(filter.Page, filter.Limit)
	q = q.Offset(offset).Limit(limit)

	var materials []models.Material
	err := q.Find(&materials).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MaterialListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), MaterialListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Material, 0, len(materials))
	for _, material := range materials {
		data = append(data, newMaterial(c, material))
	}

	c.JSON(http.StatusOK, MaterialListResponse{
		Data:       data,
		Pagination: newPagination(count, page, limit),
	})
}

// @Summary		Get material
// @Description	Returns a specific material
// @Tags			Materials
// @Produce		json
// @Success		200	{object}	MaterialResponse
// @Failure		400	{object}	MaterialResponse
// @Failure		404	{object}	MaterialResponse
// @Failure		500	{object}	MaterialResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/materials/{id} [get]
func GetMaterial(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	var material models.Material
	err = models.DB.First(&material, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	apiResource := newMaterial(c, material)
	c.JSON(http.StatusOK, MaterialResponse{Data: &apiResource})
}

// @Summary		Get material history
// @Description	Returns the stock history of a material, oldest entry first
// @Tags			Materials
// @Produce		json
// @Success		200	{object}	MaterialHistoryResponse
// @Failure		400	{object}	MaterialHistoryResponse
// @Failure		404	{object}	MaterialHistoryResponse
// @Failure		500	{object}	MaterialHistoryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/materials/{id}/history [get]
func GetMaterialHistory(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialHistoryResponse{
			Error: &e,
		})
		return
	}

	var material models.Material
	err = models.DB.First(&material, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialHistoryResponse{
			Error: &e,
		})
		return
	}

	var entries []models.MaterialHistoryEntry
	err = models.DB.
		Where("material_id = ?", material.ID).
		Order("date ASC").
		Find(&entries).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialHistoryResponse{
			Error: &e,
		})
		return
	}

	data := make([]MaterialHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		data = append(data, newMaterialHistoryEntry(entry))
	}

	c.JSON(http.StatusOK, MaterialHistoryResponse{Data: data})
}

// @Summary		Update material
// @Description	Updates an existing material. Only values to be updated need to be specified. Changes to the current stock are recorded in the material history.
// @Tags			Materials
// @Accept			json
// @Produce		json
// @Success		200			{object}	MaterialResponse
// @Failure		400			{object}	MaterialResponse
// @Failure		404			{object}	MaterialResponse
// @Failure		500			{object}	MaterialResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			material	body		MaterialEditable	true	"Material"
// @Router			/v1/materials/{id} [patch]
func UpdateMaterial(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	var material models.Material
	err = models.DB.First(&material, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, MaterialEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	var data MaterialEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	previousStock := material.CurrentStock

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&material).Select("", updateFields...).Updates(data.model()).Error
		if err != nil {
			return err
		}

		// Manual stock corrections become part of the audit trail
		if material.CurrentStock != previousStock {
			return tx.Create(&models.MaterialHistoryEntry{
				MaterialID:  material.ID,
				Description: fmt.Sprintf("Stock manually corrected from %d to %d", previousStock, material.CurrentStock),
			}).Error
		}

		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), MaterialResponse{
			Error: &e,
		})
		return
	}

	apiResource := newMaterial(c, material)
	c.JSON(http.StatusOK, MaterialResponse{Data: &apiResource})
}

// @Summary		Delete material
// @Description	Deletes a material. Allocations of the material must be deleted first. The stock history is deleted with the material.
// @Tags			Materials
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/materials/{id} [delete]
func DeleteMaterial(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var material models.Material
	err = models.DB.First(&material, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	// Materials with open allocations cannot be deleted, the allocation
	// records would dangle
	var count int64
	err = models.DB.Model(&models.Allocation{}).Where("material_id = ?", material.ID).Count(&count).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if count > 0 {
		c.JSON(http.StatusBadRequest, httpError{
			Error: "the material still has allocations, delete those first",
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("material_id = ?", material.ID).Delete(&models.MaterialHistoryEntry{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&material).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
