package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/models"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type productInput struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required,max=255"`
	Price       float64 `json:"price" binding:"gte=0"`
	Available   *bool   `json:"available"`
	Description string  `json:"description"`
}

type productPatch struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Available   *bool    `json:"available"`
	Description *string  `json:"description"`
}

// GetAllProducts -> ?category_id= narrows to one category, ?available=true hides sold out products
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	q := pc.DB.Preload("Category").Order("name")
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if c.Query("available") == "true" {
		q = q.Where("available = ?", true)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	var product models.Product
	if err := pc.DB.Preload("Category").First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var body productInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := pc.DB.First(&models.MenuCategory{}, body.CategoryID).Error; err != nil {
		respondDBError(c, err)
		return
	}

	product := models.Product{Available: true}
	if err := copier.CopyWithOption(&product, &body, copier.Option{IgnoreEmpty: true}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	available := product.Available
	if err := pc.DB.Create(&product).Error; err != nil {
		respondDBError(c, err)
		return
	}
	// a false Available is replaced by the column default on insert
	if !available {
		if err := pc.DB.Model(&product).Update("available", false).Error; err != nil {
			respondDBError(c, err)
			return
		}
		product.Available = false
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	var body productPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if body.CategoryID != nil {
		if err := pc.DB.First(&models.MenuCategory{}, *body.CategoryID).Error; err != nil {
			respondDBError(c, err)
			return
		}
	}
	if err := copier.CopyWithOption(&product, &body, copier.Option{IgnoreEmpty: true}); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := pc.DB.Omit("Category").Save(&product).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> products already ordered are marked unavailable instead
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		respondDBError(c, err)
		return
	}

	var used int64
	if err := pc.DB.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&used).Error; err != nil {
		respondDBError(c, err)
		return
	}
	if used > 0 {
		if err := pc.DB.Model(&product).Update("available", false).Error; err != nil {
			respondDBError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Product retired", gin.H{"product_id": id, "available": false})
		return
	}
	if err := pc.DB.Delete(&product).Error; err != nil {
		respondDBError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": id})
}
