package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"catalog-service/models"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IProductService is the catalog surface the controller depends on.
type IProductService interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, req services.ProductCreateRequest, image *services.ImageUpload) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch, image *services.ImageUpload) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetImage(ctx context.Context, name string) ([]byte, string, error)
}

type ProductController struct {
	service   IProductService
	validator *RequestValidator
}

func NewProductController(service IProductService) *ProductController {
	return &ProductController{
		service:   service,
		validator: NewRequestValidator(),
	}
}

// GetProducts returns every record, optionally filtered by ?category=.
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.service.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID returns a single record or 404.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	id := c.Param("id")
	productID, err := uuid.Parse(id)
	if err != nil {
		zap.L().Warn("Invalid UUID format", zap.String("id", id))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	product, err := pc.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductImage serves raw image bytes by image name.
func (pc *ProductController) GetProductImage(c *gin.Context) {
	data, contentType, err := pc.service.GetImage(c.Request.Context(), c.Param("imageName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// GetProductImageByID serves the image attached to a record, or 404 when the
// record is absent or carries no image.
func (pc *ProductController) GetProductImageByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	product, err := pc.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if product.ImagePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	data, contentType, err := pc.service.GetImage(c.Request.Context(), path.Base(product.ImagePath))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// CreateProduct accepts multipart form fields plus an optional single image
// file and returns the created record with a 201.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	req, err := pc.validator.ParseCreateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upload, err := imageUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image upload"})
		return
	}

	product, err := pc.service.CreateProduct(c.Request.Context(), req, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

type productPatchRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

// UpdateProduct merges the supplied fields over the record. Accepts either a
// JSON body or a multipart form with an optional replacement image.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	productID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	var patch models.ProductPatch
	var upload *services.ImageUpload

	if c.ContentType() == "application/json" {
		var body productPatchRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		patch = models.ProductPatch{
			Name:        body.Name,
			Price:       body.Price,
			Description: body.Description,
			Category:    body.Category,
		}
	} else {
		if v, ok := c.GetPostForm("name"); ok {
			patch.Name = &v
		}
		if v, ok := c.GetPostForm("price"); ok {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			patch.Price = &price
		}
		if v, ok := c.GetPostForm("description"); ok {
			patch.Description = &v
		}
		if v, ok := c.GetPostForm("category"); ok {
			patch.Category = &v
		}
		upload, err = imageUpload(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image upload"})
			return
		}
	}

	product, err := pc.service.UpdateProduct(c.Request.Context(), productID, patch, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes the record and its image blob.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format"})
		return
	}

	if err := pc.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// imageUpload reads the optional single "image" form file. A missing file or
// a non-multipart request yields nil, not an error.
func imageUpload(c *gin.Context) (*services.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &services.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
