package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type createProductForm struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Description string
	Category    string
}

// RequestValidator handles input validation for the product form endpoints.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParseCreateProductRequest validates and parses the multipart create form.
// Error messages name the first offending field, matching the API contract.
func (rv *RequestValidator) ParseCreateProductRequest(c *gin.Context) (services.ProductCreateRequest, error) {
	form := createProductForm{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}

	if err := rv.validate.Struct(&form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return services.ProductCreateRequest{},
				fmt.Errorf("Missing required field: %s", strings.ToLower(fieldErrs[0].Field()))
		}
		return services.ProductCreateRequest{}, errors.New("Invalid form data")
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil {
		return services.ProductCreateRequest{}, errors.New("Invalid price")
	}

	return services.ProductCreateRequest{
		Name:        form.Name,
		Price:       price,
		Description: form.Description,
		Category:    form.Category,
	}, nil
}
