package services

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"catalog-service/apperrors"
	"catalog-service/models"
	"catalog-service/repository"
	"catalog-service/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImagePathPrefix is the URL prefix under which stored images are served.
const ImagePathPrefix = "/api/products/images/"

// ProductCreateRequest carries the validated-at-the-edge fields for a new
// record. Price has already been parsed; the service enforces the rest.
type ProductCreateRequest struct {
	Name        string
	Price       float64
	Description string
	Category    string
}

// ImageUpload is a single image file received with a create or update.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductService owns the catalog operations: validation, id and timestamp
// assignment, patch merging, and image attachment/cleanup. The persisted
// collection is the single source of truth; nothing is cached between calls.
type ProductService struct {
	repo  repository.ProductRepo
	blobs storage.BlobStore
}

func NewProductService(repo repository.ProductRepo, blobs storage.BlobStore) *ProductService {
	return &ProductService{
		repo:  repo,
		blobs: blobs,
	}
}

// ListProducts returns all records in persisted order, optionally filtered by
// exact category match. An empty store yields an empty slice, never an error.
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to fetch products", err)
	}
	if category == "" {
		return products, nil
	}
	filtered := []models.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch product", err)
	}
	return product, nil
}

// CreateProduct validates, assigns id and timestamps, stores the optional
// image, and appends the record. Validation failures never touch storage.
func (s *ProductService) CreateProduct(ctx context.Context, req ProductCreateRequest, image *ImageUpload) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("Product name is required")
	}
	if req.Price < 0 {
		return nil, apperrors.Validation("Price must be a non-negative number")
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if image != nil {
		name := storage.ImageName(product.ID, image.Filename)
		contentType := image.ContentType
		if contentType == "" {
			contentType = storage.ContentTypeByExt(name)
		}
		if err := s.blobs.Store(ctx, name, image.Data, contentType); err != nil {
			return nil, apperrors.Internal("failed to store image", err)
		}
		product.ImagePath = ImagePathPrefix + name
		product.ContentType = contentType
	}

	if err := s.repo.Create(ctx, product); err != nil {
		// Best effort: do not leave an orphaned blob behind a failed insert.
		if product.ImagePath != "" {
			if rmErr := s.blobs.Remove(ctx, path.Base(product.ImagePath)); rmErr != nil {
				zap.L().Warn("Failed to clean up image after insert failure",
					zap.String("image", product.ImagePath), zap.Error(rmErr))
			}
		}
		return nil, apperrors.Internal("failed to save product", err)
	}
	return product, nil
}

// UpdateProduct shallow-merges the patch over the existing record, replaces
// the image when a new upload is supplied, and stamps UpdatedAt.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch, image *ImageUpload) (*models.Product, error) {
	if patch.Empty() && image == nil {
		return nil, apperrors.Validation("No update fields provided")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.Validation("Product name is required")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, apperrors.Validation("Price must be a non-negative number")
	}

	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to fetch product", err)
	}

	patch.Apply(product)

	if image != nil {
		name := storage.ImageName(product.ID, image.Filename)
		contentType := image.ContentType
		if contentType == "" {
			contentType = storage.ContentTypeByExt(name)
		}
		if err := s.blobs.Store(ctx, name, image.Data, contentType); err != nil {
			return nil, apperrors.Internal("failed to store image", err)
		}
		// The derived name changes when the extension does; drop the old blob
		// instead of leaving it orphaned.
		if old := path.Base(product.ImagePath); product.ImagePath != "" && old != name {
			if err := s.blobs.Remove(ctx, old); err != nil {
				zap.L().Warn("Failed to remove replaced image", zap.String("image", old), zap.Error(err))
			}
		}
		product.ImagePath = ImagePathPrefix + name
		product.ContentType = contentType
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, apperrors.Internal("failed to update product", err)
	}
	return product, nil
}

// DeleteProduct removes the record's image blob first, then the record, so a
// successful delete never strands a blob.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Product not found")
	}
	if err != nil {
		return apperrors.Internal("failed to fetch product", err)
	}

	if product.ImagePath != "" {
		if err := s.blobs.Remove(ctx, path.Base(product.ImagePath)); err != nil {
			return apperrors.Internal("failed to delete image", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Product not found")
		}
		return apperrors.Internal("failed to delete product", err)
	}
	return nil
}

// GetImage returns a stored blob's bytes and MIME type by image name.
func (s *ProductService) GetImage(ctx context.Context, name string) ([]byte, string, error) {
	data, contentType, err := s.blobs.Retrieve(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", apperrors.NotFound("Image not found")
	}
	if err != nil {
		return nil, "", apperrors.Internal("failed to load image", err)
	}
	return data, contentType, nil
}
