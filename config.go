package main

import (
	"fmt"
	"os"
	"strings"
)

// Storage backend selectors.
const (
	StorageFile  = "file"
	StorageMongo = "mongo"

	ImageStoreFS    = "fs"
	ImageStoreS3    = "s3"
	ImageStoreMongo = "mongo"
)

// Config holds all environment variables for the catalog service.
type Config struct {
	Env  string // "production" or anything else for development
	Port string // service port (default: 8080)

	StorageBackend string // "file" or "mongo"
	DataDir        string // file backend: directory for the JSON documents and images
	MongoURL       string // mongo backend
	MongoDB        string

	ImageStore string // "fs", "mongo" or "s3"; defaults to the metadata backend's sibling
	S3Bucket   string
	S3Prefix   string

	JWTSecret    string
	RedisURL     string // optional; in-process revocation store when empty
	AllowOrigins []string
}

// LoadConfig reads environment variables into a validated Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:            os.Getenv("APP_ENV"),
		Port:           os.Getenv("PORT"),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		DataDir:        os.Getenv("DATA_DIR"),
		MongoURL:       os.Getenv("MONGO_URL"),
		MongoDB:        os.Getenv("MONGO_DB"),
		ImageStore:     os.Getenv("IMAGE_STORE"),
		S3Bucket:       os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:       os.Getenv("AWS_S3_PREFIX"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = StorageFile
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "catalog"
	}
	if cfg.ImageStore == "" {
		if cfg.StorageBackend == StorageMongo {
			cfg.ImageStore = ImageStoreMongo
		} else {
			cfg.ImageStore = ImageStoreFS
		}
	}
	if cfg.S3Prefix == "" {
		cfg.S3Prefix = "products/"
	}
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowOrigins = []string{"http://localhost:3000"}
	}

	switch cfg.StorageBackend {
	case StorageFile, StorageMongo:
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageFile, StorageMongo)
	}
	switch cfg.ImageStore {
	case ImageStoreFS, ImageStoreS3, ImageStoreMongo:
	default:
		return nil, fmt.Errorf("IMAGE_STORE must be %q, %q or %q", ImageStoreFS, ImageStoreMongo, ImageStoreS3)
	}
	if cfg.StorageBackend == StorageMongo && cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required with STORAGE_BACKEND=mongo")
	}
	if cfg.ImageStore == ImageStoreMongo && cfg.StorageBackend != StorageMongo {
		return nil, fmt.Errorf("IMAGE_STORE=mongo requires STORAGE_BACKEND=mongo")
	}
	if cfg.ImageStore == ImageStoreS3 && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required with IMAGE_STORE=s3")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
