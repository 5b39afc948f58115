package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/util"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 通用对象存储接口。objectName 是存储内部路径（如 content/xxx.pdf），
// PublicURL 把它变成对外可访问的地址，ObjectName 做反向解析用于删除。
type StorageProvider interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PutFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
	ObjectName(url string) string
}

// LocalStorageProvider 本地磁盘存储
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.PublicURL(objectName), nil
}

func (p *LocalStorageProvider) PutFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	return p.Put(ctx, objectName, src, 0, contentType)
}

func (p *LocalStorageProvider) Remove(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, objectName))
}

func (p *LocalStorageProvider) PublicURL(objectName string) string {
	return "/uploads/" + objectName
}

func (p *LocalStorageProvider) ObjectName(url string) string {
	return strings.TrimPrefix(url, "/uploads/")
}

// MinioStorageProvider MinIO 存储
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.PublicURL(objectName), nil
}

func (p *MinioStorageProvider) PutFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.PublicURL(objectName), nil
}

func (p *MinioStorageProvider) Remove(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, objectName, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) PublicURL(objectName string) string {
	return "/" + p.Config.MinioBucket + "/" + objectName
}

func (p *MinioStorageProvider) ObjectName(url string) string {
	return strings.TrimPrefix(url, "/"+p.Config.MinioBucket+"/")
}

// OSSStorageProvider 阿里云 OSS 存储
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) bucket() (*oss.Bucket, error) {
	return p.Client.Bucket(p.Config.OSSBucket)
}

func (p *OSSStorageProvider) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.bucket()
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(objectName, reader); err != nil {
		return "", err
	}
	return p.PublicURL(objectName), nil
}

func (p *OSSStorageProvider) PutFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	bucket, err := p.bucket()
	if err != nil {
		return "", err
	}
	if err := bucket.PutObjectFromFile(objectName, localPath); err != nil {
		return "", err
	}
	return p.PublicURL(objectName), nil
}

func (p *OSSStorageProvider) Remove(ctx context.Context, objectName string) error {
	bucket, err := p.bucket()
	if err != nil {
		return err
	}
	return bucket.DeleteObject(objectName)
}

func (p *OSSStorageProvider) PublicURL(objectName string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, objectName)
}

func (p *OSSStorageProvider) ObjectName(url string) string {
	prefix := fmt.Sprintf("https://%s.%s/", p.Config.OSSBucket, p.Config.OSSEndpoint)
	return strings.TrimPrefix(url, prefix)
}

// StorageService 按配置选择存储后端，配置失败时退回本地磁盘。
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		if p, err := NewMinioStorageProvider(&cfg.Storage); err == nil {
			provider = p
		}
	case util.StorageOSS:
		if p, err := NewOSSStorageProvider(&cfg.Storage); err == nil {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

func (s *StorageService) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Put(ctx, objectName, reader, size, contentType)
}

func (s *StorageService) PutFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	return s.Provider.PutFile(ctx, objectName, localPath, contentType)
}

func (s *StorageService) Remove(ctx context.Context, objectName string) error {
	return s.Provider.Remove(ctx, objectName)
}

// RemoveByURL 按对外 URL 删除对象，用于内容项删除后的文件清理。
func (s *StorageService) RemoveByURL(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	return s.Provider.Remove(ctx, s.Provider.ObjectName(url))
}

func (s *StorageService) PublicURL(objectName string) string {
	return s.Provider.PublicURL(objectName)
}
