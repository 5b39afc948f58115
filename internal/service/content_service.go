package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService 内容项的创建与删除。校验"每种类型恰好一种载荷"的约束，
// 测验定义的校验委托给 QuizService。
type ContentService struct {
	ContentRepo *repository.ContentRepository
	ModuleRepo  *repository.ModuleRepository
	Quiz        *QuizService
	Storage     *StorageService
	Cfg         *config.Config
	Redis       *redis.Client
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	moduleRepo *repository.ModuleRepository,
	quiz *QuizService,
	storage *StorageService,
	cfg *config.Config,
	rdb *redis.Client,
) *ContentService {
	return &ContentService{
		ContentRepo: contentRepo,
		ModuleRepo:  moduleRepo,
		Quiz:        quiz,
		Storage:     storage,
		Cfg:         cfg,
		Redis:       rdb,
	}
}

const uploadProgressKeyPrefix = "upload_progress:"

type CreateContentRequest struct {
	Title       string
	ContentType model.ContentType
	ContentText string
	QuizData    []byte
	File        *multipart.FileHeader
}

func (s *ContentService) requireOwnedModule(claims *util.Claims, moduleID uint) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}
	if claims.Role != model.Admin && module.LecturerID != claims.UserID {
		return nil, util.ErrNotModuleOwner
	}
	return module, nil
}

// buildPayload 把请求折叠成标签联合载荷，保证每种内容类型恰好一种载荷生效。
// 文件上传放在调用方，这里只做结构校验。
func (s *ContentService) buildPayload(req CreateContentRequest) (model.ContentPayload, error) {
	if req.Title == "" {
		return nil, util.ValidationError("title is required")
	}
	if !req.ContentType.Valid() {
		return nil, util.ValidationError("invalid content_type")
	}

	hasText := req.ContentText != ""
	hasFile := req.File != nil
	hasQuiz := len(req.QuizData) > 0

	if req.ContentType == model.Quizzes {
		if !hasQuiz {
			return nil, util.ValidationError("quiz_data is required for quiz content")
		}
		if hasText || hasFile {
			return nil, util.ValidationError("quiz content must not carry text or file payload")
		}
		def, err := s.Quiz.ValidateDefinition(req.QuizData)
		if err != nil {
			return nil, err
		}
		return model.QuizPayload(def), nil
	}

	if hasQuiz {
		return nil, util.ValidationError("quiz_data is only allowed for quiz content")
	}
	if hasText == hasFile {
		return nil, util.ValidationError("exactly one of content_text or file is required")
	}
	if hasText {
		if req.ContentType == model.Videos {
			return nil, util.ValidationError("video content requires a file upload")
		}
		return model.TextPayload(req.ContentText), nil
	}

	// 文件载荷：这里先返回占位，上传在 CreateContent 里完成
	return model.FilePayload{}, nil
}

// CreateContent 在模块下新建内容项。校验失败时本次请求已落盘的文件会被清掉，
// 不留孤儿文件。
func (s *ContentService) CreateContent(ctx context.Context, claims *util.Claims, moduleID uint, req CreateContentRequest) (*model.Content, error) {
	if _, err := s.requireOwnedModule(claims, moduleID); err != nil {
		return nil, err
	}

	payload, err := s.buildPayload(req)
	if err != nil {
		return nil, err
	}

	content := &model.Content{
		ModuleID:    moduleID,
		Title:       req.Title,
		ContentType: req.ContentType,
	}

	var uploaded []string // 回滚时要删除的对象

	switch p := payload.(type) {
	case model.TextPayload:
		content.ContentText = string(p)
	case model.QuizPayload:
		normalized, err := json.Marshal(model.QuizDefinition(p))
		if err != nil {
			return nil, err
		}
		content.QuizData = normalized
	case model.FilePayload:
		filePayload, objects, err := s.storeContentFile(ctx, req.ContentType, req.File)
		if err != nil {
			return nil, err
		}
		uploaded = objects
		content.FileURL = filePayload.URL
		content.Thumbnail = filePayload.Thumbnail
		content.Duration = filePayload.Duration
	}

	if err := s.ContentRepo.Create(content); err != nil {
		s.removeObjects(ctx, uploaded)
		return nil, err
	}

	return content, nil
}

// storeContentFile 校验并上传内容附件。视频会额外生成封面并探测时长。
// 返回本次上传的对象名列表，调用方失败时负责清理。
func (s *ContentService) storeContentFile(ctx context.Context, contentType model.ContentType, file *multipart.FileHeader) (model.FilePayload, []string, error) {
	var payload model.FilePayload

	src, err := file.Open()
	if err != nil {
		return payload, nil, err
	}
	defer src.Close()

	allowed := util.AllowedDocumentMimeTypes
	if contentType == model.Videos {
		allowed = []string{util.MimeVideo}
	}
	if _, err := util.ValidateMimeType(src, allowed); err != nil {
		return payload, nil, util.ValidationError(err.Error())
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("content/%s-%s%s",
		time.Now().Format("20060102150405"), uuid.New().String()[:8], ext)

	if contentType != model.Videos {
		url, err := s.Storage.Put(ctx, objectName, src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return payload, nil, err
		}
		payload.URL = url
		return payload, []string{objectName}, nil
	}

	// 视频先落临时文件，方便 ffmpeg 处理
	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return payload, nil, err
	}
	tempPath := filepath.Join(tempDir, fmt.Sprintf("upload_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(tempPath)

	dst, err := os.Create(tempPath)
	if err != nil {
		return payload, nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return payload, nil, err
	}
	dst.Close()

	return s.finishVideoUpload(ctx, objectName, tempPath, file.Header.Get("Content-Type"))
}

// finishVideoUpload 上传视频、生成封面、探测时长。封面失败不算错误，用默认图顶上。
func (s *ContentService) finishVideoUpload(ctx context.Context, objectName, localPath, contentType string) (model.FilePayload, []string, error) {
	var payload model.FilePayload

	url, err := s.Storage.PutFile(ctx, objectName, localPath, contentType)
	if err != nil {
		return payload, nil, err
	}
	payload.URL = url
	uploaded := []string{objectName}

	thumbName := strings.TrimSuffix(objectName, filepath.Ext(objectName)) + "_thumb.jpg"
	thumbPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", filepath.Base(thumbName))
	if err := util.GenerateThumbnail(localPath, thumbPath, "3"); err != nil {
		logger.Log.Error("thumbnail generation failed", zap.Error(err))
		payload.Thumbnail = s.Storage.PublicURL("content/default-video-thumbnail.jpg")
	} else {
		thumbURL, err := s.Storage.PutFile(ctx, thumbName, thumbPath, "image/jpeg")
		if err != nil {
			payload.Thumbnail = s.Storage.PublicURL("content/default-video-thumbnail.jpg")
		} else {
			payload.Thumbnail = thumbURL
			uploaded = append(uploaded, thumbName)
		}
		os.Remove(thumbPath)
	}

	if info, err := util.GetVideoInfo(localPath); err == nil {
		payload.Duration = info.Duration
	}

	return payload, uploaded, nil
}

func (s *ContentService) removeObjects(ctx context.Context, objectNames []string) {
	for _, name := range objectNames {
		if err := s.Storage.Remove(ctx, name); err != nil {
			logger.Log.Error("failed to clean up stored file", zap.String("object", name), zap.Error(err))
		}
	}
}

// DeleteContent 删除内容项。行删除带级联（进度与测验历史），提交后再清文件；
// 文件清理失败只记日志，不影响删除结果。
func (s *ContentService) DeleteContent(ctx context.Context, claims *util.Claims, contentID uint) error {
	content, err := s.ContentRepo.FindByID(contentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrContentNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.requireOwnedModule(claims, content.ModuleID); err != nil {
		return err
	}

	if err := s.ContentRepo.Delete(contentID); err != nil {
		return err
	}

	if err := s.Storage.RemoveByURL(ctx, content.FileURL); err != nil {
		logger.Log.Error("failed to remove content file", zap.String("url", content.FileURL), zap.Error(err))
	}
	if err := s.Storage.RemoveByURL(ctx, content.Thumbnail); err != nil {
		logger.Log.Error("failed to remove content thumbnail", zap.String("url", content.Thumbnail), zap.Error(err))
	}
	return nil
}

// UploadVideoChunk 大视频分块上传，进度放 Redis。最后一块合并、上传并直接
// 在模块下建出视频内容项。
func (s *ContentService) UploadVideoChunk(
	ctx context.Context,
	claims *util.Claims,
	moduleID uint,
	chunkFile *multipart.FileHeader,
	chunkNumber, totalChunks int,
	identifier, filename, title string,
) (*model.UploadProgress, *model.Content, error) {
	if _, err := s.requireOwnedModule(claims, moduleID); err != nil {
		return nil, nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	valid := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return nil, nil, util.ValidationError("unsupported video extension: " + ext)
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, nil, err
	}

	chunkPath := filepath.Join(tempDir, fmt.Sprintf("chunk_%d", chunkNumber))
	src, err := chunkFile.Open()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	dst, err := os.Create(chunkPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, nil, err
	}
	dst.Close()

	redisKey := uploadProgressKeyPrefix + identifier
	progress := &model.UploadProgress{}

	val, err := s.Redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		progress = &model.UploadProgress{
			Identifier:  identifier,
			Filename:    filename,
			TotalChunks: totalChunks,
			CreatedAt:   time.Now(),
			Chunks:      make(map[int]bool),
		}
	} else if err != nil {
		return nil, nil, err
	} else {
		if err := json.Unmarshal([]byte(val), progress); err != nil {
			return nil, nil, err
		}
	}

	if !progress.Chunks[chunkNumber] {
		progress.UploadedChunks++
		progress.FileSize += chunkFile.Size
		progress.Chunks[chunkNumber] = true
	}

	updatedVal, _ := json.Marshal(progress)
	if err := s.Redis.Set(ctx, redisKey, updatedVal, 24*time.Hour).Err(); err != nil {
		return nil, nil, err
	}

	if progress.UploadedChunks < progress.TotalChunks {
		return progress, nil, nil
	}

	// 所有分块就位，合并成完整文件
	finalPath := filepath.Join(s.Cfg.Storage.LocalPath, "temp", identifier+"_final"+ext)
	finalFile, err := os.Create(finalPath)
	if err != nil {
		return nil, nil, err
	}
	for i := 1; i <= totalChunks; i++ {
		data, err := os.ReadFile(filepath.Join(tempDir, fmt.Sprintf("chunk_%d", i)))
		if err != nil {
			finalFile.Close()
			return nil, nil, err
		}
		if _, err := finalFile.Write(data); err != nil {
			finalFile.Close()
			return nil, nil, err
		}
	}
	finalFile.Close()

	defer func() {
		os.RemoveAll(tempDir)
		os.Remove(finalPath)
		s.Redis.Del(context.Background(), redisKey)
	}()

	objectName := fmt.Sprintf("content/%s-%s%s",
		time.Now().Format("20060102150405"), uuid.New().String()[:8], ext)

	payload, uploaded, err := s.finishVideoUpload(ctx, objectName, finalPath, "video/"+strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, nil, err
	}

	if title == "" {
		title = strings.TrimSuffix(filename, ext)
	}

	content := &model.Content{
		ModuleID:    moduleID,
		Title:       title,
		ContentType: model.Videos,
		FileURL:     payload.URL,
		Thumbnail:   payload.Thumbnail,
		Duration:    payload.Duration,
	}
	if err := s.ContentRepo.Create(content); err != nil {
		s.removeObjects(ctx, uploaded)
		return nil, nil, err
	}

	return progress, content, nil
}

func (s *ContentService) GetUploadProgress(ctx context.Context, identifier string) (*model.UploadProgress, error) {
	val, err := s.Redis.Get(ctx, uploadProgressKeyPrefix+identifier).Result()
	if err == redis.Nil {
		return nil, util.NotFoundError("upload progress not found")
	} else if err != nil {
		return nil, err
	}

	var progress model.UploadProgress
	if err := json.Unmarshal([]byte(val), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}
