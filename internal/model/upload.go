package model

import "time"

// UploadProgress 分块上传进度，存 Redis，24 小时过期。
type UploadProgress struct {
	Identifier     string       `json:"identifier"`
	Filename       string       `json:"filename"`
	TotalChunks    int          `json:"totalChunks"`
	UploadedChunks int          `json:"uploadedChunks"`
	FileSize       int64        `json:"fileSize"`
	CreatedAt      time.Time    `json:"createdAt"`
	Chunks         map[int]bool `json:"chunks"`
}
