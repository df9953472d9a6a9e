package services

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"vms-http-service/internal/infrastructure/config"
)

// ErrQRInvalidFormat 二维码数据既不是访问URL也不是旧版JSON格式
var ErrQRInvalidFormat = errors.New("二维码数据格式无效")

// InterfaceQRService defines the QR code service interface
type InterfaceQRService interface {
	BuildVisitURL(visitID uint) string
	GenerateImage(content string) (string, error)
	ParsePayload(data string) (uint, error)
}

// QRService 负责二维码内容的生成与解析
type QRService struct {
	Config *config.Config
}

// NewQRService 创建一个新的二维码服务
func NewQRService(cfg *config.Config) InterfaceQRService {
	return &QRService{Config: cfg}
}

// 1 BuildVisitURL 构建访问详情URL，即二维码的载荷
func (s *QRService) BuildVisitURL(visitID uint) string {
	base := strings.TrimRight(s.Config.BaseURL, "/")
	return fmt.Sprintf("%s/visit-details/%d", base, visitID)
}

// 2 GenerateImage 将内容编码为PNG二维码，返回base64字符串
func (s *QRService) GenerateImage(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// legacyQRPayload 旧版扫码设备上报的JSON格式，visitId可能是数字或字符串
type legacyQRPayload struct {
	VisitID interface{} `json:"visitId"`
}

// 3 ParsePayload 从扫码数据中解析访问记录ID。
// 支持两种格式：URL形式（取 /visit-details/{id} 的最后一段）
// 和旧版JSON形式 {"visitId": ...}，向后兼容已发放的二维码。
func (s *QRService) ParsePayload(data string) (uint, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return 0, ErrQRInvalidFormat
	}

	// URL形式
	if strings.HasPrefix(data, "http://") || strings.HasPrefix(data, "https://") {
		trimmed := strings.TrimRight(data, "/")
		idx := strings.LastIndex(trimmed, "/")
		if idx < 0 || idx == len(trimmed)-1 {
			return 0, ErrQRInvalidFormat
		}
		id, err := strconv.ParseUint(trimmed[idx+1:], 10, 32)
		if err != nil || id == 0 {
			return 0, ErrQRInvalidFormat
		}
		return uint(id), nil
	}

	// 旧版JSON形式
	var payload legacyQRPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return 0, ErrQRInvalidFormat
	}
	switch v := payload.VisitID.(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, ErrQRInvalidFormat
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil || id == 0 {
			return 0, ErrQRInvalidFormat
		}
		return uint(id), nil
	default:
		return 0, ErrQRInvalidFormat
	}
}
