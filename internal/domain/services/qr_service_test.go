package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-http-service/internal/infrastructure/config"
)

func newTestQRService() InterfaceQRService {
	return NewQRService(&config.Config{BaseURL: "https://vms.example.com/"})
}

func TestBuildVisitURL(t *testing.T) {
	qr := newTestQRService()
	// BaseURL末尾的斜杠不应产生双斜杠
	assert.Equal(t, "https://vms.example.com/visit-details/42", qr.BuildVisitURL(42))
}

func TestGenerateImage(t *testing.T) {
	qr := newTestQRService()
	img, err := qr.GenerateImage("https://vms.example.com/visit-details/1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img, "data:image/png;base64,"))
	assert.Greater(t, len(img), 100)
}

func TestParsePayload(t *testing.T) {
	qr := newTestQRService()

	tests := []struct {
		name    string
		payload string
		want    uint
		wantErr bool
	}{
		{"URL形式", "https://vms.example.com/visit-details/15", 15, false},
		{"URL末尾带斜杠", "https://vms.example.com/visit-details/15/", 15, false},
		{"http协议", "http://localhost:8080/visit-details/3", 3, false},
		{"旧版JSON数字", `{"visitId": 7}`, 7, false},
		{"旧版JSON字符串", `{"visitId": "7"}`, 7, false},
		{"空数据", "", 0, true},
		{"URL最后一段不是数字", "https://vms.example.com/visit-details/abc", 0, true},
		{"JSON缺少visitId", `{"foo": 1}`, 0, true},
		{"JSON的visitId是负数", `{"visitId": -2}`, 0, true},
		{"既不是URL也不是JSON", "hello world", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := qr.ParsePayload(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQRInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
