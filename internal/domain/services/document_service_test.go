package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-http-service/internal/domain/models"
)

func TestCreateDocument(t *testing.T) {
	svc := NewDocumentService(newTestDB(t), newTestConfig())

	t.Run("正常创建", func(t *testing.T) {
		document := models.Document{Title: "安全须知", Content: "内容", Type: models.DocumentTypeSafety}
		require.NoError(t, svc.CreateDocument(&document))
		assert.NotZero(t, document.ID)
		assert.Equal(t, "1.0", document.Version)
	})

	t.Run("无效类型被拒绝", func(t *testing.T) {
		document := models.Document{Title: "x", Content: "y", Type: "contract"}
		assert.ErrorIs(t, svc.CreateDocument(&document), ErrDocumentInvalidType)
	})
}

func TestSignDocumentAppendsRecord(t *testing.T) {
	svc := NewDocumentService(newTestDB(t), newTestConfig())

	document := models.Document{Title: "保密协议", Content: "内容", Type: models.DocumentTypePolicy}
	require.NoError(t, svc.CreateDocument(&document))

	signed, err := svc.SignDocument(document.ID, "data:image/png;base64,sig1")
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)

	signed, err = svc.SignDocument(document.ID, "data:image/png;base64,sig2")
	require.NoError(t, err)
	assert.Len(t, signed.Signatures, 2)

	_, err = svc.SignDocument(9999, "sig")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestGetAllDocuments(t *testing.T) {
	db := newTestDB(t)
	svc := NewDocumentService(db, newTestConfig())

	for _, title := range []string{"文档A", "文档B", "文档C"} {
		document := models.Document{Title: title, Content: "内容", Type: models.DocumentTypeOther}
		require.NoError(t, svc.CreateDocument(&document))
	}

	documents, err := svc.GetAllDocuments()
	require.NoError(t, err)
	assert.Len(t, documents, 3)
}
