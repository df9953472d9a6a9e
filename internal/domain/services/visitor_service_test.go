package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-http-service/internal/domain/models"
)

func newTestVisitorService(t *testing.T) InterfaceVisitorService {
	t.Helper()
	return NewVisitorService(newTestDB(t), newTestConfig())
}

func TestCreateVisitorValidation(t *testing.T) {
	svc := newTestVisitorService(t)

	t.Run("正常登记", func(t *testing.T) {
		visitor := models.Visitor{Name: "张三", Email: "zhangsan@example.com"}
		require.NoError(t, svc.CreateVisitor(&visitor))
		assert.NotZero(t, visitor.ID)
	})

	t.Run("邮箱格式无效", func(t *testing.T) {
		visitor := models.Visitor{Name: "张三", Email: "not-an-email"}
		assert.ErrorIs(t, svc.CreateVisitor(&visitor), ErrVisitorEmailInvalid)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		visitor := models.Visitor{Name: "李四", Email: "zhangsan@example.com"}
		assert.ErrorIs(t, svc.CreateVisitor(&visitor), ErrVisitorEmailTaken)
	})
}

func TestUpdateVisitor(t *testing.T) {
	svc := newTestVisitorService(t)

	first := models.Visitor{Name: "张三", Email: "zhangsan@example.com"}
	require.NoError(t, svc.CreateVisitor(&first))
	second := models.Visitor{Name: "李四", Email: "lisi@example.com"}
	require.NoError(t, svc.CreateVisitor(&second))

	t.Run("更新基本信息", func(t *testing.T) {
		updated, err := svc.UpdateVisitor(first.ID, map[string]interface{}{
			"name":    "张三丰",
			"company": "武当山",
		})
		require.NoError(t, err)
		assert.Equal(t, "张三丰", updated.Name)
		assert.Equal(t, "武当山", updated.Company)
		assert.Equal(t, "zhangsan@example.com", updated.Email)
	})

	t.Run("更新为已占用的邮箱", func(t *testing.T) {
		_, err := svc.UpdateVisitor(first.ID, map[string]interface{}{
			"email": "lisi@example.com",
		})
		assert.ErrorIs(t, err, ErrVisitorEmailTaken)
	})

	t.Run("访客不存在", func(t *testing.T) {
		_, err := svc.UpdateVisitor(9999, map[string]interface{}{"name": "x"})
		assert.ErrorIs(t, err, ErrVisitorNotFound)
	})
}

func TestDeleteVisitor(t *testing.T) {
	svc := newTestVisitorService(t)

	visitor := models.Visitor{Name: "王五", Email: "wangwu@example.com"}
	require.NoError(t, svc.CreateVisitor(&visitor))

	require.NoError(t, svc.DeleteVisitor(visitor.ID))
	_, err := svc.GetVisitorByID(visitor.ID)
	assert.ErrorIs(t, err, ErrVisitorNotFound)

	assert.ErrorIs(t, svc.DeleteVisitor(visitor.ID), ErrVisitorNotFound)
}

func TestGetAllVisitorsPagination(t *testing.T) {
	svc := newTestVisitorService(t)

	for i := 0; i < 12; i++ {
		visitor := models.Visitor{
			Name:  "访客",
			Email: string(rune('a'+i)) + "@example.com",
		}
		require.NoError(t, svc.CreateVisitor(&visitor))
	}

	visitors, total, err := svc.GetAllVisitors(2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, visitors, 2)
}
