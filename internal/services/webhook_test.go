package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharma-pos/internal/dto"
	"pharma-pos/internal/entities"
	apperrors "pharma-pos/pkg/errors"
)

func submitPayload(orderID string, items []dto.GrabOrderItemDTO) (dto.SubmitOrderDTO, []byte) {
	payload := dto.SubmitOrderDTO{
		OrderID:           orderID,
		PartnerMerchantID: "MERCHANT-1",
		Items:             items,
	}
	raw, _ := json.Marshal(payload)
	return payload, raw
}

func TestWebhookService_ResolveBranch(t *testing.T) {
	t.Run("известный мерчант", func(t *testing.T) {
		env := newTestEnv()
		branch, err := env.webhookService.ResolveBranch(context.Background(), "MERCHANT-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), branch.ID)
	})

	t.Run("неизвестный мерчант", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.webhookService.ResolveBranch(context.Background(), "MERCHANT-UNKNOWN")
		assert.ErrorIs(t, err, apperrors.ErrUnknownMerchant)
	})
}

func TestWebhookService_ProcessSubmitOrder(t *testing.T) {
	t.Run("создаёт заказ в статусе INCOMING", func(t *testing.T) {
		env := newTestEnv()
		payload, raw := submitPayload("GRAB-1", []dto.GrabOrderItemDTO{
			{ID: "PARA-500", Quantity: 2, Modifiers: []dto.GrabModifierDTO{{Name: "strip"}}},
		})

		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload, raw))

		order := env.state.orders["GRAB-1"]
		assert.Equal(t, entities.StatusIncoming, order.Status)
		assert.Equal(t, uint64(1), order.BranchID)
		require.Len(t, order.Items, 1)
		// Количество хранится как прислал Grab, конверсия — при принятии.
		assert.Equal(t, int64(2), order.Items[0].Quantity)
		assert.JSONEq(t, string(raw), string(order.GrabPayloadRaw))
	})

	t.Run("повторная доставка не создаёт дубликата", func(t *testing.T) {
		env := newTestEnv()
		payload1, raw1 := submitPayload("GRAB-2", []dto.GrabOrderItemDTO{
			{ID: "PARA-500", Quantity: 1},
		})
		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload1, raw1))
		firstID := env.state.orders["GRAB-2"].ID

		payload2, raw2 := submitPayload("GRAB-2", []dto.GrabOrderItemDTO{
			{ID: "PARA-500", Quantity: 3},
			{ID: "VIT-C", Quantity: 1},
		})
		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload2, raw2))

		assert.Len(t, env.state.orders, 1)
		order := env.state.orders["GRAB-2"]
		assert.Equal(t, firstID, order.ID)
		require.Len(t, order.Items, 2)
		assert.Equal(t, int64(3), order.Items[0].Quantity)
		assert.JSONEq(t, string(raw2), string(order.GrabPayloadRaw))
	})

	t.Run("повторная доставка возвращает заказ в INCOMING", func(t *testing.T) {
		env := newTestEnv()
		env.setStock(1, "PARA-500", 100)
		payload, raw := submitPayload("GRAB-3", []dto.GrabOrderItemDTO{
			{ID: "PARA-500", Quantity: 1},
		})
		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload, raw))
		_, err := env.orderService.Accept(context.Background(), "GRAB-3")
		require.NoError(t, err)

		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload, raw))
		assert.Equal(t, entities.StatusIncoming, env.state.orders["GRAB-3"].Status)
	})

	t.Run("позиция без id сохраняется как UNKNOWN", func(t *testing.T) {
		env := newTestEnv()
		payload, raw := submitPayload("GRAB-4", []dto.GrabOrderItemDTO{
			{Quantity: 2},
		})

		require.NoError(t, env.webhookService.ProcessSubmitOrder(context.Background(), 1, payload, raw))
		require.Len(t, env.state.orders["GRAB-4"].Items, 1)
		assert.Equal(t, "UNKNOWN", env.state.orders["GRAB-4"].Items[0].ProductID)
	})
}

func TestWebhookService_ProcessOrderState(t *testing.T) {
	seedPrepared := func(t *testing.T, env *testEnv, grabOrderID string) {
		t.Helper()
		env.setStock(1, "PARA-500", 100)
		env.seedIncomingOrder(grabOrderID, []dto.GrabOrderItemDTO{{ID: "PARA-500", Quantity: 1}})
		_, err := env.orderService.Accept(context.Background(), grabOrderID)
		require.NoError(t, err)
	}

	t.Run("COMPLETED нормализуется в DELIVERED", func(t *testing.T) {
		env := newTestEnv()
		seedPrepared(t, env, "GRAB-1")

		err := env.webhookService.ProcessOrderState(context.Background(), dto.OrderStateDTO{
			OrderID: "GRAB-1", State: "COMPLETED",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusDelivered, env.state.orders["GRAB-1"].Status)
	})

	t.Run("FAILED нормализуется в CANCELLED", func(t *testing.T) {
		env := newTestEnv()
		seedPrepared(t, env, "GRAB-2")

		err := env.webhookService.ProcessOrderState(context.Background(), dto.OrderStateDTO{
			OrderID: "GRAB-2", State: "FAILED",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusCancelled, env.state.orders["GRAB-2"].Status)
	})

	t.Run("курьерские статусы игнорируются", func(t *testing.T) {
		env := newTestEnv()
		seedPrepared(t, env, "GRAB-3")

		err := env.webhookService.ProcessOrderState(context.Background(), dto.OrderStateDTO{
			OrderID: "GRAB-3", State: "DRIVER_ARRIVED",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPreparing, env.state.orders["GRAB-3"].Status)
	})

	t.Run("неизвестный статус отбрасывается без ошибки", func(t *testing.T) {
		env := newTestEnv()
		seedPrepared(t, env, "GRAB-4")

		err := env.webhookService.ProcessOrderState(context.Background(), dto.OrderStateDTO{
			OrderID: "GRAB-4", State: "TELEPORTED",
		})
		require.NoError(t, err)
		assert.Equal(t, entities.StatusPreparing, env.state.orders["GRAB-4"].Status)
	})

	t.Run("неизвестный заказ отбрасывается без ошибки", func(t *testing.T) {
		env := newTestEnv()
		err := env.webhookService.ProcessOrderState(context.Background(), dto.OrderStateDTO{
			OrderID: "NO-SUCH", State: "COMPLETED",
		})
		assert.NoError(t, err)
	})
}

func TestWebhookService_RecordMenuSyncState(t *testing.T) {
	env := newTestEnv()
	err := env.webhookService.RecordMenuSyncState(context.Background(), dto.MenuSyncStateDTO{
		RequestID:         "req-1",
		MerchantID:        "GRAB-MERCHANT",
		PartnerMerchantID: "MERCHANT-1",
		JobID:             "job-1",
		Status:            "FAILED",
		Errors:            []string{"item SKU-1 rejected"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-1/FAILED"}, env.menuSyncRepo.logs)
}
