package grab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	apperrors "pharma-pos/pkg/errors"
)

// doJSON выполняет авторизованный запрос к партнёрскому API.
// Любая сетевая ошибка или не-2xx статус сворачиваются в ErrGatewayUnavailable:
// вызывающий код решает сам, блокирует его это или нет (см. cancel vs mark-ready).
func (p *Provider) doJSON(ctx context.Context, method, endpoint string, payload any, out any) error {
	token, err := p.getToken(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить токен аутентификации: %w: %w", err, apperrors.ErrGatewayUnavailable)
	}

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ошибка сериализации запроса %s: %w", endpoint, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("Партнёрский API Grab недоступен",
			zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("ошибка выполнения запроса '%s': %w: %w", endpoint, err, apperrors.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API Grab для '%s' вернул статус %s: %w", endpoint, resp.Status, apperrors.ErrGatewayUnavailable)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("ошибка парсинга ответа '%s': %w", endpoint, err)
		}
	}
	return nil
}

// MarkOrderReady сообщает Grab, что заказ собран и ждёт курьера.
func (p *Provider) MarkOrderReady(ctx context.Context, grabOrderID string) error {
	return p.doJSON(ctx, http.MethodPost, "/partner/v1/orders/mark",
		markOrderRequest{OrderID: grabOrderID, MarkStatus: 1}, nil)
}

// CheckCancellable спрашивает Grab, можно ли ещё отменить заказ.
func (p *Provider) CheckCancellable(ctx context.Context, grabOrderID string) (*CancellableResponse, error) {
	endpoint := "/partner/v1/order/cancelable?orderID=" + url.QueryEscape(grabOrderID)
	var out CancellableResponse
	if err := p.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder отправляет запрос на отмену заказа с кодом причины.
func (p *Provider) CancelOrder(ctx context.Context, grabOrderID, merchantID, cancelCode string) error {
	return p.doJSON(ctx, http.MethodPut, "/partner/v1/order/cancel",
		cancelOrderRequest{OrderID: grabOrderID, MerchantID: merchantID, CancelCode: cancelCode}, nil)
}

// ListMartCategories отдаёт справочник категорий GrabMart для сборки меню.
func (p *Provider) ListMartCategories(ctx context.Context) (*CategoriesResponse, error) {
	var out CategoriesResponse
	if err := p.doJSON(ctx, http.MethodGet, "/partner/v1/menu/categories", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
