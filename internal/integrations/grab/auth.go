package grab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const tokenEndpoint = "/grabid/v1/oauth2/token"

func (p *Provider) getToken(ctx context.Context) (string, error) {
	p.tokenMutex.RLock()
	if p.token != "" && time.Now().Before(p.tokenExpiry.Add(-1*time.Minute)) {
		defer p.tokenMutex.RUnlock()
		return p.token, nil
	}
	p.tokenMutex.RUnlock()

	p.tokenMutex.Lock()
	defer p.tokenMutex.Unlock()

	// Повторная проверка внутри Lock на случай, если другой поток уже получил токен
	if p.token != "" && time.Now().Before(p.tokenExpiry.Add(-1*time.Minute)) {
		return p.token, nil
	}

	body, err := json.Marshal(authRequest{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		GrantType:    "client_credentials",
		Scope:        "mart.partner_api",
	})
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса на аутентификацию: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+tokenEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса на аутентификацию: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса на аутентификацию: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API аутентификации Grab вернул статус: %s, тело ответа: %s", resp.Status, string(bodyBytes))
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа с токеном: %w", err)
	}

	if authResp.AccessToken == "" {
		return "", fmt.Errorf("API аутентификации Grab не вернул access_token")
	}

	p.token = authResp.AccessToken
	p.tokenExpiry = time.Now().Add(time.Second * time.Duration(authResp.ExpiresIn))

	return p.token, nil
}
