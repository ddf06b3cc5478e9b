package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "pharma-pos/pkg/errors"
	"pharma-pos/pkg/utils"
)

const signatureHeader = "X-Grab-Signature"

type SignatureMiddleware struct {
	secret []byte
	logger *zap.Logger
}

func NewSignatureMiddleware(secret string, logger *zap.Logger) *SignatureMiddleware {
	return &SignatureMiddleware{secret: []byte(secret), logger: logger}
}

// Verify сверяет HMAC-SHA256 подпись вебхука.
// Важно: HMAC считается от исходных байтов тела, а не от перекодированного JSON,
// иначе подпись не сойдётся из-за порядка ключей и пробелов.
func (m *SignatureMiddleware) Verify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		signature := c.Request().Header.Get(signatureHeader)
		if signature == "" {
			m.logger.Warn("Вебхук без подписи", zap.String("uri", c.Request().RequestURI))
			return utils.ErrorResponse(c, apperrors.ErrInvalidSignature, m.logger)
		}

		rawBody, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.NewBadRequestError("Не удалось прочитать тело запроса"), m.logger)
		}
		// Возвращаем тело на место, чтобы Bind в контроллере отработал.
		c.Request().Body = io.NopCloser(bytes.NewReader(rawBody))

		mac := hmac.New(sha256.New, m.secret)
		mac.Write(rawBody)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(signature), []byte(expected)) {
			m.logger.Warn("Неверная подпись вебхука", zap.String("uri", c.Request().RequestURI))
			return utils.ErrorResponse(c, apperrors.ErrInvalidSignature, m.logger)
		}

		return next(c)
	}
}
