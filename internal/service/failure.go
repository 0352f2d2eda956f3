package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/decoder"
	"github.com/utafrali/storefront/internal/network"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// failure logs err and returns what the caller should see. Client errors
// come back as *errors.AppError decoded from the response body; transport
// and decoding failures are wrapped with op.
func failure(ctx context.Context, l *slog.Logger, op string, err error) error {
	l = logger.WithContext(ctx, l)

	var ce *network.ClientError
	if errors.As(err, &ce) {
		appErr := decoder.ClientFailure(ce.Status, ce.Body)
		attrs := []any{
			slog.String("operation", op),
			slog.Int("status", ce.Status),
			slog.String("error", appErr.Error()),
		}
		var ae *apperrors.AppError
		if errors.As(appErr, &ae) {
			attrs = append(attrs, slog.String("code", ae.Code))
		}
		l.WarnContext(ctx, "storefront client error", attrs...)
		return appErr
	}

	l.ErrorContext(ctx, "storefront request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, err)
}

type mutationResult struct {
	Result int `json:"result"`
}

// checkResult decodes a {"result":1} acknowledgement.
func checkResult(data []byte) error {
	res, err := decoder.Decode[mutationResult](data)
	if err != nil {
		return err
	}
	if res.Result != 1 {
		return fmt.Errorf("unexpected result %d", res.Result)
	}
	return nil
}
