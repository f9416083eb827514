package validation

import (
	"context"
	"unicode/utf8"

	"financialproducts/internal/logger"

	"go.uber.org/zap"
)

// minVerifiableIDLength is the shortest identifier worth a remote lookup
const minVerifiableIDLength = 3

// IDVerifier reports whether an identifier is already taken
type IDVerifier interface {
	VerifyID(ctx context.Context, id string) (bool, error)
}

// IDExists reports whether id is already in use.
// Short identifiers are not checked and verifier failures count as "not taken".
func IDExists(ctx context.Context, verifier IDVerifier, id string) bool {
	return idExists(ctx, verifier, id, logger.L())
}

func idExists(ctx context.Context, verifier IDVerifier, id string, log *zap.Logger) bool {
	if verifier == nil || utf8.RuneCountInString(id) < minVerifiableIDLength {
		return false
	}

	exists, err := verifier.VerifyID(ctx, id)
	if err != nil {
		log.Warn("validation.id_check_failed",
			zap.String("id", id),
			zap.Error(err),
		)
		return false
	}
	return exists
}
