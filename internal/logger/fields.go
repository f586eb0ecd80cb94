package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldModelID is the structured log field key for the trained artifact id.
	FieldModelID = "model_id"
	// FieldSignature is the structured log field key for the feature layout signature.
	FieldSignature = "layout_signature"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ModelFields returns the fields identifying a trained artifact. The signature
// is shortened to 12 characters, which is enough to tell layouts apart in logs.
func ModelFields(id, signature string) []zap.Field {
	if len(signature) > 12 {
		signature = signature[:12]
	}
	return StringFields(
		StringField{Key: FieldModelID, Value: id},
		StringField{Key: FieldSignature, Value: signature},
	)
}

// WithModelFields attaches the artifact identity to the provided logger.
func WithModelFields(logger *zap.Logger, id, signature string) *zap.Logger {
	return WithFields(logger, ModelFields(id, signature)...)
}
