package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyview/domain"
)

func TestClassify(t *testing.T) {
	verr := &domain.ValidationError{Fields: map[string]string{"ra": "must be <= 360"}}
	assert.Equal(t, ErrCodeValidation, Classify(verr, nil).Code)

	unavailable := &domain.RetrievalUnavailableError{LastReason: "status 503"}
	appErr := Classify(unavailable, map[string]interface{}{"survey": "DSS2"})
	assert.Equal(t, ErrCodeUnavailable, appErr.Code)
	assert.True(t, stderrors.Is(appErr, domain.ErrRetrievalUnavailable))

	assert.Equal(t, ErrCodeUnknown, Classify(stderrors.New("boom"), nil).Code)

	existing := ExternalAPIError("catalog down", nil, nil)
	assert.Same(t, existing, Classify(existing, nil))
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	LogError(log, ValidationError("bad ra", stderrors.New("ra out of range"), map[string]interface{}{"ra": 400.0}), "retrieve_cutout")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "VALIDATION_ERROR", record["error_code"])
	assert.Equal(t, "retrieve_cutout", record["operation"])
	assert.Equal(t, "ra out of range", record["cause"])
	assert.Equal(t, 400.0, record["ra"])

	LogError(nil, stderrors.New("ignored"), "noop")
}
