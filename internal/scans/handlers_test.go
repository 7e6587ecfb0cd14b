package scans

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifearrow/platform/internal/httputil"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteScanErrorMissingRow(t *testing.T) {
	rec := httptest.NewRecorder()
	writeScanError(rec, ErrNotFound)

	assert.Equal(t, 404, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteScanErrorDatabaseFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeScanError(rec, errors.New("connection refused"))

	assert.Equal(t, 500, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL", resp.Error.Code)
}
