package offerings

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifearrow/platform/internal/httputil"
)

func TestWriteOfferingError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"missing row", ErrNotFound, 404, "NOT_FOUND"},
		{"wrapped missing row", errors.Join(errors.New("load"), ErrNotFound), 404, "NOT_FOUND"},
		{"database failure", errors.New("connection refused"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeOfferingError(rec, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			var resp httputil.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantErr, resp.Error.Code)
		})
	}
}
