package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK_DataNeverNull(t *testing.T) {
	resp := OK("req-1", &Result{Message: "done"})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, true, decoded["success"])
	assert.NotNil(t, decoded["data"], "success response must carry a data object")
	assert.Nil(t, decoded["error"], "success response must carry error=null")
	assert.Equal(t, "req-1", decoded["request_id"])
}

func TestFail_ExclusiveError(t *testing.T) {
	resp := Fail("req-2", "failed to read file", E(KindNotFound, "file not found: /tmp/missing"))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Nil(t, decoded["data"], "failure response must carry data=null")
	assert.Equal(t, "NotFound: file not found: /tmp/missing", decoded["error"])
	assert.Equal(t, "req-2", decoded["request_id"])
}

func TestRequest_RoundTrip(t *testing.T) {
	raw := []byte(`{"action":"read_file","data":{"file_path":"a.txt"},"request_id":"abc"}`)

	var req Request
	require.NoError(t, json.Unmarshal(raw, &req))
	assert.Equal(t, ActionReadFile, req.Action)
	assert.Equal(t, "abc", req.RequestID)
	assert.JSONEq(t, `{"file_path":"a.txt"}`, string(req.Data))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTimeout, KindOf(E(KindTimeout, "deadline")))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))

	wrapped := Wrap(KindPermission, assert.AnError, "open %s", "/etc/shadow")
	assert.Equal(t, KindPermission, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, assert.AnError)
}
