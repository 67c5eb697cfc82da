package encoding

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

func TestNegotiateContentType(t *testing.T) {
	tests := []struct {
		name         string
		acceptHeader string
		expectedType string
	}{
		{name: "Empty Accept header defaults to JSON", acceptHeader: "", expectedType: ContentTypeJSON},
		{name: "Explicit MessagePack request", acceptHeader: "application/msgpack", expectedType: ContentTypeMsgpack},
		{name: "Explicit JSON request", acceptHeader: "application/json", expectedType: ContentTypeJSON},
		{name: "Wildcard defaults to JSON", acceptHeader: "*/*", expectedType: ContentTypeJSON},
		{name: "Multiple types with MessagePack", acceptHeader: "application/json, application/msgpack", expectedType: ContentTypeMsgpack},
		{name: "Unknown content type defaults to JSON", acceptHeader: "application/xml", expectedType: ContentTypeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.acceptHeader != "" {
				req.Header.Set("Accept", tt.acceptHeader)
			}
			assert.Equal(t, tt.expectedType, NegotiateContentType(req))
		})
	}
}

func TestWrite_UsesJSONTagsForMsgpack(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/chat", nil)
	req.Header.Set("Accept", ContentTypeMsgpack)
	w := httptest.NewRecorder()

	require.NoError(t, Write(w, req, http.StatusOK, payload{Message: "hi", SessionID: "sess_1"}))

	assert.Equal(t, ContentTypeMsgpack, w.Header().Get("Content-Type"))
	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "hi", decoded["message"])
	assert.Equal(t, "sess_1", decoded["sessionId"])
}

func TestWrite_DefaultsToJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/chat", nil)
	w := httptest.NewRecorder()

	require.NoError(t, Write(w, req, http.StatusCreated, payload{Message: "hi"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"hi"}`, w.Body.String())
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	require.NoError(t, enc.Encode(payload{Message: "boots", SessionID: "sess_2"}))

	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        payload
		wantErr     bool
	}{
		{name: "json", contentType: "application/json", body: []byte(`{"message":"boots"}`), want: payload{Message: "boots"}},
		{name: "no content type is json", body: []byte(`{"message":"boots"}`), want: payload{Message: "boots"}},
		{name: "msgpack", contentType: ContentTypeMsgpack, body: buf.Bytes(), want: payload{Message: "boots", SessionID: "sess_2"}},
		{name: "msgpack with params", contentType: ContentTypeMsgpack + "; charset=binary", body: buf.Bytes(), want: payload{Message: "boots", SessionID: "sess_2"}},
		{name: "invalid msgpack", contentType: ContentTypeMsgpack, body: []byte{0xFF, 0xFE, 0xFD}, wantErr: true},
		{name: "invalid json", contentType: "application/json", body: []byte(`{"message":`), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/chat", bytes.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			var got payload
			err := Decode(req, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadMsgpack_InvalidData(t *testing.T) {
	var out payload
	assert.Error(t, ReadMsgpack(strings.NewReader("\xc1"), &out))
}
