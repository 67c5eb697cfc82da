// Package encoding negotiates JSON or MessagePack bodies for the chat API.
// MessagePack payloads reuse the json struct tags so both encodings share
// field names.
package encoding

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const ContentTypeMsgpack = "application/msgpack"
const ContentTypeJSON = "application/json"

// NegotiateContentType checks the Accept header and returns the preferred content type
func NegotiateContentType(r *http.Request) string {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return ContentTypeJSON
	}

	if strings.Contains(accept, ContentTypeMsgpack) {
		return ContentTypeMsgpack
	}

	return ContentTypeJSON
}

// IsMsgpackBody reports whether the request body is declared as MessagePack
func IsMsgpackBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == ContentTypeMsgpack
}

// Write encodes data in the representation the client asked for
func Write(w http.ResponseWriter, r *http.Request, status int, data any) error {
	if NegotiateContentType(r) == ContentTypeMsgpack {
		return WriteMsgpack(w, status, data)
	}
	return WriteJSON(w, status, data)
}

func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteMsgpack writes a MessagePack response with the given status code
func WriteMsgpack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", ContentTypeMsgpack)
	w.WriteHeader(status)

	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(data)
}

// Decode reads the body as MessagePack or JSON depending on Content-Type
func Decode(r *http.Request, target any) error {
	if IsMsgpackBody(r) {
		return ReadMsgpack(r.Body, target)
	}
	return json.NewDecoder(r.Body).Decode(target)
}

// ReadMsgpack reads one MessagePack value from body
func ReadMsgpack(body io.Reader, target any) error {
	dec := msgpack.NewDecoder(body)
	dec.SetCustomStructTag("json")
	return dec.Decode(target)
}
