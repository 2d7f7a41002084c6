package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTranslator(t *testing.T, handler http.HandlerFunc) *Translator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr := New(5 * time.Second)
	tr.baseURL = srv.URL
	return tr
}

func TestTranslate_RussianIsNoOp(t *testing.T) {
	tr := New(5 * time.Second)
	assert.Equal(t, "привет", tr.Translate(context.Background(), "привет", "ru"))
}

func TestTranslate_Success(t *testing.T) {
	tr := newTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ru|en", r.URL.Query().Get("langpair"))
		fmt.Fprint(w, `{"responseStatus":200,"responseData":{"translatedText":"hello"}}`)
	})

	assert.Equal(t, "hello", tr.Translate(context.Background(), "привет", "en"))
}

func TestTranslate_ServiceErrorFallsBack(t *testing.T) {
	tr := newTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Equal(t, "привет", tr.Translate(context.Background(), "привет", "en"))
}

func TestTranslate_BadPayloadFallsBack(t *testing.T) {
	tr := newTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseStatus":403,"responseData":{"translatedText":""}}`)
	})

	assert.Equal(t, "текст", tr.Translate(context.Background(), "текст", "en"))
}

func TestTranslate_EmptyText(t *testing.T) {
	tr := New(5 * time.Second)
	assert.Equal(t, "", tr.Translate(context.Background(), "", "en"))
}
