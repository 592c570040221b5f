package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/garden"
	"github.com/urban-jungle/backend/internal/testutil"
)

var testNow = time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	e       *echo.Echo
	mem     *testutil.MemoryStore
	store   *garden.Store
	advisor *testutil.StubAdvisor
}

// newTestEnv wires the full route table over a memory backend.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat := catalog.Default()
	mem := testutil.NewMemoryStore()
	n := 0
	store := garden.NewStore(mem, cat,
		garden.WithClock(func() time.Time { return testNow }),
		garden.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("entry-%d", n)
		}),
	)
	advisor := &testutil.StubAdvisor{Answer: "Water less."}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Catalog: cat,
		Store:   store,
		Advisor: advisor,
		Now:     func() time.Time { return testNow },
		Version: "test",
		Backend: "memory",
	}))

	return &testEnv{e: e, mem: mem, store: store, advisor: advisor}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target, field, filename string, content []byte, values map[string]string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}
