package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/transpile"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	cfg.Logger = zaptest.NewLogger(t)
	cfg.Options = transpile.DefaultOptions()
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, contentType string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/transpile"+query, contentType, bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestTranspileRawBody(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "?specifier=a.ts", "text/plain", []byte("const x: number = 1;\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decode[TranspileResponse](t, resp)
	require.Equal(t, "a.ts", body.Specifier)
	require.Equal(t, "const x = 1;\n", body.Code)
	require.Empty(t, body.Map)
	require.Empty(t, body.Diagnostics)
}

func TestTranspileRawFormat(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "?specifier=a.ts&format=js&minify", "text/plain", []byte("let a: number = 1;\nfoo(a);\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/javascript")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "let a=1;foo(a)", buf.String(), "minified output has no trailing newline")
}

func TestTranspileMultipart(t *testing.T) {
	ts := newTestServer(t, Config{})

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("note", "ignored"))
	fw, err := mw.CreateFormFile("file", "app.tsx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("export const App = (p: { n: number }) => <b>{p.n}</b>;\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp := post(t, ts, "?source_map=separate", mw.FormDataContentType(), form.Bytes())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[TranspileResponse](t, resp)
	require.Equal(t, "app.tsx", body.Specifier)
	require.Contains(t, body.Code, "react/jsx-runtime")
	require.Contains(t, body.Code, "//# sourceMappingURL=app.js.map")
	require.NotEmpty(t, body.Map)

	var m map[string]any
	require.NoError(t, json.Unmarshal(body.Map, &m))
	require.EqualValues(t, 3, m["version"])
}

func TestTranspileMultipartWithoutFile(t *testing.T) {
	ts := newTestServer(t, Config{})

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("source", "1;"))
	require.NoError(t, mw.Close())

	resp := post(t, ts, "", mw.FormDataContentType(), form.Bytes())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	require.Contains(t, body.Error, `"file"`)
}

func TestTranspileFailures(t *testing.T) {
	ts := newTestServer(t, Config{MaxBodyBytes: 64})

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		error  string
		state  string
	}{
		{
			name:   "syntax error",
			query:  "?specifier=a.tsx",
			body:   "const a = <div>hello",
			status: http.StatusUnprocessableEntity,
			error:  "SyntaxError",
			state:  transpile.StateParseFailed.String(),
		},
		{
			name:   "transform error",
			query:  "?specifier=a.ts",
			body:   "export = 1;",
			status: http.StatusUnprocessableEntity,
			error:  "TransformInvariantError",
			state:  transpile.StateTransformFailed.String(),
		},
		{
			name:   "configuration error",
			query:  "?jsx_runtime=classic&jsx_import_source=preact",
			body:   "1;",
			status: http.StatusBadRequest,
			error:  "ConfigurationError",
			state:  transpile.StateIdle.String(),
		},
		{
			name:   "unknown parameter",
			query:  "?minfy=1",
			body:   "1;",
			status: http.StatusBadRequest,
			error:  `unknown parameter "minfy"`,
		},
		{
			name:   "bad target",
			query:  "?target=es3",
			body:   "1;",
			status: http.StatusBadRequest,
			error:  "target:",
		},
		{
			name:   "body too large",
			body:   strings.Repeat("a;", 64),
			status: http.StatusRequestEntityTooLarge,
			error:  "failed to read body",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.query, "text/plain", []byte(tt.body))
			require.Equal(t, tt.status, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			require.Contains(t, body.Error, tt.error)
			require.Equal(t, tt.state, body.State)
			if tt.state != "" {
				require.NotEmpty(t, body.Diagnostics)
			}
		})
	}
}

func TestSyntaxErrorLocation(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts, "?specifier=a.tsx", "text/plain", []byte("const a = <div>hello"))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	require.NotEmpty(t, body.Diagnostics)
	loc := body.Diagnostics[0].Location
	require.NotNil(t, loc)
	require.Equal(t, "a.tsx", loc.File)
	require.EqualValues(t, 1, loc.StartLine)
}

func TestHealthReportsMemo(t *testing.T) {
	ts := newTestServer(t, Config{Version: "1.0.0-test"})

	for i := 0; i < 3; i++ {
		resp := post(t, ts, "?specifier=a.ts", "text/plain", []byte("let a: string = 'x';\n"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[healthResponse](t, resp)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "1.0.0-test", health.Version)
	require.Equal(t, 1, health.Memo.Entries)
	require.EqualValues(t, 2, health.Memo.Hits)
	require.EqualValues(t, 1, health.Memo.Misses)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, Config{})

	require.Equal(t, http.StatusOK, post(t, ts, "?specifier=a.ts", "text/plain", []byte("let a = 1;\n")).StatusCode)
	require.Equal(t, http.StatusOK, post(t, ts, "?specifier=a.ts", "text/plain", []byte("let a = 1;\n")).StatusCode)
	require.Equal(t, http.StatusUnprocessableEntity, post(t, ts, "?specifier=b.tsx", "text/plain", []byte("const a = <div>hello")).StatusCode)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	text := buf.String()
	require.Contains(t, text, `mesozoic_transpile_total{outcome="ok"} 2`)
	require.Contains(t, text, `mesozoic_transpile_total{outcome="failed"} 1`)
	require.Contains(t, text, `mesozoic_http_requests_total{code="200",route="/transpile"} 2`)
	require.Contains(t, text, `mesozoic_http_requests_total{code="422",route="/transpile"} 1`)
	require.Contains(t, text, "mesozoic_memo_hits_total 1")
	require.Contains(t, text, "mesozoic_memo_entries 1")
}

func TestApplyQuery(t *testing.T) {
	base := transpile.DefaultOptions()
	base.Defines = map[string]string{"A": "1"}
	base.StripConditionals = []string{"__DEV__"}

	q := url.Values{
		"syntax":      {"tsx"},
		"target":      {"es2017"},
		"jsx_runtime": {"classic"},
		"development": {""},
		"minify":      {"false"},
		"source_map":  {"inline"},
		"define":      {"B=2", "C=\"c\""},
		"strip":       {"__TEST__"},
	}
	opts, err := applyQuery(base, q)
	require.NoError(t, err)
	require.Equal(t, dialect.TSX, opts.SyntaxOverride)
	require.Equal(t, fold.RuntimeClassic, opts.JSXRuntime)
	require.True(t, opts.Development)
	require.False(t, opts.Minify)
	require.Equal(t, transpile.SourceMapInline, opts.SourceMap)
	require.Equal(t, map[string]string{"A": "1", "B": "2", "C": `"c"`}, opts.Defines)
	require.Equal(t, []string{"__DEV__", "__TEST__"}, opts.StripConditionals)

	target, err := fold.ParseTarget("es2017")
	require.NoError(t, err)
	require.Equal(t, target, opts.Target)

	// базовые опции не должны меняться
	require.Equal(t, map[string]string{"A": "1"}, base.Defines)
	require.Equal(t, []string{"__DEV__"}, base.StripConditionals)

	_, err = applyQuery(base, url.Values{"define": {"=1"}})
	require.Error(t, err)
	_, err = applyQuery(base, url.Values{"minify": {"maybe"}})
	require.ErrorContains(t, err, "minify")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := New(Config{Logger: zaptest.NewLogger(t)})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
