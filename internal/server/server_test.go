package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rtftplint/internal/server"
	"github.com/yaklabco/rtftplint/pkg/navigation"
)

func template(items ...string) string {
	var sb strings.Builder
	sb.WriteString(`{\rtf1\ansi `)
	for _, item := range items {
		if name, ok := strings.CutPrefix(item, "FIELD "); ok {
			sb.WriteString(`{\field{\*\fldinst MERGEFIELD ` + name + `}{\fldrslt x}}`)
			continue
		}
		sb.WriteString(`{\*\bkmkstart ` + item + `}{\*\bkmkend ` + item + "}\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func do(t *testing.T, srv *server.Server, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	resp, body := do(t, server.New(server.Options{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	_, err := uuid.Parse(resp.Header.Get(server.HeaderRequestID))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		status    int
		valid     bool
		errorKind string
	}{
		{
			name:   "valid",
			body:   template("IF_a", "FIELD x", "WHILE_b", "SORT_c", "ENDWHILE_b", "ENDIF_a"),
			status: http.StatusOK,
			valid:  true,
		},
		{
			name:      "mismatched end",
			body:      template("IF_a", "WHILE_b", "ENDIF_a"),
			status:    http.StatusUnprocessableEntity,
			errorKind: "mismatched-end",
		},
		{
			name:      "unclosed block",
			body:      template("IF_a"),
			status:    http.StatusUnprocessableEntity,
			errorKind: "unclosed-block",
		},
		{
			name:      "not rtf",
			body:      "hello",
			status:    http.StatusBadRequest,
			errorKind: "unreadable",
		},
		{
			name:      "truncated rtf",
			body:      `{\rtf1 {\b bold`,
			status:    http.StatusBadRequest,
			errorKind: "unreadable",
		},
		{
			name:      "empty body",
			body:      "",
			status:    http.StatusBadRequest,
			errorKind: "unreadable",
		},
	}

	srv := server.New(server.Options{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, body := do(t, srv, http.MethodPost, "/api/validate", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))

			var got server.ValidateResponse
			require.NoError(t, json.Unmarshal(body, &got))

			assert.Equal(t, resp.Header.Get(server.HeaderRequestID), got.ID)
			assert.Equal(t, tt.valid, got.Valid)

			if tt.valid {
				require.NotNil(t, got.Tree)
				assert.Nil(t, got.Error)
				assert.Equal(t, "DOCUMENT", got.Tree.Kind)
				require.Len(t, got.Tree.Children, 1)
				assert.Equal(t, "a", got.Tree.Children[0].Key)
				return
			}

			assert.Nil(t, got.Tree)
			require.NotNil(t, got.Error)
			assert.Equal(t, tt.errorKind, got.Error.Kind)
			assert.NotEmpty(t, got.Error.Message)
		})
	}
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{
		Navigation: navigation.Options{Font: "Calibri", FontSize: 24, IterationLabels: navigation.LabelWhile},
	})
	body := template("IF_a", "WHILE_b", "ENDWHILE_b", "ENDIF_a")

	resp, out := do(t, srv, http.MethodPost, "/api/navigation?source=file:///t.rtf", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(out))
	assert.Equal(t, server.ContentTypeRTF, resp.Header.Get("Content-Type"))

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, `{\rtf1`))
	assert.Contains(t, doc, "Calibri")
	assert.Contains(t, doc, `\fs24`)
	assert.Contains(t, doc, `HYPERLINK "file:///t.rtf"`)
	assert.Contains(t, doc, "ENDWHILE_b")
}

func TestNavigation_Errors(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{})

	resp, _ := do(t, srv, http.MethodPost, "/api/navigation", template("IF_a", "ENDIF_a"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/api/navigation?source=x", template("ENDIF_a"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var got server.ValidateResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, "unmatched-end", got.Error.Kind)
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	srv := server.New(server.Options{BodyLimit: 64})
	body := template("IF_a", "FIELD aVeryLongMergeFieldName", "ENDIF_a")

	resp, _ := do(t, srv, http.MethodPost, "/api/validate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	resp, body := do(t, server.New(server.Options{}), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var got server.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.NotEmpty(t, got.ID)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ":8080", server.New(server.Options{}).Addr())
	assert.Equal(t, ":9000", server.New(server.Options{Addr: ":9000"}).Addr())
}

func TestValidate_LogsCarryRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	srv := server.New(server.Options{Logger: logger})
	resp, _ := do(t, srv, http.MethodPost, "/api/validate", template("IF_a", "ENDIF_a"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id := resp.Header.Get(server.HeaderRequestID)
	require.NotEmpty(t, id)

	out := buf.String()
	assert.Contains(t, out, "open block")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Contains(t, line, "request_id="+id)
	}
}
