package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/company-enrich/internal/enrich"
	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/sheet"
	"github.com/sells-group/company-enrich/internal/store"
)

type funcProcessor func(ctx context.Context, in model.CompanyInput) model.EnrichmentResult

func (f funcProcessor) Enrich(ctx context.Context, in model.CompanyInput) model.EnrichmentResult {
	return f(ctx, in)
}

// fakeEnricher marks inputs starting with "x" as not found.
var fakeEnricher = funcProcessor(func(_ context.Context, in model.CompanyInput) model.EnrichmentResult {
	res := model.EnrichmentResult{OriginalInput: in.Input, InputKind: model.InputKindCompanyName, Status: model.StatusSuccess}
	if strings.HasPrefix(in.Input, "x") {
		res.Status = model.StatusNotFound
	} else {
		res.CompanyName = strings.ToUpper(in.Input)
		res.SIREN = "552100554"
	}
	return res
})

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func newTestServer(t *testing.T, withStore bool) (*httptest.Server, store.Store) {
	t.Helper()
	opts := []Option{WithRunnerOptions(enrich.WithThrottle(enrich.NoThrottle{}), enrich.WithConcurrency(2))}
	var st store.Store
	if withStore {
		st = newTestStore(t)
		opts = append(opts, WithStore(st))
	}
	srv := httptest.NewServer(NewServer(fakeEnricher, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func postEnrich(t *testing.T, url string, body any) (*http.Response, EnrichResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/v1/enrich", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	var out EnrichResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestEnrich_InputsOrdered(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, out := postEnrich(t, srv.URL, EnrichRequest{Inputs: []model.CompanyInput{
		{Input: "acme"}, {Input: "  "}, {Input: "xyz"}, {Input: "total", CompanyName: "Total"},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, out.Results, 3)
	assert.Equal(t, "acme", out.Results[0].OriginalInput)
	assert.Equal(t, "xyz", out.Results[1].OriginalInput)
	assert.Equal(t, "total", out.Results[2].OriginalInput)
	assert.Equal(t, model.BatchStats{Completed: 3, Succeeded: 2, NotFound: 1}, out.Stats)
	assert.Equal(t, enrich.Progress{Current: 3, Total: 3}, out.Progress)
	assert.Empty(t, out.BatchID)
	assert.Empty(t, out.Error)
}

func TestEnrich_Text(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, out := postEnrich(t, srv.URL, EnrichRequest{Text: "acme\n\n  jean@total.fr \n"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "jean@total.fr", out.Results[1].OriginalInput)
}

func TestEnrich_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/v1/enrich", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postEnrich(t, srv.URL, EnrichRequest{Text: "   \n"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEnrich_TooManyInputs(t *testing.T) {
	srv := httptest.NewServer(NewServer(fakeEnricher,
		WithMaxInputs(2),
		WithRunnerOptions(enrich.WithThrottle(enrich.NoThrottle{})),
	).Handler())
	defer srv.Close()

	resp, _ := postEnrich(t, srv.URL, EnrichRequest{Text: "a\nb\nc"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func postUpload(t *testing.T, url, name string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/v1/enrich/upload", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func TestEnrichUpload_CSV(t *testing.T) {
	srv, st := newTestServer(t, true)

	resp := postUpload(t, srv.URL, "leads.csv", []byte("Email;Entreprise\nacme@acme.fr;Acme\nxyz@xyz.fr;\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out EnrichResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "acme@acme.fr", out.Results[0].OriginalInput)
	assert.Equal(t, model.StatusNotFound, out.Results[1].Status)
	assert.Equal(t, 1, out.Stats.Succeeded)

	batch, err := st.GetBatch(context.Background(), out.BatchID)
	require.NoError(t, err)
	assert.Equal(t, "upload:leads.csv", batch.Source)
}

func TestEnrichUpload_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := postUpload(t, srv.URL, "leads.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postUpload(t, srv.URL, "empty.txt", []byte("  \n"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	plain, err := http.Post(srv.URL+"/v1/enrich/upload", "text/plain", strings.NewReader("acme"))
	require.NoError(t, err)
	defer plain.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, plain.StatusCode)
}

func TestBatchHistory(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, out := postEnrich(t, srv.URL, EnrichRequest{Text: "acme\nxyz"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.BatchID)

	// List
	lresp, err := http.Get(srv.URL + "/v1/batches?limit=10")
	require.NoError(t, err)
	defer lresp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, lresp.StatusCode)
	var batches []model.Batch
	require.NoError(t, json.NewDecoder(lresp.Body).Decode(&batches))
	require.Len(t, batches, 1)
	assert.Equal(t, out.BatchID, batches[0].ID)
	assert.Equal(t, model.BatchStatusComplete, batches[0].Status)
	assert.Equal(t, "api", batches[0].Source)

	// Show
	gresp, err := http.Get(srv.URL + "/v1/batches/" + out.BatchID)
	require.NoError(t, err)
	defer gresp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, gresp.StatusCode)
	var got BatchResponse
	require.NoError(t, json.NewDecoder(gresp.Body).Decode(&got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Stats.Succeeded)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "acme", got.Results[0].OriginalInput)
	assert.Equal(t, "xyz", got.Results[1].OriginalInput)
}

func TestExportBatch(t *testing.T) {
	srv, _ := newTestServer(t, true)
	_, out := postEnrich(t, srv.URL, EnrichRequest{Text: "acme\nxyz"})

	t.Run("csv", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/batches/" + out.BatchID + "/export?format=csv")
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, sheet.FormatCSV.ContentType(), resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "entreprises_enrichies.csv")

		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "ACME")
	})

	t.Run("xlsx default", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/batches/" + out.BatchID + "/export")
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		require.Equal(t, http.StatusOK, resp.StatusCode)

		f, err := excelize.OpenReader(resp.Body)
		require.NoError(t, err)
		defer f.Close() //nolint:errcheck
		rows, err := f.GetRows(sheet.SheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("bad format", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/batches/" + out.BatchID + "/export?format=pdf")
		require.NoError(t, err)
		resp.Body.Close() //nolint:errcheck
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBatchNotFound(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/v1/batches/missing")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBatches_NoStore(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/v1/batches")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestListBatches_InvalidLimit(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/v1/batches?limit=abc")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, false)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/enrich", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
