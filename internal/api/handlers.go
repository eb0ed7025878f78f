package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/enrich"
	"github.com/sells-group/company-enrich/internal/model"
	"github.com/sells-group/company-enrich/internal/sheet"
	"github.com/sells-group/company-enrich/internal/store"
)

// EnrichRequest carries either explicit inputs or pasted text, one input
// per line. Inputs wins when both are set.
type EnrichRequest struct {
	Inputs []model.CompanyInput `json:"inputs"`
	Text   string               `json:"text"`
}

// EnrichResponse is the outcome of a synchronous batch.
type EnrichResponse struct {
	BatchID  string                   `json:"batch_id,omitempty"`
	Results  []model.EnrichmentResult `json:"results"`
	Stats    model.BatchStats         `json:"stats"`
	Progress enrich.Progress          `json:"progress"`
	Error    string                   `json:"error,omitempty"`
}

// BatchResponse is a batch with its stored results.
type BatchResponse struct {
	model.Batch
	Results []model.EnrichmentResult `json:"results"`
}

func (req EnrichRequest) inputs() []model.CompanyInput {
	var out []model.CompanyInput
	for _, in := range req.Inputs {
		in.Input = strings.TrimSpace(in.Input)
		in.CompanyName = strings.TrimSpace(in.CompanyName)
		if in.Input != "" {
			out = append(out, in)
		}
	}
	if len(req.Inputs) == 0 && req.Text != "" {
		out = sheet.ParseText(req.Text)
	}
	return out
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.runBatch(w, r, "api", req.inputs())
}

// handleUpload enriches the rows of a multipart "file" field (.xlsx, .csv
// or .txt).
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close() //nolint:errcheck

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}
	inputs, err := sheet.ReadBytes(hdr.Filename, data)
	if err != nil {
		zap.L().Warn("api: parse upload", zap.String("file", hdr.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, "could not parse "+hdr.Filename)
		return
	}
	s.runBatch(w, r, "upload:"+hdr.Filename, inputs)
}

func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, source string, inputs []model.CompanyInput) {
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "no inputs")
		return
	}
	if len(inputs) > s.maxInputs {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("too many inputs: %d > %d", len(inputs), s.maxInputs))
		return
	}

	var rec enrich.BatchRecorder
	if s.store != nil {
		rec = s.store
	}
	batch, report, err := enrich.RunRecorded(r.Context(), rec, source, s.processor, inputs, s.runnerOpts...)
	if err != nil && batch == nil {
		zap.L().Error("api: enrich batch", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "batch could not be started")
		return
	}
	if err != nil {
		zap.L().Warn("api: finalize batch", zap.Error(err))
	}

	resp := EnrichResponse{
		Results:  report.Results,
		Stats:    report.Stats,
		Progress: report.Progress,
	}
	if resp.Results == nil {
		resp.Results = []model.EnrichmentResult{}
	}
	if batch != nil {
		resp.BatchID = batch.ID
	}
	if report.Err != nil {
		resp.Error = report.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "batch history is disabled")
		return false
	}
	return true
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query()
	filter := store.BatchFilter{Status: model.BatchStatus(q.Get("status"))}
	var err error
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil || filter.Offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}

	batches, err := s.store.ListBatches(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list batches", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	if batches == nil {
		batches = []model.Batch{}
	}
	writeJSON(w, http.StatusOK, batches)
}

// loadBatch fetches the batch and its results, writing the error response
// itself when it returns false.
func (s *Server) loadBatch(w http.ResponseWriter, r *http.Request) (*model.Batch, []model.EnrichmentResult, bool) {
	if !s.requireStore(w) {
		return nil, nil, false
	}
	id := chi.URLParam(r, "id")
	batch, err := s.store.GetBatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "batch not found")
		return nil, nil, false
	}
	if err != nil {
		zap.L().Error("api: get batch", zap.String("batch_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load batch")
		return nil, nil, false
	}
	results, err := s.store.ListResults(r.Context(), id)
	if err != nil {
		zap.L().Error("api: list results", zap.String("batch_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return nil, nil, false
	}
	return batch, results, true
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batch, results, ok := s.loadBatch(w, r)
	if !ok {
		return
	}
	if results == nil {
		results = []model.EnrichmentResult{}
	}
	writeJSON(w, http.StatusOK, BatchResponse{Batch: *batch, Results: results})
}

func (s *Server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	format, err := sheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_, results, ok := s.loadBatch(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, sheet.DefaultFileName, format))
	if err := sheet.Write(w, format, results); err != nil {
		zap.L().Error("api: export batch", zap.String("batch_id", chi.URLParam(r, "id")), zap.Error(err))
	}
}
