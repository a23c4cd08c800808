package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go-pnr-builder/document"
	"go-pnr-builder/models"
	"go-pnr-builder/passenger"
	"go-pnr-builder/photo"
	"go-pnr-builder/pnr"

	"github.com/gorilla/mux"
)

const ErrorInternal = "error:internal"
const ERR_MARSHAL = "failed to marshal response message"
const ERR_BATCH_CREATE = "failed to create batch"
const ERR_BATCH_RETRIEVAL = "failed to get batch from storage"
const ERR_BATCH_STORE = "failed to store batch"
const ERR_BATCH_REMOVE = "failed to remove batch from storage"
const ERR_IMAGE_DECODE = "failed to decode image"
const ERR_COMPRESSION = "failed to compress image"

type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	UseTls         bool   `json:"use_tls,omitempty"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty"`
	TlsCertPath    string `json:"tls_cert_path,omitempty"`
}

type ServerState struct {
	batchStorage   BatchStorage
	batchConfig    passenger.BatchConfig
	clock          passenger.Clock
	defaultCarrier string

	// batchLocks serializes the load-modify-store cycle per batch id.
	// Without it two concurrent add-document calls read the same stored
	// state and the second write erases the first record.
	batchLocks sync.Map
}

// lockBatch takes the mutex for one batch id and returns its unlock func.
func (s *ServerState) lockBatch(batchId string) func() {
	v, _ := s.batchLocks.LoadOrStore(batchId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// releaseBatch drops the mutex entry for a batch that no longer exists.
// Callers blocked on the old mutex proceed and fail their retrieval.
func (s *ServerState) releaseBatch(batchId string) {
	s.batchLocks.Delete(batchId)
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := NewRouter(state)

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

func NewRouter(state *ServerState) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	})

	router.HandleFunc("/api/start-batch", func(w http.ResponseWriter, r *http.Request) {
		handleStartBatch(state, w, r)
	})
	router.HandleFunc("/api/add-document", func(w http.ResponseWriter, r *http.Request) {
		handleAddDocument(state, w, r)
	})
	router.HandleFunc("/api/batch-output", func(w http.ResponseWriter, r *http.Request) {
		handleBatchOutput(state, w, r)
	})
	router.HandleFunc("/api/finish-batch", func(w http.ResponseWriter, r *http.Request) {
		handleFinishBatch(state, w, r)
	})
	router.HandleFunc("/api/compress-photo", func(w http.ResponseWriter, r *http.Request) {
		handleCompressPhoto(state, w, r)
	})
	router.HandleFunc("/api/enhance-scan", func(w http.ResponseWriter, r *http.Request) {
		handleEnhanceScan(state, w, r)
	})

	slog.Debug("Registered all API routes")
	return router
}

func handleStartBatch(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to start a batch")

	batchId := GenerateBatchId()
	if batchId == "" {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_BATCH_CREATE, fmt.Errorf("failed to generate batch ID"))
		return
	}

	if err := storeBatch(state, batchId, passenger.NewBatch(state.batchConfig, state.clock)); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_BATCH_STORE, err)
		return
	}

	response := models.StartBatchResponse{BatchId: batchId}
	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Batch started successfully", "batch_id", batchId)
}

func handleAddDocument(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to add a document")

	var request models.AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode add-document request", err)
		return
	}

	// Held across load, Add and store: the duplicate set lives in the
	// stored snapshot, so the whole cycle must be atomic per batch.
	unlock := state.lockBatch(request.BatchId)
	defer unlock()

	batch, err := loadBatch(state, request.BatchId)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "unknown batch", ERR_BATCH_RETRIEVAL, err)
		return
	}

	fields, err := collectFields(request)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid document data", "failed to read document fields", err)
		return
	}

	record, warning := batch.Add(fields)

	if err := storeBatch(state, request.BatchId, batch); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_BATCH_STORE, err)
		return
	}

	response := models.AddDocumentResponse{Accepted: record != nil}
	if record != nil {
		response.DocumentNumber = record.DocumentNumber
		response.Title = record.Title
		response.Age = record.Age
	}
	if warning != nil {
		response.Warning = &models.Warning{
			Kind:           warning.Kind,
			DocumentNumber: warning.DocumentNumber,
			Detail:         warning.Detail,
		}
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Document processed", "batch_id", request.BatchId, "accepted", response.Accepted)
}

// collectFields merges the three possible sources of document data: the
// recognizer field dict, a DG1 readout, and free-text scanning. Recognizer
// fields win over scanned ones.
func collectFields(request models.AddDocumentRequest) (document.RawFieldSet, error) {
	fields := document.RawFieldSet{}
	for k, v := range request.Fields {
		fields[k] = v
	}

	if request.DG1 != "" {
		mrzFields, err := document.FieldsFromDG1(request.DG1)
		if err != nil {
			return nil, err
		}
		fields.Merge(mrzFields)
	}

	if request.FreeText != "" {
		fields.Merge(document.ScanFreeText(request.FreeText, document.DefaultLabelRules()))
	}

	return fields, nil
}

func handleBatchOutput(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request for batch output")

	var request models.BatchOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode batch-output request", err)
		return
	}

	batch, err := loadBatch(state, request.BatchId)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "unknown batch", ERR_BATCH_RETRIEVAL, err)
		return
	}

	response := buildBatchOutput(state, batch, request.Carrier)

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Batch output generated", "batch_id", request.BatchId, "passengers", len(batch.Records()))
}

// handleFinishBatch renders the final output and consumes the batch: the
// stored state is removed, further calls with this id get a 404.
func handleFinishBatch(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to finish a batch")

	var request models.BatchOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode finish-batch request", err)
		return
	}

	unlock := state.lockBatch(request.BatchId)
	defer unlock()

	batch, err := loadBatch(state, request.BatchId)
	if err != nil {
		respondWithErr(w, http.StatusNotFound, "unknown batch", ERR_BATCH_RETRIEVAL, err)
		return
	}

	response := buildBatchOutput(state, batch, request.Carrier)

	if err := state.batchStorage.RemoveBatch(request.BatchId); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_BATCH_REMOVE, err)
		return
	}
	state.releaseBatch(request.BatchId)

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Batch finished", "batch_id", request.BatchId, "passengers", len(batch.Records()))
}

func buildBatchOutput(state *ServerState, batch *passenger.Batch, carrier string) models.BatchOutputResponse {
	if carrier == "" {
		carrier = state.defaultCarrier
	}
	formatter := pnr.NewFormatter(pnr.Options{Carrier: carrier})

	records := batch.Records()
	response := models.BatchOutputResponse{
		NameLines:     formatter.NameLines(records),
		DocumentLines: formatter.DocumentLines(records),
		Text:          formatter.Output(records),
	}
	for _, warning := range batch.Warnings() {
		response.Warnings = append(response.Warnings, models.Warning{
			Kind:           warning.Kind,
			DocumentNumber: warning.DocumentNumber,
			Detail:         warning.Detail,
		})
	}
	return response
}

func handleCompressPhoto(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to compress a photo")

	var request models.CompressPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode compress-photo request", err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(request.Image)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid image encoding", ERR_IMAGE_DECODE, err)
		return
	}

	img, err := photo.Decode(data)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid image", ERR_IMAGE_DECODE, err)
		return
	}

	target := photo.Target{
		MinBytes: request.MinBytes,
		MaxBytes: request.MaxBytes,
		Width:    request.Width,
		Height:   request.Height,
	}
	opts := photo.DefaultOptions()
	if request.Search == "bisect" {
		opts.Mode = photo.SearchBisect
	}

	result, err := photo.Compress(img, target, opts)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "compression failed", ERR_COMPRESSION, err)
		return
	}

	if !result.InBand {
		slog.Warn("Compression result outside requested band",
			"size", result.Size, "min", request.MinBytes, "max", request.MaxBytes)
	}

	response := models.CompressPhotoResponse{
		Image:   base64.StdEncoding.EncodeToString(result.Data),
		Size:    result.Size,
		Quality: result.Quality,
		Width:   result.Width,
		Height:  result.Height,
		InBand:  result.InBand,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Photo compressed", "size", result.Size, "quality", result.Quality, "in_band", result.InBand)
}

func handleEnhanceScan(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	if !requirePOST(w, r) {
		return
	}

	slog.Info("Received request to enhance a scan")

	var request models.EnhanceScanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid request", "failed to decode enhance-scan request", err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(request.Image)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid image encoding", ERR_IMAGE_DECODE, err)
		return
	}

	img, err := photo.Decode(data)
	if err != nil {
		respondWithErr(w, http.StatusBadRequest, "invalid image", ERR_IMAGE_DECODE, err)
		return
	}

	enhanced, err := photo.EncodeJPEG(photo.EnhanceForRecognition(img), 95)
	if err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, "failed to encode enhanced scan", err)
		return
	}

	response := models.EnhanceScanResponse{
		Image: base64.StdEncoding.EncodeToString(enhanced),
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		respondWithErr(w, http.StatusInternalServerError, ErrorInternal, ERR_MARSHAL, err)
		return
	}

	slog.Info("Scan enhanced successfully")
}

// batch persistence helpers ------------

func loadBatch(state *ServerState, batchId string) (*passenger.Batch, error) {
	if batchId == "" {
		return nil, fmt.Errorf("missing batch id")
	}

	raw, err := state.batchStorage.RetrieveBatch(batchId)
	if err != nil {
		return nil, err
	}

	var snap passenger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode stored batch %s: %w", batchId, err)
	}

	return passenger.RestoreBatch(state.batchConfig, state.clock, snap), nil
}

func storeBatch(state *ServerState, batchId string, batch *passenger.Batch) error {
	raw, err := json.Marshal(batch.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode batch %s: %w", batchId, err)
	}
	return state.batchStorage.StoreBatch(batchId, raw)
}

func GenerateBatchId() string {
	batchId := make([]byte, 16)
	if _, err := rand.Read(batchId); err != nil {
		slog.Error("failed to generate batch ID", "error", err)
		return ""
	}
	hexId := fmt.Sprintf("%x", batchId)
	slog.Debug("Batch ID generated successfully", "batch_id", hexId)
	return hexId
}

// helpers ------------

func respondWithErr(w http.ResponseWriter, code int, responseBody string, logMsg string, e error) {
	slog.Error(logMsg, "error", e, "status_code", code, "response_body", responseBody)
	w.WriteHeader(code)
	if _, err := w.Write([]byte(responseBody)); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Debug("Non-POST request rejected", "method", r.Method, "path", r.URL.Path)
		respondWithErr(w, http.StatusMethodNotAllowed, "method not allowed", "invalid method", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	slog.Debug("Writing JSON response", "status_code", status)
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON payload", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	if err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
	return nil
}
