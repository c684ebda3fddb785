package api

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fuzzy-rank/adapters/storage"
	"fuzzy-rank/adapters/tabular"
	"fuzzy-rank/core/explanation"
	"fuzzy-rank/core/fuzzy"
	"fuzzy-rank/core/ranking"
	"fuzzy-rank/core/types"
	"fuzzy-rank/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// evalKey identifies a memoized evaluation
type evalKey struct {
	service float64
	price   float64
}

// evaluate runs the engine, memoizing by input pair
func (s *Server) evaluate(service, price float64) fuzzy.Evaluation {
	if s.cache == nil {
		return s.engine.Evaluate(service, price)
	}
	key := evalKey{service, price}
	if v, ok := s.cache.Get(key); ok {
		return v.(fuzzy.Evaluation)
	}
	ev := s.engine.Evaluate(service, price)
	s.cache.Add(key, ev)
	return ev
}

// handleEvaluate handles POST /v1/evaluate
func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Service == nil || req.Price == nil {
		abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "service and price are required")
		return
	}

	ev := s.evaluate(*req.Service, req.Price.InexactFloat64())
	resp := EvaluateResponse{
		ID:      req.ID,
		Service: *req.Service,
		Price:   *req.Price,
		Score:   ev.Score,
	}
	if req.Trace {
		resp.Evaluation = &ev
		resp.Rules = fuzzy.Fire(ev.Service, ev.Price)
		resp.Narrative = explanation.Explain(req.ID, *req.Service, req.Price.InexactFloat64(), ev).ToNarrative()
	}
	c.JSON(http.StatusOK, resp)
}

// handleRank handles POST /v1/rank
func (s *Server) handleRank(c *gin.Context) {
	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if len(req.Records) == 0 {
		abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "records must not be empty")
		return
	}
	if err := s.checkBatchSize(len(req.Records)); err != nil {
		s.writeError(c, err)
		return
	}

	topN := s.topN
	if req.TopN != nil {
		if *req.TopN < 0 {
			abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "top_n must be >= 0")
			return
		}
		topN = *req.TopN
	}

	records, skipped := recordsFromRequest(req.Records)
	input := types.InputMetadata{Source: types.SourceAPI, Name: req.Name, Format: "json"}
	s.rank(c, input, records, skipped, topN, req.Trace)
}

// recordsFromRequest validates request records; rows are numbered from 1
func recordsFromRequest(in []RecordInput) ([]types.Record, []types.RowError) {
	var records []types.Record
	var skipped []types.RowError
	for i, r := range in {
		row := i + 1
		switch {
		case r.ID == "":
			skipped = append(skipped, types.RowError{Row: row, Message: "missing id"})
		case r.Service == nil:
			skipped = append(skipped, types.RowError{Row: row, ID: r.ID, Message: "missing service"})
		case math.IsNaN(*r.Service) || math.IsInf(*r.Service, 0):
			skipped = append(skipped, types.RowError{Row: row, ID: r.ID, Message: "service is not a finite number"})
		case r.Price == nil:
			skipped = append(skipped, types.RowError{Row: row, ID: r.ID, Message: "missing price"})
		default:
			records = append(records, types.Record{ID: r.ID, Service: *r.Service, Price: *r.Price, Row: row})
		}
	}
	return records, skipped
}

// handleUpload handles POST /v1/rank/upload (multipart field "file").
// Query: top_n, trace, format=json|xlsx|csv.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		s.writeError(c, errors.Wrap(errors.TypeInput, "failed to read upload", err))
		return
	}
	if len(data) > maxUploadBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, string(errors.TypeInput), "upload too large")
		return
	}

	topN := s.topN
	if q := c.Query("top_n"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "top_n must be a non-negative integer")
			return
		}
		topN = n
	}
	trace := c.Query("trace") == "true"

	source, format, err := tabular.FromBytes(header.Filename, data, s.input)
	if err != nil {
		s.writeError(c, err)
		return
	}
	records, skipped, err := source.Read(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.checkBatchSize(len(records) + len(skipped)); err != nil {
		s.writeError(c, err)
		return
	}

	input := types.InputMetadata{Source: types.SourceUpload, Name: header.Filename, Format: string(format)}
	result, ok := s.runRanking(c, input, records, skipped, topN, trace)
	if !ok {
		return
	}

	switch c.Query("format") {
	case "", "json":
		c.JSON(http.StatusOK, result)
	case "xlsx":
		body, err := tabular.WorkbookBytes(c.Request.Context(), result)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="peringkat.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, body)
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="peringkat.csv"`)
		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := tabular.NewCSVWriterSink(c.Writer).Write(c.Request.Context(), result); err != nil {
			s.logger.Error("failed to stream csv", zap.Error(err))
		}
	default:
		abortWithError(c, http.StatusBadRequest, string(errors.TypeInput), "format must be json, xlsx or csv")
	}
}

func (s *Server) rank(c *gin.Context, input types.InputMetadata, records []types.Record, skipped []types.RowError, topN int, trace bool) {
	if result, ok := s.runRanking(c, input, records, skipped, topN, trace); ok {
		c.JSON(http.StatusOK, result)
	}
}

// runRanking ranks and stores the batch; on failure it has already written
// the error response.
func (s *Server) runRanking(c *gin.Context, input types.InputMetadata, records []types.Record, skipped []types.RowError, topN int, trace bool) (*types.Ranking, bool) {
	ctx := c.Request.Context()

	ranker := ranking.NewRanker(s.engine, ranking.Options{Workers: s.workers, TopN: topN, Trace: trace})
	result, err := ranker.Rank(ctx, input, records, skipped)
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}

	if s.store != nil {
		if err := s.store.Save(ctx, result); err != nil {
			s.writeError(c, err)
			return nil, false
		}
	}
	return result, true
}

func (s *Server) checkBatchSize(n int) error {
	if s.cfg.MaxRecords > 0 && n > s.cfg.MaxRecords {
		return errors.Newf(errors.TypeInput, "batch of %d records exceeds the limit of %d", n, s.cfg.MaxRecords)
	}
	return nil
}

// handleListRankings handles GET /v1/rankings
func (s *Server) handleListRankings(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	filter := &storage.ListFilter{Name: c.Query("name")}
	var err error
	if filter.Limit, err = intQuery(c, "limit", 50); err != nil {
		s.writeError(c, err)
		return
	}
	if filter.Offset, err = intQuery(c, "offset", 0); err != nil {
		s.writeError(c, err)
		return
	}
	if since := c.Query("since"); since != "" {
		if filter.Since, err = time.Parse(time.RFC3339, since); err != nil {
			s.writeError(c, errors.Wrap(errors.TypeInput, "since must be RFC3339", err))
			return
		}
	}

	rankings, err := s.store.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := ListResponse{Rankings: make([]RankingSummary, 0, len(rankings))}
	for _, r := range rankings {
		resp.Rankings = append(resp.Rankings, summarize(r))
	}
	resp.Count = len(resp.Rankings)
	c.JSON(http.StatusOK, resp)
}

// handleGetRanking handles GET /v1/rankings/:id
func (s *Server) handleGetRanking(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	r, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// handleDeleteRanking handles DELETE /v1/rankings/:id
func (s *Server) handleDeleteRanking(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleCompare handles GET /v1/rankings/:id/compare/:other
func (s *Server) handleCompare(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	d, err := storage.Compare(c.Request.Context(), s.store, c.Param("id"), c.Param("other"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
		"storage": s.store != nil,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(c *gin.Context) {
	d := s.engine.Domain()
	c.JSON(http.StatusOK, gin.H{
		"version":     s.version,
		"engine":      "fuzzy-rank",
		"api_version": "v1",
		"domain":      d,
		"samples":     d.Samples(),
	})
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.store == nil {
		abortWithError(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "ranking storage is not configured")
		return false
	}
	return true
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	q := c.Query(name)
	if q == "" {
		return def, nil
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		return 0, errors.Newf(errors.TypeInput, "%s must be a non-negative integer", name)
	}
	return n, nil
}

// writeError maps a domain error onto a status code and the error envelope
func (s *Server) writeError(c *gin.Context, err error) {
	t := errors.TypeOf(err)

	status := http.StatusInternalServerError
	switch t {
	case errors.TypeInput, errors.TypeParsing:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeNotSupported:
		status = http.StatusUnsupportedMediaType
	}

	if c.Request.Context().Err() != nil {
		status = 499
	}

	message := err.Error()
	var de *errors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", zap.Error(err), zap.String("path", c.FullPath()))
		message = fmt.Sprintf("internal error (%s)", t)
	}

	_ = c.Error(err)
	abortWithError(c, status, string(t), message)
}
