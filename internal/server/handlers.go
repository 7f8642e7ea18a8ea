package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	ds "github.com/wdm0006/tidykit/pkg/dataset"
	"github.com/wdm0006/tidykit/pkg/io/csvio"
	"github.com/wdm0006/tidykit/pkg/io/dataio"
	iox "github.com/wdm0006/tidykit/pkg/io/ioutils"
	"github.com/wdm0006/tidykit/pkg/profile"
	"github.com/wdm0006/tidykit/pkg/snippet"
	"github.com/wdm0006/tidykit/pkg/transform/dedupe"
	"github.com/wdm0006/tidykit/pkg/transform/impute"
	std "github.com/wdm0006/tidykit/pkg/transform/standardize"
)

// CleanedFilename is the attachment name of a cleaned upload.
const CleanedFilename = "cleaned_data.csv"

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// readUpload parses the multipart form and decodes its "file" part.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*ds.Frame, *APIError) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			return nil, errTooLarge
		}
		return nil, badRequest(err)
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, validationFailed("file", "a file upload is required")
	}
	defer func() { _ = file.Close() }()

	opt, err := uploadOptions(hdr, r.FormValue("format"))
	if err != nil {
		return nil, validationFailed("format", err.Error())
	}
	src := io.Reader(file)
	if opt.Format != dataio.FormatParquet && opt.Format != dataio.FormatXLSX {
		rc, err := iox.WrapReader(file)
		if err != nil {
			return nil, invalidInput(err)
		}
		defer func() { _ = rc.Close() }()
		src = rc
	}
	f, err := dataio.Decode(src, opt)
	if err != nil {
		return nil, invalidInput(err)
	}
	return f, nil
}

func uploadOptions(hdr *multipart.FileHeader, format string) (dataio.Options, error) {
	fmtName, err := dataio.ParseFormat(format)
	if err != nil {
		return dataio.Options{}, err
	}
	if fmtName == dataio.FormatAuto {
		if fmtName, err = dataio.Detect(hdr.Filename); err != nil {
			return dataio.Options{}, err
		}
	}
	opt := dataio.Options{Format: fmtName}
	if iox.Ext(hdr.Filename) == ".tsv" {
		opt.CSV = csvio.ReaderOptions{Delimiter: '\t'}
	}
	return opt, nil
}

// cleanRequest holds the form options of /clean.
type cleanRequest struct {
	Normalize       bool
	NormalizeColumn string
	Missing         string
	MissingColumn   string
	Dedupe          string
	DedupeColumn    string
}

func parseCleanRequest(r *http.Request) (cleanRequest, *APIError) {
	var req cleanRequest
	if v := r.FormValue("normalize"); v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return req, validationFailed("normalize", "must be a boolean")
		}
		req.Normalize = b
	}
	req.NormalizeColumn = r.FormValue("normalize_column")
	req.Missing = r.FormValue("missing")
	req.MissingColumn = r.FormValue("missing_column")
	req.Dedupe = r.FormValue("dedupe")
	req.DedupeColumn = r.FormValue("dedupe_column")
	return req, nil
}

// pipeline builds the requested steps, rejecting unknown columns up front.
func (s *Server) pipeline(req cleanRequest, f *ds.Frame) (*ds.Pipeline, *APIError) {
	for _, c := range []struct{ field, name string }{
		{"normalize_column", req.NormalizeColumn},
		{"missing_column", req.MissingColumn},
		{"dedupe_column", req.DedupeColumn},
	} {
		if c.name == "" {
			continue
		}
		if _, ok := f.ColumnByName(c.name); !ok {
			return nil, validationFailed(c.field, fmt.Sprintf("%v: %s", ds.ErrUnknownColumn, c.name))
		}
	}
	p := ds.NewPipeline().WithLogger(s.logger)
	if req.Normalize {
		p.Add(&std.Normalize{Column: req.NormalizeColumn, Workers: s.workers})
	}
	if req.Missing != "" {
		st, err := impute.ParseStrategy(req.Missing)
		if err != nil {
			return nil, validationFailed("missing", err.Error())
		}
		p.Add(&impute.Resolve{Strategy: st, Column: req.MissingColumn})
	}
	if req.Dedupe != "" {
		a, err := dedupe.ParseAction(req.Dedupe)
		if err != nil {
			return nil, validationFailed("dedupe", err.Error())
		}
		p.Add(&dedupe.Resolve{Action: a, Column: req.DedupeColumn})
	}
	return p, nil
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	f, apiErr := s.readUpload(w, r)
	if apiErr != nil {
		writeError(w, r, apiErr)
		return
	}
	s.metrics.rows.WithLabelValues("clean").Add(float64(f.Rows()))
	req, apiErr := parseCleanRequest(r)
	if apiErr != nil {
		writeError(w, r, apiErr)
		return
	}
	p, apiErr := s.pipeline(req, f)
	if apiErr != nil {
		writeError(w, r, apiErr)
		return
	}
	out, reports, err := p.RunReport(r.Context(), f)
	if err != nil {
		writeError(w, r, internalError(err))
		return
	}
	s.logger.Info("cleaned upload",
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("steps", len(reports)),
		zap.Int("rows_in", f.Rows()),
		zap.Int("rows_out", out.Rows()))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", CleanedFilename))
	if err := csvio.Write(w, out, csvio.WriterOptions{}); err != nil {
		s.logger.Error("write response", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	f, apiErr := s.readUpload(w, r)
	if apiErr != nil {
		writeError(w, r, apiErr)
		return
	}
	s.metrics.rows.WithLabelValues("profile").Add(float64(f.Rows()))
	render.JSON(w, r, profile.Build(f))
}

// SnippetResponse is the body of /snippets/{kind}.
type SnippetResponse struct {
	Kind    string `json:"kind"`
	HTML    string `json:"html"`
	Measure string `json:"measure"`
}

// handleSnippet overlays the JSON body on the kind's defaults. The optional
// "measure" query parameter renames the measure; "css" is merged in first.
func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	sn, err := snippet.New(kind)
	if err != nil {
		writeError(w, r, newError(http.StatusNotFound, "UNKNOWN_SNIPPET_KIND", "Unknown snippet kind", snippet.Kinds))
		return
	}
	if err := render.DecodeJSON(r.Body, sn); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, badRequest(err))
		return
	}
	if err := validate.Struct(sn); err != nil {
		writeError(w, r, validationErrors(err))
		return
	}
	html, err := sn.HTML()
	if err != nil {
		writeError(w, r, validationFailed("size", err.Error()))
		return
	}
	if css := r.URL.Query().Get("css"); css != "" {
		html = snippet.Merge(html, css)
	}
	name := strings.TrimSpace(r.URL.Query().Get("measure"))
	if name == "" {
		name = sn.MeasureName()
	}
	render.JSON(w, r, SnippetResponse{Kind: kind, HTML: html, Measure: snippet.Measure(name, html)})
}
