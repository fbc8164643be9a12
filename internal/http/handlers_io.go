package http

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"finledger/internal/log"
	"finledger/internal/services"
	"finledger/internal/tabular"
	"finledger/internal/tabular/csvtable"
	"finledger/internal/tabular/xlsx"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func normalizeFormat(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", formatCSV:
		return formatCSV, nil
	case formatXLSX, "excel":
		return formatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", errBadRequest, v)
	}
}

// handleExport renders the table into memory first so a failed export never
// sends a partial file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := normalizeFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}
	year, err := parseYear(r)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}

	var buf bytes.Buffer
	var writer tabular.Writer = csvtable.NewWriter(&buf)
	contentType := "text/csv; charset=utf-8"
	if format == formatXLSX {
		writer = xlsx.NewWriter(&buf)
		contentType = xlsxContentType
	}

	rows, err := s.ledger.Export(r.Context(), writer, year)
	if err != nil {
		writeError(w, r, log.OpExport, err)
		return
	}

	name := tabular.FileName(year, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Ledger-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleImport accepts either a raw body or a multipart form with a "file" field.
// The format comes from the query, then the uploaded file name, then defaults to csv.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	body, fileName, err := importPayload(r)
	if err != nil {
		writeError(w, r, log.OpImport, fmt.Errorf("%w: %w", services.ErrImportDecode, err))
		return
	}
	defer body.Close()

	hint := r.URL.Query().Get("format")
	if hint == "" && fileName != "" {
		hint = strings.TrimPrefix(filepath.Ext(fileName), ".")
	}
	format, err := normalizeFormat(hint)
	if err != nil {
		writeError(w, r, log.OpImport, fmt.Errorf("%w: %w", services.ErrImportDecode, err))
		return
	}

	var reader tabular.Reader = csvtable.NewReader(body)
	if format == formatXLSX {
		reader = xlsx.NewReader(body)
	}

	res, err := s.ledger.Import(r.Context(), reader)
	if err != nil {
		writeError(w, r, log.OpImport, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Ledger imported",
		log.FieldFormat, format, "inserted", res.Inserted, "replaced", res.Replaced)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"inserted": res.Inserted,
		"replaced": res.Replaced,
	})
}

func importPayload(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, "", nil
	}
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		return nil, "", fmt.Errorf("parse multipart form: %w", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("read uploaded file: %w", err)
	}
	return f, hdr.Filename, nil
}
