package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/yomigo/yomigo-server/internal/apperrors"
	"github.com/yomigo/yomigo-server/internal/imaging"
)

// imageRequest is the decoded input of the image endpoints, either a raw
// upload or a base64 payload, never both.
type imageRequest struct {
	data        []byte
	mimeType    string
	base64Data  string
	text        string
	orientation imaging.Orientation
}

// jsonBody is the JSON request shape shared by /ocr, /parse and
// /parse-text. Which fields are required depends on the endpoint.
type jsonBody struct {
	ImageData   string `json:"image_data"`
	Text        string `json:"text"`
	Orientation string `json:"orientation"`
}

func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	req, err := s.readImageRequest(r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.dispatchOCR(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, err := s.readImageRequest(r, true)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A text-only body skips recognition entirely.
	if req.text != "" {
		result, err := s.pipeline.ParseText(r.Context(), req.text)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
		return
	}

	recognized, err := s.dispatchOCR(r, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.pipeline.ParseText(r.Context(), recognized.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var body jsonBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.KindUnanalyzableInput, "malformed request body", err))
		return
	}
	if body.Text == "" {
		s.writeError(w, apperrors.New(apperrors.KindUnanalyzableInput, "missing text field"))
		return
	}

	result, err := s.pipeline.ParseText(r.Context(), body.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// healthResponse mirrors what the extension's options page displays.
type healthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := s.pipeline.Health()

	resp := healthResponse{
		Status: "ok",
		Services: map[string]bool{
			"ocr":        h.OCR,
			"tokenizer":  h.Tokenizer,
			"dictionary": h.Dictionary,
		},
	}
	status := http.StatusOK
	if !h.Healthy() {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

// dispatchOCR runs recognition on whichever image shape the request
// carried.
func (s *Server) dispatchOCR(r *http.Request, req *imageRequest) (result any, err error) {
	if req.base64Data != "" {
		return s.pipeline.OCRBase64(r.Context(), req.base64Data, req.orientation)
	}
	return s.pipeline.OCR(r.Context(), req.data, req.mimeType, req.orientation)
}

// readImageRequest extracts the image payload (and orientation hint) from a
// multipart upload or a JSON body. allowText admits a text-only JSON body
// for /parse.
func (s *Server) readImageRequest(r *http.Request, allowText bool) (*imageRequest, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return readMultipartImage(r)
	}

	var body jsonBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "malformed request body", err)
	}

	req := &imageRequest{orientation: imaging.ParseOrientation(body.Orientation)}
	switch {
	case body.ImageData != "":
		req.base64Data = body.ImageData
	case allowText && body.Text != "":
		req.text = body.Text
	default:
		return nil, apperrors.New(apperrors.KindInvalidImage, "missing image_data field")
	}
	return req, nil
}

func readMultipartImage(r *http.Request) (*imageRequest, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "malformed multipart body", err)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "missing image file field", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidImage, "unreadable image upload", err)
	}

	return &imageRequest{
		data:        data,
		mimeType:    header.Header.Get("Content-Type"),
		orientation: imaging.ParseOrientation(r.FormValue("orientation")),
	}, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// errorEnvelope is the wire shape of every failure response.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    apperrors.Kind `json:"kind"`
	Message string         `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)

	message := err.Error()
	var classified *apperrors.Error
	if errors.As(err, &classified) {
		// The cause chain stays in the logs, not on the wire.
		message = classified.Message
	}

	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "kind", kind, "error", err)
	} else {
		s.logger.Debug("request rejected", "kind", kind, "error", err)
	}

	s.writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidImage, apperrors.KindUnanalyzableInput:
		return http.StatusBadRequest
	case apperrors.KindOcrUnavailable, apperrors.KindDictionaryUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.KindOcrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
