package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/publish"
)

// Client-facing messages. Causes are only logged.
const (
	msgNoTid       = "No tid provided"
	msgNotFound    = "No tweets found"
	msgFailed      = "Failed to generate the image"
	msgInvalidArgs = "Invalid request"
)

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.options(w, r)
	if !ok {
		return
	}
	opts.Logger = loggerFromRequest(r, s.logger)

	res, err := s.renderer.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=600")
	if res.CacheInfo.CardHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.options(w, r)
	if !ok {
		return
	}
	opts.Logger = loggerFromRequest(r, s.logger)

	res, err := s.renderer.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	obj, err := s.publisher.Publish(r.Context(), publish.Artifact{
		PostID:      opts.PostID,
		Format:      res.Format,
		ContentType: res.ContentType,
		Data:        res.Artifact,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(obj)
}

// options reads the query into pipeline options. It writes the 400
// response itself and reports false when the query is unusable.
func (s *Server) options(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	q := r.URL.Query()
	tid := q.Get("tid")
	if tid == "" {
		http.Error(w, msgNoTid, http.StatusBadRequest)
		return pipeline.Options{}, false
	}

	opts := s.defaults
	opts.PostID = tid
	if f := q.Get("format"); f != "" {
		opts.Format = f
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, msgInvalidArgs+": scale must be a number", http.StatusBadRequest)
			return pipeline.Options{}, false
		}
		opts.Scale = scale
	}
	if tz := q.Get("tz"); tz != "" {
		opts.Timezone = tz
	}
	opts.Refresh = q.Get("refresh") == "1" || q.Get("refresh") == "true"
	return opts, true
}

// fail maps err to a status and a fixed message and logs the cause.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFromRequest(r, s.logger)
	status := perrors.HTTPStatus(err)

	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = msgInvalidArgs + ": " + perrors.UserMessage(err)
		logger.Warn("rejected request", "error", err)
	case http.StatusNotFound:
		msg = msgNotFound
		logger.Info("post not found", "tid", r.URL.Query().Get("tid"))
	default:
		msg = msgFailed
		logger.Error("card failed", "tid", r.URL.Query().Get("tid"), "error", err)
	}
	http.Error(w, msg, status)
}
