package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/tasvirchi/tasvir/constant"
	"github.com/tasvirchi/tasvir/fetch"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/provider"
)

var errBadRequest = errors.New("bad request")

// maxRequestBody caps the size of a posted entry list.
const maxRequestBody = 1 << 20

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": constant.Version})
}

// family resolves the {family} parameter.
func (s *Server) family(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "family")
		f, ok := provider.Get(name)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
				Code:    "UNKNOWN_PROVIDER",
				Message: "unknown provider " + name,
			}})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), familyKey, f)))
	})
}

// token returns the bearer token, falling back to the ts query parameter.
func token(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if ts, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(ts)
		}
	}
	return r.URL.Query().Get("ts")
}

func (s *Server) fetcher(r *http.Request) (*fetch.Fetcher, error) {
	opts := s.config.Options(token(r))

	if raw := r.URL.Query().Get("partnerId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Join(errBadRequest, errors.New("partnerId must be a number"))
		}
		opts.PartnerID = id
	}

	return &fetch.Fetcher{
		Family:  r.Context().Value(familyKey).(*provider.Family),
		Envs:    s.config.Envs,
		Options: opts,
		Cache:   s.config.Cache,
	}, nil
}

func mediaInfo(r *http.Request) provider.MediaInfo {
	q := r.URL.Query()
	info := provider.MediaInfo{
		EntryID:             chi.URLParam(r, "entryID"),
		ReferenceID:         q.Get("referenceId"),
		RedirectFromEntryID: q.Get("redirectFromEntryId") == "true",
		MediaType:           q.Get("mediaType"),
		ContextType:         q.Get("contextType"),
		AssetReferenceType:  q.Get("assetReferenceType"),
		Protocol:            q.Get("protocol"),
		FileIDs:             q.Get("fileIds"),
		StreamerType:        q.Get("streamerType"),
		URLType:             q.Get("urlType"),
	}
	if formats := q.Get("formats"); formats != "" {
		info.Formats = lo.Compact(strings.Split(formats, ","))
	}
	return info
}

func (s *Server) media(w http.ResponseWriter, r *http.Request) {
	f, err := s.fetcher(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config, cached, err := f.Media(r.Context(), mediaInfo(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Cache", lo.Ternary(cached, "HIT", "MISS"))
	writeJSON(w, http.StatusOK, config)
}

func (s *Server) entries(w http.ResponseWriter, r *http.Request) {
	f, err := s.fetcher(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var info provider.EntryListInfo
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&info); err != nil {
		writeError(w, r, errors.Join(errBadRequest, err))
		return
	}

	config, err := f.EntryList(r.Context(), info)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, config)
}

func (s *Server) playlist(w http.ResponseWriter, r *http.Request) {
	f, err := s.fetcher(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config, err := f.Playlist(r.Context(), provider.PlaylistInfo{PlaylistID: chi.URLParam(r, "playlistID")})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, config)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writing response: %s", err)
	}
}
