// Copyright The PeakNote Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peaknote/transcript-service/internal/domain"
	"github.com/peaknote/transcript-service/internal/domain/mocks"
	"github.com/peaknote/transcript-service/internal/domain/models"
	"github.com/peaknote/transcript-service/internal/service"
)

type transcriptAPIFixture struct {
	router         *gin.Engine
	transcriptRepo *mocks.MockTranscriptRepository
	eventRepo      *mocks.MockMeetingEventRepository
	cache          *mocks.MockCache
	locks          *mocks.MockLockService
}

func newTranscriptAPIFixture(t *testing.T) *transcriptAPIFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &transcriptAPIFixture{
		transcriptRepo: &mocks.MockTranscriptRepository{},
		eventRepo:      &mocks.MockMeetingEventRepository{},
		cache:          &mocks.MockCache{},
		locks:          &mocks.MockLockService{},
	}

	store := service.NewTranscriptStoreService(f.transcriptRepo, f.eventRepo, f.cache, f.locks)
	h := NewTranscriptHandler(store)

	f.router = gin.New()
	f.router.GET("/api/v1/transcript", h.HandleGetByURL)
	f.router.GET("/api/v1/transcript/:eventId", h.HandleGetByEventID)
	f.router.POST("/api/v1/transcript", h.HandleUpdate)
	return f
}

func (f *transcriptAPIFixture) do(method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestHandleGetByURL(t *testing.T) {
	t.Run("returns latest transcript for known URL", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		f.cache.On("Get", mock.Anything).Return(nil, false)
		f.cache.On("Set", mock.Anything, mock.Anything).Return()
		f.eventRepo.On("ListEventIDsByJoinURL", mock.Anything, "https://teams.example/join/abc").
			Return([]string{"event-1"}, nil)
		f.transcriptRepo.On("GetLatestByEventID", mock.Anything, "event-1").
			Return(&models.Transcript{EventID: "event-1", ContentText: "the summary"}, nil)

		w := f.do(http.MethodGet, "/api/v1/transcript?url=https%3A%2F%2Fteams.example%2Fjoin%2Fabc", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "the summary", resp["transcript"])
		assert.Equal(t, "event-1", resp["event_id"])
	})

	t.Run("unknown URL answers empty", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		f.cache.On("Get", mock.Anything).Return(nil, false)
		f.cache.On("Set", mock.Anything, nil).Return()
		f.eventRepo.On("ListEventIDsByJoinURL", mock.Anything, mock.Anything).Return([]string{}, nil)

		w := f.do(http.MethodGet, "/api/v1/transcript?url=https%3A%2F%2Funknown.example", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "", resp["transcript"])
	})

	t.Run("tracked event without transcript answers empty", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		f.cache.On("Get", mock.Anything).Return(nil, false)
		f.cache.On("Set", mock.Anything, mock.Anything).Return()
		f.eventRepo.On("ListEventIDsByJoinURL", mock.Anything, mock.Anything).Return([]string{"event-1"}, nil)
		f.transcriptRepo.On("GetLatestByEventID", mock.Anything, "event-1").
			Return(nil, domain.NewNotFoundError("no transcript"))

		w := f.do(http.MethodGet, "/api/v1/transcript?url=https%3A%2F%2Fteams.example", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "", resp["transcript"])
	})

	t.Run("missing url parameter is rejected", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)
		w := f.do(http.MethodGet, "/api/v1/transcript", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetByEventID_NotFound(t *testing.T) {
	f := newTranscriptAPIFixture(t)

	f.cache.On("Get", mock.Anything).Return(nil, false)
	f.cache.On("Set", mock.Anything, nil).Return()
	f.transcriptRepo.On("GetLatestByEventID", mock.Anything, "event-x").
		Return(nil, domain.NewNotFoundError("no transcript"))

	w := f.do(http.MethodGet, "/api/v1/transcript/event-x", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdate(t *testing.T) {
	t.Run("writes through the locked path", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		f.locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.locks.On("Release", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Delete", mock.Anything).Return()
		f.transcriptRepo.On("UpdateContentByEventID", mock.Anything, "event-1", "revised").Return(nil)

		body, _ := json.Marshal(map[string]string{"event_id": "event-1", "content": "revised"})
		w := f.do(http.MethodPost, "/api/v1/transcript", body)

		assert.Equal(t, http.StatusOK, w.Code)
		f.transcriptRepo.AssertExpectations(t)
	})

	t.Run("lock contention maps to 409", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		f.locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything).
			Return(domain.NewConflictError("lock held"))

		body, _ := json.Marshal(map[string]string{"event_id": "event-1", "content": "revised"})
		w := f.do(http.MethodPost, "/api/v1/transcript", body)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		f := newTranscriptAPIFixture(t)

		body, _ := json.Marshal(map[string]string{"event_id": "event-1"})
		w := f.do(http.MethodPost, "/api/v1/transcript", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
