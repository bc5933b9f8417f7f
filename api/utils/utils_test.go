// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/stretchr/testify/assert"
)

func TestWrapHandlerFunc(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{utils.BadRequest(errors.New("bad")), http.StatusBadRequest},
		{utils.Forbidden(errors.New("no")), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := utils.WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
			if c.err != nil {
				return c.err
			}
			return utils.WriteJSON(w, map[string]string{"ok": "1"})
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, c.status, rec.Code)
		if c.err != nil {
			assert.Contains(t, rec.Body.String(), c.err.Error())
		}
	}
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	assert.Nil(t, utils.ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.NotNil(t, utils.ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := utils.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = utils.RequestID(req)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	_, err := uuid.Parse(seen)
	assert.Nil(t, err)
	assert.Equal(t, seen, rec.Header().Get(utils.RequestIDHeader))

	id := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(utils.RequestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, seen)
}

func TestBodyLimitMiddleware(t *testing.T) {
	h := utils.BodyLimitMiddleware(4)(utils.WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
		var v interface{}
		if err := utils.ParseJSON(req.Body, &v); err != nil {
			return utils.BadRequest(err)
		}
		return utils.WriteJSON(w, v)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", strings.NewReader(`"too long"`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
