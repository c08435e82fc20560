/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsObserveParseError(t *testing.T) {
	m := NewMetrics()
	m.ObserveParseError(nil)
	m.ObserveParseError(ErrShortBuffer)
	m.ObserveParseError(ErrAuthFailed)
	m.ObserveParseError(ErrAuthFailed)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	require.Contains(t, body, `ptpmgmt_parse_errors_total{class="short_buffer"} 1`)
	require.Contains(t, body, `ptpmgmt_parse_errors_total{class="auth_failed"} 2`)
	require.True(t, strings.Contains(body, "ptpmgmt_icv_failures_total 2"))
}
