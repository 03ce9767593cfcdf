package directory

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	router.Mount("/chatrooms", Routes(NewService(seedTree(t))))
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestListAdminsEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/admins")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["alice","bob"]`, body)
}

func TestListBatchesEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/CS")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Batch1"]`, body)
}

func TestListAdminStudentsEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/CS/Batch1/admins/bob/students")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["carol","dave"]`, body)
}

func TestListModuleParticipantsEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/CS/Batch1/workshop/students")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["erin"]`, body)
}

func TestMissingPrefixYieldsEmptyList(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/History")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	status, body = get(t, ts.URL+"/chatrooms/CS/Batch9/admins/bob/students")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, body)
}

func TestBatchMetadataEndpoint(t *testing.T) {
	ts := newTestAPI(t)

	status, body := get(t, ts.URL+"/chatrooms/metadata/Batch2")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"course":"Math","modules":["announcements"]}`, body)

	status, body = get(t, ts.URL+"/chatrooms/metadata/Batch99")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"message":"batch not found"}`, body)
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestAPI(t)

	resp, err := http.Get(ts.URL + "/chatrooms/admins")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/chatrooms/admins", nil)
	require.NoError(t, err)
	optResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = optResp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, optResp.StatusCode)
}
