package appliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAppliance(t *testing.T) (*Appliance, *httptest.Server) {
	t.Helper()
	app := New(NewStore())
	server := httptest.NewServer(app.Handler())
	t.Cleanup(server.Close)
	return app, server
}

func seedProvider(t *testing.T, serverURL, name string) Provider {
	t.Helper()
	body, err := json.Marshal(Provider{Name: name, Type: "ec2", Zone: "default", Instances: 3, Images: 2})
	require.NoError(t, err)

	resp, err := http.Post(serverURL+"/api/providers", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Provider
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	return created
}

func getBody(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestListing_RendersQuadiconsAndPaginator(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)

	seedProvider(t, server.URL, "prov1")
	seedProvider(t, server.URL, "prov2")

	status, body := getBody(t, server.URL+"/ems_cloud/show_list")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `data-controller="ems_cloud"`)
	require.Contains(t, body, `data-action="show_list"`)
	require.Contains(t, body, `title="prov1"`)
	require.Contains(t, body, `title="prov2"`)
	require.Contains(t, body, `<span id="items-amount">2</span>`)
}

func TestListing_EmptyHasNoPaginator(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)

	status, body := getBody(t, server.URL+"/ems_cloud/show_list")
	require.Equal(t, http.StatusOK, status)
	require.NotContains(t, body, `id="paginator"`)
}

func TestListing_Pagination(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)

	for i := 0; i < GridPageSize+2; i++ {
		seedProvider(t, server.URL, fmt.Sprintf("prov%02d", i))
	}

	_, page1 := getBody(t, server.URL+"/ems_cloud/show_list?page=1")
	require.Equal(t, GridPageSize, strings.Count(page1, `class="quad-link"`))
	require.Contains(t, page1, `data-page="2"`)

	_, page2 := getBody(t, server.URL+"/ems_cloud/show_list?page=2")
	require.Equal(t, 2, strings.Count(page2, `class="quad-link"`))
}

func TestDetails_SummaryAndRelationships(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)
	created := seedProvider(t, server.URL, "prov1")

	status, body := getBody(t, server.URL+"/ems_cloud/show/"+created.ID)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `data-summary="prov1"`)
	require.Contains(t, body, `data-block="Relationships"`)

	_, instances := getBody(t, server.URL+"/ems_cloud/show/"+created.ID+"?display=instances")
	require.Contains(t, instances, `data-summary="prov1 (All Instances)"`)
	require.Contains(t, instances, `data-count="3"`)

	_, images := getBody(t, server.URL+"/ems_cloud/show/"+created.ID+"?display=images")
	require.Contains(t, images, `data-summary="prov1 (All Images)"`)
}

func TestDetails_UnknownProviderIs404(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)

	status, _ := getBody(t, server.URL+"/ems_cloud/show/nope")
	require.Equal(t, http.StatusNotFound, status)
}

func TestDiscover_SubmitRecordsRequest(t *testing.T) {
	t.Parallel()
	app, server := newTestAppliance(t)

	resp, err := http.PostForm(server.URL+"/ems_cloud/discover", url.Values{
		"discover_type":   {"Amazon"},
		"username":        {"admin"},
		"password":        {"s3cret"},
		"password_verify": {"s3cret"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	// Client follows the redirect to the listing with the flash banner.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Discovery successfully initiated")

	discoveries := app.Store().Discoveries()
	require.Len(t, discoveries, 1)
	require.Equal(t, Discovery{Type: "Amazon", Username: "admin"}, discoveries[0])
}

func TestDiscover_VerifyMismatchRecordsNothing(t *testing.T) {
	t.Parallel()
	app, server := newTestAppliance(t)

	resp, err := http.PostForm(server.URL+"/ems_cloud/discover", url.Values{
		"discover_type":   {"Amazon"},
		"username":        {"admin"},
		"password":        {"one"},
		"password_verify": {"two"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "do not match")
	require.Empty(t, app.Store().Discoveries())
}

func TestEditSelected_RequiresACheckedProvider(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)

	resp, err := http.PostForm(server.URL+"/ems_cloud/edit_selected", url.Values{})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditSelected_RedirectsToEditForm(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)
	created := seedProvider(t, server.URL, "prov1")

	resp, err := http.PostForm(server.URL+"/ems_cloud/edit_selected", url.Values{
		"check": {"prov1"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `data-action="edit"`)
	require.Contains(t, string(body), created.Name)
}

func TestAPI_DuplicateProviderRejected(t *testing.T) {
	t.Parallel()
	_, server := newTestAppliance(t)
	seedProvider(t, server.URL, "prov1")

	body, err := json.Marshal(Provider{Name: "prov1"})
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/api/providers", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "invalid_argument", payload["code"])
}

func TestAPI_DeleteAndReset(t *testing.T) {
	t.Parallel()
	app, server := newTestAppliance(t)
	seedProvider(t, server.URL, "prov1")
	seedProvider(t, server.URL, "prov2")

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/providers/prov1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, app.Store().Providers(), 1)

	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/providers/ghost", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, app.Store().Providers())
}
