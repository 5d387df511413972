package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steamdocs/internal/request"
)

func TestBuildRequestGet(t *testing.T) {
	spec, err := BuildRequest(request.Call{Method: "GET", URL: "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/?key=k&steamids=1"})
	require.NoError(t, err)
	assert.Equal(t, "GET", spec.Method)
	assert.Equal(t, "https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/?key=k&steamids=1", spec.URL)
	assert.Nil(t, spec.Body)
}

func TestBuildRequestPostMovesQueryToBody(t *testing.T) {
	spec, err := BuildRequest(request.Call{Method: "post", URL: "https://partner.steam-api.com/IEconService/Flush/v1/?key=k&appid=730"})
	require.NoError(t, err)
	assert.Equal(t, "POST", spec.Method)
	assert.Equal(t, "https://partner.steam-api.com/IEconService/Flush/v1/", spec.URL)
	assert.Equal(t, "key=k&appid=730", string(spec.Body))
	assert.Equal(t, "application/x-www-form-urlencoded", spec.Headers["Content-Type"])
}

func TestBuildRequestRejectsBadURL(t *testing.T) {
	_, err := BuildRequest(request.Call{URL: "ftp://example.com/x"})
	assert.Error(t, err)
	_, err = BuildRequest(request.Call{URL: "://"})
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	var gotMethod, gotBody, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"response":{"players":[{"steamid":"76561197960287930","personastate":1}],"b":true,"a":null}}`))
	}))
	defer srv.Close()

	spec, err := BuildRequest(request.Call{Method: "GET", URL: srv.URL + "/ISteamUser/GetPlayerSummaries/v2/?steamids=1"})
	require.NoError(t, err)
	res, err := Execute(context.Background(), spec, Options{Client: srv.Client()})
	require.NoError(t, err)

	assert.Equal(t, "GET", gotMethod)
	assert.Equal(t, "steamids=1", gotQuery)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, `{
  "response": {
    "a": null,
    "b": true,
    "players": [
      {
        "personastate": 1,
        "steamid": "76561197960287930"
      }
    ]
  }
}`, res.Body)

	spec, err = BuildRequest(request.Call{Method: "POST", URL: srv.URL + "/IEconService/Flush/v1/?appid=730"})
	require.NoError(t, err)
	_, err = Execute(context.Background(), spec, Options{Client: srv.Client()})
	require.NoError(t, err)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "appid=730", gotBody)
	assert.Empty(t, gotQuery)
}

func TestFormatBody(t *testing.T) {
	assert.Equal(t, "<xml/>", FormatBody("text/xml", []byte("<xml/>"), false))
	assert.Equal(t, "{broken", FormatBody("application/json", []byte("{broken"), false))
	assert.Equal(t, "[]", FormatBody("", []byte("[]"), false))
	assert.Equal(t, "12345678901234567890", FormatBody("application/json", []byte("12345678901234567890"), false))

	colored := FormatBody("application/json", []byte(`{"a":"b"}`), true)
	assert.True(t, strings.Contains(colored, colorKey))
	assert.True(t, strings.Contains(colored, colorString+`"b"`))
}
