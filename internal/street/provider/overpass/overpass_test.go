// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package overpass

import (
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/wneessen/sunspot/internal/geo"
	"github.com/wneessen/sunspot/internal/http"
	"github.com/wneessen/sunspot/internal/logger"
	"github.com/wneessen/sunspot/internal/street"
	"github.com/wneessen/sunspot/internal/testhelper"
)

const (
	busyFile       = "../../../../testdata/overpass_busy.json"
	quietFile      = "../../../../testdata/overpass_quiet.json"
	noElementsFile = "../../../../testdata/overpass_noelements.json"
)

var testCoords = geo.Coordinate{Lat: 52.5129, Lon: 13.3910}

func TestNew(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		provider := New(http.New(logger.New(slog.LevelDebug)), "", 0)
		if provider.endpoint != DefaultEndpoint {
			t.Errorf("expected endpoint %q, got %q", DefaultEndpoint, provider.endpoint)
		}
		if provider.radius != DefaultSearchRadius {
			t.Errorf("expected radius %d, got %d", DefaultSearchRadius, provider.radius)
		}
		if provider.Name() != name {
			t.Errorf("expected name %q, got %q", name, provider.Name())
		}
	})
	t.Run("query contains radius and coordinates", func(t *testing.T) {
		provider := New(http.New(logger.New(slog.LevelDebug)), "", 50)
		want := `[out:json]; way(around:50,52.512900,13.391000)["highway"]; out body;`
		if query := provider.Query(testCoords); query != want {
			t.Errorf("expected query %q, got %q", want, query)
		}
	})
}

func TestOverpass_Width(t *testing.T) {
	tests := []struct {
		name string
		file string
		want float64
	}{
		{"more than ten ways yield a wide street", busyFile, 12},
		{"ten or fewer ways yield a narrow street", quietFile, 8},
		{"missing elements yield the default width", noElementsFile, street.DefaultWidth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := testProviderWithRoundtripFunc(t, testhelper.FileResponder(t, 200, tc.file))
			width, err := provider.Width(t.Context(), testCoords)
			if err != nil {
				t.Fatal(err)
			}
			if width != tc.want {
				t.Errorf("expected width %g, got %g", tc.want, width)
			}
		})
	}
	t.Run("query is sent as form data", func(t *testing.T) {
		var gotBody string
		var gotType string
		respond := testhelper.FileResponder(t, 200, quietFile)
		provider := testProviderWithRoundtripFunc(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			data, _ := io.ReadAll(req.Body)
			gotBody = string(data)
			gotType = req.Header.Get("Content-Type")
			return respond(req)
		})
		if _, err := provider.Width(t.Context(), testCoords); err != nil {
			t.Fatal(err)
		}
		form, err := url.ParseQuery(gotBody)
		if err != nil {
			t.Fatalf("failed to parse request body: %s", err)
		}
		if !strings.Contains(form.Get("data"), `["highway"]`) {
			t.Errorf("expected highway query, got %q", form.Get("data"))
		}
		if gotType != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", gotType)
		}
	})
	t.Run("non-200 status fails", func(t *testing.T) {
		provider := testProviderWithRoundtripFunc(t, testhelper.FileResponder(t, 429, noElementsFile))
		_, err := provider.Width(t.Context(), testCoords)
		if err == nil {
			t.Fatal("expected request to fail")
		}
		if !strings.Contains(err.Error(), "429") {
			t.Errorf("expected error to contain the status code, got %s", err)
		}
	})
	t.Run("transport errors fail", func(t *testing.T) {
		provider := testProviderWithRoundtripFunc(t, func(*stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		})
		if _, err := provider.Width(t.Context(), testCoords); err == nil {
			t.Fatal("expected request to fail")
		}
	})
}

func TestOverpass_Width_integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	provider := New(http.New(logger.New(slog.LevelDebug)), DefaultEndpoint, DefaultSearchRadius)
	width, err := provider.Width(t.Context(), testCoords)
	if err != nil {
		t.Fatal(err)
	}
	if width != 8 && width != 12 && width != street.DefaultWidth {
		t.Errorf("unexpected width %g", width)
	}
}

func testProviderWithRoundtripFunc(_ *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *Overpass {
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	return New(testHttpClient, DefaultEndpoint, DefaultSearchRadius)
}
