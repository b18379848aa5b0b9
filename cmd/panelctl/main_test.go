package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tickets":
			io.WriteString(w, `{"data":[
				{"id":"T-A","dateCreated":"2026-10-01T08:00:00Z","status":"Open","busStopCode":"10009","location":"Bt Merah Int","faultType":"Software"},
				{"id":"T-B","dateCreated":"2026-10-05T08:00:00Z","status":"In Progress","busStopCode":"20011","location":"Opp Jurong Pt"},
				{"id":"T-C","dateCreated":"2026-10-03T08:00:00Z","status":"open","busStopCode":"30021","location":"Clementi Stn","attendedAt":"2026-10-03T09:00:00Z"}
			]}`)
		case "/api/panel-docs":
			if r.URL.Query().Get("page") != "1" {
				io.WriteString(w, `{"data":[]}`)
				return
			}
			io.WriteString(w, `{"data":[
				{"Viewer ID":"V1","Panel Type":"Digital","Bus Stop Code":"10009","Latitude":"1.3","Longitude":"103.8"},
				{"Viewer ID":"V2","Panel Type":"Hybrid","Bus Stop Code":"20011","Latitude":"N/A"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTicketsCommand(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "tickets", "--api", srv.URL, "--range", "all", "--status", "open", "--search", "", "--tz", "UTC")
	if err != nil {
		t.Fatalf("tickets: %v", err)
	}
	if strings.Contains(out, "T-B") {
		t.Errorf("in-progress ticket listed under open:\n%s", out)
	}
	c, a := strings.Index(out, "T-C"), strings.Index(out, "T-A")
	if c < 0 || a < 0 || c > a {
		t.Errorf("want T-C before T-A, newest first:\n%s", out)
	}
	if !strings.Contains(out, "all: all=3 open=2 inProgress=1 (showing 2)") {
		t.Errorf("counts line missing:\n%s", out)
	}
	if !strings.Contains(out, "2026-10-03 08:00:00") {
		t.Errorf("creation time not rendered in UTC:\n%s", out)
	}
}

func TestTicketsCommandRejectsUnknownRange(t *testing.T) {
	srv := fakeAPI(t)
	if _, err := run(t, "tickets", "--api", srv.URL, "--range", "yesterday", "--status", "all", "--tz", "UTC"); err == nil {
		t.Fatal("unknown range accepted")
	}
}

func TestOverviewCommand(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "overview", "--api", srv.URL)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	for _, want := range []string{
		"Panels:   2 (1 digital, 1 hybrid)",
		"Screens:  3",
		"Reports:  1 software, 0 hardware",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestStopCommand(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "stop", "--api", srv.URL, "10009")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !strings.Contains(out, "Viewer:    V1") || !strings.Contains(out, "waze.com") {
		t.Errorf("stop output:\n%s", out)
	}
}
