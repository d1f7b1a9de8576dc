package zencoder_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"uplink/internal/services"
	"uplink/internal/services/zencoder"
)

func TestCreateJobReturnsDescriptor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Zencoder-Api-Key") != "key-1" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		var req zencoder.JobRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.LiveStream != "true" {
			t.Errorf("expected live_stream true, got %q", req.LiveStream)
		}
		if len(req.Outputs) != 2 {
			t.Errorf("expected 2 outputs, got %d", len(req.Outputs))
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":12345,"stream_url":"rtmp://ingest.example.com/live","stream_name":"stream-9"}`)
	}))
	defer server.Close()

	client := zencoder.NewClient("key-1", server.URL+"/jobs")
	job, err := client.CreateJob(context.Background(), zencoder.JobRequest{
		LiveStream:          "true",
		MetadataPassthrough: "true",
		Outputs: []zencoder.Output{
			{Label: "hls_300", Type: "segmented", URL: "s3://bucket/hls_300.m3u8"},
			{Type: "playlist", URL: "s3://bucket/master.m3u8", Streams: []zencoder.PlaylistStream{{Bandwidth: 450, Path: "hls_300.m3u8"}}},
		},
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.ID != "12345" {
		t.Fatalf("unexpected id %q", job.ID)
	}
	if job.StreamURL != "rtmp://ingest.example.com/live" || job.StreamName != "stream-9" {
		t.Fatalf("unexpected descriptor %+v", job)
	}
}

func TestCreateJobNon201CarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["api key invalid"]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := zencoder.NewClient("bad", server.URL+"/jobs")
	_, err := client.CreateJob(context.Background(), zencoder.JobRequest{})
	if !errors.Is(err, services.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "api key invalid") {
		t.Fatalf("error should carry the response body: %v", err)
	}
}

func TestCreateJobIncompleteDescriptor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":12345}`)
	}))
	defer server.Close()

	client := zencoder.NewClient("key-1", server.URL+"/jobs")
	if _, err := client.CreateJob(context.Background(), zencoder.JobRequest{}); !errors.Is(err, services.ErrStatus) {
		t.Fatalf("expected ErrStatus for missing stream fields, got %v", err)
	}
}

func TestInjectCuePoint(t *testing.T) {
	var got zencoder.CuePoint
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/12345/cue_point" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode cue point: %v", err)
		}
	}))
	defer server.Close()

	client := zencoder.NewClient("key-1", server.URL+"/jobs")
	err := client.InjectCuePoint(context.Background(), "12345", zencoder.CuePoint{
		Name:       "adCue",
		Time:       "30",
		Type:       "event",
		Parameters: json.RawMessage(`{"duration": "30"}`),
	})
	if err != nil {
		t.Fatalf("InjectCuePoint: %v", err)
	}
	if got.Name != "adCue" || got.Time != "30" || got.Type != "event" {
		t.Fatalf("unexpected cue fields %+v", got)
	}
	if string(got.Parameters) != `{"duration": "30"}` {
		t.Fatalf("parameters must pass through as raw JSON: %s", got.Parameters)
	}
}

func TestInjectCuePointNonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "job finished", http.StatusConflict)
	}))
	defer server.Close()

	client := zencoder.NewClient("key-1", server.URL+"/jobs")
	err := client.InjectCuePoint(context.Background(), "12345", zencoder.CuePoint{})
	if !errors.Is(err, services.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
}
