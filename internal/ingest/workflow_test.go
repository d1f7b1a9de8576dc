package ingest_test

import (
	"context"
	"errors"
	"testing"

	"uplink/internal/ingest"
	"uplink/internal/manifest"
	"uplink/internal/services"
	"uplink/internal/services/cms"
	"uplink/internal/services/dynamicingest"
)

type fakeTokens struct {
	calls    int
	failFrom int // 1-based call number from which token fetches fail; 0 = never
}

func (f *fakeTokens) Token(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.failFrom > 0 && f.calls >= f.failFrom {
		return "", services.Wrap(services.ErrAuth, "oauth", "token", "http 401", nil)
	}
	return "tok", nil
}

type fakeVideos struct {
	createCalls  int
	createFails  int   // number of leading create calls that fail
	failWith     error // classification for failing create calls; nil = ErrStatus
	updateCalls  int
	updateFails  bool
	lastUpdate   cms.Update
	createdVideo string
}

func (f *fakeVideos) CreateVideo(_ context.Context, _, _, _ string) (string, error) {
	f.createCalls++
	if f.createCalls <= f.createFails {
		marker := f.failWith
		if marker == nil {
			marker = services.ErrStatus
		}
		return "", services.Wrap(marker, "cms", "create video", "http 500", nil)
	}
	if f.createdVideo == "" {
		f.createdVideo = "vid-42"
	}
	return f.createdVideo, nil
}

func (f *fakeVideos) UpdateVideo(_ context.Context, _, _, _ string, update cms.Update) error {
	f.updateCalls++
	f.lastUpdate = update
	if f.updateFails {
		return services.Wrap(services.ErrStatus, "cms", "update video", "http 409", nil)
	}
	return nil
}

type fakeIngests struct {
	calls    int
	fails    int
	lastReq  dynamicingest.Request
	lastVid  string
	ingestID string
}

func (f *fakeIngests) Submit(_ context.Context, _, _, videoID string, req dynamicingest.Request) (string, error) {
	f.calls++
	f.lastReq = req
	f.lastVid = videoID
	if f.calls <= f.fails {
		return "", services.Wrap(services.ErrStatus, "ingest", "submit", "http 502", nil)
	}
	if f.ingestID == "" {
		f.ingestID = "ingest-7"
	}
	return f.ingestID, nil
}

type spyNotifier struct {
	invalid      int
	createFailed int
	ingestFailed int
	updateWarned int
	succeeded    int
	lastTo       string
}

func (s *spyNotifier) NotifyInvalidAsset(_ context.Context, to string, _ *manifest.Asset, _, _ string) error {
	s.invalid++
	s.lastTo = to
	return nil
}

func (s *spyNotifier) NotifyCreateFailed(_ context.Context, to string, _ *manifest.Asset, _, _ string) error {
	s.createFailed++
	s.lastTo = to
	return nil
}

func (s *spyNotifier) NotifyIngestFailed(_ context.Context, to string, _ *manifest.Asset, _, _ string) error {
	s.ingestFailed++
	s.lastTo = to
	return nil
}

func (s *spyNotifier) NotifyUpdateWarning(_ context.Context, to string, _ *manifest.Asset, _, _ string) error {
	s.updateWarned++
	s.lastTo = to
	return nil
}

func (s *spyNotifier) NotifySuccess(_ context.Context, to string, _ *manifest.Asset) error {
	s.succeeded++
	s.lastTo = to
	return nil
}

func (s *spyNotifier) TestNotification(_ context.Context, _ string) error { return nil }

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name:  "drop/batch.xml",
		Email: "submitter@example.com",
		Raw:   "<Manifest>raw</Manifest>",
	}
}

func testAsset() *manifest.Asset {
	a := &manifest.Asset{
		FileName:     "movies/feature.mp4",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AccountID:    "12345",
		Profile:      "multi-platform-standard",
		ReferenceID:  "ref-9",
	}
	a.Validate()
	return a
}

func TestRunHappyPath(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	asset := testAsset()
	result := wf.Run(context.Background(), testManifest(), asset)

	if !result.Completed || result.MetadataWarning || result.Err != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if asset.VideoID != "vid-42" || asset.IngestRequestID != "ingest-7" {
		t.Fatalf("asset not mutated with ids: %+v", asset)
	}
	if tokens.calls != 3 {
		t.Fatalf("expected one token fetch per stage, got %d", tokens.calls)
	}
	if notifier.succeeded != 1 || notifier.lastTo != "submitter@example.com" {
		t.Fatalf("expected one success email to submitter, got %+v", notifier)
	}
	if ingests.lastReq.SourceBucket != "incoming" || ingests.lastReq.SourceFile != "movies/feature.mp4" {
		t.Fatalf("ingest request missing source: %+v", ingests.lastReq)
	}
	if ingests.lastVid != "vid-42" {
		t.Fatalf("ingest must target the created video, got %q", ingests.lastVid)
	}
	if videos.lastUpdate.ReferenceID != "ref-9" {
		t.Fatalf("update must carry the reference id: %+v", videos.lastUpdate)
	}
}

func TestCreateRetriesExactlyOnce(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{createFails: 1}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	result := wf.Run(context.Background(), testManifest(), testAsset())

	if !result.Completed {
		t.Fatalf("single create failure should be retried: %+v", result)
	}
	if videos.createCalls != 2 {
		t.Fatalf("expected exactly 2 create attempts, got %d", videos.createCalls)
	}
}

func TestNonRetryableCreateFailureSkipsSecondAttempt(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{createFails: 2, failWith: services.ErrValidation}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	result := wf.Run(context.Background(), testManifest(), testAsset())

	if result.Completed || result.FailedStage != ingest.StageCreate {
		t.Fatalf("unexpected result %+v", result)
	}
	if !errors.Is(result.Err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", result.Err)
	}
	if videos.createCalls != 1 {
		t.Fatalf("validation failure must not be retried, got %d attempts", videos.createCalls)
	}
	if notifier.createFailed != 1 {
		t.Fatalf("expected one create-failure email, got %d", notifier.createFailed)
	}
}

func TestCreateFailsAfterTwoAttempts(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{createFails: 2}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	result := wf.Run(context.Background(), testManifest(), testAsset())

	if result.Completed || result.FailedStage != ingest.StageCreate {
		t.Fatalf("unexpected result %+v", result)
	}
	if videos.createCalls != 2 {
		t.Fatalf("expected exactly 2 create attempts, got %d", videos.createCalls)
	}
	if notifier.createFailed != 1 {
		t.Fatalf("expected one create-failure email, got %d", notifier.createFailed)
	}
	if ingests.calls != 0 {
		t.Fatal("ingest stage must not run after create failure")
	}
}

func TestAuthFailureRetriesStageOnce(t *testing.T) {
	// Token fetches succeed for the create stage, then fail from call 2 on,
	// so the ingest stage sees two failed attempts.
	tokens := &fakeTokens{failFrom: 2}
	videos := &fakeVideos{}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	result := wf.Run(context.Background(), testManifest(), testAsset())

	if result.Completed || result.FailedStage != ingest.StageIngest {
		t.Fatalf("unexpected result %+v", result)
	}
	if !errors.Is(result.Err, services.ErrAuth) {
		t.Fatalf("expected auth error, got %v", result.Err)
	}
	if tokens.calls != 3 {
		t.Fatalf("expected 1 create + 2 ingest token fetches, got %d", tokens.calls)
	}
	if ingests.calls != 0 {
		t.Fatal("ingest call must not run without a token")
	}
	if notifier.ingestFailed != 1 {
		t.Fatalf("expected one ingest-failure email, got %d", notifier.ingestFailed)
	}
}

func TestIngestFailureLeavesVideoOrphaned(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{}
	ingests := &fakeIngests{fails: 2}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	asset := testAsset()
	result := wf.Run(context.Background(), testManifest(), asset)

	if result.Completed || result.FailedStage != ingest.StageIngest {
		t.Fatalf("unexpected result %+v", result)
	}
	if asset.VideoID != "vid-42" {
		t.Fatal("created video id must be kept on the asset")
	}
	if asset.IngestRequestID != "" {
		t.Fatal("no ingest request id should be recorded")
	}
	if videos.updateCalls != 0 {
		t.Fatal("update stage must not run after ingest failure")
	}
}

func TestUpdateFailureIsWarningNotFailure(t *testing.T) {
	tokens := &fakeTokens{}
	videos := &fakeVideos{updateFails: true}
	ingests := &fakeIngests{}
	notifier := &spyNotifier{}

	wf := ingest.NewWorkflow(tokens, videos, ingests, notifier, "incoming", nil)
	asset := testAsset()
	result := wf.Run(context.Background(), testManifest(), asset)

	if !result.Completed || !result.MetadataWarning {
		t.Fatalf("update failure must complete with a warning: %+v", result)
	}
	if videos.updateCalls != 1 {
		t.Fatalf("update must not be retried, got %d calls", videos.updateCalls)
	}
	if notifier.updateWarned != 1 || notifier.succeeded != 0 {
		t.Fatalf("expected warning email only, got %+v", notifier)
	}
	if asset.IngestRequestID != "ingest-7" {
		t.Fatal("prior stage results must survive the update failure")
	}
}
