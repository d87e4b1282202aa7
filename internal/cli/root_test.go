package cli_test

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/smartgrow/internal/cli/clitest"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
)

func TestContextTracker_FollowsContext(t *testing.T) {
	ctx := clitest.NewContext(t)
	if _, err := ctx.Tracker().Analyze(context.Background(), provider.Image{}, models.LanguageEnglish, false); err == nil {
		t.Fatal("expected an error without a provider")
	}

	ctx.Provider = &clitest.FakeProvider{Records: []models.DiagnosisRecord{clitest.Diagnosis("Tomato", models.SeverityMild)}}
	later := clitest.FixedNow.Add(time.Hour)
	ctx.Now = func() time.Time { return later }

	res, err := ctx.Tracker().Analyze(context.Background(), provider.Image{}, models.LanguageEnglish, false)
	if err != nil {
		t.Fatalf("expected the new provider to be used, got %v", err)
	}
	if res.Scan == nil || res.Scan.Timestamp != later.UnixMilli() {
		t.Errorf("expected scan stamped %d, got %+v", later.UnixMilli(), res.Scan)
	}

	ctx.Store = ctx.Store.WithUser(storage.NewUserContext("other"))
	if got := ctx.Tracker().Store().User(); got != storage.NewUserContext("other") {
		t.Errorf("expected tracker on the switched user, got %v", got)
	}
}
