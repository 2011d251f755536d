package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/imaging"
)

// fakeRegistrar implements driving.Registrar for command tests.
type fakeRegistrar struct {
	record *domain.RegistrationRecord
	report *domain.DuplicateReport
	err    error
}

func (f *fakeRegistrar) Register(_ context.Context, _, _ string) (*domain.RegistrationRecord, error) {
	return f.record, f.err
}

func (f *fakeRegistrar) RegisterBytes(_ context.Context, _ string, _ []byte) (*domain.RegistrationRecord, error) {
	return f.record, f.err
}

func (f *fakeRegistrar) CheckDuplicate(_ context.Context, _ []byte) (*domain.DuplicateReport, error) {
	return f.report, f.err
}

// fakeVerifier implements driving.Verifier for command tests.
type fakeVerifier struct {
	verdict *domain.Verdict
	err     error
}

func (f *fakeVerifier) Verify(_ context.Context, _ []byte) (*domain.Verdict, error) {
	return f.verdict, f.err
}

func setupCommandTest(t *testing.T, registrar *fakeRegistrar, verifier *fakeVerifier) *bytes.Buffer {
	t.Helper()

	oldRegistrar, oldVerifier := registrarService, verifierService
	registrarService, verifierService = registrar, verifier
	t.Cleanup(func() {
		registrarService, verifierService = oldRegistrar, oldVerifier
		rootCmd.SetArgs(nil)
		registerJSON, verifyJSON, duplicateJSON = false, false, false
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	return buf
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	data, err := imaging.EncodePNG(domain.NewPixelBuffer(16, 16))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "art.png")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestVersionCmd(t *testing.T) {
	buf := setupCommandTest(t, &fakeRegistrar{}, &fakeVerifier{})
	rootCmd.SetArgs([]string{"version"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hatchmark version dev")
}

func TestRegisterCmd(t *testing.T) {
	record := &domain.RegistrationRecord{
		ArtifactID:  "art-1",
		Fingerprint: 0xDEADBEEF,
		ObjectKey:   "uploads/art-1.png",
		Filename:    "art.png",
		Width:       16,
		Height:      16,
		Format:      "png",
		Timestamp:   "2026-01-02T00:00:00Z",
		Status:      domain.StatusRegistered,
	}

	t.Run("prints the new record", func(t *testing.T) {
		buf := setupCommandTest(t, &fakeRegistrar{record: record}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"register", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "art-1")
		assert.Contains(t, buf.String(), "00000000deadbeef")
	})

	t.Run("json output carries the full record", func(t *testing.T) {
		buf := setupCommandTest(t, &fakeRegistrar{record: record}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"register", "--json", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"artifact_id": "art-1"`)
		assert.Contains(t, buf.String(), `"status": "REGISTERED"`)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		setupCommandTest(t, &fakeRegistrar{record: record}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"register", "/does/not/exist.png"})

		err := rootCmd.Execute()

		assert.Error(t, err)
	})

	t.Run("reports unsupported images plainly", func(t *testing.T) {
		setupCommandTest(t, &fakeRegistrar{err: domain.ErrDecode}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"register", writeTestImage(t)})

		err := rootCmd.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a supported image")
	})
}

func TestVerifyCmd(t *testing.T) {
	t.Run("prints the verdict", func(t *testing.T) {
		verdict := &domain.Verdict{
			Classification:   domain.Verified,
			Confidence:       0.98,
			WatermarkFound:   true,
			FingerprintMatch: true,
			Fingerprint:      0x1,
			MatchedID:        "art-1",
			RegisteredAt:     "2026-01-02T00:00:00Z",
		}
		buf := setupCommandTest(t, &fakeRegistrar{}, &fakeVerifier{verdict: verdict})
		rootCmd.SetArgs([]string{"verify", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "VERIFIED")
		assert.Contains(t, buf.String(), "art-1")
	})

	t.Run("json output carries the classification", func(t *testing.T) {
		verdict := &domain.Verdict{
			Classification: domain.NotRegistered,
			Confidence:     0.95,
			Fingerprint:    0x2,
		}
		buf := setupCommandTest(t, &fakeRegistrar{}, &fakeVerifier{verdict: verdict})
		rootCmd.SetArgs([]string{"verify", "--json", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"classification": "NOT_REGISTERED"`)
	})
}

func TestDuplicateCmd(t *testing.T) {
	t.Run("reports a clean image", func(t *testing.T) {
		buf := setupCommandTest(t, &fakeRegistrar{report: &domain.DuplicateReport{Fingerprint: 0x3}}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"duplicate-check", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "No registered duplicates")
	})

	t.Run("reports exact and similar matches", func(t *testing.T) {
		exact := domain.RegistrationRecord{ArtifactID: "art-1", Timestamp: "2026-01-02T00:00:00Z"}
		report := &domain.DuplicateReport{
			Fingerprint: 0x3,
			Exact:       &exact,
			Similar: []domain.DuplicateMatch{
				{Record: domain.RegistrationRecord{ArtifactID: "art-2", Timestamp: "2026-01-01T00:00:00Z"}, Distance: 2},
			},
		}
		buf := setupCommandTest(t, &fakeRegistrar{report: report}, &fakeVerifier{})
		rootCmd.SetArgs([]string{"duplicate-check", writeTestImage(t)})

		err := rootCmd.Execute()

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Exact match: art-1")
		assert.Contains(t, buf.String(), "Similar (distance 2): art-2")
	})
}
