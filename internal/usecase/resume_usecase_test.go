package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-match/internal/domain/candidate"
	domainresume "talent-match/internal/domain/resume"
	"talent-match/internal/resume"
)

const fakePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n"

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, io.Reader, string) (string, error) {
	return "", errors.New("pdftotext not installed")
}

func newResumeFixture(extractor domainresume.Extractor) (*memStore, *memBlobStore, *memCache, *Resume) {
	store := newMemStore()
	blobs := newMemBlobStore()
	cache := newMemCache()
	uc := NewResumeUsecase(store, extractor, resume.NewKeywordParser(), blobs, cache, 5<<20, quietLogger())
	return store, blobs, cache, uc
}

func pdfUpload(body string) ResumeUpload {
	return ResumeUpload{
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        bytes.NewReader([]byte(body)),
	}
}

func TestResume_UploadParsesAndStores(t *testing.T) {
	text := "Jane Smith\njane@example.com\n\nSkills\nGo, PostgreSQL, React\n"
	store, blobs, cache, uc := newResumeFixture(resume.StaticExtractor{Text: text})
	p := store.addCandidate(candidate.Profile{Email: "jane@example.com"})
	require.NoError(t, cache.SetJSON(context.Background(), candidateSearchPrefix+"x", CandidateList{}, 0))

	got, err := uc.Upload(context.Background(), candidateAuth(p.UserID), pdfUpload(fakePDF))
	require.NoError(t, err)

	require.NotNil(t, got.ResumeURL)
	require.NotNil(t, got.ParsedResume)
	assert.Equal(t, "Jane Smith", got.ParsedResume.ContactInfo.Name)
	assert.Contains(t, got.Skills, "Go")
	assert.Contains(t, got.Skills, "React")
	assert.Equal(t, 1, blobs.count())
	assert.Zero(t, cache.len())
}

func TestResume_ExtractionFailureDegradesToEmpty(t *testing.T) {
	store, _, _, uc := newResumeFixture(failingExtractor{})
	p := store.addCandidate(candidate.Profile{Email: "blank@example.com"})

	got, err := uc.Upload(context.Background(), candidateAuth(p.UserID), pdfUpload(fakePDF))
	require.NoError(t, err)

	require.NotNil(t, got.ParsedResume)
	assert.Equal(t, domainresume.NamePlaceholder, got.ParsedResume.ContactInfo.Name)
	assert.Equal(t, "blank@example.com", got.ParsedResume.ContactInfo.Email)
	assert.Empty(t, got.Skills)
}

func TestResume_RejectsInvalidUploads(t *testing.T) {
	store, blobs, _, uc := newResumeFixture(resume.StaticExtractor{})
	p := store.addCandidate(candidate.Profile{Email: "x@example.com"})
	auth := candidateAuth(p.UserID)

	docx := pdfUpload("PK\x03\x04 not a pdf")
	docx.Filename, docx.ContentType = "cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	_, err := uc.Upload(context.Background(), auth, docx)
	assert.ErrorIs(t, err, resume.ErrUnsupportedType)

	_, err = uc.Upload(context.Background(), auth, pdfUpload("just text, named like a pdf"))
	assert.ErrorIs(t, err, resume.ErrUnsupportedType)

	big := pdfUpload(fakePDF)
	big.Size = 6 << 20
	_, err = uc.Upload(context.Background(), auth, big)
	assert.ErrorIs(t, err, resume.ErrTooLarge)

	lying := pdfUpload(fakePDF + string(make([]byte, 6<<20)))
	lying.Size = 100
	_, err = uc.Upload(context.Background(), auth, lying)
	assert.ErrorIs(t, err, resume.ErrTooLarge)

	assert.Zero(t, blobs.count())
	assert.Nil(t, store.candidate(p.ID).ParsedResume)
}

func TestResume_ProfileUpdateFailureRemovesBlob(t *testing.T) {
	store, blobs, _, uc := newResumeFixture(resume.StaticExtractor{Text: "Skills\nGo"})
	p := store.addCandidate(candidate.Profile{Email: "y@example.com"})
	store.updateResumeErr = errStoreDown

	_, err := uc.Upload(context.Background(), candidateAuth(p.UserID), pdfUpload(fakePDF))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Zero(t, blobs.count())
}

func TestResume_StoreFailure(t *testing.T) {
	store, blobs, _, uc := newResumeFixture(resume.StaticExtractor{})
	p := store.addCandidate(candidate.Profile{Email: "z@example.com"})
	blobs.putErr = errStoreDown

	_, err := uc.Upload(context.Background(), candidateAuth(p.UserID), pdfUpload(fakePDF))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, store.candidate(p.ID).ResumeURL)
}

func TestResume_RequiresCandidate(t *testing.T) {
	_, _, _, uc := newResumeFixture(resume.StaticExtractor{})
	_, err := uc.Upload(context.Background(), recruiterAuth(), pdfUpload(fakePDF))
	assert.ErrorIs(t, err, ErrForbidden)
}
