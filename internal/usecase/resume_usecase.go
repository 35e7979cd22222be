package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"talent-match/internal/domain/candidate"
	domainresume "talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/storage"
	"talent-match/internal/repository"
	"talent-match/internal/resume"
)

type ResumeUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ResumeUsecase interface {
	Upload(ctx context.Context, auth user.AuthContext, in ResumeUpload) (candidate.Profile, error)
}

type Resume struct {
	candidates repository.CandidateRepository
	extractor  domainresume.Extractor
	parser     domainresume.Parser
	blobs      storage.BlobStore
	cache      Cache
	maxBytes   int64
	logger     *log.Logger
	now        func() time.Time
}

func NewResumeUsecase(
	candidates repository.CandidateRepository,
	extractor domainresume.Extractor,
	parser domainresume.Parser,
	blobs storage.BlobStore,
	cache Cache,
	maxBytes int64,
	logger *log.Logger,
) *Resume {
	if cache == nil {
		cache = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resume{
		candidates: candidates,
		extractor:  extractor,
		parser:     parser,
		blobs:      blobs,
		cache:      cache,
		maxBytes:   maxBytes,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Upload validates, parses and stores a resume, then replaces the profile's
// resume fields. Extraction failures degrade to an empty parse. When the
// profile update fails the stored file is removed again.
func (u *Resume) Upload(ctx context.Context, auth user.AuthContext, in ResumeUpload) (candidate.Profile, error) {
	if !auth.IsCandidate() {
		return candidate.Profile{}, ErrForbidden
	}
	if in.Body == nil {
		return candidate.Profile{}, resume.ErrEmptyDocument
	}
	if err := resume.ValidateUpload(in.Filename, in.ContentType, in.Size, u.maxBytes); err != nil {
		return candidate.Profile{}, err
	}
	data, err := resume.ReadLimited(in.Body, u.maxBytes)
	if err != nil {
		if errors.Is(err, resume.ErrTooLarge) {
			return candidate.Profile{}, err
		}
		return candidate.Profile{}, ErrInternal
	}
	if err := resume.SniffPDF(data); err != nil {
		return candidate.Profile{}, err
	}

	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return candidate.Profile{}, mapCandidateErr(err)
	}

	parsed := u.parse(ctx, p, data)

	key := fmt.Sprintf("resumes/%s-%d.pdf", auth.UserID, u.now().UnixMilli())
	url, err := u.blobs.Put(ctx, key, bytes.NewReader(data), resume.MimePDF)
	if err != nil {
		u.logger.Printf("level=error msg=resume_store_failed candidate_id=%s err=%q", p.ID, err.Error())
		return candidate.Profile{}, ErrInternal
	}

	updated, err := u.candidates.UpdateResume(ctx, auth.UserID, url, parsed)
	if err != nil {
		if derr := u.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			u.logger.Printf("level=warn msg=resume_blob_cleanup_failed key=%s err=%q", key, derr.Error())
		}
		u.logger.Printf("level=error msg=resume_update_failed candidate_id=%s err=%q", p.ID, err.Error())
		return candidate.Profile{}, mapCandidateErr(err)
	}

	_ = u.cache.DeleteByPattern(ctx, candidateSearchPattern)
	u.logger.Printf("level=info msg=resume_uploaded candidate_id=%s bytes=%d skills=%d", p.ID, len(data), len(parsed.Skills))
	return updated, nil
}

func (u *Resume) parse(ctx context.Context, p candidate.Profile, data []byte) domainresume.Parsed {
	text, err := u.extractor.Extract(ctx, bytes.NewReader(data), resume.MimePDF)
	if err != nil {
		u.logger.Printf("level=warn msg=resume_extract_failed candidate_id=%s err=%q", p.ID, err.Error())
		text = ""
	}
	parsed := u.parser.Parse(text)
	parsed.Normalize()

	// The account email is known; use it when the document had none.
	if parsed.ContactInfo.Email == "" {
		parsed.ContactInfo.Email = p.Email
	}
	return parsed
}
