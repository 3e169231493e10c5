package proof

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/storage"
)

// MaxProofSize caps accepted uploads at 10 MiB.
const MaxProofSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Service interface {
	// Store saves a payment-proof file for a reservation and returns
	// its public URL. Satisfies the booking engine's ProofStore seam.
	Store(ctx context.Context, reservationID, uploaderID string, header *multipart.FileHeader) (string, error)
	Get(ctx context.Context, id string) (*Proof, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Proof, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Proof, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Store(ctx context.Context, reservationID, uploaderID string, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxProofSize {
		return "", ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return "", ErrUnsupportedType
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content so it can be read twice (save + thumbnail).
	// Proofs are small receipts; the size cap keeps this bounded.
	fileBytes, err := io.ReadAll(io.LimitReader(src, MaxProofSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	if len(fileBytes) > MaxProofSize {
		return "", ErrFileTooLarge
	}

	// A resubmission supersedes the previous proof for the reservation.
	prev, err := s.repo.GetLatestByReservation(ctx, reservationID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}

	proofID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))

	// Storage keys must be unique per upload attempt: reservation id,
	// timestamp, and a random suffix.
	key := fmt.Sprintf("proofs/%s/%d_%s%s",
		reservationID, time.Now().UTC().UnixNano(), proofID[:8], ext)

	if err := s.storage.Save(ctx, key, bytes.NewReader(fileBytes)); err != nil {
		return "", ErrStorageUnavailable.WithCause(err)
	}

	var thumbnailPath *string
	if strings.HasPrefix(contentType, "image/") {
		thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
		if err != nil {
			log.Printf("thumbnail generation failed for proof %s: %v", proofID, err)
		} else {
			tKey := fmt.Sprintf("proofs/%s/%s_thumb.jpg", reservationID, proofID)
			if err := s.storage.Save(ctx, tKey, thumbReader); err == nil {
				thumbnailPath = &tKey
			}
		}
	}

	p := &Proof{
		ID:            proofID,
		ReservationID: reservationID,
		UploaderID:    uploaderID,
		Filename:      header.Filename,
		StoragePath:   key,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(fileBytes)),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		// Best-effort cleanup so the blob store does not accumulate
		// orphans when the metadata write fails.
		_ = s.storage.Delete(ctx, key)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return "", err
	}

	// Drop the superseded proof. Best effort: the new proof is already
	// durable, so a failed cleanup only leaves an orphan behind.
	if prev != nil {
		if err := s.repo.Delete(ctx, prev.ID); err != nil {
			log.Printf("failed to delete superseded proof %s: %v", prev.ID, err)
		} else {
			_ = s.storage.Delete(ctx, prev.StoragePath)
			if prev.ThumbnailPath != nil {
				_ = s.storage.Delete(ctx, *prev.ThumbnailPath)
			}
		}
	}

	return URL(p.ID), nil
}

func (s *service) Get(ctx context.Context, id string) (*Proof, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Proof, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, ErrStorageUnavailable.WithCause(err)
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Proof, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if p.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailMissing
	}

	stream, err := s.storage.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, ErrStorageUnavailable.WithCause(err)
	}
	return stream, p, nil
}
