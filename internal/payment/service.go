package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
)

const thumbnailSize = 400

var slipExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ReservationReader loads a reservation on behalf of a caller.
type ReservationReader interface {
	GetByID(ctx context.Context, id string, actor reservation.Actor) (*reservation.Reservation, error)
}

type UploadInput struct {
	ReservationID string
	Actor         reservation.Actor
	Header        *multipart.FileHeader
	Amount        *float64
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Payment, error)
	ListByReservation(ctx context.Context, reservationID string) ([]*Payment, error)
	// Download returns the slip content. Callers must close the stream.
	Download(ctx context.Context, id string) (io.ReadCloser, *Payment, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Payment, error)
}

type service struct {
	repo         Repository
	reservations ReservationReader
	store        storage.Storage
	logger       zerolog.Logger
}

func NewService(repo Repository, reservations ReservationReader, store storage.Storage, logger zerolog.Logger) Service {
	return &service{
		repo:         repo,
		reservations: reservations,
		store:        store,
		logger:       logger,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Payment, error) {
	res, err := s.reservations.GetByID(ctx, in.ReservationID, in.Actor)
	if err != nil {
		return nil, err
	}
	if !res.OwnedBy(in.Actor.UserID) {
		return nil, reservation.ErrForbidden
	}
	if res.Status.TerminalNegative() {
		return nil, ErrReservationClosed
	}

	if in.Header == nil {
		return nil, ErrInvalidSlip
	}
	if in.Header.Size > MaxSlipBytes {
		return nil, ErrSlipTooLarge
	}

	src, err := in.Header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded slip failed: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxSlipBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded slip failed: %w", err)
	}
	if len(content) > MaxSlipBytes {
		return nil, ErrSlipTooLarge
	}

	// Trust the bytes, not the client's header.
	contentType := http.DetectContentType(content)
	ext, ok := slipExtensions[contentType]
	if !ok {
		return nil, ErrInvalidSlip
	}
	thumb, err := storage.Thumbnail(bytes.NewReader(content), thumbnailSize, thumbnailSize)
	if err != nil {
		return nil, ErrInvalidSlip.WithCause(err)
	}

	id := uuid.NewString()
	shard := id[:2]
	slipPath := path.Join("slips", shard, id+ext)
	thumbPath := path.Join("slips", shard, id+"_thumb.jpg")

	if err := s.store.Save(ctx, slipPath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save slip failed: %w", err)
	}
	if err := s.store.Save(ctx, thumbPath, thumb); err != nil {
		s.cleanup(ctx, slipPath)
		return nil, fmt.Errorf("save slip thumbnail failed: %w", err)
	}

	p := &Payment{
		ID:            id,
		ReservationID: res.ID,
		Amount:        in.Amount,
		Filename:      sanitizeFilename(in.Header.Filename, ext),
		SlipPath:      slipPath,
		ThumbnailPath: &thumbPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
	}
	if in.Actor.UserID != "" {
		uid := in.Actor.UserID
		p.UserID = &uid
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.cleanup(ctx, slipPath, thumbPath)
		return nil, err
	}

	s.logger.Info().
		Str("payment_id", p.ID).
		Str("reservation_id", p.ReservationID).
		Int64("size", p.Size).
		Msg("payment slip uploaded")
	return p, nil
}

// cleanup removes stored blobs of a failed upload. It ignores ctx
// cancellation so a timed-out request still cleans up.
func (s *service) cleanup(ctx context.Context, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("remove orphaned slip failed")
		}
	}
}

func sanitizeFilename(name, ext string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "slip" + ext
	}
	return name
}

func (s *service) ListByReservation(ctx context.Context, reservationID string) ([]*Payment, error) {
	return s.repo.ListByReservation(ctx, reservationID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.open(ctx, p.SlipPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrSlipNotFound
	}
	stream, err := s.open(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return stream, p, nil
}

func (s *service) open(ctx context.Context, p string) (io.ReadCloser, error) {
	stream, err := s.store.Get(ctx, p)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSlipNotFound.WithCause(err)
		}
		return nil, fmt.Errorf("read slip failed: %w", err)
	}
	return stream, nil
}
