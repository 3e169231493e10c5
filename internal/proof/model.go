package proof

import (
	"net/http"
	"time"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "payment proof not found")
	ErrUnsupportedType    = apperror.New(http.StatusBadRequest, "payment proof must be an image or a PDF")
	ErrFileTooLarge       = apperror.New(http.StatusBadRequest, "payment proof file is too large")
	ErrThumbnailMissing   = apperror.New(http.StatusNotFound, "no thumbnail available for this proof")
	ErrStorageUnavailable = apperror.New(http.StatusBadGateway, "proof storage is unavailable")
)

// Proof is an uploaded payment-evidence file attached to a reservation.
type Proof struct {
	ID            string
	ReservationID string
	UploaderID    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public retrieval URL for a proof by its ID.
func URL(id string) string {
	return "/v1/proofs/" + id
}
