package reservation

import (
	"context"
	"mime/multipart"
)

// ProofStore persists an uploaded payment-proof file and returns a
// stable URL for later retrieval. Implemented by the proof module.
type ProofStore interface {
	Store(ctx context.Context, reservationID, uploaderID string, file *multipart.FileHeader) (string, error)
}

// SubmitProofRequest carries a requester's payment-proof upload.
type SubmitProofRequest struct {
	ReservationID string
	CallerID      string
	File          *multipart.FileHeader
}

// SubmitProof uploads the proof file and moves the payment to submitted.
// Only the requester may submit; resubmitting replaces the previous
// proof as long as the payment has not been verified.
func (s *service) SubmitProof(ctx context.Context, req SubmitProofRequest) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	if !r.RequiresPayment {
		return nil, ErrPaymentNotApplicable
	}
	if r.RequesterID != req.CallerID {
		return nil, ErrPermissionDenied
	}
	if r.PaymentStatus == PaymentVerified {
		return nil, ErrPermissionDenied
	}
	if req.File == nil {
		return nil, ErrNoFileSelected
	}

	url, err := s.proofs.Store(ctx, r.ID, req.CallerID, req.File)
	if err != nil {
		return nil, ErrUploadFailed.WithCause(err)
	}

	r.PaymentProofURL = &url
	r.PaymentStatus = PaymentSubmitted

	if err := s.repo.UpdatePayment(ctx, r); err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return r, nil
}

// VerifyPayment records an administrator's verification decision. A
// proof must be on record, either freshly submitted or retained from an
// earlier submission.
func (s *service) VerifyPayment(ctx context.Context, id, adminID string) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !r.RequiresPayment {
		return nil, ErrPaymentNotApplicable
	}
	if r.PaymentProofURL == nil {
		return nil, ErrNoProofAvailable
	}

	now := s.now()
	r.PaymentStatus = PaymentVerified
	r.PaymentVerifiedAt = &now
	r.PaymentVerifiedBy = &adminID

	if err := s.repo.UpdatePayment(ctx, r); err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return r, nil
}

// ResetPayment regresses a submitted or verified payment to pending and
// clears the verification attribution. The proof URL is retained so a
// later verification can reuse it.
func (s *service) ResetPayment(ctx context.Context, id string) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !r.RequiresPayment {
		return nil, ErrPaymentNotApplicable
	}
	if r.PaymentStatus == PaymentPending {
		return nil, ErrPaymentNotResettable
	}

	r.PaymentStatus = PaymentPending
	r.PaymentVerifiedAt = nil
	r.PaymentVerifiedBy = nil

	if err := s.repo.UpdatePayment(ctx, r); err != nil {
		return nil, err
	}

	s.refresh(ctx)
	return r, nil
}
