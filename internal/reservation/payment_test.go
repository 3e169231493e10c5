package reservation

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proofFile() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "receipt.jpg"}
}

func TestPaymentLifecycle(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"))
	ctx := context.Background()

	r := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")
	require.Equal(t, PaymentPending, r.PaymentStatus)

	// Requester submits a proof.
	r, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
		ReservationID: r.ID,
		CallerID:      "alice",
		File:          proofFile(),
	})
	require.NoError(t, err)
	assert.Equal(t, PaymentSubmitted, r.PaymentStatus)
	require.NotNil(t, r.PaymentProofURL)

	// Admin verifies.
	env.svc.now = func() time.Time { return testDay.Add(5 * time.Hour) }
	r, err = env.svc.VerifyPayment(ctx, r.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, PaymentVerified, r.PaymentStatus)
	require.NotNil(t, r.PaymentVerifiedAt)
	assert.Equal(t, testDay.Add(5*time.Hour), *r.PaymentVerifiedAt)
	require.NotNil(t, r.PaymentVerifiedBy)
	assert.Equal(t, "admin", *r.PaymentVerifiedBy)

	// Admin resets: back to pending, attribution cleared, proof kept.
	r, err = env.svc.ResetPayment(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, r.PaymentStatus)
	assert.Nil(t, r.PaymentVerifiedAt)
	assert.Nil(t, r.PaymentVerifiedBy)
	assert.NotNil(t, r.PaymentProofURL)

	// The retained proof supports re-verification without resubmitting.
	r, err = env.svc.VerifyPayment(ctx, r.ID, "admin2")
	require.NoError(t, err)
	assert.Equal(t, PaymentVerified, r.PaymentStatus)
	assert.Equal(t, "admin2", *r.PaymentVerifiedBy)
}

func TestSubmitProofReplacesPrevious(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"))
	ctx := context.Background()

	r := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")

	first, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
		ReservationID: r.ID, CallerID: "alice", File: proofFile(),
	})
	require.NoError(t, err)

	second, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
		ReservationID: r.ID, CallerID: "alice", File: proofFile(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, *first.PaymentProofURL, *second.PaymentProofURL)
	assert.Equal(t, PaymentSubmitted, second.PaymentStatus)
}

func TestSubmitProofErrors(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"), freeSpace("hall"))
	ctx := context.Background()

	paid := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")
	free := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: "missing", CallerID: "alice", File: proofFile(),
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("free space has no payment workflow", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: free.ID, CallerID: "alice", File: proofFile(),
		})
		assert.ErrorIs(t, err, ErrPaymentNotApplicable)
	})

	t.Run("only the requester may submit", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "bob", File: proofFile(),
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "alice",
		})
		assert.ErrorIs(t, err, ErrNoFileSelected)
	})

	t.Run("storage failure surfaces as upload error", func(t *testing.T) {
		env.proofs.err = errors.New("disk full")
		defer func() { env.proofs.err = nil }()

		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "alice", File: proofFile(),
		})
		assert.ErrorIs(t, err, ErrUploadFailed)

		// Failed upload must not advance the payment state.
		got, err := env.repo.GetByID(ctx, paid.ID)
		require.NoError(t, err)
		assert.Equal(t, PaymentPending, got.PaymentStatus)
	})

	t.Run("verified payment is locked", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "alice", File: proofFile(),
		})
		require.NoError(t, err)
		_, err = env.svc.VerifyPayment(ctx, paid.ID, "admin")
		require.NoError(t, err)

		_, err = env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "alice", File: proofFile(),
		})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestVerifyPaymentErrors(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"), freeSpace("hall"))
	ctx := context.Background()

	paid := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")
	free := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := env.svc.VerifyPayment(ctx, "missing", "admin")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("free space has no payment workflow", func(t *testing.T) {
		_, err := env.svc.VerifyPayment(ctx, free.ID, "admin")
		assert.ErrorIs(t, err, ErrPaymentNotApplicable)
	})

	t.Run("no proof on record", func(t *testing.T) {
		_, err := env.svc.VerifyPayment(ctx, paid.ID, "admin")
		assert.ErrorIs(t, err, ErrNoProofAvailable)
	})
}

func TestResetPaymentErrors(t *testing.T) {
	env := newTestEnv(t, paidSpace("bbq"), freeSpace("hall"))
	ctx := context.Background()

	paid := env.createReservation(t, "alice", "bbq", testDay, "10:00", "12:00")
	free := env.createReservation(t, "alice", "hall", testDay, "10:00", "12:00")

	t.Run("free space has no payment workflow", func(t *testing.T) {
		_, err := env.svc.ResetPayment(ctx, free.ID)
		assert.ErrorIs(t, err, ErrPaymentNotApplicable)
	})

	t.Run("pending payment has nothing to reset", func(t *testing.T) {
		_, err := env.svc.ResetPayment(ctx, paid.ID)
		assert.ErrorIs(t, err, ErrPaymentNotResettable)
	})

	t.Run("submitted payment resets", func(t *testing.T) {
		_, err := env.svc.SubmitProof(ctx, SubmitProofRequest{
			ReservationID: paid.ID, CallerID: "alice", File: proofFile(),
		})
		require.NoError(t, err)

		r, err := env.svc.ResetPayment(ctx, paid.ID)
		require.NoError(t, err)
		assert.Equal(t, PaymentPending, r.PaymentStatus)
	})
}
