package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfit/internal/models"
	"schoolfit/internal/repository"
)

type stubVerifier struct {
	result Verification
	err    error
	calls  int
}

func (s *stubVerifier) Verify(ctx context.Context, image []byte, format, exerciseType string) (Verification, error) {
	s.calls++
	return s.result, s.err
}

func (e *testEnv) verificationService(v Verifier) *VerificationService {
	s := NewVerificationService(e.users, e.ledger, v, e.metrics)
	s.now = fixedClock
	return s
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name        string
		verifier    Verifier
		wantVerdict models.Verdict
		wantPoints  int
		wantHouse   float64
	}{
		{
			name:        "valid form",
			verifier:    &stubVerifier{result: Verification{Verdict: models.VerdictValid, Feedback: "Good depth", Confidence: 90}},
			wantVerdict: models.VerdictValid,
			wantPoints:  15,
			wantHouse:   1,
		},
		{
			name:        "invalid form",
			verifier:    &stubVerifier{result: Verification{Verdict: models.VerdictInvalid, Confidence: 70}},
			wantVerdict: models.VerdictInvalid,
		},
		{
			name:        "verifier error",
			verifier:    &stubVerifier{err: errors.New("quota exceeded")},
			wantVerdict: models.VerdictUnknown,
		},
		{
			name:        "no verifier",
			verifier:    nil,
			wantVerdict: models.VerdictUnknown,
		},
		{
			name:        "unexpected verdict",
			verifier:    &stubVerifier{result: Verification{Verdict: "maybe", Confidence: 150}},
			wantVerdict: models.VerdictUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addUser(t, "jane", models.RoleStudent, models.HouseBlack)

			result, err := env.verificationService(tt.verifier).Verify(context.Background(), "jane", "push-up", "jpeg", []byte{0xff, 0xd8})
			require.NoError(t, err)
			assert.Equal(t, tt.wantVerdict, result.Verification.Verdict)
			assert.Equal(t, tt.wantPoints, result.Award.Points)
			assert.Equal(t, tt.wantPoints, result.Verification.PointsAwarded)
			assert.LessOrEqual(t, result.Verification.Confidence, 100)

			record := env.get(t, "jane")
			require.Len(t, record.WorkoutVerifications, 1)
			assert.Equal(t, "push-up", record.WorkoutVerifications[0].ExerciseType)
			assert.Equal(t, tt.wantPoints, record.TotalPoints)
			assert.InDelta(t, tt.wantHouse, record.HousePointsContributed, 1e-9)
		})
	}
}

func TestVerifyMarksMatchingExercise(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, models.HouseBlack)
	today := testNow.Format(models.DateLayout)
	require.NoError(t, env.users.Update(context.Background(), "jane", func(record *models.UserRecord) error {
		record.Exercises = []models.Exercise{
			{Date: "2024-01-09", Name: "Push-up", Category: "strength"},
			{Date: today, Name: "Push-up", Category: "strength"},
			{Date: today, Name: "Running", Category: "cardio"},
		}
		return nil
	}))

	valid := &stubVerifier{result: Verification{Verdict: models.VerdictValid, Confidence: 80}}
	_, err := env.verificationService(valid).Verify(context.Background(), "jane", "push-up", "jpeg", []byte{1})
	require.NoError(t, err)

	exercises := env.get(t, "jane").Exercises
	assert.False(t, exercises[0].Verified, "other day")
	assert.True(t, exercises[1].Verified, "matching exercise today")
	assert.False(t, exercises[2].Verified, "different exercise")

	invalid := &stubVerifier{result: Verification{Verdict: models.VerdictInvalid}}
	_, err = env.verificationService(invalid).Verify(context.Background(), "jane", "running", "jpeg", []byte{1})
	require.NoError(t, err)
	assert.False(t, env.get(t, "jane").Exercises[2].Verified, "invalid form does not verify")
}

func TestVerifyRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	stub := &stubVerifier{result: Verification{Verdict: models.VerdictValid}}
	svc := env.verificationService(stub)

	_, err := svc.Verify(context.Background(), "jane", "", "jpeg", []byte{1})
	assert.Error(t, err)
	_, err = svc.Verify(context.Background(), "jane", "squat", "jpeg", nil)
	assert.Error(t, err)
	_, err = svc.Verify(context.Background(), "ghost", "squat", "jpeg", []byte{1})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Zero(t, stub.calls)
	assert.Empty(t, env.get(t, "jane").WorkoutVerifications)
}

func TestParseVerification(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Verification
		wantErr bool
	}{
		{
			name: "plain json",
			text: `{"verdict": "valid", "feedback": " Nice form ", "confidence": 87.6}`,
			want: Verification{Verdict: models.VerdictValid, Feedback: "Nice form", Confidence: 88},
		},
		{
			name: "fenced json",
			text: "```json\n{\"verdict\": \"INVALID\", \"feedback\": \"Back is arched\", \"confidence\": 60}\n```",
			want: Verification{Verdict: models.VerdictInvalid, Feedback: "Back is arched", Confidence: 60},
		},
		{
			name: "clamped",
			text: `{"verdict": "unsure", "confidence": -5}`,
			want: Verification{Verdict: models.VerdictUnknown},
		},
		{name: "not json", text: "The form looks good", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVerification(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
