package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coffeehouse/internal/config"
	"github.com/magabrotheeeer/coffeehouse/internal/lib/apperr"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateQuestion(ctx context.Context, q models.Question) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func TestQuestionService_Ask(t *testing.T) {
	sess := models.NewSession("Ann", "ann@example.com", "0xabc")

	tests := []struct {
		name       string
		question   models.Question
		setupMocks func(r *MockQuestionRepository)
		wantErr    error
	}{
		{
			name:     "defaults from session",
			question: models.Question{Type: "question", Content: "  What's brewing?  "},
			setupMocks: func(r *MockQuestionRepository) {
				r.On("CreateQuestion", mock.Anything, models.Question{
					Type: "question", Name: "Ann", Email: "ann@example.com", Content: "What's brewing?",
				}).Return(int64(1), nil).Once()
			},
		},
		{
			name: "artist suggestion",
			question: models.Question{Type: "artist", Name: "Bob", Content: "Book them",
				ArtistName: "The Band", ArtistLink: "https://band.example.com"},
			setupMocks: func(r *MockQuestionRepository) {
				r.On("CreateQuestion", mock.Anything, mock.MatchedBy(func(q models.Question) bool {
					return q.Name == "Bob" && q.ArtistName == "The Band"
				})).Return(int64(2), nil).Once()
			},
		},
		{
			name:       "artist without name",
			question:   models.Question{Type: "artist", Content: "Book them"},
			setupMocks: func(_ *MockQuestionRepository) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "unknown type",
			question:   models.Question{Type: "gossip", Content: "x"},
			setupMocks: func(_ *MockQuestionRepository) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "empty content",
			question:   models.Question{Type: "interview", Content: "   "},
			setupMocks: func(_ *MockQuestionRepository) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "bad artist link",
			question:   models.Question{Type: "artist", ArtistName: "X", ArtistLink: "not a url", Content: "x"},
			setupMocks: func(_ *MockQuestionRepository) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:     "store failure",
			question: models.Question{Type: "question", Content: "Hi"},
			setupMocks: func(r *MockQuestionRepository) {
				r.On("CreateQuestion", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			wantErr: apperr.ErrStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockQuestionRepository)
			tt.setupMocks(repo)

			svc := NewQuestionService(repo, config.Timeouts{StoreTimeout: time.Second})
			id, err := svc.Ask(context.Background(), sess, tt.question)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Positive(t, id)
			}
			repo.AssertExpectations(t)
		})
	}
}
