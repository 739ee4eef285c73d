package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// MockCardStore is a mock implementation of store.CardStore.
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) FindByName(ctx context.Context, name string) (*models.CardInDb, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardInDb), args.Error(1)
}

func (m *MockCardStore) DistinctNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCardStore) Create(ctx context.Context, card models.CardInDb) (*models.CardInDb, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardInDb), args.Error(1)
}

func (m *MockCardStore) FindOneAndUpdate(ctx context.Context, patch models.CardPatch) (*models.CardInDb, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardInDb), args.Error(1)
}

var fixedNow = time.Date(2024, time.March, 9, 14, 5, 1, 0, time.UTC)

func newTestService(m *MockCardStore) *CardService {
	return NewCardService(m, time.UTC).WithClock(func() time.Time { return fixedNow })
}

func TestCardService_GetCardByName(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(*MockCardStore)
		expectedKind apperr.Kind
		expectedMsg  string
	}{
		{
			name: "found",
			setupMock: func(m *MockCardStore) {
				m.On("FindByName", mock.Anything, "貪狼").Return(&models.CardInDb{Name: "貪狼"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(m *MockCardStore) {
				m.On("FindByName", mock.Anything, "貪狼").Return(nil, nil)
			},
			expectedKind: apperr.NotFound,
			expectedMsg:  "Cannot find card with name: 貪狼",
		},
		{
			name: "storage failure",
			setupMock: func(m *MockCardStore) {
				m.On("FindByName", mock.Anything, "貪狼").Return(nil, errors.New("connection reset"))
			},
			expectedKind: apperr.Mongo,
			expectedMsg:  "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockCardStore)
			tt.setupMock(m)

			card, err := newTestService(m).GetCardByName(context.Background(), "貪狼")
			if tt.expectedKind != "" {
				require.Error(t, err)
				assert.Nil(t, card)
				assert.Equal(t, tt.expectedKind, apperr.KindOf(err))
				assert.Equal(t, tt.expectedMsg, apperr.From(err).Msg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "貪狼", card.Name)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestCardService_CreateCardStampsAuthorAndTime(t *testing.T) {
	m := new(MockCardStore)
	expected := models.CardInDb{
		Name:          "貪狼",
		Cost:          4,
		Category:      "感知",
		DreamCategory: "普通",
		Author:        "alice",
		CreatedTime:   "2024/3/9 14:05:01",
		UpdatedTime:   "2024/3/9 14:05:01",
	}
	m.On("Create", mock.Anything, expected).Return(&expected, nil)

	card, err := newTestService(m).CreateCard(context.Background(), models.CardInput{
		Name:          "貪狼",
		Cost:          4,
		Category:      models.CategoryPerceive,
		DreamCategory: models.DreamNormal,
	}, "alice")

	require.NoError(t, err)
	assert.Equal(t, expected, *card)
	m.AssertExpectations(t)
}

func TestCardService_UpdateCard(t *testing.T) {
	m := new(MockCardStore)
	m.On("FindOneAndUpdate", mock.Anything, mock.MatchedBy(func(p models.CardPatch) bool {
		return p.Name == "貪狼" && p.Author == "bob" && p.UpdatedTime == "2024/3/9 14:05:01"
	})).Return(nil, nil)

	_, err := newTestService(m).UpdateCard(context.Background(), models.CardPatch{Name: "貪狼", Cost: models.Some(1)}, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &apperr.Error{Kind: apperr.NotFound}))
	m.AssertExpectations(t)
}

func TestCardService_GetCardNames(t *testing.T) {
	m := new(MockCardStore)
	m.On("DistinctNames", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := newTestService(m).GetCardNames(context.Background())
	require.Error(t, err)
	assert.Equal(t, "MongoError: timeout", err.Error())
}
