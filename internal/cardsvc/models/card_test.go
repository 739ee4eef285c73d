package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/card-services/internal/apperr"
)

func TestCardCategoryOf(t *testing.T) {
	for _, c := range AllCardCategories {
		got, err := CardCategoryOf(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	tests := []string{"", "body", "體魄 ", "体魄", "normal"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := CardCategoryOf(in)
			require.Error(t, err)
			assert.Equal(t, apperr.InvalidParameter, apperr.KindOf(err))
			assert.Equal(t, "card category should be one of: 體魄,感知,靈性,社會,衍生牌,狀態牌, input: "+in, apperr.From(err).Msg)
		})
	}
}

func TestCardDreamCategoryOf(t *testing.T) {
	for _, c := range AllCardDreamCategories {
		got, err := CardDreamCategoryOf(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := CardDreamCategoryOf("Normal")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidParameter, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "普通,美夢,惡夢")
	assert.Contains(t, err.Error(), "input: Normal")

	assert.Equal(t, DreamNormal, DefaultDreamCategory)
}

func TestNewCardInDb(t *testing.T) {
	now := time.Date(2024, time.March, 9, 14, 5, 1, 0, time.UTC)
	card := NewCardInDb(CardInput{
		Name:          "貪狼",
		Cost:          4,
		Category:      CategoryPerceive,
		DreamCategory: DreamNormal,
	}, "alice", now)

	assert.Equal(t, "2024/3/9 14:05:01", card.CreatedTime)
	assert.Equal(t, card.CreatedTime, card.UpdatedTime)
	assert.Equal(t, "alice", card.Author)
	assert.Equal(t, "感知", card.Category)
	assert.Equal(t, "", card.Description)
}

func TestCardPatch(t *testing.T) {
	stored := CardInDb{
		Name:          "貪狼",
		Cost:          4,
		Category:      "感知",
		DreamCategory: "普通",
		Description:   "desc",
		Author:        "alice",
		CreatedTime:   "2024/3/9 14:05:01",
		UpdatedTime:   "2024/3/9 14:05:01",
	}

	patch := CardPatch{Name: "貪狼", Cost: Some(6), Author: "bob", UpdatedTime: "2024/3/10 08:00:00"}

	assert.Equal(t, []Change{
		{Field: "cost", Value: 6},
		{Field: "author", Value: "bob"},
		{Field: "updatedTime", Value: "2024/3/10 08:00:00"},
	}, patch.Changes())

	patch.ApplyTo(&stored)
	assert.Equal(t, 6, stored.Cost)
	assert.Equal(t, "感知", stored.Category)
	assert.Equal(t, "普通", stored.DreamCategory)
	assert.Equal(t, "desc", stored.Description)
	assert.Equal(t, "bob", stored.Author)
	assert.Equal(t, "2024/3/9 14:05:01", stored.CreatedTime)
	assert.Equal(t, "2024/3/10 08:00:00", stored.UpdatedTime)
}

func TestCardPatchExplicitEmptyDescription(t *testing.T) {
	stored := CardInDb{Description: "desc"}
	CardPatch{Description: Some("")}.ApplyTo(&stored)
	assert.Equal(t, "", stored.Description)
}

func TestMapOptional(t *testing.T) {
	absent, err := MapOptional(None[string](), CardCategoryOf)
	require.NoError(t, err)
	assert.False(t, absent.IsPresent())

	present, err := MapOptional(Some("靈性"), CardCategoryOf)
	require.NoError(t, err)
	v, ok := present.Get()
	assert.True(t, ok)
	assert.Equal(t, CategorySpirit, v)

	_, err = MapOptional(Some("x"), CardCategoryOf)
	assert.Error(t, err)
	assert.Equal(t, "fallback", None[string]().OrElse("fallback"))
}
