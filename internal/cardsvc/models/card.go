package models

import (
	"strings"
	"time"

	"github.com/avvvet/card-services/internal/apperr"
)

// TimeLayout renders card timestamps, e.g. 2024/3/9 14:05:01.
const TimeLayout = "2006/1/2 15:04:05"

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

type CardCategory string

const (
	CategoryBody      CardCategory = "體魄"
	CategoryPerceive  CardCategory = "感知"
	CategorySpirit    CardCategory = "靈性"
	CategorySocial    CardCategory = "社會"
	CategoryDerived   CardCategory = "衍生牌"
	CategoryCondition CardCategory = "狀態牌"
)

// AllCardCategories is the closed set, in display order.
var AllCardCategories = []CardCategory{
	CategoryBody,
	CategoryPerceive,
	CategorySpirit,
	CategorySocial,
	CategoryDerived,
	CategoryCondition,
}

// CardCategoryOf accepts only an exact member of AllCardCategories.
func CardCategoryOf(s string) (CardCategory, error) {
	switch c := CardCategory(s); c {
	case CategoryBody, CategoryPerceive, CategorySpirit, CategorySocial, CategoryDerived, CategoryCondition:
		return c, nil
	default:
		return "", apperr.InvalidParameterf("card category should be one of: %s, input: %s", joinTags(AllCardCategories), s)
	}
}

type CardDreamCategory string

const (
	DreamNormal    CardDreamCategory = "普通"
	DreamSweet     CardDreamCategory = "美夢"
	DreamNightmare CardDreamCategory = "惡夢"
)

// DefaultDreamCategory applies when post_card omits dream_category.
const DefaultDreamCategory = DreamNormal

var AllCardDreamCategories = []CardDreamCategory{DreamNormal, DreamSweet, DreamNightmare}

func CardDreamCategoryOf(s string) (CardDreamCategory, error) {
	switch c := CardDreamCategory(s); c {
	case DreamNormal, DreamSweet, DreamNightmare:
		return c, nil
	default:
		return "", apperr.InvalidParameterf("card dream category should be one of: %s, input: %s", joinTags(AllCardDreamCategories), s)
	}
}

func joinTags[T ~string](tags []T) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// CardInput is a validated card before it is stamped and stored.
type CardInput struct {
	Name          string
	Cost          int
	Category      CardCategory
	DreamCategory CardDreamCategory
	Description   string
}

// CardInDb is the persisted card.
type CardInDb struct {
	Name          string `bson:"name" json:"name" db:"name"`
	Cost          int    `bson:"cost" json:"cost" db:"cost"`
	Category      string `bson:"category" json:"category" db:"category"`
	DreamCategory string `bson:"dream_category" json:"dream_category" db:"dream_category"`
	Description   string `bson:"description" json:"description" db:"description"`
	Author        string `bson:"author" json:"author" db:"author"`
	CreatedTime   string `bson:"createdTime" json:"createdTime" db:"created_time"`
	UpdatedTime   string `bson:"updatedTime" json:"updatedTime" db:"updated_time"`
}

// NewCardInDb stamps an input with its author and creation time.
func NewCardInDb(in CardInput, author string, now time.Time) CardInDb {
	created := FormatTime(now)
	return CardInDb{
		Name:          in.Name,
		Cost:          in.Cost,
		Category:      string(in.Category),
		DreamCategory: string(in.DreamCategory),
		Description:   in.Description,
		Author:        author,
		CreatedTime:   created,
		UpdatedTime:   created,
	}
}

// CardPatch is a partial update keyed by Name. Absent fields stay as stored;
// Author and UpdatedTime are always written.
type CardPatch struct {
	Name          string
	Cost          Optional[int]
	Category      Optional[CardCategory]
	DreamCategory Optional[CardDreamCategory]
	Description   Optional[string]
	Author        string
	UpdatedTime   string
}

// Change is one stored field written by a patch, named by its document key.
type Change struct {
	Field string
	Value any
}

// Changes lists the fields a patch writes, in a fixed order.
func (p CardPatch) Changes() []Change {
	var changes []Change
	if v, ok := p.Cost.Get(); ok {
		changes = append(changes, Change{Field: "cost", Value: v})
	}
	if v, ok := p.Category.Get(); ok {
		changes = append(changes, Change{Field: "category", Value: string(v)})
	}
	if v, ok := p.DreamCategory.Get(); ok {
		changes = append(changes, Change{Field: "dream_category", Value: string(v)})
	}
	if v, ok := p.Description.Get(); ok {
		changes = append(changes, Change{Field: "description", Value: v})
	}
	return append(changes,
		Change{Field: "author", Value: p.Author},
		Change{Field: "updatedTime", Value: p.UpdatedTime},
	)
}

// ApplyTo writes the present fields of p onto c.
func (p CardPatch) ApplyTo(c *CardInDb) {
	if v, ok := p.Cost.Get(); ok {
		c.Cost = v
	}
	if v, ok := p.Category.Get(); ok {
		c.Category = string(v)
	}
	if v, ok := p.DreamCategory.Get(); ok {
		c.DreamCategory = string(v)
	}
	if v, ok := p.Description.Get(); ok {
		c.Description = v
	}
	c.Author = p.Author
	c.UpdatedTime = p.UpdatedTime
}
