package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/avvvet/card-services/internal/comm"
)

const (
	fieldCardName      = "card_name"
	fieldCost          = "cost"
	fieldCategory      = "category"
	fieldDreamCategory = "dream_category"
	fieldDescription   = "description"
	fieldCurrMana      = "curr_mana"
	fieldPlayer        = "player"
	fieldTarget        = "target"
	fieldSupplementary = "supplementary"
)

const (
	categoryHelp      = `Should be one of "體魄", "感知", "靈性", "社會", "衍生牌", "狀態牌"`
	dreamCategoryHelp = `The card is a dream card or not. Should be one of "普通", "美夢", "惡夢", default is "普通"`
	costHelp          = `The cost of the card. Should be a integer. e.x. 0, 1, 6, -1`
)

// CardCommands holds the catalog commands.
type CardCommands struct {
	cards *service.CardService
}

func NewCardCommands(cards *service.CardService) *CardCommands {
	return &CardCommands{cards: cards}
}

// Commands lists the catalog commands in the order they are registered.
func (c *CardCommands) Commands() []Command {
	return []Command{
		{
			Definition: comm.CommandDefinition{
				Name:        "get_card",
				Description: "Replies with the card information by given card name. (*) means required",
				Options: []comm.OptionDefinition{
					{Name: fieldCardName, Type: comm.OptionString, Description: "(*) The card name you want to query"},
				},
			},
			Execute: c.GetCard,
		},
		{
			Definition: comm.CommandDefinition{
				Name:        "get_all_card",
				Description: "Replies with the card name of all cards in the database",
			},
			Execute: c.GetAllCard,
		},
		{
			Definition: comm.CommandDefinition{
				Name:        "post_card",
				Description: "create a new card to the database. (*) means required",
				Options: []comm.OptionDefinition{
					{Name: fieldCardName, Type: comm.OptionString, Required: true, Description: "(*) The card name you want to save, should be unique for whole system"},
					{Name: fieldCost, Type: comm.OptionInteger, Required: true, Description: "(*) " + costHelp},
					{Name: fieldCategory, Type: comm.OptionString, Required: true, Description: "(*) The category of the card. " + categoryHelp},
					{Name: fieldDreamCategory, Type: comm.OptionString, Description: dreamCategoryHelp},
					{Name: fieldDescription, Type: comm.OptionString, Description: "The description of the card. Default is an empty string"},
				},
			},
			Execute: c.PostCard,
		},
		{
			Definition: comm.CommandDefinition{
				Name:        "update_card",
				Description: "update a card in the database. (*) means required",
				Options: []comm.OptionDefinition{
					{Name: fieldCardName, Type: comm.OptionString, Required: true, Description: "(*) The card name you want to update, should have been stored in the database"},
					{Name: fieldCost, Type: comm.OptionInteger, Description: costHelp},
					{Name: fieldCategory, Type: comm.OptionString, Description: "The category of the card. " + categoryHelp},
					{Name: fieldDreamCategory, Type: comm.OptionString, Description: dreamCategoryHelp},
					{Name: fieldDescription, Type: comm.OptionString, Description: "The description of the card"},
				},
			},
			Execute: c.UpdateCard,
		},
		{
			Definition: comm.CommandDefinition{
				Name:        "play_card",
				Description: "Generate play card message by given card name. (*) means required",
				Options: []comm.OptionDefinition{
					{Name: fieldCardName, Type: comm.OptionString, Required: true, Description: "(*) The card name you want to query"},
					{Name: fieldCurrMana, Type: comm.OptionInteger, Description: "Current mana of the player"},
					{Name: fieldPlayer, Type: comm.OptionString, Description: "The name of the player"},
					{Name: fieldTarget, Type: comm.OptionString, Description: "The target of the card"},
					{Name: fieldSupplementary, Type: comm.OptionString, Description: "The supplementary information."},
				},
			},
			Execute: c.PlayCard,
		},
	}
}

// cardView is the public projection of a stored card. UpdatedTime is only
// filled in by update_card.
type cardView struct {
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Category      string `json:"category"`
	DreamCategory string `json:"dream_category"`
	Description   string `json:"description"`
	CreatedTime   string `json:"createdTime"`
	UpdatedTime   string `json:"updatedTime,omitempty"`
	Author        string `json:"author"`
}

func project(card *models.CardInDb, withUpdated bool) cardView {
	v := cardView{
		Name:          card.Name,
		Cost:          card.Cost,
		Category:      card.Category,
		DreamCategory: card.DreamCategory,
		Description:   card.Description,
		CreatedTime:   card.CreatedTime,
		Author:        card.Author,
	}
	if withUpdated {
		v.UpdatedTime = card.UpdatedTime
	}
	return v
}

// dump pretty-prints v with two-space indent, leaving non-ASCII text as is.
func dump(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode reply: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// GetCard declares card_name optional but still requires it.
func (c *CardCommands) GetCard(ctx context.Context, i *comm.Interaction) (string, error) {
	name, err := RequiredField(Options(i.Options), fieldCardName, DecodeString)
	if err != nil {
		return "", err
	}

	card, err := c.cards.GetCardByName(ctx, name)
	if err != nil {
		return "", err
	}
	return dump(project(card, false))
}

func (c *CardCommands) GetAllCard(ctx context.Context, _ *comm.Interaction) (string, error) {
	names, err := c.cards.GetCardNames(ctx)
	if err != nil {
		return "", err
	}
	return strings.Join(names, ", "), nil
}

func (c *CardCommands) PostCard(ctx context.Context, i *comm.Interaction) (string, error) {
	opts := Options(i.Options)

	name, err := RequiredField(opts, fieldCardName, DecodeString)
	if err != nil {
		return "", err
	}
	cost, err := RequiredField(opts, fieldCost, DecodeInteger)
	if err != nil {
		return "", err
	}
	rawCategory, err := RequiredField(opts, fieldCategory, DecodeString)
	if err != nil {
		return "", err
	}
	category, err := models.CardCategoryOf(rawCategory)
	if err != nil {
		return "", err
	}
	rawDream, err := FieldWithDefault(opts, fieldDreamCategory, DecodeString, string(models.DefaultDreamCategory))
	if err != nil {
		return "", err
	}
	dream, err := models.CardDreamCategoryOf(rawDream)
	if err != nil {
		return "", err
	}
	description, err := FieldWithDefault(opts, fieldDescription, DecodeString, "")
	if err != nil {
		return "", err
	}

	card, err := c.cards.CreateCard(ctx, models.CardInput{
		Name:          name,
		Cost:          cost,
		Category:      category,
		DreamCategory: dream,
		Description:   description,
	}, i.User)
	if err != nil {
		return "", err
	}
	return dump(project(card, false))
}

// UpdateCard writes only the options the caller supplied.
func (c *CardCommands) UpdateCard(ctx context.Context, i *comm.Interaction) (string, error) {
	opts := Options(i.Options)

	name, err := RequiredField(opts, fieldCardName, DecodeString)
	if err != nil {
		return "", err
	}
	patch := models.CardPatch{Name: name}

	if patch.Cost, err = OptionalField(opts, fieldCost, DecodeInteger); err != nil {
		return "", err
	}

	rawCategory, err := OptionalField(opts, fieldCategory, DecodeString)
	if err != nil {
		return "", err
	}
	if patch.Category, err = models.MapOptional(rawCategory, models.CardCategoryOf); err != nil {
		return "", err
	}

	rawDream, err := OptionalField(opts, fieldDreamCategory, DecodeString)
	if err != nil {
		return "", err
	}
	if patch.DreamCategory, err = models.MapOptional(rawDream, models.CardDreamCategoryOf); err != nil {
		return "", err
	}

	if patch.Description, err = OptionalField(opts, fieldDescription, DecodeString); err != nil {
		return "", err
	}

	card, err := c.cards.UpdateCard(ctx, patch, i.User)
	if err != nil {
		return "", err
	}
	return dump(project(card, true))
}

func (c *CardCommands) PlayCard(ctx context.Context, i *comm.Interaction) (string, error) {
	opts := Options(i.Options)

	name, err := RequiredField(opts, fieldCardName, DecodeString)
	if err != nil {
		return "", err
	}
	mana, err := OptionalField(opts, fieldCurrMana, DecodeInteger)
	if err != nil {
		return "", err
	}
	player, err := OptionalField(opts, fieldPlayer, DecodeString)
	if err != nil {
		return "", err
	}
	target, err := OptionalField(opts, fieldTarget, DecodeString)
	if err != nil {
		return "", err
	}
	supplementary, err := OptionalField(opts, fieldSupplementary, DecodeString)
	if err != nil {
		return "", err
	}

	card, err := c.cards.GetCardByName(ctx, name)
	if err != nil {
		return "", err
	}
	return PlayMessage(card, mana, player, target, supplementary), nil
}

// PlayMessage composes the narration for a played card. Each optional
// segment is left out entirely when absent.
func PlayMessage(card *models.CardInDb, mana models.Optional[int], player, target, supplementary models.Optional[string]) string {
	var b strings.Builder
	if p, ok := player.Get(); ok {
		b.WriteString(p + "\t")
	}
	b.WriteString("出牌：" + card.Name + "\t")
	if tg, ok := target.Get(); ok {
		b.WriteString("目標：" + tg + "\t")
	}
	b.WriteString("\t")
	if m, ok := mana.Get(); ok {
		fmt.Fprintf(&b, "MANA：%d -> %d", m, m-card.Cost)
	}
	b.WriteString("\n效果：" + card.Description + "\n")
	if sup, ok := supplementary.Get(); ok {
		b.WriteString("補充敘述：" + sup)
	}
	return b.String()
}
