package constant

const (
	// Item price id of the free subscription anchor. Payments for it carry no
	// token pack line items.
	FreePlanItemPriceId = "token-access-free-USD"

	TransactionDescriptionSignup      = "Free signup tokens"
	TransactionDescriptionConsumption = "AI conversation turn"
	TransactionDescriptionRefund      = "Token refunded: AI response failed"
	TransactionDescriptionPurchaseFmt = "Purchased %s"

	DefaultHistoryPageSize = 20
	MaxHistoryPageSize     = 100
)

type TokenPack struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Tokens       int    `json:"tokens"`
	PriceInCents int    `json:"priceInCents"`
	PriceIdr     int64  `json:"priceIdr"`
	Description  string `json:"description"`
	ItemPriceId  string `json:"itemPriceId"`
}

var TokenPacks = []TokenPack{
	{
		Id:           "pack-50",
		Name:         "50 Tokens",
		Tokens:       50,
		PriceIdr:     80000,
		PriceInCents: 500,
		Description:  "50 AI conversation turns",
		ItemPriceId:  "token-pack-50-USD",
	},
	{
		Id:           "pack-150",
		Name:         "150 Tokens",
		Tokens:       150,
		PriceIdr:     160000,
		PriceInCents: 1000,
		Description:  "150 AI conversation turns",
		ItemPriceId:  "token-pack-150-USD",
	},
	{
		Id:           "pack-500",
		Name:         "500 Tokens",
		Tokens:       500,
		PriceIdr:     400000,
		PriceInCents: 2500,
		Description:  "500 AI conversation turns",
		ItemPriceId:  "token-pack-500-USD",
	},
}

func FindTokenPack(id string) (TokenPack, bool) {
	for _, p := range TokenPacks {
		if p.Id == id {
			return p, true
		}
	}
	return TokenPack{}, false
}

func FindTokenPackByItemPrice(itemPriceId string) (TokenPack, bool) {
	for _, p := range TokenPacks {
		if p.ItemPriceId == itemPriceId {
			return p, true
		}
	}
	return TokenPack{}, false
}
