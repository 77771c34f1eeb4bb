package domain

import (
	"github.com/govalues/decimal"
)

// Offer is a purchasable service with its fixed price in minor units (kopecks).
type Offer struct {
	Service     ServiceType
	Title       string
	Description string
	Price       int64
	FormURL     string
}

type Catalog map[ServiceType]Offer

func NewCatalog(detoxPrice, modelingPrice int64, detoxFormURL string) Catalog {
	return Catalog{
		ServiceFinancialDetox: {
			Service:     ServiceFinancialDetox,
			Title:       "Финансовый детокс",
			Description: "Оплата: Финансовый детокс",
			Price:       detoxPrice,
			FormURL:     detoxFormURL,
		},
		ServiceFinancialModeling: {
			Service:     ServiceFinancialModeling,
			Title:       "Финансовое моделирование",
			Description: "Оплата: Финансовое моделирование",
			Price:       modelingPrice,
		},
	}
}

func (c Catalog) Offer(service ServiceType) (Offer, error) {
	offer, ok := c[service]
	if !ok {
		return Offer{}, ErrUnknownService
	}
	return offer, nil
}

func (c Catalog) Title(service ServiceType) string {
	if offer, ok := c[service]; ok {
		return offer.Title
	}
	return string(service)
}

// FormatRubles renders a kopeck amount as rubles without trailing zeros: 45000 -> "450".
func FormatRubles(minor int64) string {
	d, err := decimal.New(minor, 2)
	if err != nil {
		return "?"
	}
	return d.Trim(0).String()
}
