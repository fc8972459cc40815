// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Product is a catalog entry shown on a storefront.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	SellPrice   float64 `json:"sell_price"`
}

// Category is carried through render data for future use by templates.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
