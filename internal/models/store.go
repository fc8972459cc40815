// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// DefaultCurrency is used when a store has no currency code on record.
const DefaultCurrency = "COP"

// Store is the retail store a storefront is generated for. The record is
// owned by the wider retail system; the storefront only reads it.
type Store struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Logo        string    `json:"logo"`
	Banner      string    `json:"banner"`
	Slug        string    `json:"slug"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

// CurrencyCode returns the store currency, falling back to DefaultCurrency.
func (s *Store) CurrencyCode() string {
	if s.Currency == "" {
		return DefaultCurrency
	}
	return s.Currency
}

// HasContactInfo reports whether any contact field is filled in.
func (s *Store) HasContactInfo() bool {
	return s.Address != "" || s.Phone != "" || s.Email != ""
}
