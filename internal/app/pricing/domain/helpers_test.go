package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptrTime(t time.Time) *time.Time { return &t }

func openWindow(from time.Time) ValidityWindow {
	return ValidityWindow{From: from}
}

func window(t *testing.T, from, to time.Time) ValidityWindow {
	t.Helper()
	w, err := NewValidityWindow(from, &to)
	require.NoError(t, err)
	return w
}

func assertMoney(t *testing.T, want string, got *Money) {
	t.Helper()
	require.NotNil(t, got)
	require.Truef(t, MustMoney(want).Equals(got), "want %s, got %s", want, got)
}

// draftBook returns a draft EUR book for market FR with the given entries.
func draftBook(t *testing.T, id, channel string, w ValidityWindow, entries map[string]string) *PriceBook {
	t.Helper()
	b, err := NewPriceBook(id, "Book "+id, PriceBookScope{Market: "FR", Channel: channel, Currency: "EUR"}, w, t0)
	require.NoError(t, err)
	for item, price := range entries {
		require.NoError(t, b.SetEntry(item, MustMoney(price), t0))
	}
	return b
}

// activeBook returns an activated copy of draftBook.
func activeBook(t *testing.T, id, channel string, w ValidityWindow, entries map[string]string) *PriceBook {
	t.Helper()
	b := draftBook(t, id, channel, w, entries)
	require.NoError(t, b.Activate("approver-1", t0))
	b.ClearEvents()
	return b
}
