package present

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	f := New(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"0", "R$\u00a00"},
		{"999", "R$\u00a0999"},
		{"1234.49", "R$\u00a01.234"},
		{"1234.5", "R$\u00a01.235"},
		{"1500000", "R$\u00a01.500.000"},
		{"-10.4", "-R$\u00a010"},
	}
	for _, tc := range cases {
		if got := f.Currency(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestRelative(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	f := New(loc)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "agora"},
		{-time.Minute, "agora"},
		{time.Minute, "1min"},
		{59 * time.Minute, "59min"},
		{60 * time.Minute, "1h"},
		{23*time.Hour + 59*time.Minute, "23h"},
		{24 * time.Hour, "1d"},
		{6*24*time.Hour + 23*time.Hour, "6d"},
		{7 * 24 * time.Hour, "12/10"},
	}
	for _, tc := range cases {
		if got := f.Relative(now.Add(-tc.ago), now); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.ago, got, tc.want)
		}
	}
}

func TestRelativeDateUsesBoardTimeZone(t *testing.T) {
	f := New(time.FixedZone("BRT", -3*60*60))
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	// 02:00 UTC on Oct 1st is still Sep 30th in Sao Paulo
	if got := f.Relative(time.Date(2026, 10, 1, 2, 0, 0, 0, time.UTC), now); got != "30/09" {
		t.Fatalf("got %q", got)
	}
}

func TestClock(t *testing.T) {
	f := New(time.FixedZone("BRT", -3*60*60))
	if got := f.Clock(time.Date(2026, 10, 19, 12, 5, 0, 0, time.UTC)); got != "09:05" {
		t.Fatalf("got %q", got)
	}
}

func TestCleanTitle(t *testing.T) {
	f := New(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"Venda Direta - Loja Centro", "Loja Centro"},
		{"venda direta residencial - Casa Alves", "Casa Alves"},
		{"Venda Direta Corporativo Grupo XP", "Grupo XP"},
		{"Lista de Projeto Comercial -Escritório Sul", "Escritório Sul"},
		{"PROJETO RESIDENCIAL Silva", "Silva"},
		{"Loja Venda Direta", "Loja Venda Direta"},
		{"<b>Projeto Comercial</b> - Padaria &amp; Café", "Padaria & Café"},
		{"  Cliente Sem Prefixo  ", "Cliente Sem Prefixo"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := f.CleanTitle(tc.in); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.in, got, tc.want)
		}
	}
}
