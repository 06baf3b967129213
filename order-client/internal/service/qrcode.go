package service

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultTableQRGenerator renders the code a restaurant prints on each table.
type DefaultTableQRGenerator struct {
	BaseURL string
}

func (g DefaultTableQRGenerator) URL(tableNumber string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/?tablenum=" + url.QueryEscape(tableNumber)
}

func (g DefaultTableQRGenerator) Generate(tableNumber string) ([]byte, error) {
	return qrcode.Encode(g.URL(tableNumber), qrcode.Medium, 256)
}
