package utils

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

const qrCodesDir = "temp_qr_codes"

// GenerateTableQR writes a PNG QR code pointing customers at the
// table's ordering page and returns the file path.
func GenerateTableQR(tableID uint) (string, error) {
	domain := os.Getenv("PUBLIC_BASE_URL")
	if domain == "" {
		domain = "http://127.0.0.1:8080"
	}
	url := fmt.Sprintf("%s/tables/%d", domain, tableID)

	if err := os.MkdirAll(qrCodesDir, 0o755); err != nil {
		return "", err
	}

	filePath := filepath.Join(qrCodesDir, fmt.Sprintf("table_%d.png", tableID))
	if err := qrcode.WriteFile(url, qrcode.Medium, 256, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
